package transport

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/application/library"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/transaction"
	"github.com/xiebiao/library/internal/infrastructure/persistence/memory"
)

// LocalTransport 进程内调用借阅服务
type LocalTransport struct {
	svc *library.Service
}

// NewLocal 包装一个借阅服务
func NewLocal(svc *library.Service) *LocalTransport {
	return &LocalTransport{svc: svc}
}

// NewSeededLocal 基于内存种子数据的本地传输(API不可用时的降级数据源)
func NewSeededLocal(policy transaction.Policy, log *zap.Logger) *LocalTransport {
	db := memory.NewSeededDB()
	svc := library.NewService(
		memory.NewBookRepository(db),
		memory.NewMemberRepository(db),
		memory.NewTransactionRepository(db),
		memory.NewTxManager(db),
		policy,
		library.SystemClock(),
		library.ULIDGenerator(),
		nil,
		log,
	)
	return NewLocal(svc)
}

func (t *LocalTransport) ListBooks(ctx context.Context, filter book.ListFilter) ([]*book.Book, error) {
	return t.svc.ListBooks(ctx, filter)
}

func (t *LocalTransport) GetBook(ctx context.Context, id string) (*book.Book, error) {
	return t.svc.GetBook(ctx, id)
}

func (t *LocalTransport) CreateBook(ctx context.Context, form book.FormData) (*book.Book, error) {
	return t.svc.CreateBook(ctx, form)
}

func (t *LocalTransport) UpdateBook(ctx context.Context, id string, patch book.Patch) (*book.Book, error) {
	return t.svc.UpdateBook(ctx, id, patch)
}

func (t *LocalTransport) DeleteBook(ctx context.Context, id string) error {
	return t.svc.DeleteBook(ctx, id)
}

func (t *LocalTransport) ListMembers(ctx context.Context, filter member.ListFilter) ([]*member.Member, error) {
	return t.svc.ListMembers(ctx, filter)
}

func (t *LocalTransport) GetMember(ctx context.Context, id string) (*member.Member, error) {
	return t.svc.GetMember(ctx, id)
}

func (t *LocalTransport) CreateMember(ctx context.Context, form member.FormData) (*member.Member, error) {
	return t.svc.CreateMember(ctx, form)
}

func (t *LocalTransport) UpdateMember(ctx context.Context, id string, patch member.Patch) (*member.Member, error) {
	return t.svc.UpdateMember(ctx, id, patch)
}

func (t *LocalTransport) DeleteMember(ctx context.Context, id string) error {
	return t.svc.DeleteMember(ctx, id)
}

func (t *LocalTransport) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	return t.svc.ListTransactions(ctx, filter)
}

func (t *LocalTransport) IssueBook(ctx context.Context, bookID, memberID string) (*transaction.Transaction, error) {
	return t.svc.IssueBook(ctx, bookID, memberID)
}

func (t *LocalTransport) ReturnBook(ctx context.Context, transactionID string) (*transaction.Transaction, error) {
	return t.svc.ReturnBook(ctx, transactionID)
}
