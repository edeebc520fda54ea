// Package transport 客户端访问图书馆数据的边界
//
// 三种实现:
//   - HTTPTransport: 调用REST API
//   - LocalTransport: 在进程内用内存种子数据运行同一套借阅服务
//   - FallbackTransport: 优先走API,传输失败或熔断时降级到本地
package transport

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/transaction"
)

// Transport 客户端数据访问接口
// 业务错误返回对应的领域错误(errors.Is可比较),网络类错误返回apperrors.ErrCodeTransport
type Transport interface {
	ListBooks(ctx context.Context, filter book.ListFilter) ([]*book.Book, error)
	GetBook(ctx context.Context, id string) (*book.Book, error)
	CreateBook(ctx context.Context, form book.FormData) (*book.Book, error)
	UpdateBook(ctx context.Context, id string, patch book.Patch) (*book.Book, error)
	DeleteBook(ctx context.Context, id string) error

	ListMembers(ctx context.Context, filter member.ListFilter) ([]*member.Member, error)
	GetMember(ctx context.Context, id string) (*member.Member, error)
	CreateMember(ctx context.Context, form member.FormData) (*member.Member, error)
	UpdateMember(ctx context.Context, id string, patch member.Patch) (*member.Member, error)
	DeleteMember(ctx context.Context, id string) error

	ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
	IssueBook(ctx context.Context, bookID, memberID string) (*transaction.Transaction, error)
	ReturnBook(ctx context.Context, transactionID string) (*transaction.Transaction, error)
}
