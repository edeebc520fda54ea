package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/transaction"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 加载失败的提示前缀
const (
	failLoadBooks        = "加载图书失败"
	failLoadMembers      = "加载会员失败"
	failLoadTransactions = "加载借阅记录失败"
)

// messageOf 提取给用户看的错误提示
func messageOf(err error) string {
	if apperrors.IsAppError(err) {
		return apperrors.GetAppError(err).Message
	}
	return err.Error()
}

// =========================================
// 图书
// =========================================

// LoadBooks 加载全部图书
func (s *Store) LoadBooks(ctx context.Context) ([]*book.Book, error) {
	return run(ctx, s, failLoadBooks, func(ctx context.Context) ([]*book.Book, error) {
		return s.transport.ListBooks(ctx, book.ListFilter{})
	}, func(books []*book.Book, _ State) []Action {
		return []Action{SetBooksAction(books)}
	})
}

// AddBook 新增图书
func (s *Store) AddBook(ctx context.Context, form book.FormData) (*book.Book, error) {
	return run(ctx, s, "新增图书失败", func(ctx context.Context) (*book.Book, error) {
		return s.transport.CreateBook(ctx, form)
	}, func(b *book.Book, _ State) []Action {
		return []Action{AddBookAction(b)}
	})
}

// UpdateBook 修改图书
func (s *Store) UpdateBook(ctx context.Context, id string, patch book.Patch) (*book.Book, error) {
	return run(ctx, s, "修改图书失败", func(ctx context.Context) (*book.Book, error) {
		return s.transport.UpdateBook(ctx, id, patch)
	}, func(b *book.Book, _ State) []Action {
		return []Action{UpdateBookAction(b)}
	})
}

// DeleteBook 删除图书
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	_, err := run(ctx, s, "删除图书失败", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.transport.DeleteBook(ctx, id)
	}, func(_ struct{}, _ State) []Action {
		return []Action{DeleteBookAction(id)}
	})
	return err
}

// =========================================
// 会员
// =========================================

// LoadMembers 加载全部会员
func (s *Store) LoadMembers(ctx context.Context) ([]*member.Member, error) {
	return run(ctx, s, failLoadMembers, func(ctx context.Context) ([]*member.Member, error) {
		return s.transport.ListMembers(ctx, member.ListFilter{})
	}, func(ms []*member.Member, _ State) []Action {
		return []Action{SetMembersAction(ms)}
	})
}

// AddMember 新增会员
func (s *Store) AddMember(ctx context.Context, form member.FormData) (*member.Member, error) {
	return run(ctx, s, "新增会员失败", func(ctx context.Context) (*member.Member, error) {
		return s.transport.CreateMember(ctx, form)
	}, func(m *member.Member, _ State) []Action {
		return []Action{AddMemberAction(m)}
	})
}

// UpdateMember 修改会员
func (s *Store) UpdateMember(ctx context.Context, id string, patch member.Patch) (*member.Member, error) {
	return run(ctx, s, "修改会员失败", func(ctx context.Context) (*member.Member, error) {
		return s.transport.UpdateMember(ctx, id, patch)
	}, func(m *member.Member, _ State) []Action {
		return []Action{UpdateMemberAction(m)}
	})
}

// DeleteMember 删除会员
func (s *Store) DeleteMember(ctx context.Context, id string) error {
	_, err := run(ctx, s, "删除会员失败", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.transport.DeleteMember(ctx, id)
	}, func(_ struct{}, _ State) []Action {
		return []Action{DeleteMemberAction(id)}
	})
	return err
}

// =========================================
// 借阅
// =========================================

// LoadTransactions 加载全部借阅记录
func (s *Store) LoadTransactions(ctx context.Context) ([]*transaction.Transaction, error) {
	return run(ctx, s, failLoadTransactions, func(ctx context.Context) ([]*transaction.Transaction, error) {
		return s.transport.ListTransactions(ctx, transaction.ListFilter{})
	}, func(txs []*transaction.Transaction, _ State) []Action {
		return []Action{SetTransactionsAction(txs)}
	})
}

// IssueBook 借书
// 成功后追加借阅记录,并在缓存的图书上扣减一本可借数量
func (s *Store) IssueBook(ctx context.Context, bookID, memberID string) (*transaction.Transaction, error) {
	return run(ctx, s, "借书失败", func(ctx context.Context) (*transaction.Transaction, error) {
		return s.transport.IssueBook(ctx, bookID, memberID)
	}, func(tx *transaction.Transaction, st State) []Action {
		return []Action{AddTransactionAction(tx), s.patchBook(st, tx.BookID, (*book.Book).CheckOut)}
	})
}

// ReturnBook 还书
func (s *Store) ReturnBook(ctx context.Context, transactionID string) (*transaction.Transaction, error) {
	return run(ctx, s, "还书失败", func(ctx context.Context) (*transaction.Transaction, error) {
		return s.transport.ReturnBook(ctx, transactionID)
	}, func(tx *transaction.Transaction, st State) []Action {
		return []Action{UpdateTransactionAction(tx), s.patchBook(st, tx.BookID, (*book.Book).CheckIn)}
	})
}

// patchBook 在当前缓存的图书上执行借出/归还,得到UPDATE_BOOK
// 只修改缓存,不经传输层读取(降级时读到的是种子数据)
// st是update持锁时的状态,并发的借还依次累加
func (s *Store) patchBook(st State, id string, local func(*book.Book, time.Time) error) Action {
	for _, cached := range st.Books {
		if cached.ID != id {
			continue
		}
		b := *cached
		if err := local(&b, s.now()); err != nil {
			s.log.Warn("本地修正可借数量失败", zap.String("book_id", id), zap.Error(err))
			return Action{}
		}
		return UpdateBookAction(&b)
	}
	// 图书未加载过,没有需要修正的记录
	return Action{}
}

// LoadAll 并发加载图书、会员和借阅记录
// 任意一项失败返回第一个错误,其余已成功的结果照常写入;
// 全部结束后重新写入第一个失败的提示,避免被较晚成功的加载清除
func (s *Store) LoadAll(ctx context.Context) error {
	var (
		g     errgroup.Group
		once  sync.Once
		first string
	)
	load := func(failure string, fn func(context.Context) error) {
		g.Go(func() error {
			err := fn(ctx)
			if err != nil {
				once.Do(func() { first = failure + ": " + messageOf(err) })
			}
			return err
		})
	}
	load(failLoadBooks, func(ctx context.Context) error {
		_, err := s.LoadBooks(ctx)
		return err
	})
	load(failLoadMembers, func(ctx context.Context) error {
		_, err := s.LoadMembers(ctx)
		return err
	})
	load(failLoadTransactions, func(ctx context.Context) error {
		_, err := s.LoadTransactions(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.commit(ctx, SetErrorAction(first))
		return err
	}
	return nil
}
