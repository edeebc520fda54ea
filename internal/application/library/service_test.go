package library

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/transaction"
	"github.com/xiebiao/library/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/metrics"
)

// fakeClock 可手动推进的时钟
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// seqIDs 顺序ID，便于断言
type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

// recordingPublisher 记录发布的事件
type recordingPublisher struct {
	mu     sync.Mutex
	keys   []string
	events []LoanEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, message interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	p.events = append(p.events, message.(LoanEvent))
	return p.err
}

type fixture struct {
	svc     *Service
	clock   *fakeClock
	events  *recordingPublisher
	books   book.Repository
	members member.Repository
	txs     transaction.Repository
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memory.NewSeededDB()
	f := &fixture{
		clock:   &fakeClock{now: date(2024, 1, 20)},
		events:  &recordingPublisher{},
		books:   memory.NewBookRepository(db),
		members: memory.NewMemberRepository(db),
		txs:     memory.NewTransactionRepository(db),
	}
	f.svc = NewService(f.books, f.members, f.txs, memory.NewTxManager(db),
		transaction.DefaultPolicy(), f.clock, &seqIDs{}, f.events, nil)
	return f
}

func (f *fixture) availability(t *testing.T, bookID string) int {
	t.Helper()
	b, err := f.books.FindByID(context.Background(), bookID)
	require.NoError(t, err)
	return b.AvailableCopies
}

func TestIssueBook(t *testing.T) {
	ctx := context.Background()

	t.Run("借出成功", func(t *testing.T) {
		f := newFixture(t)
		f.clock.Set(date(2024, 1, 1))

		tx, err := f.svc.IssueBook(ctx, "1", "2")
		require.NoError(t, err)

		assert.Equal(t, "id-1", tx.ID)
		assert.Equal(t, transaction.StatusIssued, tx.Status)
		assert.Equal(t, "To Kill a Mockingbird", tx.BookTitle)
		assert.Equal(t, "Jane Smith", tx.MemberName)
		assert.Equal(t, date(2024, 1, 1), tx.IssueDate)
		assert.Equal(t, date(2024, 1, 15), tx.DueDate, "到期日 = 借出日 + 14天")
		assert.Nil(t, tx.ReturnDate)
		assert.Equal(t, 2, f.availability(t, "1"), "可借数量减1")

		stored, err := f.svc.GetTransaction(ctx, tx.ID)
		require.NoError(t, err)
		assert.Equal(t, tx.ID, stored.ID)

		require.Len(t, f.events.keys, 1)
		assert.Equal(t, RoutingKeyIssued, f.events.keys[0])
		assert.Equal(t, tx.ID, f.events.events[0].TransactionID)
	})

	cases := []struct {
		name     string
		bookID   string
		memberID string
		prepare  func(f *fixture)
		want     error
	}{
		{name: "图书不存在", bookID: "404", memberID: "1", want: book.ErrBookNotFound},
		{name: "会员不存在", bookID: "1", memberID: "404", want: member.ErrMemberNotFound},
		{name: "会员未激活", bookID: "1", memberID: "3", want: member.ErrMemberInactive},
		{name: "参数为空", bookID: "", memberID: "1", want: apperrors.ErrInvalidParams},
		{
			name: "没有可借副本", bookID: "4", memberID: "1",
			prepare: func(f *fixture) {
				require.NoError(t, f.books.AdjustAvailability(ctx, "4", -1))
			},
			want: book.ErrNoCopiesAvailable,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			if tc.prepare != nil {
				tc.prepare(f)
			}
			before, _ := f.txs.List(ctx)
			var availBefore int
			if b, err := f.books.FindByID(ctx, tc.bookID); err == nil {
				availBefore = b.AvailableCopies
			}

			tx, err := f.svc.IssueBook(ctx, tc.bookID, tc.memberID)
			assert.Nil(t, tx)
			assert.True(t, errors.Is(err, tc.want), "期望%v，实际%v", tc.want, err)

			after, _ := f.txs.List(ctx)
			assert.Len(t, after, len(before), "失败时不创建借阅记录")
			if b, err := f.books.FindByID(ctx, tc.bookID); err == nil {
				assert.Equal(t, availBefore, b.AvailableCopies, "失败时库存不变")
			}
			assert.Empty(t, f.events.keys, "失败时不发布事件")
		})
	}
}

func TestIssueBook_Concurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 4号书只剩1本，20个并发借出只能成功一个
	var wg sync.WaitGroup
	results := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.IssueBook(ctx, "4", "2")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	success := 0
	for err := range results {
		if err == nil {
			success++
			continue
		}
		assert.True(t, errors.Is(err, book.ErrNoCopiesAvailable))
	}
	assert.Equal(t, 1, success)
	assert.Equal(t, 0, f.availability(t, "4"))
}

func TestReturnBook(t *testing.T) {
	ctx := context.Background()

	t.Run("逾期5天罚款250", func(t *testing.T) {
		f := newFixture(t)
		f.clock.Set(date(2024, 1, 1))
		issued, err := f.svc.IssueBook(ctx, "2", "1")
		require.NoError(t, err)
		require.Equal(t, 1, f.availability(t, "2"))

		f.clock.Set(date(2024, 1, 20))
		returned, err := f.svc.ReturnBook(ctx, issued.ID)
		require.NoError(t, err)

		assert.Equal(t, transaction.StatusReturned, returned.Status)
		require.NotNil(t, returned.ReturnDate)
		assert.Equal(t, date(2024, 1, 20), *returned.ReturnDate)
		require.NotNil(t, returned.Fine)
		assert.True(t, returned.Fine.Equal(decimal.NewFromInt(250)), "罚款: %s", returned.Fine)
		assert.Equal(t, 2, f.availability(t, "2"), "借出再归还后可借数量恢复")

		require.Len(t, f.events.keys, 2)
		assert.Equal(t, RoutingKeyReturned, f.events.keys[1])
		assert.Equal(t, "250", f.events.events[1].Fine)
	})

	t.Run("按时归还罚款为0", func(t *testing.T) {
		f := newFixture(t)
		f.clock.Set(date(2024, 1, 1))
		issued, err := f.svc.IssueBook(ctx, "2", "1")
		require.NoError(t, err)

		f.clock.Set(date(2024, 1, 15))
		returned, err := f.svc.ReturnBook(ctx, issued.ID)
		require.NoError(t, err)
		require.NotNil(t, returned.Fine)
		assert.True(t, returned.Fine.IsZero())
	})

	t.Run("重复归还", func(t *testing.T) {
		f := newFixture(t)
		// 种子数据中2号记录已归还
		before := f.availability(t, "2")

		_, err := f.svc.ReturnBook(ctx, "2")
		assert.True(t, errors.Is(err, transaction.ErrAlreadyReturned))
		assert.Equal(t, before, f.availability(t, "2"), "重复归还不增加库存")

		tx, err := f.svc.GetTransaction(ctx, "2")
		require.NoError(t, err)
		assert.Equal(t, date(2024, 1, 22), *tx.ReturnDate, "归还日期不变")
	})

	t.Run("借阅记录不存在", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.ReturnBook(ctx, "404")
		assert.True(t, errors.Is(err, transaction.ErrTransactionNotFound))
	})

	t.Run("种子中的逾期记录归还", func(t *testing.T) {
		f := newFixture(t)
		f.clock.Set(date(2024, 1, 20))

		returned, err := f.svc.ReturnBook(ctx, "3")
		require.NoError(t, err)
		assert.Equal(t, "250", returned.Fine.String())
		assert.Equal(t, 5, f.availability(t, "3"))
	})

	t.Run("可借数量已满时保持为总数并记录", func(t *testing.T) {
		f := newFixture(t)
		f.clock.Set(date(2024, 1, 1))
		issued, err := f.svc.IssueBook(ctx, "4", "1")
		require.NoError(t, err)

		// 人为制造不一致：可借数量被改回总数
		require.NoError(t, f.books.AdjustAvailability(ctx, "4", 3))
		faults := testutil.ToFloat64(metrics.InventoryConsistencyFaults)

		_, err = f.svc.ReturnBook(ctx, issued.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, f.availability(t, "4"), "不超过馆藏总数")
		assert.Equal(t, faults+1, testutil.ToFloat64(metrics.InventoryConsistencyFaults))
	})

	t.Run("事件发布失败不影响归还", func(t *testing.T) {
		f := newFixture(t)
		f.events.err = errors.New("broker down")

		_, err := f.svc.ReturnBook(ctx, "1")
		assert.NoError(t, err)
	})
}

func TestTransactions_DerivedStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	t.Run("种子3号记录推导为逾期", func(t *testing.T) {
		f.clock.Set(date(2024, 1, 20))
		tx, err := f.svc.GetTransaction(ctx, "3")
		require.NoError(t, err)
		assert.Equal(t, transaction.StatusOverdue, tx.Status)

		stored, err := f.txs.FindByID(ctx, "3")
		require.NoError(t, err)
		assert.Equal(t, transaction.StatusIssued, stored.Status, "存储状态不变")
	})

	t.Run("按展示状态过滤", func(t *testing.T) {
		f.clock.Set(date(2024, 1, 20))
		overdue, err := f.svc.ListTransactions(ctx, transaction.ListFilter{Status: transaction.StatusOverdue})
		require.NoError(t, err)
		require.Len(t, overdue, 1)
		assert.Equal(t, "3", overdue[0].ID)

		issued, err := f.svc.ListTransactions(ctx, transaction.ListFilter{Status: transaction.StatusIssued})
		require.NoError(t, err)
		require.Len(t, issued, 1)
		assert.Equal(t, "1", issued[0].ID)

		byName, err := f.svc.ListTransactions(ctx, transaction.ListFilter{Keyword: "jane"})
		require.NoError(t, err)
		require.Len(t, byName, 1)
		assert.Equal(t, "2", byName[0].ID)
	})

	t.Run("应计罚款", func(t *testing.T) {
		f.clock.Set(date(2024, 1, 20))
		tx, err := f.svc.GetTransaction(ctx, "3")
		require.NoError(t, err)
		assert.Equal(t, "250", f.svc.AccruedFine(tx).String())
		assert.Equal(t, transaction.StatusOverdue, DeriveStatus(tx, date(2024, 1, 16)))
	})
}

func TestBookCRUD(t *testing.T) {
	ctx := context.Background()
	form := book.FormData{
		Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction",
		ISBN: "978-0-441-17271-9", PublishedDate: "1965-08-01", TotalCopies: 2,
	}

	t.Run("新增图书可借数量等于总数", func(t *testing.T) {
		f := newFixture(t)
		b, err := f.svc.CreateBook(ctx, form)
		require.NoError(t, err)
		assert.Equal(t, 2, b.AvailableCopies)

		list, err := f.svc.ListBooks(ctx, book.ListFilter{Keyword: "dune"})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, b.ID, list[0].ID)
	})

	t.Run("表单校验失败", func(t *testing.T) {
		f := newFixture(t)
		bad := form
		bad.TotalCopies = 0
		_, err := f.svc.CreateBook(ctx, bad)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidParams))
	})

	t.Run("修改总数时可借数量同步平移", func(t *testing.T) {
		f := newFixture(t)
		total := 8
		b, err := f.svc.UpdateBook(ctx, "1", book.Patch{TotalCopies: &total})
		require.NoError(t, err)
		assert.Equal(t, 8, b.TotalCopies)
		assert.Equal(t, 6, b.AvailableCopies)
		assert.Equal(t, 6, f.availability(t, "1"))
	})

	t.Run("总数不能小于借出数量", func(t *testing.T) {
		f := newFixture(t)
		total := 1
		_, err := f.svc.UpdateBook(ctx, "1", book.Patch{TotalCopies: &total})
		assert.True(t, errors.Is(err, apperrors.ErrInvalidParams))
		assert.Equal(t, 3, f.availability(t, "1"))
	})

	t.Run("更新不存在的图书", func(t *testing.T) {
		f := newFixture(t)
		title := "x"
		_, err := f.svc.UpdateBook(ctx, "404", book.Patch{Title: &title})
		assert.True(t, errors.Is(err, book.ErrBookNotFound))
	})

	t.Run("有未归还借阅时不能删除", func(t *testing.T) {
		f := newFixture(t)
		err := f.svc.DeleteBook(ctx, "1")
		assert.True(t, errors.Is(err, book.ErrHasActiveLoans))

		_, err = f.svc.ReturnBook(ctx, "1")
		require.NoError(t, err)
		require.NoError(t, f.svc.DeleteBook(ctx, "1"))

		_, err = f.svc.GetBook(ctx, "1")
		assert.True(t, errors.Is(err, book.ErrBookNotFound))

		// 历史记录保留书名快照
		tx, err := f.svc.GetTransaction(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, "To Kill a Mockingbird", tx.BookTitle)
	})
}

func TestMemberCRUD(t *testing.T) {
	ctx := context.Background()

	t.Run("新增会员", func(t *testing.T) {
		f := newFixture(t)
		m, err := f.svc.CreateMember(ctx, member.FormData{
			Name: "Alice", Email: "alice@example.com", Phone: "555", Address: "Somewhere",
			MembershipType: member.MembershipStudent,
		})
		require.NoError(t, err)
		assert.True(t, m.IsActive)
		assert.Equal(t, "2024-01-20", m.MembershipDate)

		list, err := f.svc.ListMembers(ctx, member.ListFilter{MembershipType: member.MembershipStudent})
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("停用后不能借书", func(t *testing.T) {
		f := newFixture(t)
		inactive := false
		m, err := f.svc.UpdateMember(ctx, "2", member.Patch{IsActive: &inactive})
		require.NoError(t, err)
		assert.False(t, m.IsActive)

		_, err = f.svc.IssueBook(ctx, "1", "2")
		assert.True(t, errors.Is(err, member.ErrMemberInactive))
	})

	t.Run("有未归还借阅时不能删除", func(t *testing.T) {
		f := newFixture(t)
		assert.True(t, errors.Is(f.svc.DeleteMember(ctx, "1"), member.ErrHasActiveLoans))
		require.NoError(t, f.svc.DeleteMember(ctx, "3"))

		_, err := f.svc.GetMember(ctx, "3")
		assert.True(t, errors.Is(err, member.ErrMemberNotFound))
	})
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	f.clock.Set(date(2024, 1, 20))

	d, err := f.svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, d.TotalBooks)
	assert.Equal(t, 18, d.TotalCopies)
	assert.Equal(t, 10, d.AvailableCopies)
	assert.Equal(t, 3, d.TotalMembers)
	assert.Equal(t, 2, d.ActiveMembers)
	assert.Equal(t, 3, d.TotalTransactions)
	assert.Equal(t, 1, d.IssuedBooks)
	assert.Equal(t, 1, d.OverdueBooks)

	require.Len(t, d.RecentTransactions, 3)
	assert.Equal(t, "1", d.RecentTransactions[0].ID)
	assert.Equal(t, transaction.StatusOverdue, d.RecentTransactions[2].Status)
	require.Len(t, d.PopularBooks, 4)
}

func TestSummarize_TopN(t *testing.T) {
	var books []*book.Book
	for i := 0; i < 7; i++ {
		books = append(books, &book.Book{ID: fmt.Sprint(i), TotalCopies: 10, AvailableCopies: 10 - i})
	}

	d := Summarize(books, nil, nil, date(2024, 1, 1))
	require.Len(t, d.PopularBooks, 5)
	assert.Equal(t, "6", d.PopularBooks[0].ID, "借出最多的排在最前")
	assert.Equal(t, "2", d.PopularBooks[4].ID)
	assert.Equal(t, "0", books[0].ID, "不修改输入顺序")
}
