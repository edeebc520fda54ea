package library

import (
	"context"
	"sort"
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/transaction"
)

// dashboardTopN 最近借阅、热门图书各取前5
const dashboardTopN = 5

// Dashboard 首页统计
type Dashboard struct {
	TotalBooks         int                        `json:"totalBooks"`
	TotalCopies        int                        `json:"totalCopies"`
	AvailableCopies    int                        `json:"availableCopies"`
	TotalMembers       int                        `json:"totalMembers"`
	ActiveMembers      int                        `json:"activeMembers"`
	TotalTransactions  int                        `json:"totalTransactions"`
	IssuedBooks        int                        `json:"issuedBooks"`  // 未逾期的在借记录
	OverdueBooks       int                        `json:"overdueBooks"` // 推导为逾期的记录
	RecentTransactions []*transaction.Transaction `json:"recentTransactions"`
	PopularBooks       []*book.Book               `json:"popularBooks"`
}

// Dashboard 统计当前馆藏、会员和借阅情况
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	books, err := s.books.List(ctx, book.ListFilter{})
	if err != nil {
		return nil, err
	}
	members, err := s.members.List(ctx, member.ListFilter{})
	if err != nil {
		return nil, err
	}
	txs, err := s.txs.List(ctx)
	if err != nil {
		return nil, err
	}
	return Summarize(books, members, txs, s.clock.Now()), nil
}

// Summarize 根据快照计算统计（纯函数，客户端Store共用）
// 最近借阅按借出时间倒序，热门图书按借出数量倒序，相同时保持原顺序
func Summarize(books []*book.Book, members []*member.Member, txs []*transaction.Transaction, asOf time.Time) *Dashboard {
	d := &Dashboard{
		TotalBooks:        len(books),
		TotalMembers:      len(members),
		TotalTransactions: len(txs),
	}

	for _, b := range books {
		d.TotalCopies += b.TotalCopies
		d.AvailableCopies += b.AvailableCopies
	}
	for _, m := range members {
		if m.IsActive {
			d.ActiveMembers++
		}
	}

	presented := make([]*transaction.Transaction, 0, len(txs))
	for _, tx := range txs {
		p := tx.Presented(asOf)
		switch p.Status {
		case transaction.StatusIssued:
			d.IssuedBooks++
		case transaction.StatusOverdue:
			d.OverdueBooks++
		}
		presented = append(presented, p)
	}

	sort.SliceStable(presented, func(i, j int) bool {
		return presented[i].IssueDate.After(presented[j].IssueDate)
	})
	d.RecentTransactions = head(presented, dashboardTopN)

	popular := make([]*book.Book, len(books))
	copy(popular, books)
	sort.SliceStable(popular, func(i, j int) bool {
		return popular[i].OnLoan() > popular[j].OnLoan()
	})
	d.PopularBooks = head(popular, dashboardTopN)

	return d
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
