package store

import (
	"time"

	"github.com/xiebiao/library/internal/application/library"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/transaction"
)

// AvailableBooks 还有可借副本的图书(借书表单的候选项)
func AvailableBooks(s State) []*book.Book {
	out := make([]*book.Book, 0, len(s.Books))
	for _, b := range s.Books {
		if b.IsAvailable() {
			out = append(out, b)
		}
	}
	return out
}

// ActiveMembers 可以借书的会员
func ActiveMembers(s State) []*member.Member {
	out := make([]*member.Member, 0, len(s.Members))
	for _, m := range s.Members {
		if m.IsActive {
			out = append(out, m)
		}
	}
	return out
}

// FilterBooks 按关键字和类别筛选
func FilterBooks(s State, filter book.ListFilter) []*book.Book {
	out := make([]*book.Book, 0, len(s.Books))
	for _, b := range s.Books {
		if filter.Match(b) {
			out = append(out, b)
		}
	}
	return out
}

// FilterMembers 按关键字和会员类型筛选
func FilterMembers(s State, filter member.ListFilter) []*member.Member {
	out := make([]*member.Member, 0, len(s.Members))
	for _, m := range s.Members {
		if filter.Match(m) {
			out = append(out, m)
		}
	}
	return out
}

// FilterTransactions 按关键字和展示状态筛选,返回的记录带asOf时刻推导出的状态
func FilterTransactions(s State, filter transaction.ListFilter, asOf time.Time) []*transaction.Transaction {
	out := make([]*transaction.Transaction, 0, len(s.Transactions))
	for _, tx := range s.Transactions {
		if filter.Match(tx, asOf) {
			out = append(out, tx.Presented(asOf))
		}
	}
	return out
}

// Dashboard 基于快照计算首页统计
func Dashboard(s State, asOf time.Time) *library.Dashboard {
	return library.Summarize(s.Books, s.Members, s.Transactions, asOf)
}

// Dashboard 当前时刻的首页统计
func (s *Store) Dashboard() *library.Dashboard {
	return Dashboard(s.State(), s.now())
}
