// Package store 客户端状态仓库
//
// 状态只能通过Action修改:纯函数Reduce计算新状态,Store在锁内串行执行并通知订阅者。
// 所有实体统一采用乐观的单条更新:变更成功后只修改受影响的记录,不重新加载整个列表。
package store

import (
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/transaction"
)

// State 客户端缓存的全部数据
type State struct {
	Books        []*book.Book
	Members      []*member.Member
	Transactions []*transaction.Transaction
	Loading      bool   // 有请求在进行中
	Error        string // 最近一次失败的提示,成功操作后清空

	inFlight int // 进行中的请求数,多个加载重叠时互不清除loading
}

// InFlight 进行中的请求数
func (s State) InFlight() int {
	return s.inFlight
}

// clone 复制切片和实体,订阅者拿到的快照与仓库内部状态互不影响
func (s State) clone() State {
	out := s
	out.Books = cloneAll(s.Books)
	out.Members = cloneAll(s.Members)
	out.Transactions = cloneAll(s.Transactions)
	return out
}

func cloneAll[T any](items []*T) []*T {
	if items == nil {
		return nil
	}
	out := make([]*T, len(items))
	for i, item := range items {
		c := *item
		out[i] = &c
	}
	return out
}
