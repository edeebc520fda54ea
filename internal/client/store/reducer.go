package store

import (
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/transaction"
)

// Reduce 根据动作计算新状态(纯函数)
// 不修改传入的state,Payload类型不匹配或未知动作时原样返回
// ADD遇到已存在的ID时替换,UPDATE遇到不存在的ID时忽略
func Reduce(state State, action Action) State {
	switch action.Type {
	case SetBooks:
		if v, ok := action.Payload.([]*book.Book); ok {
			state.Books = cloneAll(v)
		}
	case AddBook:
		if v, ok := action.Payload.(*book.Book); ok && v != nil {
			state.Books = upsert(state.Books, v, bookID)
		}
	case UpdateBook:
		if v, ok := action.Payload.(*book.Book); ok && v != nil {
			state.Books = replace(state.Books, v, bookID)
		}
	case DeleteBook:
		if id, ok := action.Payload.(string); ok {
			state.Books = remove(state.Books, id, bookID)
		}

	case SetMembers:
		if v, ok := action.Payload.([]*member.Member); ok {
			state.Members = cloneAll(v)
		}
	case AddMember:
		if v, ok := action.Payload.(*member.Member); ok && v != nil {
			state.Members = upsert(state.Members, v, memberID)
		}
	case UpdateMember:
		if v, ok := action.Payload.(*member.Member); ok && v != nil {
			state.Members = replace(state.Members, v, memberID)
		}
	case DeleteMember:
		if id, ok := action.Payload.(string); ok {
			state.Members = remove(state.Members, id, memberID)
		}

	case SetTransactions:
		if v, ok := action.Payload.([]*transaction.Transaction); ok {
			state.Transactions = cloneAll(v)
		}
	case AddTransaction:
		if v, ok := action.Payload.(*transaction.Transaction); ok && v != nil {
			state.Transactions = upsert(state.Transactions, v, transactionID)
		}
	case UpdateTransaction:
		if v, ok := action.Payload.(*transaction.Transaction); ok && v != nil {
			state.Transactions = replace(state.Transactions, v, transactionID)
		}

	case SetLoading:
		if loading, ok := action.Payload.(bool); ok {
			if loading {
				state.inFlight++
			} else if state.inFlight > 0 {
				state.inFlight--
			}
			state.Loading = state.inFlight > 0
		}
	case SetError:
		if msg, ok := action.Payload.(string); ok {
			state.Error = msg
		}
	}
	return state
}

func bookID(b *book.Book) string                      { return b.ID }
func memberID(m *member.Member) string                { return m.ID }
func transactionID(t *transaction.Transaction) string { return t.ID }

// upsert 新切片中替换同ID的记录,不存在时追加到末尾
func upsert[T any](items []*T, item *T, id func(*T) string) []*T {
	c := *item
	out := make([]*T, 0, len(items)+1)
	found := false
	for _, it := range items {
		if id(it) == id(item) {
			out = append(out, &c)
			found = true
			continue
		}
		out = append(out, it)
	}
	if !found {
		out = append(out, &c)
	}
	return out
}

func replace[T any](items []*T, item *T, id func(*T) string) []*T {
	c := *item
	out := make([]*T, len(items))
	for i, it := range items {
		if id(it) == id(item) {
			out[i] = &c
			continue
		}
		out[i] = it
	}
	return out
}

func remove[T any](items []*T, target string, id func(*T) string) []*T {
	out := make([]*T, 0, len(items))
	for _, it := range items {
		if id(it) != target {
			out = append(out, it)
		}
	}
	return out
}
