package store

import (
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/transaction"
)

// ActionType 动作类型
type ActionType string

const (
	SetBooks   ActionType = "SET_BOOKS"
	AddBook    ActionType = "ADD_BOOK"
	UpdateBook ActionType = "UPDATE_BOOK"
	DeleteBook ActionType = "DELETE_BOOK"

	SetMembers   ActionType = "SET_MEMBERS"
	AddMember    ActionType = "ADD_MEMBER"
	UpdateMember ActionType = "UPDATE_MEMBER"
	DeleteMember ActionType = "DELETE_MEMBER"

	SetTransactions   ActionType = "SET_TRANSACTIONS"
	AddTransaction    ActionType = "ADD_TRANSACTION"
	UpdateTransaction ActionType = "UPDATE_TRANSACTION"

	SetLoading ActionType = "SET_LOADING"
	SetError   ActionType = "SET_ERROR"
)

// Action 状态变更动作,Payload类型由Type决定:
//
//	SET_BOOKS []*book.Book, ADD_BOOK/UPDATE_BOOK *book.Book, DELETE_BOOK string(ID)
//	会员、借阅记录同理
//	SET_LOADING bool, SET_ERROR string(空字符串表示清除)
type Action struct {
	Type    ActionType
	Payload interface{}
}

func SetBooksAction(books []*book.Book) Action    { return Action{Type: SetBooks, Payload: books} }
func AddBookAction(b *book.Book) Action           { return Action{Type: AddBook, Payload: b} }
func UpdateBookAction(b *book.Book) Action        { return Action{Type: UpdateBook, Payload: b} }
func DeleteBookAction(id string) Action           { return Action{Type: DeleteBook, Payload: id} }
func SetMembersAction(ms []*member.Member) Action { return Action{Type: SetMembers, Payload: ms} }
func AddMemberAction(m *member.Member) Action     { return Action{Type: AddMember, Payload: m} }
func UpdateMemberAction(m *member.Member) Action  { return Action{Type: UpdateMember, Payload: m} }
func DeleteMemberAction(id string) Action         { return Action{Type: DeleteMember, Payload: id} }

func SetTransactionsAction(txs []*transaction.Transaction) Action {
	return Action{Type: SetTransactions, Payload: txs}
}

func AddTransactionAction(tx *transaction.Transaction) Action {
	return Action{Type: AddTransaction, Payload: tx}
}

func UpdateTransactionAction(tx *transaction.Transaction) Action {
	return Action{Type: UpdateTransaction, Payload: tx}
}

func SetLoadingAction(loading bool) Action { return Action{Type: SetLoading, Payload: loading} }
func SetErrorAction(msg string) Action     { return Action{Type: SetError, Payload: msg} }
