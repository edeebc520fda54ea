// Package dto HTTP请求/响应结构,服务端handler和客户端HTTPTransport共用
package dto

import (
	"encoding/json"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/transaction"
)

// Envelope 统一响应外壳,data延迟解析
type Envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// IssueRequest 借书请求
type IssueRequest struct {
	BookID   string `json:"bookId" binding:"required" example:"01HZX3K8M2N4P6Q8R0S2T4V6W8"`
	MemberID string `json:"memberId" binding:"required" example:"01HZX3K9A1B3C5D7E9F1G3H5J7"`
}

// BookQuery 图书列表查询参数
type BookQuery struct {
	Keyword string `form:"keyword" binding:"omitempty,max=100" example:"Orwell"`
	Genre   string `form:"genre" binding:"omitempty,max=50" example:"Fiction"`
}

// Filter 转换为仓储过滤条件
func (q BookQuery) Filter() book.ListFilter {
	return book.ListFilter{Keyword: q.Keyword, Genre: q.Genre}
}

// MemberQuery 会员列表查询参数
type MemberQuery struct {
	Keyword        string `form:"keyword" binding:"omitempty,max=100" example:"john"`
	MembershipType string `form:"membershipType" binding:"omitempty,oneof=standard premium student" example:"premium"`
}

// Filter 转换为仓储过滤条件
func (q MemberQuery) Filter() member.ListFilter {
	return member.ListFilter{Keyword: q.Keyword, MembershipType: member.MembershipType(q.MembershipType)}
}

// TransactionQuery 借阅记录查询参数,status按推导后的状态过滤
type TransactionQuery struct {
	Keyword string `form:"keyword" binding:"omitempty,max=100" example:"Gatsby"`
	Status  string `form:"status" binding:"omitempty,oneof=issued returned overdue" example:"overdue"`
}

// Filter 转换为过滤条件
func (q TransactionQuery) Filter() transaction.ListFilter {
	return transaction.ListFilter{Keyword: q.Keyword, Status: transaction.Status(q.Status)}
}

// BookQueryOf 过滤条件转换为查询参数(客户端使用)
func BookQueryOf(f book.ListFilter) BookQuery {
	return BookQuery{Keyword: f.Keyword, Genre: f.Genre}
}

// MemberQueryOf 过滤条件转换为查询参数(客户端使用)
func MemberQueryOf(f member.ListFilter) MemberQuery {
	return MemberQuery{Keyword: f.Keyword, MembershipType: string(f.MembershipType)}
}

// TransactionQueryOf 过滤条件转换为查询参数(客户端使用)
func TransactionQueryOf(f transaction.ListFilter) TransactionQuery {
	return TransactionQuery{Keyword: f.Keyword, Status: string(f.Status)}
}
