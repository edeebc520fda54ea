package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status 借阅状态
type Status string

const (
	StatusIssued   Status = "issued"   // 已借出(持久化)
	StatusReturned Status = "returned" // 已归还(持久化)
	StatusOverdue  Status = "overdue"  // 已逾期(只在读取时推导,不会写入存储)
)

// Transaction 借阅记录(聚合根)
// 设计说明:
// 1. BookTitle/MemberName是借出时的快照,之后图书或会员改名不影响历史记录
// 2. 不变量: Status=issued 当且仅当 ReturnDate为空
// 3. 持久化的状态迁移只有 issued -> returned,overdue由Presented推导
type Transaction struct {
	ID         string           `json:"id"`
	BookID     string           `json:"bookId"`
	MemberID   string           `json:"memberId"`
	BookTitle  string           `json:"bookTitle"`
	MemberName string           `json:"memberName"`
	IssueDate  time.Time        `json:"issueDate"`
	DueDate    time.Time        `json:"dueDate"`
	ReturnDate *time.Time       `json:"returnDate,omitempty"`
	Status     Status           `json:"status"`
	Fine       *decimal.Decimal `json:"fine,omitempty"`
}

// NewIssue 创建一条借出记录(工厂方法)
// 到期日 = 借出时间 + 借阅期限
func NewIssue(id, bookID, bookTitle, memberID, memberName string, now time.Time, policy Policy) *Transaction {
	return &Transaction{
		ID:         id,
		BookID:     bookID,
		MemberID:   memberID,
		BookTitle:  bookTitle,
		MemberName: memberName,
		IssueDate:  now,
		DueDate:    now.Add(policy.LoanPeriod),
		Status:     StatusIssued,
	}
}

// IsOpen 是否尚未归还(issued,包括推导出的overdue)
func (t *Transaction) IsOpen() bool {
	return t.ReturnDate == nil
}

// DeriveStatus 推导展示状态(纯函数)
// 未归还且asOf已超过到期日 -> overdue,其余情况原样返回
func (t *Transaction) DeriveStatus(asOf time.Time) Status {
	if t.Status == StatusIssued && asOf.After(t.DueDate) {
		return StatusOverdue
	}
	return t.Status
}

// Presented 返回带推导状态的副本,用于对外展示
func (t *Transaction) Presented(asOf time.Time) *Transaction {
	cp := *t
	cp.Status = t.DeriveStatus(asOf)
	return &cp
}

// Return 归还(领域行为)
// 业务规则:
// 1. 已归还的记录不能再次归还
// 2. 罚款 = 逾期天数 * 每日罚金,按时归还罚款为0
func (t *Transaction) Return(now time.Time, policy Policy) error {
	if !t.IsOpen() || t.Status == StatusReturned {
		return ErrAlreadyReturned
	}
	returned := now
	fine := policy.ComputeFine(t.DueDate, returned)
	t.ReturnDate = &returned
	t.Status = StatusReturned
	t.Fine = &fine
	return nil
}

// AccruedFine 未归还的借阅如果在asOf归还需要缴纳的罚款
// 已归还的记录返回实际罚款
func (t *Transaction) AccruedFine(asOf time.Time, policy Policy) decimal.Decimal {
	if !t.IsOpen() {
		if t.Fine == nil {
			return decimal.Zero
		}
		return *t.Fine
	}
	return policy.ComputeFine(t.DueDate, asOf)
}
