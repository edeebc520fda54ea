package library

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/transaction"
	"github.com/xiebiao/library/pkg/metrics"
)

// 借阅事件路由键
const (
	RoutingKeyIssued   = "book.issued"
	RoutingKeyReturned = "book.returned"
)

// LoanEvent 借阅事件（借出、归还）
type LoanEvent struct {
	TransactionID string     `json:"transactionId"`
	BookID        string     `json:"bookId"`
	BookTitle     string     `json:"bookTitle"`
	MemberID      string     `json:"memberId"`
	MemberName    string     `json:"memberName"`
	DueDate       time.Time  `json:"dueDate"`
	ReturnDate    *time.Time `json:"returnDate,omitempty"`
	Fine          string     `json:"fine,omitempty"`
	OccurredAt    time.Time  `json:"occurredAt"`
}

func newLoanEvent(tx *transaction.Transaction, at time.Time) LoanEvent {
	ev := LoanEvent{
		TransactionID: tx.ID,
		BookID:        tx.BookID,
		BookTitle:     tx.BookTitle,
		MemberID:      tx.MemberID,
		MemberName:    tx.MemberName,
		DueDate:       tx.DueDate,
		ReturnDate:    tx.ReturnDate,
		OccurredAt:    at,
	}
	if tx.Fine != nil {
		ev.Fine = tx.Fine.String()
	}
	return ev
}

// publish 事务提交后发布事件，失败只记录日志
func (s *Service) publish(ctx context.Context, routingKey string, ev LoanEvent) {
	if s.events == nil {
		return
	}
	err := s.events.Publish(ctx, routingKey, ev)
	metrics.IncCounterVec(metrics.EventsPublishedTotal, map[string]string{
		"routing_key": routingKey,
		"result":      metrics.Result(err),
	})
	if err != nil {
		s.logger.Warn("借阅事件发布失败",
			zap.String("routing_key", routingKey),
			zap.String("transaction_id", ev.TransactionID),
			zap.Error(err),
		)
	}
}
