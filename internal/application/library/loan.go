package library

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/transaction"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// IssueBook 借出图书
//
// 流程（同一事务内）:
//  1. 锁定图书行（SELECT FOR UPDATE），不存在返回ErrBookNotFound
//  2. 查询会员，不存在返回ErrMemberNotFound，未激活返回ErrMemberInactive
//  3. 检查可借数量，不足返回ErrNoCopiesAvailable
//  4. 条件扣减可借数量（available_copies > 0）
//  5. 创建借阅记录，到期日 = 当前时间 + 借阅期限
//
// 任何一步失败整个事务回滚，库存和借阅记录都不变
func (s *Service) IssueBook(ctx context.Context, bookID, memberID string) (result *transaction.Transaction, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "library.IssueBook")
	span.SetAttributes(attribute.String("book.id", bookID), attribute.String("member.id", memberID))
	start := time.Now()
	defer func() {
		s.observeLoan("issue", start, err)
		tracing.Finish(span, err)
	}()

	if bookID == "" || memberID == "" {
		return nil, apperrors.ErrInvalidParams.WithDetail("bookId和memberId不能为空")
	}

	now := s.clock.Now()
	var created *transaction.Transaction
	err = s.txManager.Transaction(ctx, func(txCtx context.Context) error {
		b, err := s.books.LockByID(txCtx, bookID)
		if err != nil {
			return err
		}

		m, err := s.members.FindByID(txCtx, memberID)
		if err != nil {
			return err
		}
		if err := m.CanBorrow(); err != nil {
			return err
		}

		// 锁定后再检查，避免并发借出同一本书的最后一个副本
		if !b.IsAvailable() {
			return book.ErrNoCopiesAvailable
		}
		if err := s.books.AdjustAvailability(txCtx, b.ID, -1); err != nil {
			return err
		}

		created = transaction.NewIssue(s.ids.NewID(), b.ID, b.Title, m.ID, m.Name, now, s.policy)
		return s.txs.Create(txCtx, created)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("图书已借出",
		zap.String("transaction_id", created.ID),
		zap.String("book_id", created.BookID),
		zap.String("member_id", created.MemberID),
		zap.Time("due_date", created.DueDate),
	)
	s.publish(ctx, RoutingKeyIssued, newLoanEvent(created, now))

	return created.Presented(now), nil
}

// ReturnBook 归还图书
//
// 流程（同一事务内）:
//  1. 锁定借阅记录，不存在返回ErrTransactionNotFound，已归还返回ErrAlreadyReturned
//  2. 记录归还时间，按逾期天数计算罚款
//  3. 可借数量+1；超过馆藏总数说明数据已不一致，记录错误日志和指标后保持为总数
func (s *Service) ReturnBook(ctx context.Context, transactionID string) (result *transaction.Transaction, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "library.ReturnBook")
	span.SetAttributes(attribute.String("transaction.id", transactionID))
	start := time.Now()
	defer func() {
		s.observeLoan("return", start, err)
		tracing.Finish(span, err)
	}()

	now := s.clock.Now()
	var returned *transaction.Transaction
	err = s.txManager.Transaction(ctx, func(txCtx context.Context) error {
		tx, err := s.txs.LockByID(txCtx, transactionID)
		if err != nil {
			return err
		}
		if err := tx.Return(now, s.policy); err != nil {
			return err
		}

		if err := s.books.AdjustAvailability(txCtx, tx.BookID, +1); err != nil {
			if !errors.Is(err, book.ErrAvailabilityOverflow) {
				return err
			}
			// 可借数量已等于总数，不再增加
			metrics.IncCounter(metrics.InventoryConsistencyFaults)
			s.logger.Error("库存数据不一致: 归还后可借数量将超过馆藏总数",
				zap.String("book_id", tx.BookID),
				zap.String("transaction_id", tx.ID),
			)
		}

		if err := s.txs.Update(txCtx, tx); err != nil {
			return err
		}
		returned = tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	if returned.Fine != nil && returned.Fine.IsPositive() {
		metrics.ObserveHistogram(metrics.FineAmount, returned.Fine.InexactFloat64())
	}
	s.logger.Info("图书已归还",
		zap.String("transaction_id", returned.ID),
		zap.String("book_id", returned.BookID),
		zap.Stringer("fine", returned.Fine),
	)
	s.publish(ctx, RoutingKeyReturned, newLoanEvent(returned, now))

	return returned.Presented(now), nil
}

// DeriveStatus 推导借阅记录的展示状态（纯函数）
func DeriveStatus(tx *transaction.Transaction, asOf time.Time) transaction.Status {
	return tx.DeriveStatus(asOf)
}

// AccruedFine 未归还的借阅如果现在归还需要缴纳的罚款
func (s *Service) AccruedFine(tx *transaction.Transaction) decimal.Decimal {
	return tx.AccruedFine(s.clock.Now(), s.policy)
}

func (s *Service) observeLoan(op string, start time.Time, err error) {
	metrics.IncCounterVec(metrics.LoanOperationsTotal, map[string]string{
		"operation": op,
		"result":    metrics.Result(err),
	})
	metrics.ObserveHistogramVec(metrics.LoanOperationDuration, map[string]string{"operation": op}, time.Since(start).Seconds())
}
