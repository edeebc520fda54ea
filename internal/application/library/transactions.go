package library

import (
	"context"

	"github.com/xiebiao/library/internal/domain/transaction"
)

// ListTransactions 查询借阅记录（按借出时间倒序），返回推导后的展示状态
func (s *Service) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	all, err := s.txs.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	result := make([]*transaction.Transaction, 0, len(all))
	for _, tx := range all {
		if filter.Match(tx, now) {
			result = append(result, tx.Presented(now))
		}
	}
	return result, nil
}

// GetTransaction 查询单条借阅记录
func (s *Service) GetTransaction(ctx context.Context, id string) (*transaction.Transaction, error) {
	tx, err := s.txs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return tx.Presented(s.clock.Now()), nil
}
