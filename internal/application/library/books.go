package library

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/tracing"
)

// CreateBook 新增图书，可借数量 = 馆藏总数
func (s *Service) CreateBook(ctx context.Context, form book.FormData) (result *book.Book, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "library.CreateBook")
	defer func() { tracing.Finish(span, err) }()

	if err := form.Validate(); err != nil {
		return nil, err
	}

	b := book.NewBook(s.ids.NewID(), form, s.clock.Now())
	if err := s.books.Create(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("图书已新增", zap.String("book_id", b.ID), zap.String("isbn", b.ISBN))
	return b, nil
}

// GetBook 查询图书
func (s *Service) GetBook(ctx context.Context, id string) (*book.Book, error) {
	return s.books.FindByID(ctx, id)
}

// ListBooks 按关键字、类别查询图书
func (s *Service) ListBooks(ctx context.Context, filter book.ListFilter) ([]*book.Book, error) {
	return s.books.List(ctx, filter)
}

// UpdateBook 部分更新图书
// 修改馆藏总数时在事务内锁定图书，借出数量保持不变，可借数量按差值平移
func (s *Service) UpdateBook(ctx context.Context, id string, patch book.Patch) (result *book.Book, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "library.UpdateBook")
	span.SetAttributes(attribute.String("book.id", id))
	defer func() { tracing.Finish(span, err) }()

	if err := patch.Validate(); err != nil {
		return nil, err
	}

	err = s.txManager.Transaction(ctx, func(txCtx context.Context) error {
		b, err := s.books.LockByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := b.Apply(patch, s.clock.Now()); err != nil {
			return err
		}
		if err := s.books.Update(txCtx, b); err != nil {
			return err
		}
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteBook 删除图书
// 还有未归还的借阅时拒绝删除（ErrHasActiveLoans），已归还的历史记录保留书名快照
func (s *Service) DeleteBook(ctx context.Context, id string) (err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "library.DeleteBook")
	span.SetAttributes(attribute.String("book.id", id))
	defer func() { tracing.Finish(span, err) }()

	err = s.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if _, err := s.books.LockByID(txCtx, id); err != nil {
			return err
		}
		open, err := s.txs.CountOpenByBook(txCtx, id)
		if err != nil {
			return err
		}
		if open > 0 {
			return book.ErrHasActiveLoans
		}
		return s.books.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("图书已删除", zap.String("book_id", id))
	return nil
}
