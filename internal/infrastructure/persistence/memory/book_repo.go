package memory

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// bookRepository 图书仓储内存实现
type bookRepository struct {
	db *DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *DB) book.Repository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, b *book.Book) (err error) {
	r.db.run(ctx, func() {
		if _, exists := r.db.books.get(b.ID); exists {
			err = apperrors.New(apperrors.ErrCodeDuplicateEntry, "图书ID已存在")
			return
		}
		r.db.books.put(b.ID, copyBook(b))
	})
	return err
}

func (r *bookRepository) FindByID(ctx context.Context, id string) (result *book.Book, err error) {
	r.db.run(ctx, func() {
		b, ok := r.db.books.get(id)
		if !ok {
			err = book.ErrBookNotFound
			return
		}
		result = copyBook(b)
	})
	return result, err
}

// LockByID 内存实现中锁由TxManager持有，直接读取
func (r *bookRepository) LockByID(ctx context.Context, id string) (*book.Book, error) {
	return r.FindByID(ctx, id)
}

func (r *bookRepository) Update(ctx context.Context, b *book.Book) (err error) {
	r.db.run(ctx, func() {
		if _, ok := r.db.books.get(b.ID); !ok {
			err = book.ErrBookNotFound
			return
		}
		r.db.books.put(b.ID, copyBook(b))
	})
	return err
}

func (r *bookRepository) Delete(ctx context.Context, id string) (err error) {
	r.db.run(ctx, func() {
		if _, ok := r.db.books.get(id); !ok {
			err = book.ErrBookNotFound
			return
		}
		r.db.books.remove(id)
	})
	return err
}

func (r *bookRepository) List(ctx context.Context, filter book.ListFilter) (result []*book.Book, err error) {
	r.db.run(ctx, func() {
		result = make([]*book.Book, 0)
		for _, b := range r.db.books.all() {
			if filter.Match(b) {
				result = append(result, copyBook(b))
			}
		}
	})
	return result, nil
}

// AdjustAvailability 与MySQL实现的条件更新语义一致：
// 结果小于0返回ErrNoCopiesAvailable，大于总数返回ErrAvailabilityOverflow，失败时不修改
func (r *bookRepository) AdjustAvailability(ctx context.Context, id string, delta int) (err error) {
	r.db.run(ctx, func() {
		b, ok := r.db.books.get(id)
		if !ok {
			err = book.ErrBookNotFound
			return
		}
		next := b.AvailableCopies + delta
		switch {
		case next < 0:
			err = book.ErrNoCopiesAvailable
		case next > b.TotalCopies:
			err = book.ErrAvailabilityOverflow
		default:
			b.AvailableCopies = next
		}
	})
	return err
}
