package memory

import (
	"context"
	"sort"

	"github.com/xiebiao/library/internal/domain/transaction"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

type transactionRepository struct {
	db *DB
}

// NewTransactionRepository 创建借阅记录仓储
func NewTransactionRepository(db *DB) transaction.Repository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *transaction.Transaction) (err error) {
	r.db.run(ctx, func() {
		if _, exists := r.db.transactions.get(tx.ID); exists {
			err = apperrors.New(apperrors.ErrCodeDuplicateEntry, "借阅记录ID已存在")
			return
		}
		r.db.transactions.put(tx.ID, copyTransaction(tx))
	})
	return err
}

func (r *transactionRepository) FindByID(ctx context.Context, id string) (result *transaction.Transaction, err error) {
	r.db.run(ctx, func() {
		tx, ok := r.db.transactions.get(id)
		if !ok {
			err = transaction.ErrTransactionNotFound
			return
		}
		result = copyTransaction(tx)
	})
	return result, err
}

func (r *transactionRepository) LockByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	return r.FindByID(ctx, id)
}

func (r *transactionRepository) Update(ctx context.Context, tx *transaction.Transaction) (err error) {
	r.db.run(ctx, func() {
		if _, ok := r.db.transactions.get(tx.ID); !ok {
			err = transaction.ErrTransactionNotFound
			return
		}
		r.db.transactions.put(tx.ID, copyTransaction(tx))
	})
	return err
}

// List 按借出时间倒序，时间相同按插入顺序
func (r *transactionRepository) List(ctx context.Context) (result []*transaction.Transaction, err error) {
	r.db.run(ctx, func() {
		rows := r.db.transactions.all()
		result = make([]*transaction.Transaction, 0, len(rows))
		for _, tx := range rows {
			result = append(result, copyTransaction(tx))
		}
	})
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].IssueDate.After(result[j].IssueDate)
	})
	return result, nil
}

func (r *transactionRepository) CountOpenByBook(ctx context.Context, bookID string) (int64, error) {
	return r.countOpen(ctx, func(tx *transaction.Transaction) bool { return tx.BookID == bookID }), nil
}

func (r *transactionRepository) CountOpenByMember(ctx context.Context, memberID string) (int64, error) {
	return r.countOpen(ctx, func(tx *transaction.Transaction) bool { return tx.MemberID == memberID }), nil
}

func (r *transactionRepository) countOpen(ctx context.Context, match func(*transaction.Transaction) bool) (n int64) {
	r.db.run(ctx, func() {
		for _, tx := range r.db.transactions.all() {
			if tx.IsOpen() && match(tx) {
				n++
			}
		}
	})
	return n
}
