package mysql

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/transaction"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// transactionRepository 借阅记录仓储实现(MySQL)
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository 创建借阅记录仓储
func NewTransactionRepository(db *gorm.DB) transaction.Repository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *transaction.Transaction) error {
	if err := getDB(ctx, r.db).Create(toTransactionModel(tx)).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "借阅记录ID已存在")
		}
		return dbError(err, "创建借阅记录失败")
	}
	return nil
}

func (r *transactionRepository) FindByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	return r.find(getDB(ctx, r.db), id)
}

// LockByID SELECT FOR UPDATE,防止同一条记录被并发归还两次
func (r *transactionRepository) LockByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	return r.find(getDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *transactionRepository) find(db *gorm.DB, id string) (*transaction.Transaction, error) {
	var model TransactionModel
	if err := db.Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, transaction.ErrTransactionNotFound
		}
		return nil, dbError(err, "查询借阅记录失败")
	}
	return toTransactionEntity(&model), nil
}

// Update 只更新归还相关字段(归还时间、状态、罚款)
func (r *transactionRepository) Update(ctx context.Context, tx *transaction.Transaction) error {
	model := toTransactionModel(tx)
	result := getDB(ctx, r.db).Model(&TransactionModel{}).
		Where("id = ?", tx.ID).
		Select("return_date", "status", "fine", "updated_at").
		Updates(model)
	if result.Error != nil {
		return dbError(result.Error, "更新借阅记录失败")
	}
	return nil
}

// List 按借出时间倒序
func (r *transactionRepository) List(ctx context.Context) ([]*transaction.Transaction, error) {
	var models []TransactionModel
	if err := getDB(ctx, r.db).Order("issue_date DESC").Order("id ASC").Find(&models).Error; err != nil {
		return nil, dbError(err, "查询借阅记录失败")
	}

	txs := make([]*transaction.Transaction, len(models))
	for i := range models {
		txs[i] = toTransactionEntity(&models[i])
	}
	return txs, nil
}

func (r *transactionRepository) CountOpenByBook(ctx context.Context, bookID string) (int64, error) {
	return r.countOpen(ctx, "book_id = ?", bookID)
}

func (r *transactionRepository) CountOpenByMember(ctx context.Context, memberID string) (int64, error) {
	return r.countOpen(ctx, "member_id = ?", memberID)
}

func (r *transactionRepository) countOpen(ctx context.Context, cond string, arg string) (int64, error) {
	var n int64
	err := getDB(ctx, r.db).Model(&TransactionModel{}).
		Where(cond, arg).
		Where("status = ?", string(transaction.StatusIssued)).
		Count(&n).Error
	if err != nil {
		return 0, dbError(err, "统计借阅记录失败")
	}
	return n, nil
}

func toTransactionModel(tx *transaction.Transaction) *TransactionModel {
	model := &TransactionModel{
		ID:         tx.ID,
		BookID:     tx.BookID,
		MemberID:   tx.MemberID,
		BookTitle:  tx.BookTitle,
		MemberName: tx.MemberName,
		IssueDate:  tx.IssueDate,
		DueDate:    tx.DueDate,
		ReturnDate: tx.ReturnDate,
		Status:     string(tx.Status),
	}
	if tx.Fine != nil {
		model.Fine = decimal.NewNullDecimal(*tx.Fine)
	}
	return model
}

func toTransactionEntity(model *TransactionModel) *transaction.Transaction {
	tx := &transaction.Transaction{
		ID:         model.ID,
		BookID:     model.BookID,
		MemberID:   model.MemberID,
		BookTitle:  model.BookTitle,
		MemberName: model.MemberName,
		IssueDate:  model.IssueDate,
		DueDate:    model.DueDate,
		ReturnDate: model.ReturnDate,
		Status:     transaction.Status(model.Status),
	}
	if model.Fine.Valid {
		fine := model.Fine.Decimal
		tx.Fine = &fine
	}
	return tx
}
