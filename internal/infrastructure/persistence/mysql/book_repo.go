package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/book"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误(如主键重复),转换为业务错误
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "图书ID已存在")
		}
		return dbError(err, "创建图书失败")
	}

	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id string) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, dbError(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// Update 更新图书信息(包括馆藏总数和可借数量)
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	if err := getDB(ctx, r.db).Omit("created_at").Save(model).Error; err != nil {
		return dbError(err, "更新图书失败")
	}
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 删除图书(软删除)
func (r *bookRepository) Delete(ctx context.Context, id string) error {
	result := getDB(ctx, r.db).Where("id = ?", id).Delete(&BookModel{})
	if result.Error != nil {
		return dbError(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// List 按条件查询图书列表,按创建时间升序
func (r *bookRepository) List(ctx context.Context, filter book.ListFilter) ([]*book.Book, error) {
	query := getDB(ctx, r.db).Model(&BookModel{})

	// 关键词搜索(标题、作者、ISBN)
	if filter.Keyword != "" {
		kw := likePattern(filter.Keyword)
		query = query.Where("title LIKE ? OR author LIKE ? OR isbn LIKE ?", kw, kw, kw)
	}
	if filter.Genre != "" {
		query = query.Where("genre = ?", filter.Genre)
	}

	var models []BookModel
	if err := query.Order("created_at ASC").Order("id ASC").Find(&models).Error; err != nil {
		return nil, dbError(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, nil
}

// LockByID 悲观锁查询图书(用于借出/归还/修改馆藏)
// SELECT * FROM books WHERE id = ? FOR UPDATE
// 教学要点:必须在TxManager.Transaction内调用,锁在事务提交时释放
func (r *bookRepository) LockByID(ctx context.Context, id string) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, dbError(err, "锁定图书失败")
	}
	return toBookEntity(&model), nil
}

// AdjustAvailability 原子调整可借数量
//
//	UPDATE books SET available_copies = available_copies + ?
//	WHERE id = ? AND available_copies + ? >= 0 AND available_copies + ? <= total_copies
//
// 即使调用方忘了加锁,条件更新也保证不会出现负数或超过总数
func (r *bookRepository) AdjustAvailability(ctx context.Context, id string, delta int) error {
	db := getDB(ctx, r.db)
	result := db.Model(&BookModel{}).
		Where("id = ?", id).
		Where("available_copies + ? >= 0", delta).
		Where("available_copies + ? <= total_copies", delta).
		Update("available_copies", gorm.Expr("available_copies + ?", delta))
	if result.Error != nil {
		return dbError(result.Error, "更新可借数量失败")
	}

	if result.RowsAffected == 0 {
		// 图书不存在、可借数量不足或超过总数,再查一次确定原因
		var model BookModel
		if err := db.Where("id = ?", id).First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return book.ErrBookNotFound
			}
			return dbError(err, "查询图书失败")
		}
		if model.AvailableCopies+delta < 0 {
			return book.ErrNoCopiesAvailable
		}
		return book.ErrAvailabilityOverflow
	}

	return nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		Genre:           b.Genre,
		ISBN:            b.ISBN,
		PublishedDate:   b.PublishedDate,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		Description:     b.Description,
		CoverURL:        b.CoverURL,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:              model.ID,
		Title:           model.Title,
		Author:          model.Author,
		Genre:           model.Genre,
		ISBN:            model.ISBN,
		PublishedDate:   model.PublishedDate,
		TotalCopies:     model.TotalCopies,
		AvailableCopies: model.AvailableCopies,
		Description:     model.Description,
		CoverURL:        model.CoverURL,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}
