package book

import (
	"context"
	"strings"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现(MySQL、内存种子数据)
// 2. 在TxManager.Transaction内调用时,实现必须参与同一事务
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书,不存在返回ErrBookNotFound
	FindByID(ctx context.Context, id string) (*Book, error)

	// Update 保存图书信息(包括TotalCopies/AvailableCopies)
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书
	Delete(ctx context.Context, id string) error

	// List 按条件查询图书列表(不分页)
	List(ctx context.Context, filter ListFilter) ([]*Book, error)

	// LockByID 锁定并读取图书(用于借出/归还)
	// MySQL实现使用SELECT FOR UPDATE
	LockByID(ctx context.Context, id string) (*Book, error)

	// AdjustAvailability 原子调整可借数量
	// delta=-1 借出: 可借数量不足时返回ErrNoCopiesAvailable
	// delta=+1 归还: 超过馆藏总数时返回ErrAvailabilityOverflow
	AdjustAvailability(ctx context.Context, id string, delta int) error
}

// ListFilter 列表查询条件
type ListFilter struct {
	Keyword string // 搜索标题、作者、ISBN
	Genre   string // 按类别精确过滤
}

// Match 判断图书是否满足过滤条件(内存实现和客户端筛选共用)
func (f ListFilter) Match(b *Book) bool {
	if f.Genre != "" && !strings.EqualFold(b.Genre, f.Genre) {
		return false
	}
	if f.Keyword == "" {
		return true
	}
	kw := strings.ToLower(f.Keyword)
	return strings.Contains(strings.ToLower(b.Title), kw) ||
		strings.Contains(strings.ToLower(b.Author), kw) ||
		strings.Contains(strings.ToLower(b.ISBN), kw)
}
