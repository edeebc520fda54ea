package transaction

import (
	"context"
	"strings"
	"time"
)

// Repository 借阅记录仓储接口
// 注意:存储中只有issued/returned两种状态
type Repository interface {
	// Create 创建借阅记录
	Create(ctx context.Context, tx *Transaction) error

	// FindByID 根据ID查找,不存在返回ErrTransactionNotFound
	FindByID(ctx context.Context, id string) (*Transaction, error)

	// LockByID 锁定并读取(用于归还,防止重复归还)
	LockByID(ctx context.Context, id string) (*Transaction, error)

	// Update 保存借阅记录
	Update(ctx context.Context, tx *Transaction) error

	// List 查询全部借阅记录,按借出时间倒序
	List(ctx context.Context) ([]*Transaction, error)

	// CountOpenByBook 统计某本书未归还的借阅数
	CountOpenByBook(ctx context.Context, bookID string) (int64, error)

	// CountOpenByMember 统计某会员未归还的借阅数
	CountOpenByMember(ctx context.Context, memberID string) (int64, error)
}

// ListFilter 列表查询条件
// Status按展示状态过滤(可以是overdue),因此需要asOf
type ListFilter struct {
	Keyword string // 搜索书名、会员姓名
	Status  Status
}

// Match 判断借阅记录是否满足过滤条件
func (f ListFilter) Match(t *Transaction, asOf time.Time) bool {
	if f.Status != "" && t.DeriveStatus(asOf) != f.Status {
		return false
	}
	if f.Keyword == "" {
		return true
	}
	kw := strings.ToLower(f.Keyword)
	return strings.Contains(strings.ToLower(t.BookTitle), kw) ||
		strings.Contains(strings.ToLower(t.MemberName), kw)
}
