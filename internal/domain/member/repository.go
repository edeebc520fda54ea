package member

import (
	"context"
	"strings"
)

// Repository 会员仓储接口
type Repository interface {
	// Create 创建会员
	Create(ctx context.Context, member *Member) error

	// FindByID 根据ID查找会员,不存在返回ErrMemberNotFound
	FindByID(ctx context.Context, id string) (*Member, error)

	// Update 保存会员信息
	Update(ctx context.Context, member *Member) error

	// Delete 删除会员
	Delete(ctx context.Context, id string) error

	// List 按条件查询会员列表(不分页)
	List(ctx context.Context, filter ListFilter) ([]*Member, error)
}

// ListFilter 列表查询条件
type ListFilter struct {
	Keyword        string         // 搜索姓名、邮箱
	MembershipType MembershipType // 按会员类型过滤
}

// Match 判断会员是否满足过滤条件
func (f ListFilter) Match(m *Member) bool {
	if f.MembershipType != "" && m.MembershipType != f.MembershipType {
		return false
	}
	if f.Keyword == "" {
		return true
	}
	kw := strings.ToLower(f.Keyword)
	return strings.Contains(strings.ToLower(m.Name), kw) ||
		strings.Contains(strings.ToLower(m.Email), kw)
}
