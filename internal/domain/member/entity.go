package member

import (
	"time"
)

// MembershipType 会员类型
type MembershipType string

const (
	MembershipStandard MembershipType = "standard"
	MembershipPremium  MembershipType = "premium"
	MembershipStudent  MembershipType = "student"
)

// Valid 是否为已知的会员类型
func (t MembershipType) Valid() bool {
	switch t {
	case MembershipStandard, MembershipPremium, MembershipStudent:
		return true
	default:
		return false
	}
}

// Member 会员实体
// 业务规则:只有IsActive=true的会员可以借书
type Member struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	Address        string         `json:"address"`
	MembershipDate string         `json:"membershipDate"` // YYYY-MM-DD
	IsActive       bool           `json:"isActive"`
	MembershipType MembershipType `json:"membershipType"`
	CreatedAt      time.Time      `json:"-"`
	UpdatedAt      time.Time      `json:"-"`
}

// NewMember 根据表单创建会员(工厂方法)
// 入会日期为当天,默认激活
func NewMember(id string, form FormData, now time.Time) *Member {
	return &Member{
		ID:             id,
		Name:           form.Name,
		Email:          form.Email,
		Phone:          form.Phone,
		Address:        form.Address,
		MembershipDate: now.Format("2006-01-02"),
		IsActive:       true,
		MembershipType: form.MembershipType,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// CanBorrow 检查会员能否借书
func (m *Member) CanBorrow() error {
	if !m.IsActive {
		return ErrMemberInactive
	}
	return nil
}

// Apply 合并部分更新(只覆盖非nil字段)
func (m *Member) Apply(p Patch, now time.Time) {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Email != nil {
		m.Email = *p.Email
	}
	if p.Phone != nil {
		m.Phone = *p.Phone
	}
	if p.Address != nil {
		m.Address = *p.Address
	}
	if p.MembershipType != nil {
		m.MembershipType = *p.MembershipType
	}
	if p.IsActive != nil {
		m.IsActive = *p.IsActive
	}
	m.UpdatedAt = now
}
