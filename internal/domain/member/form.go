package member

import (
	"github.com/xiebiao/library/pkg/validator"
)

// FormData 新增会员的表单输入
type FormData struct {
	Name           string         `json:"name" validate:"required"`
	Email          string         `json:"email" validate:"required,email"`
	Phone          string         `json:"phone" validate:"required"`
	Address        string         `json:"address" validate:"required"`
	MembershipType MembershipType `json:"membershipType" validate:"required,oneof=standard premium student"`
}

// Validate 校验表单
func (f FormData) Validate() error {
	return validator.Struct(f)
}

// Patch 部分更新,nil表示不修改该字段
// 与新增表单不同,更新时可以停用/启用会员
type Patch struct {
	Name           *string         `json:"name,omitempty" validate:"omitempty,min=1"`
	Email          *string         `json:"email,omitempty" validate:"omitempty,email"`
	Phone          *string         `json:"phone,omitempty" validate:"omitempty,min=1"`
	Address        *string         `json:"address,omitempty" validate:"omitempty,min=1"`
	MembershipType *MembershipType `json:"membershipType,omitempty" validate:"omitempty,oneof=standard premium student"`
	IsActive       *bool           `json:"isActive,omitempty"`
}

// Validate 校验部分更新
func (p Patch) Validate() error {
	return validator.Struct(p)
}
