package member

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

func TestNewMember(t *testing.T) {
	now := time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC)
	m := NewMember("m1", FormData{
		Name:           "Alice",
		Email:          "alice@example.com",
		Phone:          "555-0100",
		Address:        "1 Main St",
		MembershipType: MembershipStudent,
	}, now)

	assert.Equal(t, "2024-03-01", m.MembershipDate)
	assert.True(t, m.IsActive, "新会员默认激活")
	assert.NoError(t, m.CanBorrow())
}

func TestMember_CanBorrow(t *testing.T) {
	m := &Member{ID: "m1", IsActive: false}
	assert.True(t, errors.Is(m.CanBorrow(), ErrMemberInactive))
}

func TestMember_Apply(t *testing.T) {
	m := &Member{ID: "m1", Name: "Bob", IsActive: true, MembershipType: MembershipStandard}
	inactive := false
	premium := MembershipPremium

	m.Apply(Patch{IsActive: &inactive, MembershipType: &premium}, time.Now())

	assert.False(t, m.IsActive)
	assert.Equal(t, MembershipPremium, m.MembershipType)
	assert.Equal(t, "Bob", m.Name)
}

func TestFormData_Validate(t *testing.T) {
	valid := FormData{
		Name:           "Alice",
		Email:          "alice@example.com",
		Phone:          "555-0100",
		Address:        "1 Main St",
		MembershipType: MembershipPremium,
	}
	assert.NoError(t, valid.Validate())

	t.Run("邮箱格式错误", func(t *testing.T) {
		f := valid
		f.Email = "not-an-email"
		err := f.Validate()
		assert.True(t, errors.Is(err, apperrors.ErrInvalidParams))
	})

	t.Run("未知会员类型", func(t *testing.T) {
		f := valid
		f.MembershipType = "gold"
		assert.Error(t, f.Validate())
	})

	t.Run("部分更新邮箱校验", func(t *testing.T) {
		bad := "bad"
		assert.Error(t, Patch{Email: &bad}.Validate())
		assert.NoError(t, Patch{}.Validate())
	})
}

func TestMembershipType_Valid(t *testing.T) {
	assert.True(t, MembershipStandard.Valid())
	assert.False(t, MembershipType("vip").Valid())
}

func TestListFilter_Match(t *testing.T) {
	m := &Member{Name: "Jane Smith", Email: "jane@example.com", MembershipType: MembershipStandard}

	assert.True(t, ListFilter{}.Match(m))
	assert.True(t, ListFilter{Keyword: "JANE"}.Match(m))
	assert.True(t, ListFilter{Keyword: "example.com"}.Match(m))
	assert.False(t, ListFilter{MembershipType: MembershipPremium}.Match(m))
	assert.False(t, ListFilter{Keyword: "bob"}.Match(m))
}
