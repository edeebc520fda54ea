package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/member"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// memberRepository 会员仓储实现(MySQL)
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository 创建会员仓储
func NewMemberRepository(db *gorm.DB) member.Repository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, m *member.Member) error {
	model := toMemberModel(m)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "会员ID已存在")
		}
		return dbError(err, "创建会员失败")
	}
	return nil
}

func (r *memberRepository) FindByID(ctx context.Context, id string) (*member.Member, error) {
	var model MemberModel
	if err := getDB(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, member.ErrMemberNotFound
		}
		return nil, dbError(err, "查询会员失败")
	}
	return toMemberEntity(&model), nil
}

func (r *memberRepository) Update(ctx context.Context, m *member.Member) error {
	// 用Select("*")保证false值(IsActive=false)也会写入
	result := getDB(ctx, r.db).Model(&MemberModel{}).
		Where("id = ?", m.ID).
		Select("*").Omit("id", "created_at", "deleted_at").
		Updates(toMemberModel(m))
	if result.Error != nil {
		return dbError(result.Error, "更新会员失败")
	}
	return nil
}

func (r *memberRepository) Delete(ctx context.Context, id string) error {
	result := getDB(ctx, r.db).Where("id = ?", id).Delete(&MemberModel{})
	if result.Error != nil {
		return dbError(result.Error, "删除会员失败")
	}
	if result.RowsAffected == 0 {
		return member.ErrMemberNotFound
	}
	return nil
}

func (r *memberRepository) List(ctx context.Context, filter member.ListFilter) ([]*member.Member, error) {
	query := getDB(ctx, r.db).Model(&MemberModel{})
	if filter.Keyword != "" {
		kw := likePattern(filter.Keyword)
		query = query.Where("name LIKE ? OR email LIKE ?", kw, kw)
	}
	if filter.MembershipType != "" {
		query = query.Where("membership_type = ?", string(filter.MembershipType))
	}

	var models []MemberModel
	if err := query.Order("created_at ASC").Order("id ASC").Find(&models).Error; err != nil {
		return nil, dbError(err, "查询会员列表失败")
	}

	members := make([]*member.Member, len(models))
	for i := range models {
		members[i] = toMemberEntity(&models[i])
	}
	return members, nil
}

func toMemberModel(m *member.Member) *MemberModel {
	return &MemberModel{
		ID:             m.ID,
		Name:           m.Name,
		Email:          m.Email,
		Phone:          m.Phone,
		Address:        m.Address,
		MembershipDate: m.MembershipDate,
		IsActive:       m.IsActive,
		MembershipType: string(m.MembershipType),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toMemberEntity(model *MemberModel) *member.Member {
	return &member.Member{
		ID:             model.ID,
		Name:           model.Name,
		Email:          model.Email,
		Phone:          model.Phone,
		Address:        model.Address,
		MembershipDate: model.MembershipDate,
		IsActive:       model.IsActive,
		MembershipType: member.MembershipType(model.MembershipType),
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}
