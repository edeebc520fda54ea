package library

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/pkg/tracing"
)

// CreateMember 新增会员，入会日期为当天，默认激活
func (s *Service) CreateMember(ctx context.Context, form member.FormData) (result *member.Member, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "library.CreateMember")
	defer func() { tracing.Finish(span, err) }()

	if err := form.Validate(); err != nil {
		return nil, err
	}

	m := member.NewMember(s.ids.NewID(), form, s.clock.Now())
	if err := s.members.Create(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info("会员已新增", zap.String("member_id", m.ID))
	return m, nil
}

// GetMember 查询会员
func (s *Service) GetMember(ctx context.Context, id string) (*member.Member, error) {
	return s.members.FindByID(ctx, id)
}

// ListMembers 按关键字、会员类型查询会员
func (s *Service) ListMembers(ctx context.Context, filter member.ListFilter) ([]*member.Member, error) {
	return s.members.List(ctx, filter)
}

// UpdateMember 部分更新会员（可以停用/启用）
func (s *Service) UpdateMember(ctx context.Context, id string, patch member.Patch) (result *member.Member, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "library.UpdateMember")
	span.SetAttributes(attribute.String("member.id", id))
	defer func() { tracing.Finish(span, err) }()

	if err := patch.Validate(); err != nil {
		return nil, err
	}

	m, err := s.members.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Apply(patch, s.clock.Now())
	if err := s.members.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// DeleteMember 删除会员，还有未归还的借阅时拒绝
func (s *Service) DeleteMember(ctx context.Context, id string) (err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "library.DeleteMember")
	span.SetAttributes(attribute.String("member.id", id))
	defer func() { tracing.Finish(span, err) }()

	err = s.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if _, err := s.members.FindByID(txCtx, id); err != nil {
			return err
		}
		open, err := s.txs.CountOpenByMember(txCtx, id)
		if err != nil {
			return err
		}
		if open > 0 {
			return member.ErrHasActiveLoans
		}
		return s.members.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("会员已删除", zap.String("member_id", id))
	return nil
}
