package memory

import (
	"context"

	"github.com/xiebiao/library/internal/domain/member"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

type memberRepository struct {
	db *DB
}

// NewMemberRepository 创建会员仓储
func NewMemberRepository(db *DB) member.Repository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, m *member.Member) (err error) {
	r.db.run(ctx, func() {
		if _, exists := r.db.members.get(m.ID); exists {
			err = apperrors.New(apperrors.ErrCodeDuplicateEntry, "会员ID已存在")
			return
		}
		r.db.members.put(m.ID, copyMember(m))
	})
	return err
}

func (r *memberRepository) FindByID(ctx context.Context, id string) (result *member.Member, err error) {
	r.db.run(ctx, func() {
		m, ok := r.db.members.get(id)
		if !ok {
			err = member.ErrMemberNotFound
			return
		}
		result = copyMember(m)
	})
	return result, err
}

func (r *memberRepository) Update(ctx context.Context, m *member.Member) (err error) {
	r.db.run(ctx, func() {
		if _, ok := r.db.members.get(m.ID); !ok {
			err = member.ErrMemberNotFound
			return
		}
		r.db.members.put(m.ID, copyMember(m))
	})
	return err
}

func (r *memberRepository) Delete(ctx context.Context, id string) (err error) {
	r.db.run(ctx, func() {
		if _, ok := r.db.members.get(id); !ok {
			err = member.ErrMemberNotFound
			return
		}
		r.db.members.remove(id)
	})
	return err
}

func (r *memberRepository) List(ctx context.Context, filter member.ListFilter) (result []*member.Member, err error) {
	r.db.run(ctx, func() {
		result = make([]*member.Member, 0)
		for _, m := range r.db.members.all() {
			if filter.Match(m) {
				result = append(result, copyMember(m))
			}
		}
	})
	return result, nil
}
