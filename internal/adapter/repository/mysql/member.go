package mysql

import (
	"context"
	"errors"

	domainMember "microfin-ledger/internal/domain/member"

	"gorm.io/gorm"
)

type MemberRepository struct{ db *gorm.DB }

func NewMemberRepository(db *gorm.DB) *MemberRepository { return &MemberRepository{db: db} }

func (r *MemberRepository) Create(ctx context.Context, m *domainMember.Member) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MemberRepository) GetByMemberID(ctx context.Context, memberID string) (*domainMember.Member, error) {
	var out domainMember.Member
	res := r.db.WithContext(ctx).Where("member_id = ?", memberID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, domainMember.ErrNotFound
	}
	return &out, res.Error
}
