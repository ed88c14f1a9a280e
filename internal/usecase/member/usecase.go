package member

import (
	"context"
	"time"

	domainMember "microfin-ledger/internal/domain/member"
	"microfin-ledger/pkg/id"
)

type Usecase struct{ repo domainMember.Repository }

func NewUsecase(r domainMember.Repository) *Usecase { return &Usecase{repo: r} }

type CreateInput struct {
	AgentID  string `json:"agent_id"`
	FullName string `json:"full_name"`
}

type MemberDTO struct {
	MemberID  string    `json:"member_id"`
	AgentID   string    `json:"agent_id"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *Usecase) Create(ctx context.Context, in CreateInput) (*MemberDTO, error) {
	m := &domainMember.Member{
		MemberID: id.NewID32(),
		AgentID:  in.AgentID,
		FullName: in.FullName,
	}
	if err := u.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return &MemberDTO{MemberID: m.MemberID, AgentID: m.AgentID, FullName: m.FullName, CreatedAt: m.CreatedAt}, nil
}

func (u *Usecase) Get(ctx context.Context, memberID string) (*MemberDTO, error) {
	m, err := u.repo.GetByMemberID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return &MemberDTO{MemberID: m.MemberID, AgentID: m.AgentID, FullName: m.FullName, CreatedAt: m.CreatedAt}, nil
}
