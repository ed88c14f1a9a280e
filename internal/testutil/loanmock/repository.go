package loanmock

import (
	"context"

	domain "microfin-ledger/internal/domain/loan"
)

var (
	_ domain.Repository            = (*Repo)(nil)
	_ domain.InstallmentRepository = (*InstallmentRepo)(nil)
)

// Repo is a function-backed mock that satisfies loan.Repository.
// Only methods you need are included; add more as tests require.
type Repo struct {
	AllocateIDFn                 func(ctx context.Context, rec *domain.IDRecord) error
	CreateFn                     func(ctx context.Context, l *domain.Loan) error
	SaveFn                       func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDAndMemberFn       func(ctx context.Context, loanID, memberID string) (*domain.Loan, error)
	GetByLoanIDAndMemberForUpdFn func(ctx context.Context, loanID, memberID string) (*domain.Loan, error)
	ListByLoanIDFn               func(ctx context.Context, loanID string) ([]domain.Loan, error)
	ListByLoanIDForUpdateFn      func(ctx context.Context, loanID string) ([]domain.Loan, error)
}

func (m *Repo) AllocateID(ctx context.Context, rec *domain.IDRecord) error {
	if m.AllocateIDFn != nil {
		return m.AllocateIDFn(ctx, rec)
	}
	return nil
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanIDAndMember(ctx context.Context, loanID, memberID string) (*domain.Loan, error) {
	if m.GetByLoanIDAndMemberFn != nil {
		return m.GetByLoanIDAndMemberFn(ctx, loanID, memberID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByLoanIDAndMemberForUpdate(ctx context.Context, loanID, memberID string) (*domain.Loan, error) {
	if m.GetByLoanIDAndMemberForUpdFn != nil {
		return m.GetByLoanIDAndMemberForUpdFn(ctx, loanID, memberID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ListByLoanID(ctx context.Context, loanID string) ([]domain.Loan, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanID)
	}
	return nil, nil
}

func (m *Repo) ListByLoanIDForUpdate(ctx context.Context, loanID string) ([]domain.Loan, error) {
	if m.ListByLoanIDForUpdateFn != nil {
		return m.ListByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, nil
}

// InstallmentRepo is a function-backed mock for loan.InstallmentRepository.
type InstallmentRepo struct {
	CreateBatchFn   func(ctx context.Context, list []domain.Installment) error
	SaveFn          func(ctx context.Context, inst *domain.Installment) error
	ListByLoanRefFn func(ctx context.Context, loanRef uint64) ([]domain.Installment, error)
	GetBySeqFn      func(ctx context.Context, loanRef uint64, seq int) (*domain.Installment, error)
}

func (m *InstallmentRepo) CreateBatch(ctx context.Context, list []domain.Installment) error {
	if m.CreateBatchFn != nil {
		return m.CreateBatchFn(ctx, list)
	}
	return nil
}

func (m *InstallmentRepo) Save(ctx context.Context, inst *domain.Installment) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, inst)
	}
	return nil
}

func (m *InstallmentRepo) ListByLoanRef(ctx context.Context, loanRef uint64) ([]domain.Installment, error) {
	if m.ListByLoanRefFn != nil {
		return m.ListByLoanRefFn(ctx, loanRef)
	}
	return nil, nil
}

func (m *InstallmentRepo) GetBySeq(ctx context.Context, loanRef uint64, seq int) (*domain.Installment, error) {
	if m.GetBySeqFn != nil {
		return m.GetBySeqFn(ctx, loanRef, seq)
	}
	return nil, domain.ErrNotFound
}
