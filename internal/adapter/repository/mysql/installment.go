package mysql

import (
	"context"
	"errors"

	domainLoan "microfin-ledger/internal/domain/loan"

	"gorm.io/gorm"
)

type InstallmentRepository struct{ db *gorm.DB }

func NewInstallmentRepository(db *gorm.DB) *InstallmentRepository {
	return &InstallmentRepository{db: db}
}

func (r *InstallmentRepository) CreateBatch(ctx context.Context, list []domainLoan.Installment) error {
	if len(list) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&list).Error
}

func (r *InstallmentRepository) Save(ctx context.Context, inst *domainLoan.Installment) error {
	return r.db.WithContext(ctx).Save(inst).Error
}

func (r *InstallmentRepository) ListByLoanRef(ctx context.Context, loanRef uint64) ([]domainLoan.Installment, error) {
	var out []domainLoan.Installment
	res := r.db.WithContext(ctx).Where("loan_ref = ?", loanRef).Order("seq ASC").Find(&out)
	return out, res.Error
}

func (r *InstallmentRepository) GetBySeq(ctx context.Context, loanRef uint64, seq int) (*domainLoan.Installment, error) {
	var out domainLoan.Installment
	res := r.db.WithContext(ctx).Where("loan_ref = ? AND seq = ?", loanRef, seq).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, domainLoan.ErrNotFound
	}
	return &out, res.Error
}
