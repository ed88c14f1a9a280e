package mysql

import (
	"context"
	"errors"

	domainCollateral "microfin-ledger/internal/domain/collateral"

	"gorm.io/gorm"
)

type CollateralRepository struct{ db *gorm.DB }

func NewCollateralRepository(db *gorm.DB) *CollateralRepository {
	return &CollateralRepository{db: db}
}

func (r *CollateralRepository) Upsert(ctx context.Context, c *domainCollateral.Collateral) error {
	// c.ID is set by the binder when a record for (loan, member) already
	// exists; Save then updates instead of inserting.
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CollateralRepository) GetByLoanAndMember(ctx context.Context, loanID, memberID string) (*domainCollateral.Collateral, error) {
	var out domainCollateral.Collateral
	res := r.db.WithContext(ctx).Where("loan_id = ? AND member_id = ?", loanID, memberID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, domainCollateral.ErrNotFound
	}
	return &out, res.Error
}

func (r *CollateralRepository) ListByLoanID(ctx context.Context, loanID string) ([]domainCollateral.Collateral, error) {
	var out []domainCollateral.Collateral
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).Order("member_id ASC").Find(&out)
	return out, res.Error
}
