package mysql

import (
	"context"

	domainSavings "microfin-ledger/internal/domain/savings"
	"microfin-ledger/pkg/money"

	"gorm.io/gorm"
)

type SavingsRepository struct{ db *gorm.DB }

func NewSavingsRepository(db *gorm.DB) *SavingsRepository { return &SavingsRepository{db: db} }

func (r *SavingsRepository) Create(ctx context.Context, txn *domainSavings.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

// Balance recomputes Σ deposits − Σ withdrawals from the log on every call;
// nothing denormalized can drift.
func (r *SavingsRepository) Balance(ctx context.Context, memberID string) (float64, error) {
	var sum float64
	res := r.db.WithContext(ctx).
		Model(&domainSavings.Transaction{}).
		Select("COALESCE(SUM(CASE WHEN kind = ? THEN amount ELSE -amount END), 0)", domainSavings.KindDeposit).
		Where("member_id = ?", memberID).
		Scan(&sum)
	return money.Round2(sum), res.Error
}

func (r *SavingsRepository) AvailableBalance(ctx context.Context, memberID string) (float64, error) {
	balance, err := r.Balance(ctx, memberID)
	if err != nil {
		return 0, err
	}
	var blocked float64
	res := r.db.WithContext(ctx).
		Model(&domainSavings.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("member_id = ? AND kind = ? AND blocked = ?", memberID, domainSavings.KindDeposit, true).
		Scan(&blocked)
	if res.Error != nil {
		return 0, res.Error
	}
	return money.Round2(balance - blocked), nil
}

func (r *SavingsRepository) ListByMember(ctx context.Context, memberID string) ([]domainSavings.Transaction, error) {
	var out []domainSavings.Transaction
	res := r.db.WithContext(ctx).Where("member_id = ?", memberID).Order("id ASC").Find(&out)
	return out, res.Error
}

// ListUnblockedDeposits orders by id ASC: oldest money is pledged first.
func (r *SavingsRepository) ListUnblockedDeposits(ctx context.Context, memberID string) ([]domainSavings.Transaction, error) {
	var out []domainSavings.Transaction
	res := r.db.WithContext(ctx).
		Where("member_id = ? AND kind = ? AND blocked = ?", memberID, domainSavings.KindDeposit, false).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *SavingsRepository) BlockForLoan(ctx context.Context, txnRefs []uint64, loanID string) error {
	if len(txnRefs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&domainSavings.Transaction{}).
		Where("id IN ?", txnRefs).
		Updates(map[string]any{"blocked": true, "blocked_for_loan": loanID}).Error
}

func (r *SavingsRepository) SumBlockedForLoan(ctx context.Context, loanID, memberID string) (float64, error) {
	var sum float64
	res := r.db.WithContext(ctx).
		Model(&domainSavings.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("blocked_for_loan = ? AND member_id = ?", loanID, memberID).
		Scan(&sum)
	return money.Round2(sum), res.Error
}

func (r *SavingsRepository) UnblockForLoan(ctx context.Context, loanID string) error {
	return r.db.WithContext(ctx).
		Model(&domainSavings.Transaction{}).
		Where("blocked_for_loan = ?", loanID).
		Updates(map[string]any{"blocked": false, "blocked_for_loan": nil}).Error
}

func (r *SavingsRepository) UnblockForLoanMember(ctx context.Context, loanID, memberID string) error {
	return r.db.WithContext(ctx).
		Model(&domainSavings.Transaction{}).
		Where("blocked_for_loan = ? AND member_id = ?", loanID, memberID).
		Updates(map[string]any{"blocked": false, "blocked_for_loan": nil}).Error
}
