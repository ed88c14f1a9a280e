package mysql

import (
	"context"
	"fmt"

	domainLoan "microfin-ledger/internal/domain/loan"
	"microfin-ledger/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Members:      &MemberRepository{db: tx},
		Loans:        &LoanRepository{db: tx},
		Installments: &InstallmentRepository{db: tx},
		Savings:      &SavingsRepository{db: tx},
		Collaterals:  &CollateralRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.withRetry(ctx, func() error {
		return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(reposFor(tx))
		})
	})
}

func (u *GormUoW) WithinLoanTx(ctx context.Context, loanID, memberID string, fn func(r uow.Repos, l *domainLoan.Loan) error) error {
	return u.withRetry(ctx, func() error {
		return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			r := reposFor(tx)
			// lock the loan row up-front to prevent races
			l, err := r.Loans.GetByLoanIDAndMemberForUpdate(ctx, loanID, memberID)
			if err != nil {
				return err
			}
			return fn(r, l)
		})
	})
}

// withRetry gives a transient storage failure one more chance at the
// transaction boundary, then reports ErrLedgerUnavailable.
func (u *GormUoW) withRetry(ctx context.Context, run func() error) error {
	err := run()
	if !isTransient(err) {
		return err
	}
	if err = run(); isTransient(err) {
		return fmt.Errorf("%w: %v", uow.ErrLedgerUnavailable, err)
	}
	return err
}
