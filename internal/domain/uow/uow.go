package uow

import (
	"context"
	"errors"

	"microfin-ledger/internal/domain/collateral"
	"microfin-ledger/internal/domain/loan"
	"microfin-ledger/internal/domain/member"
	"microfin-ledger/internal/domain/savings"
)

// ErrLedgerUnavailable surfaces a storage failure that survived the one
// transaction-boundary retry. Callers report it as a fault, not a policy error.
var ErrLedgerUnavailable = errors.New("ledger unavailable")

type Repos struct {
	Members      member.Repository
	Loans        loan.Repository
	Installments loan.InstallmentRepository
	Savings      savings.Repository
	Collaterals  collateral.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the (loan, member) row first, then pass it in
	WithinLoanTx(ctx context.Context, loanID, memberID string, fn func(r Repos, l *loan.Loan) error) error
}
