package savings

import "context"

type Repository interface {
	Create(ctx context.Context, txn *Transaction) error

	// Balance = Σ deposits − Σ withdrawals.
	Balance(ctx context.Context, memberID string) (float64, error)
	// AvailableBalance = Balance − Σ blocked deposits.
	AvailableBalance(ctx context.Context, memberID string) (float64, error)

	ListByMember(ctx context.Context, memberID string) ([]Transaction, error)
	// ListUnblockedDeposits returns a member's unblocked deposits oldest
	// first; the collateral binder pledges them in this order.
	ListUnblockedDeposits(ctx context.Context, memberID string) ([]Transaction, error)

	BlockForLoan(ctx context.Context, txnRefs []uint64, loanID string) error
	SumBlockedForLoan(ctx context.Context, loanID, memberID string) (float64, error)
	UnblockForLoan(ctx context.Context, loanID string) error
	UnblockForLoanMember(ctx context.Context, loanID, memberID string) error
}
