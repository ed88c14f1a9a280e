package collateral

import "context"

type Repository interface {
	// Upsert creates or replaces the (loan, member) collateral record.
	Upsert(ctx context.Context, c *Collateral) error
	GetByLoanAndMember(ctx context.Context, loanID, memberID string) (*Collateral, error)
	ListByLoanID(ctx context.Context, loanID string) ([]Collateral, error)
}
