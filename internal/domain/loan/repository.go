package loan

import "context"

type Repository interface {
	// AllocateID reserves a loan identifier in the registry. A unique-index
	// collision comes back as ErrLoanIDCollision so the caller can regenerate.
	AllocateID(ctx context.Context, rec *IDRecord) error

	// Create inserts one (sub-)loan row. An open-slot collision comes back
	// as ErrDuplicateActiveLoan.
	Create(ctx context.Context, l *Loan) error
	Save(ctx context.Context, l *Loan) error

	GetByLoanIDAndMember(ctx context.Context, loanID, memberID string) (*Loan, error)
	GetByLoanIDAndMemberForUpdate(ctx context.Context, loanID, memberID string) (*Loan, error)

	// ListByLoanID returns every sub-loan sharing loanID (one for individual
	// loans, one per member for group loans), ordered by member.
	ListByLoanID(ctx context.Context, loanID string) ([]Loan, error)
	ListByLoanIDForUpdate(ctx context.Context, loanID string) ([]Loan, error)
}

type InstallmentRepository interface {
	CreateBatch(ctx context.Context, list []Installment) error
	Save(ctx context.Context, inst *Installment) error

	// ListByLoanRef returns a loan row's installments ordered by seq.
	ListByLoanRef(ctx context.Context, loanRef uint64) ([]Installment, error)
	GetBySeq(ctx context.Context, loanRef uint64, seq int) (*Installment, error)
}
