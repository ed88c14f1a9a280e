package mysql

import (
	"context"
	"errors"

	domainLoan "microfin-ledger/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) AllocateID(ctx context.Context, rec *domainLoan.IDRecord) error {
	return translateIDAllocate(r.db.WithContext(ctx).Create(rec).Error)
}

func (r *LoanRepository) Create(ctx context.Context, l *domainLoan.Loan) error {
	return translateLoanCreate(r.db.WithContext(ctx).Create(l).Error)
}

func (r *LoanRepository) Save(ctx context.Context, l *domainLoan.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByLoanIDAndMember(ctx context.Context, loanID, memberID string) (*domainLoan.Loan, error) {
	return r.getByLoanIDAndMember(ctx, loanID, memberID, false)
}

func (r *LoanRepository) GetByLoanIDAndMemberForUpdate(ctx context.Context, loanID, memberID string) (*domainLoan.Loan, error) {
	return r.getByLoanIDAndMember(ctx, loanID, memberID, true)
}

func (r *LoanRepository) getByLoanIDAndMember(ctx context.Context, loanID, memberID string, forUpdate bool) (*domainLoan.Loan, error) {
	q := r.db.WithContext(ctx)
	if forUpdate && r.db.Dialector.Name() == "mysql" {
		// sqlite (tests) has no FOR UPDATE; its writes serialize anyway
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var out domainLoan.Loan
	res := q.Where("loan_id = ? AND member_id = ?", loanID, memberID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, domainLoan.ErrNotFound
	}
	return &out, res.Error
}

func (r *LoanRepository) ListByLoanID(ctx context.Context, loanID string) ([]domainLoan.Loan, error) {
	return r.listByLoanID(ctx, loanID, false)
}

func (r *LoanRepository) ListByLoanIDForUpdate(ctx context.Context, loanID string) ([]domainLoan.Loan, error) {
	return r.listByLoanID(ctx, loanID, true)
}

func (r *LoanRepository) listByLoanID(ctx context.Context, loanID string, forUpdate bool) ([]domainLoan.Loan, error) {
	q := r.db.WithContext(ctx)
	if forUpdate && r.db.Dialector.Name() == "mysql" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var out []domainLoan.Loan
	res := q.Where("loan_id = ?", loanID).Order("member_id ASC").Find(&out)
	return out, res.Error
}
