package mysql

import (
	"context"
	"errors"
	"testing"

	domainLoan "microfin-ledger/internal/domain/loan"
	domainSavings "microfin-ledger/internal/domain/savings"
	"microfin-ledger/internal/domain/uow"
	"microfin-ledger/internal/testutil/testdb"
	"microfin-ledger/pkg/id"
)

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)
	savingsRepo := NewSavingsRepository(db)

	member := id.NewID32()
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, makeLoan("LN-COMMIT0000", member)); err != nil {
			return err
		}
		return r.Savings.Create(ctx, &domainSavings.Transaction{
			TxnID:    id.NewID32(),
			MemberID: member,
			Amount:   500,
			Kind:     domainSavings.KindDeposit,
		})
	})
	if err != nil {
		t.Fatalf("WithinTx: %v", err)
	}

	// Post-commit visibility across both tables.
	if _, err := loanRepo.GetByLoanIDAndMember(ctx, "LN-COMMIT0000", member); err != nil {
		t.Fatalf("loan not visible after commit: %v", err)
	}
	balance, err := savingsRepo.Balance(ctx, member)
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if balance != 500 {
		t.Errorf("balance = %.2f, want 500.00", balance)
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)

	member := id.NewID32()
	sentinel := errors.New("boom")

	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, makeLoan("LN-ROLLBACK00", member)); err != nil {
			return err
		}
		return sentinel // force rollback
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("WithinTx: want sentinel, got %v", err)
	}

	if _, err := loanRepo.GetByLoanIDAndMember(ctx, "LN-ROLLBACK00", member); !errors.Is(err, domainLoan.ErrNotFound) {
		t.Fatalf("loan visible after rollback: %v", err)
	}
}

func TestGormUoW_WithinLoanTx(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)

	member := id.NewID32()
	seed := makeLoan("LN-TARGET0000", member)
	seed.Status = domainLoan.StatusActive
	if err := loanRepo.Create(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	err := guow.WithinLoanTx(ctx, "LN-TARGET0000", member, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.LoanID != "LN-TARGET0000" || l.MemberID != member {
			t.Fatalf("wrong loan fetched: %+v", l)
		}
		if l.Status != domainLoan.StatusActive {
			t.Fatalf("status = %s, want active", l.Status)
		}
		l.Status = domainLoan.StatusCompleted
		l.OpenMemberSlot = nil
		return r.Loans.Save(ctx, l)
	})
	if err != nil {
		t.Fatalf("WithinLoanTx: %v", err)
	}

	got, err := loanRepo.GetByLoanIDAndMember(ctx, "LN-TARGET0000", member)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Status != domainLoan.StatusCompleted || got.OpenMemberSlot != nil {
		t.Errorf("update lost: %+v", got)
	}
}

func TestGormUoW_WithinLoanTx_NotFound(t *testing.T) {
	db := testdb.Open(t)
	guow := NewGormUoW(db)

	err := guow.WithinLoanTx(context.Background(), "LN-MISSING000", "nobody", func(uow.Repos, *domainLoan.Loan) error {
		t.Fatalf("body must not run")
		return nil
	})
	if !errors.Is(err, domainLoan.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
