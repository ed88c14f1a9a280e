package mysql

import (
	"context"
	"testing"

	domain "microfin-ledger/internal/domain/savings"
	"microfin-ledger/internal/testutil/testdb"
	"microfin-ledger/pkg/id"
)

func seedTxn(t *testing.T, repo *SavingsRepository, memberID string, amount float64, kind domain.Kind) *domain.Transaction {
	t.Helper()
	txn := &domain.Transaction{
		TxnID:    id.NewID32(),
		MemberID: memberID,
		Amount:   amount,
		Kind:     kind,
	}
	if err := repo.Create(context.Background(), txn); err != nil {
		t.Fatalf("Create %s %.2f: %v", kind, amount, err)
	}
	return txn
}

func TestSavingsBalances(t *testing.T) {
	db := testdb.Open(t)
	repo := NewSavingsRepository(db)
	ctx := context.Background()
	member := id.NewID32()

	seedTxn(t, repo, member, 500, domain.KindDeposit)
	seedTxn(t, repo, member, 300, domain.KindDeposit)
	seedTxn(t, repo, member, 200, domain.KindWithdrawal)
	// another member's money must not leak in
	seedTxn(t, repo, id.NewID32(), 999, domain.KindDeposit)

	balance, err := repo.Balance(ctx, member)
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if balance != 600 {
		t.Errorf("balance = %.2f, want 600.00", balance)
	}

	available, err := repo.AvailableBalance(ctx, member)
	if err != nil {
		t.Fatalf("AvailableBalance: %v", err)
	}
	if available != 600 {
		t.Errorf("available = %.2f, want 600.00", available)
	}
}

func TestSavingsBlockUnblock(t *testing.T) {
	db := testdb.Open(t)
	repo := NewSavingsRepository(db)
	ctx := context.Background()
	member := id.NewID32()
	const loanID = "LN-AB12CD34EF"

	first := seedTxn(t, repo, member, 400, domain.KindDeposit)
	second := seedTxn(t, repo, member, 600, domain.KindDeposit)
	seedTxn(t, repo, member, 100, domain.KindWithdrawal)

	// oldest first: this is the order the binder consumes
	deposits, err := repo.ListUnblockedDeposits(ctx, member)
	if err != nil {
		t.Fatalf("ListUnblockedDeposits: %v", err)
	}
	if len(deposits) != 2 || deposits[0].ID != first.ID || deposits[1].ID != second.ID {
		t.Fatalf("unexpected deposit order: %+v", deposits)
	}

	if err := repo.BlockForLoan(ctx, []uint64{first.ID}, loanID); err != nil {
		t.Fatalf("BlockForLoan: %v", err)
	}

	blocked, err := repo.SumBlockedForLoan(ctx, loanID, member)
	if err != nil {
		t.Fatalf("SumBlockedForLoan: %v", err)
	}
	if blocked != 400 {
		t.Errorf("blocked = %.2f, want 400.00", blocked)
	}

	available, err := repo.AvailableBalance(ctx, member)
	if err != nil {
		t.Fatalf("AvailableBalance: %v", err)
	}
	if available != 500 { // 400+600-100 balance, minus 400 blocked
		t.Errorf("available = %.2f, want 500.00", available)
	}

	deposits, err = repo.ListUnblockedDeposits(ctx, member)
	if err != nil {
		t.Fatalf("ListUnblockedDeposits after block: %v", err)
	}
	if len(deposits) != 1 || deposits[0].ID != second.ID {
		t.Fatalf("blocked deposit still listed: %+v", deposits)
	}

	if err := repo.UnblockForLoanMember(ctx, loanID, member); err != nil {
		t.Fatalf("UnblockForLoanMember: %v", err)
	}
	blocked, err = repo.SumBlockedForLoan(ctx, loanID, member)
	if err != nil {
		t.Fatalf("SumBlockedForLoan after unblock: %v", err)
	}
	if blocked != 0 {
		t.Errorf("blocked after unblock = %.2f, want 0", blocked)
	}

	all, err := repo.ListByMember(ctx, member)
	if err != nil {
		t.Fatalf("ListByMember: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ListByMember len = %d, want 3", len(all))
	}
	for _, txn := range all {
		if txn.Blocked || txn.BlockedForLoan != nil {
			t.Errorf("txn %d still blocked: %+v", txn.ID, txn)
		}
	}
}

func TestSavingsUnblockForLoan_AllMembers(t *testing.T) {
	db := testdb.Open(t)
	repo := NewSavingsRepository(db)
	ctx := context.Background()
	const loanID = "LN-1122334455"

	m1, m2 := id.NewID32(), id.NewID32()
	a := seedTxn(t, repo, m1, 100, domain.KindDeposit)
	b := seedTxn(t, repo, m2, 200, domain.KindDeposit)
	if err := repo.BlockForLoan(ctx, []uint64{a.ID, b.ID}, loanID); err != nil {
		t.Fatalf("BlockForLoan: %v", err)
	}

	if err := repo.UnblockForLoan(ctx, loanID); err != nil {
		t.Fatalf("UnblockForLoan: %v", err)
	}
	for _, m := range []string{m1, m2} {
		sum, err := repo.SumBlockedForLoan(ctx, loanID, m)
		if err != nil {
			t.Fatalf("SumBlockedForLoan(%s): %v", m, err)
		}
		if sum != 0 {
			t.Errorf("member %s still has %.2f blocked", m, sum)
		}
	}
}
