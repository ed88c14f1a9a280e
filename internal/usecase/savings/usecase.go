package savings

import (
	"context"
	"time"

	domainSavings "microfin-ledger/internal/domain/savings"
	"microfin-ledger/internal/domain/uow"
	"microfin-ledger/pkg/id"
	"microfin-ledger/pkg/money"
)

type Usecase struct {
	repo domainSavings.Repository
	uow  uow.UnitOfWork
}

func NewUsecase(repo domainSavings.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{repo: repo, uow: tx}
}

type TransactionDTO struct {
	TxnID     string    `json:"txn_id"`
	MemberID  string    `json:"member_id"`
	Amount    float64   `json:"amount"`
	Kind      string    `json:"kind"`
	Blocked   bool      `json:"blocked"`
	CreatedAt time.Time `json:"created_at"`
}

type AccountDTO struct {
	MemberID  string           `json:"member_id"`
	Balance   float64          `json:"balance"`
	Available float64          `json:"available_balance"`
	Statement []TransactionDTO `json:"statement"`
}

func toDTO(t *domainSavings.Transaction) *TransactionDTO {
	return &TransactionDTO{
		TxnID:     t.TxnID,
		MemberID:  t.MemberID,
		Amount:    t.Amount,
		Kind:      string(t.Kind),
		Blocked:   t.Blocked,
		CreatedAt: t.CreatedAt,
	}
}

func (u *Usecase) Deposit(ctx context.Context, memberID string, amount float64) (*TransactionDTO, error) {
	if amount <= 0 {
		return nil, domainSavings.ErrInvalidAmount
	}
	var dto *TransactionDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Members.GetByMemberID(ctx, memberID); err != nil {
			return err
		}
		txn := &domainSavings.Transaction{
			TxnID:    id.NewID32(),
			MemberID: memberID,
			Amount:   money.Round2(amount),
			Kind:     domainSavings.KindDeposit,
		}
		if err := r.Savings.Create(ctx, txn); err != nil {
			return err
		}
		dto = toDTO(txn)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Withdraw checks the available balance and appends the withdrawal in one
// transaction, so two concurrent withdrawals cannot both pass the check.
// Blocked deposits never count towards what is withdrawable.
func (u *Usecase) Withdraw(ctx context.Context, memberID string, amount float64) (*TransactionDTO, error) {
	if amount <= 0 {
		return nil, domainSavings.ErrInvalidAmount
	}
	var dto *TransactionDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Members.GetByMemberID(ctx, memberID); err != nil {
			return err
		}
		available, err := r.Savings.AvailableBalance(ctx, memberID)
		if err != nil {
			return err
		}
		// Strict to the cent: the available balance never goes below zero.
		if money.Round2(amount) > money.Round2(available) {
			return domainSavings.ErrInsufficientAvailableBalance
		}
		txn := &domainSavings.Transaction{
			TxnID:    id.NewID32(),
			MemberID: memberID,
			Amount:   money.Round2(amount),
			Kind:     domainSavings.KindWithdrawal,
		}
		if err := r.Savings.Create(ctx, txn); err != nil {
			return err
		}
		dto = toDTO(txn)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) Account(ctx context.Context, memberID string) (*AccountDTO, error) {
	balance, err := u.repo.Balance(ctx, memberID)
	if err != nil {
		return nil, err
	}
	available, err := u.repo.AvailableBalance(ctx, memberID)
	if err != nil {
		return nil, err
	}
	txns, err := u.repo.ListByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	out := &AccountDTO{
		MemberID:  memberID,
		Balance:   balance,
		Available: available,
		Statement: make([]TransactionDTO, 0, len(txns)),
	}
	for i := range txns {
		out.Statement = append(out.Statement, *toDTO(&txns[i]))
	}
	return out, nil
}
