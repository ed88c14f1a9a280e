package repayment

import (
	"context"
	"time"

	domainLoan "microfin-ledger/internal/domain/loan"
	"microfin-ledger/internal/domain/uow"
	"microfin-ledger/pkg/money"
)

type Usecase struct{ uow uow.UnitOfWork }

func NewUsecase(tx uow.UnitOfWork) *Usecase { return &Usecase{uow: tx} }

type PayInput struct {
	LoanID      string
	MemberID    string
	Seq         int
	Amount      float64
	PaymentDate time.Time
}

type ReceiptDTO struct {
	LoanID             string  `json:"loan_id"`
	MemberID           string  `json:"member_id"`
	Seq                int     `json:"seq"`
	InterestPortion    float64 `json:"interest_portion"`
	PrincipalPortion   float64 `json:"principal_portion"`
	InstallmentStatus  string  `json:"installment_status"`
	LoanStatus         string  `json:"loan_status"`
	CapitalOutstanding float64 `json:"capital_outstanding"`
}

// Pay allocates a payment against one installment: interest first, principal
// with whatever is left, cumulative paid amounts capped at the scheduled
// values. The read and write happen under the locked loan row, so two
// concurrent payments cannot double-credit the same installment.
//
// Only the loan's lowest-sequence non-paid installment accepts payment; a
// partial installment is always that one and must be cleared before the next
// in line opens up.
func (u *Usecase) Pay(ctx context.Context, in PayInput) (*ReceiptDTO, error) {
	if in.Amount <= 0 {
		return nil, domainLoan.ErrInvalidPaymentAmount
	}
	var dto *ReceiptDTO
	err := u.uow.WithinLoanTx(ctx, in.LoanID, in.MemberID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.Status != domainLoan.StatusActive {
			return domainLoan.ErrInvalidTransition
		}
		insts, err := r.Installments.ListByLoanRef(ctx, l.ID)
		if err != nil {
			return err
		}

		next := -1
		for i := range insts {
			if insts[i].Status != domainLoan.InstallmentPaid {
				next = i
				break
			}
		}
		if next < 0 || insts[next].Seq != in.Seq {
			return domainLoan.ErrOutOfOrderPayment
		}
		target := &insts[next]

		interestDue := money.Round2(target.ScheduledInterest - target.PaidInterest)
		if interestDue < 0 {
			interestDue = 0
		}
		principalDue := money.Round2(target.ScheduledPrincipal - target.PaidPrincipal)
		if principalDue < 0 {
			principalDue = 0
		}
		totalDue := money.Round2(interestDue + principalDue)
		if in.Amount > totalDue+money.Epsilon {
			return domainLoan.ErrInvalidPaymentAmount
		}

		interestPortion := in.Amount
		if interestPortion > interestDue {
			interestPortion = interestDue
		}
		principalPortion := money.Round2(in.Amount - interestPortion)
		if principalPortion > principalDue {
			principalPortion = principalDue
		}

		target.PaidInterest = money.Round2(target.PaidInterest + interestPortion)
		target.PaidPrincipal = money.Round2(target.PaidPrincipal + principalPortion)
		target.PaidAmount = money.Round2(target.PaidAmount + interestPortion + principalPortion)
		when := in.PaymentDate
		target.PaymentDate = &when

		scheduled := money.Round2(target.ScheduledInterest + target.ScheduledPrincipal)
		if money.Round2(target.PaidInterest+target.PaidPrincipal) >= scheduled-money.Epsilon {
			// snap to the scheduled values so the ledger closes penny-exact
			target.PaidInterest = target.ScheduledInterest
			target.PaidPrincipal = target.ScheduledPrincipal
			target.Status = domainLoan.InstallmentPaid
		} else {
			target.Status = domainLoan.InstallmentPartial
		}
		if err := r.Installments.Save(ctx, target); err != nil {
			return err
		}

		// capital outstanding is always re-derived from the installment set,
		// never adjusted by delta
		var outstanding float64
		allPaid := true
		for i := range insts {
			outstanding = money.Round2(outstanding + insts[i].ScheduledPrincipal - insts[i].PaidPrincipal)
			if insts[i].Status != domainLoan.InstallmentPaid {
				allPaid = false
			}
		}
		if outstanding < 0 {
			outstanding = 0
		}
		l.CapitalOutstanding = outstanding

		if allPaid {
			l.Status = domainLoan.StatusCompleted
			l.OpenMemberSlot = nil
			l.StatusUpdatedAt = time.Now().UTC()
			// closure bookkeeping: release this member's pledged savings
			if err := r.Savings.UnblockForLoanMember(ctx, l.LoanID, l.MemberID); err != nil {
				return err
			}
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		dto = &ReceiptDTO{
			LoanID:             l.LoanID,
			MemberID:           l.MemberID,
			Seq:                target.Seq,
			InterestPortion:    interestPortion,
			PrincipalPortion:   principalPortion,
			InstallmentStatus:  string(target.Status),
			LoanStatus:         string(l.Status),
			CapitalOutstanding: l.CapitalOutstanding,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}
