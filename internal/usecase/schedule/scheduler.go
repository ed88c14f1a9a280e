package schedule

import (
	"time"

	domainLoan "microfin-ledger/internal/domain/loan"
	"microfin-ledger/pkg/money"
)

type Input struct {
	Principal        float64
	Frequency        domainLoan.Frequency
	Count            int
	DisbursementDate time.Time
	// InterestRate is the system-wide per-installment rate (e.g. 0.15).
	InterestRate float64
}

// Build generates the ordered installment plan for a loan. Pure: no clock, no
// storage. The last installment absorbs the rounding remainder so the
// scheduled principals sum to the original principal exactly.
func Build(in Input) ([]domainLoan.Installment, error) {
	if in.Count <= 0 || in.Principal <= 0 || in.InterestRate < 0 || !in.Frequency.Valid() {
		return nil, domainLoan.ErrInvalidScheduleInput
	}

	base := money.Round2(in.Principal / float64(in.Count))
	out := make([]domainLoan.Installment, 0, in.Count)

	due := in.DisbursementDate
	var allocated float64
	for seq := 1; seq <= in.Count; seq++ {
		due = nextDueDate(due, in.Frequency)

		principal := base
		if seq == in.Count {
			principal = money.Round2(in.Principal - allocated)
		}
		allocated = money.Round2(allocated + principal)

		out = append(out, domainLoan.Installment{
			Seq:                seq,
			ScheduledPrincipal: principal,
			ScheduledInterest:  money.Round2(principal * in.InterestRate),
			DueDate:            due,
			Status:             domainLoan.InstallmentPending,
		})
	}
	return out, nil
}

// nextDueDate steps from the previous due date (or disbursement date) and
// shifts weekend hits onto the following Monday.
func nextDueDate(from time.Time, f domainLoan.Frequency) time.Time {
	var t time.Time
	switch f {
	case domainLoan.FrequencyDaily:
		t = from.AddDate(0, 0, 2)
	case domainLoan.FrequencyWeekly:
		t = from.AddDate(0, 0, 7)
	case domainLoan.FrequencyMonthly:
		t = from.AddDate(0, 1, 0)
	}
	switch t.Weekday() {
	case time.Saturday:
		t = t.AddDate(0, 0, 2)
	case time.Sunday:
		t = t.AddDate(0, 0, 1)
	}
	return t
}
