package loan

import (
	"time"

	domainCollateral "microfin-ledger/internal/domain/collateral"
	domainLoan "microfin-ledger/internal/domain/loan"
)

type LoanDTO struct {
	LoanID             string         `json:"loan_id"`
	MemberID           string         `json:"member_id"`
	GroupID            string         `json:"group_id,omitempty"`
	Principal          float64        `json:"principal"`
	InterestRate       float64        `json:"interest_rate"`
	InstallmentCount   int            `json:"installment_count"`
	Frequency          string         `json:"frequency"`
	DisbursementDate   time.Time      `json:"disbursement_date"`
	Status             string         `json:"status"`
	CapitalOutstanding float64        `json:"capital_outstanding"`
	Collateral         *CollateralDTO `json:"collateral,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
}

type GroupLoanDTO struct {
	LoanID  string    `json:"loan_id"`
	GroupID string    `json:"group_id,omitempty"`
	Total   float64   `json:"total"`
	Status  string    `json:"status"`
	Members []LoanDTO `json:"members"`
}

type InstallmentDTO struct {
	Seq                int        `json:"seq"`
	ScheduledPrincipal float64    `json:"scheduled_principal"`
	ScheduledInterest  float64    `json:"scheduled_interest"`
	DueDate            time.Time  `json:"due_date"`
	Status             string     `json:"status"`
	PaidPrincipal      float64    `json:"paid_principal"`
	PaidInterest       float64    `json:"paid_interest"`
	PaidAmount         float64    `json:"paid_amount"`
	PaymentDate        *time.Time `json:"payment_date,omitempty"`
}

type CollateralDTO struct {
	CollateralID string  `json:"collateral_id"`
	LoanID       string  `json:"loan_id"`
	MemberID     string  `json:"member_id"`
	Required     float64 `json:"required"`
	Deposited    float64 `json:"deposited"`
	Remaining    float64 `json:"remaining"`
	Status       string  `json:"status"`
}

type LoanStatusDTO struct {
	LoanID string `json:"loan_id"`
	Status string `json:"status"`
}

func toLoanDTO(l *domainLoan.Loan, col *domainCollateral.Collateral) *LoanDTO {
	dto := &LoanDTO{
		LoanID:             l.LoanID,
		MemberID:           l.MemberID,
		Principal:          l.Principal,
		InterestRate:       l.InterestRate,
		InstallmentCount:   l.InstallmentCount,
		Frequency:          string(l.Frequency),
		DisbursementDate:   l.DisbursementDate,
		Status:             string(l.Status),
		CapitalOutstanding: l.CapitalOutstanding,
		CreatedAt:          l.CreatedAt,
	}
	if l.GroupID != nil {
		dto.GroupID = *l.GroupID
	}
	if col != nil {
		dto.Collateral = toCollateralDTO(col)
	}
	return dto
}

func toCollateralDTO(c *domainCollateral.Collateral) *CollateralDTO {
	return &CollateralDTO{
		CollateralID: c.CollateralID,
		LoanID:       c.LoanID,
		MemberID:     c.MemberID,
		Required:     c.Required,
		Deposited:    c.Deposited,
		Remaining:    c.Remaining,
		Status:       string(c.Status),
	}
}

func toInstallmentDTO(inst *domainLoan.Installment) *InstallmentDTO {
	return &InstallmentDTO{
		Seq:                inst.Seq,
		ScheduledPrincipal: inst.ScheduledPrincipal,
		ScheduledInterest:  inst.ScheduledInterest,
		DueDate:            inst.DueDate,
		Status:             string(inst.Status),
		PaidPrincipal:      inst.PaidPrincipal,
		PaidInterest:       inst.PaidInterest,
		PaidAmount:         inst.PaidAmount,
		PaymentDate:        inst.PaymentDate,
	}
}
