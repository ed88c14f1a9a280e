package loan

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound              = errors.New("loan not found")
	ErrInvalidTransition     = errors.New("invalid loan state transition")
	ErrInvalidScheduleInput  = errors.New("invalid schedule input")
	ErrDuplicateActiveLoan   = errors.New("member already has an open loan")
	ErrIDAllocationExhausted = errors.New("loan id allocation exhausted")
	ErrAmountMismatch        = errors.New("member amounts do not sum to group principal")
	ErrOutOfOrderPayment     = errors.New("installment is not the next payable one")
	ErrInvalidPaymentAmount  = errors.New("invalid payment amount")

	// ErrLoanIDCollision is the retryable signal from the ID registry; callers
	// regenerate a candidate and try again (bounded).
	ErrLoanIDCollision = errors.New("loan id already allocated")
)

type Status string

const (
	StatusAwaitingCollateral Status = "awaiting_collateral"
	StatusAwaitingApproval   Status = "awaiting_approval"
	StatusActive             Status = "active"
	StatusCompleted          Status = "completed"
	StatusRejected           Status = "rejected"
)

// Terminal reports whether the status frees the member's open-loan slot.
func (s Status) Terminal() bool { return s == StatusCompleted || s == StatusRejected }

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// Loan is one member's repayment obligation. A group loan is stored as one
// row per member, all sharing the same LoanID.
type Loan struct {
	ID       uint64  `gorm:"primaryKey;column:id" json:"-"`
	LoanID   string  `gorm:"size:32;uniqueIndex:ux_loans_loan_member" json:"loan_id"`
	MemberID string  `gorm:"size:32;uniqueIndex:ux_loans_loan_member;index:idx_loans_member" json:"member_id"`
	GroupID  *string `gorm:"size:32;index:idx_loans_group" json:"group_id,omitempty"`
	// OpenMemberSlot mirrors MemberID while the loan is non-terminal and is
	// NULLed on completion/rejection. The unique index is the storage-level
	// guard for "at most one open loan per member": concurrent creates lose
	// on the index instead of racing a check-then-insert.
	OpenMemberSlot     *string        `gorm:"size:32;uniqueIndex:ux_loans_member_open" json:"-"`
	Principal          float64        `gorm:"type:decimal(18,2)" json:"principal"`
	InterestRate       float64        `gorm:"type:decimal(6,4)" json:"interest_rate"`
	InstallmentCount   int            `json:"installment_count"`
	Frequency          Frequency      `gorm:"type:enum('daily','weekly','monthly')" json:"frequency"`
	DisbursementDate   time.Time      `gorm:"type:date" json:"disbursement_date"`
	Status             Status         `gorm:"type:enum('awaiting_collateral','awaiting_approval','active','completed','rejected');default:'awaiting_collateral'" json:"status"`
	CapitalOutstanding float64        `gorm:"type:decimal(18,2)" json:"capital_outstanding"`
	StatusUpdatedAt    time.Time      `gorm:"autoCreateTime" json:"status_updated_at"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// IDRecord reserves a loan identifier before any sub-loan row is written.
// Group sub-loans share a LoanID, so loans.loan_id alone cannot carry a
// unique index; this registry is what the optimistic insert-retry races on.
type IDRecord struct {
	ID        uint64    `gorm:"primaryKey;column:id"`
	LoanID    string    `gorm:"size:32;uniqueIndex:ux_loan_ids_loan_id"`
	Kind      string    `gorm:"size:16"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (IDRecord) TableName() string { return "loan_ids" }

type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "pending"
	InstallmentPartial InstallmentStatus = "partial"
	InstallmentPaid    InstallmentStatus = "paid"
)

// Installment is one scheduled repayment unit. Invariants: PaidPrincipal ≤
// ScheduledPrincipal and PaidInterest ≤ ScheduledInterest at all times.
type Installment struct {
	ID                 uint64            `gorm:"primaryKey;column:id" json:"-"`
	LoanRef            uint64            `gorm:"column:loan_ref;uniqueIndex:ux_installments_loan_seq;index:idx_installments_loan" json:"-"`
	Seq                int               `gorm:"uniqueIndex:ux_installments_loan_seq" json:"seq"`
	ScheduledPrincipal float64           `gorm:"type:decimal(18,2)" json:"scheduled_principal"`
	ScheduledInterest  float64           `gorm:"type:decimal(18,2)" json:"scheduled_interest"`
	DueDate            time.Time         `gorm:"type:date" json:"due_date"`
	Status             InstallmentStatus `gorm:"type:enum('pending','partial','paid');default:'pending'" json:"status"`
	PaidPrincipal      float64           `gorm:"type:decimal(18,2);default:0" json:"paid_principal"`
	PaidInterest       float64           `gorm:"type:decimal(18,2);default:0" json:"paid_interest"`
	PaidAmount         float64           `gorm:"type:decimal(18,2);default:0" json:"paid_amount"`
	PaymentDate        *time.Time        `gorm:"type:date" json:"payment_date,omitempty"`
	CreatedAt          time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Installment) TableName() string { return "installments" }
