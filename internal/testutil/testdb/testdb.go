package testdb

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLite-friendly schemas for tests only: same tables and indexes as the
// domain entities, but no MySQL ENUM column types. Production schemas come
// from the domain models; keep index names in sync because the error
// translation matches on them.

type MemberRow struct {
	ID        uint64         `gorm:"primaryKey;column:id"`
	MemberID  string         `gorm:"size:32;uniqueIndex:ux_members_member_id;column:member_id"`
	AgentID   string         `gorm:"size:32;column:agent_id"`
	FullName  string         `gorm:"column:full_name"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (MemberRow) TableName() string { return "members" }

type LoanRow struct {
	ID                 uint64         `gorm:"primaryKey;column:id"`
	LoanID             string         `gorm:"size:32;uniqueIndex:ux_loans_loan_member;column:loan_id"`
	MemberID           string         `gorm:"size:32;uniqueIndex:ux_loans_loan_member;column:member_id"`
	GroupID            *string        `gorm:"size:32;column:group_id"`
	OpenMemberSlot     *string        `gorm:"size:32;uniqueIndex:ux_loans_member_open;column:open_member_slot"`
	Principal          float64        `gorm:"column:principal"`
	InterestRate       float64        `gorm:"column:interest_rate"`
	InstallmentCount   int            `gorm:"column:installment_count"`
	Frequency          string         `gorm:"type:text;column:frequency"`
	DisbursementDate   time.Time      `gorm:"column:disbursement_date"`
	Status             string         `gorm:"type:text;column:status"`
	CapitalOutstanding float64        `gorm:"column:capital_outstanding"`
	StatusUpdatedAt    time.Time      `gorm:"column:status_updated_at"`
	CreatedAt          time.Time      `gorm:"column:created_at"`
	UpdatedAt          time.Time      `gorm:"column:updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (LoanRow) TableName() string { return "loans" }

type LoanIDRow struct {
	ID        uint64    `gorm:"primaryKey;column:id"`
	LoanID    string    `gorm:"size:32;uniqueIndex:ux_loan_ids_loan_id;column:loan_id"`
	Kind      string    `gorm:"size:16;column:kind"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (LoanIDRow) TableName() string { return "loan_ids" }

type InstallmentRow struct {
	ID                 uint64     `gorm:"primaryKey;column:id"`
	LoanRef            uint64     `gorm:"uniqueIndex:ux_installments_loan_seq;column:loan_ref"`
	Seq                int        `gorm:"uniqueIndex:ux_installments_loan_seq;column:seq"`
	ScheduledPrincipal float64    `gorm:"column:scheduled_principal"`
	ScheduledInterest  float64    `gorm:"column:scheduled_interest"`
	DueDate            time.Time  `gorm:"column:due_date"`
	Status             string     `gorm:"type:text;column:status"`
	PaidPrincipal      float64    `gorm:"column:paid_principal"`
	PaidInterest       float64    `gorm:"column:paid_interest"`
	PaidAmount         float64    `gorm:"column:paid_amount"`
	PaymentDate        *time.Time `gorm:"column:payment_date"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (InstallmentRow) TableName() string { return "installments" }

type SavingsRow struct {
	ID             uint64    `gorm:"primaryKey;column:id"`
	TxnID          string    `gorm:"size:32;uniqueIndex:ux_savings_txn_id;column:txn_id"`
	MemberID       string    `gorm:"size:32;column:member_id"`
	Amount         float64   `gorm:"column:amount"`
	Kind           string    `gorm:"type:text;column:kind"`
	Blocked        bool      `gorm:"column:blocked"`
	BlockedForLoan *string   `gorm:"size:32;column:blocked_for_loan"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (SavingsRow) TableName() string { return "savings_transactions" }

type CollateralRow struct {
	ID           uint64    `gorm:"primaryKey;column:id"`
	CollateralID string    `gorm:"size:32;uniqueIndex:ux_collaterals_collateral_id;column:collateral_id"`
	LoanID       string    `gorm:"size:32;uniqueIndex:ux_collaterals_loan_member;column:loan_id"`
	MemberID     string    `gorm:"size:32;uniqueIndex:ux_collaterals_loan_member;column:member_id"`
	Required     float64   `gorm:"column:required"`
	Deposited    float64   `gorm:"column:deposited"`
	Remaining    float64   `gorm:"column:remaining"`
	Status       string    `gorm:"type:text;column:status"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (CollateralRow) TableName() string { return "collaterals" }

// Open creates an in-memory sqlite DB and migrates the sqlite-safe schemas.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// IMPORTANT: migrate the sqlite-safe models, NOT the domain models.
	if err := db.AutoMigrate(
		&MemberRow{}, &LoanRow{}, &LoanIDRow{}, &InstallmentRow{}, &SavingsRow{}, &CollateralRow{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
