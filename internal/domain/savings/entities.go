package savings

import (
	"errors"
	"time"
)

var (
	ErrNotFound                     = errors.New("savings transaction not found")
	ErrInvalidAmount                = errors.New("amount must be positive")
	ErrInsufficientAvailableBalance = errors.New("insufficient available balance")
)

type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
)

// Transaction is one append-only ledger row. Rows are never updated except
// for the blocked flag pair, which pledges a deposit to a loan as collateral.
// Balance and available balance are always recomputed from the log.
type Transaction struct {
	ID             uint64    `gorm:"primaryKey;column:id" json:"-"`
	TxnID          string    `gorm:"size:32;uniqueIndex:ux_savings_txn_id" json:"txn_id"`
	MemberID       string    `gorm:"size:32;index:idx_savings_member" json:"member_id"`
	Amount         float64   `gorm:"type:decimal(18,2)" json:"amount"`
	Kind           Kind      `gorm:"type:enum('deposit','withdrawal')" json:"kind"`
	Blocked        bool      `gorm:"default:false" json:"blocked"`
	BlockedForLoan *string   `gorm:"size:32;index:idx_savings_blocked_loan" json:"blocked_for_loan,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Transaction) TableName() string { return "savings_transactions" }
