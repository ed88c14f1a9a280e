package collateral

import (
	"errors"
	"time"
)

var (
	ErrNotFound               = errors.New("collateral not found")
	ErrInsufficientCollateral = errors.New("insufficient collateral")
)

type Status string

const (
	StatusPartial  Status = "partial"
	StatusComplete Status = "complete"
)

// Collateral is the 1:1 satellite of a (loan, member) pair recording how much
// of the required guarantee is pledged. Only the binder creates or updates it.
type Collateral struct {
	ID           uint64    `gorm:"primaryKey;column:id" json:"-"`
	CollateralID string    `gorm:"size:32;uniqueIndex:ux_collaterals_collateral_id" json:"collateral_id"`
	LoanID       string    `gorm:"size:32;uniqueIndex:ux_collaterals_loan_member" json:"loan_id"`
	MemberID     string    `gorm:"size:32;uniqueIndex:ux_collaterals_loan_member" json:"member_id"`
	Required     float64   `gorm:"type:decimal(18,2)" json:"required"`
	Deposited    float64   `gorm:"type:decimal(18,2)" json:"deposited"`
	Remaining    float64   `gorm:"type:decimal(18,2)" json:"remaining"`
	Status       Status    `gorm:"type:enum('partial','complete');default:'partial'" json:"status"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Collateral) TableName() string { return "collaterals" }

// Bracket is one row of the collateral rate table: amounts in [Min, Max)
// use Rate (percent); a nil Rate falls back to the system default.
type Bracket struct {
	Min  float64
	Max  float64
	Rate *float64
}
