package mysql

import (
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	domainLoan "microfin-ledger/internal/domain/loan"
)

// isUniqueViolation matches duplicate-key failures from both the MySQL driver
// ("Duplicate entry ... for key '<index>'") and sqlite used in tests
// ("UNIQUE constraint failed: <table>.<column>").
func isUniqueViolation(err error, indexOrColumn string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if !strings.Contains(msg, "Duplicate entry") && !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	return strings.Contains(msg, indexOrColumn)
}

// translateLoanCreate maps storage constraint violations onto the engine's
// typed errors: the open-slot index is the "one open loan per member" guard.
func translateLoanCreate(err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err, "ux_loans_member_open") || isUniqueViolation(err, "open_member_slot") {
		return domainLoan.ErrDuplicateActiveLoan
	}
	return err
}

func translateIDAllocate(err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err, "ux_loan_ids_loan_id") || isUniqueViolation(err, "loan_ids.loan_id") {
		return domainLoan.ErrLoanIDCollision
	}
	return err
}

// isTransient reports storage failures worth one retry at the transaction
// boundary (dropped connections, network timeouts).
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr)
}
