package http

import (
	"errors"
	"net/http"

	domainCollateral "microfin-ledger/internal/domain/collateral"
	domainLoan "microfin-ledger/internal/domain/loan"
	domainMember "microfin-ledger/internal/domain/member"
	domainSavings "microfin-ledger/internal/domain/savings"
	"microfin-ledger/internal/domain/uow"

	"github.com/labstack/echo/v4"
)

// jsonError maps the engine's typed errors onto HTTP codes. Policy violations
// are client-facing (4xx); only ErrLedgerUnavailable and unknown errors are
// reported as server faults.
func jsonError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domainLoan.ErrNotFound),
		errors.Is(err, domainMember.ErrNotFound),
		errors.Is(err, domainSavings.ErrNotFound),
		errors.Is(err, domainCollateral.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, domainLoan.ErrDuplicateActiveLoan),
		errors.Is(err, domainLoan.ErrOutOfOrderPayment),
		errors.Is(err, domainLoan.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, domainLoan.ErrInvalidScheduleInput),
		errors.Is(err, domainLoan.ErrInvalidPaymentAmount),
		errors.Is(err, domainLoan.ErrAmountMismatch),
		errors.Is(err, domainSavings.ErrInvalidAmount),
		errors.Is(err, domainSavings.ErrInsufficientAvailableBalance),
		errors.Is(err, domainCollateral.ErrInsufficientCollateral):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})

	case errors.Is(err, uow.ErrLedgerUnavailable),
		errors.Is(err, domainLoan.ErrIDAllocationExhausted):
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
