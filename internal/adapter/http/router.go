package http

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes wires the engine's surface. Mutating routes are expected to
// sit behind the idempotency middleware, registered by the caller.
func RegisterRoutes(e *echo.Echo, h *Handler, members *MemberHandler, savings *SavingsHandler, loans *LoanHandler, repayments *RepaymentHandler) {
	e.GET("/health", h.Health)

	e.POST("/members", members.CreateMember)
	e.GET("/members/:member_id", members.GetMember)

	e.POST("/members/:member_id/savings/deposit", savings.Deposit)
	e.POST("/members/:member_id/savings/withdraw", savings.Withdraw)
	e.GET("/members/:member_id/savings", savings.Account)

	e.POST("/loans", loans.CreateLoan)
	e.POST("/loans/group", loans.CreateGroupLoan)
	e.POST("/loans/:loan_id/collateral/rebind", loans.RebindCollateral)
	e.POST("/loans/:loan_id/activate", loans.Activate)
	e.POST("/loans/:loan_id/reject", loans.Reject)
	e.POST("/loans/:loan_id/repayments", repayments.Pay)

	e.GET("/loans/:loan_id", loans.GetLoan)
	e.GET("/loans/:loan_id/schedule", loans.GetSchedule)
	e.GET("/loans/:loan_id/collateral", loans.GetCollateral)
}
