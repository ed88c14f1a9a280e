package http

import (
	"net/http"
	"time"

	repaymentuc "microfin-ledger/internal/usecase/repayment"

	"github.com/labstack/echo/v4"
)

type RepaymentHandler struct{ uc *repaymentuc.Usecase }

func NewRepaymentHandler(uc *repaymentuc.Usecase) *RepaymentHandler {
	return &RepaymentHandler{uc: uc}
}

type payReq struct {
	MemberID    string  `json:"member_id"    validate:"required,hex32"`
	Seq         int     `json:"seq"          validate:"required,gt=0"`
	Amount      float64 `json:"amount"       validate:"required,gt=0,dec2"`
	PaymentDate string  `json:"payment_date" validate:"required,datetime=2006-01-02"`
}

func (h *RepaymentHandler) Pay(c echo.Context) error {
	var req payReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	when, _ := time.Parse("2006-01-02", req.PaymentDate)
	dto, err := h.uc.Pay(c.Request().Context(), repaymentuc.PayInput{
		LoanID:      c.Param("loan_id"),
		MemberID:    req.MemberID,
		Seq:         req.Seq,
		Amount:      req.Amount,
		PaymentDate: when,
	})
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
