package http

import (
	"net/http"

	savingsuc "microfin-ledger/internal/usecase/savings"

	"github.com/labstack/echo/v4"
)

type SavingsHandler struct{ uc *savingsuc.Usecase }

func NewSavingsHandler(uc *savingsuc.Usecase) *SavingsHandler { return &SavingsHandler{uc: uc} }

type savingsAmountReq struct {
	Amount float64 `json:"amount" validate:"required,gt=0,dec2"`
}

func (h *SavingsHandler) Deposit(c echo.Context) error {
	memberID := c.Param("member_id")
	var req savingsAmountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Deposit(c.Request().Context(), memberID, req.Amount)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *SavingsHandler) Withdraw(c echo.Context) error {
	memberID := c.Param("member_id")
	var req savingsAmountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Withdraw(c.Request().Context(), memberID, req.Amount)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *SavingsHandler) Account(c echo.Context) error {
	dto, err := h.uc.Account(c.Request().Context(), c.Param("member_id"))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
