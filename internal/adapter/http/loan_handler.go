package http

import (
	"net/http"
	"time"

	domainLoan "microfin-ledger/internal/domain/loan"
	loanuc "microfin-ledger/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *loanuc.Usecase }

func NewLoanHandler(uc *loanuc.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type createLoanReq struct {
	MemberID  string  `json:"member_id"  validate:"required,hex32"`
	Principal float64 `json:"principal"  validate:"required,gt=0,dec2"`
	Frequency string  `json:"frequency"  validate:"required,oneof=daily weekly monthly"`
	Count     int     `json:"count"      validate:"required,gt=0"`
	// Canonical date `YYYY-MM-DD`
	DisbursementDate string `json:"disbursement_date" validate:"required,datetime=2006-01-02"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	disbursed, _ := time.Parse("2006-01-02", req.DisbursementDate)
	dto, err := h.uc.CreateIndividual(c.Request().Context(), loanuc.CreateIndividualInput{
		MemberID:         req.MemberID,
		Principal:        req.Principal,
		Frequency:        domainLoan.Frequency(req.Frequency),
		Count:            req.Count,
		DisbursementDate: disbursed,
	})
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type createGroupLoanReq struct {
	GroupID          string             `json:"group_id"       validate:"required,hex32"`
	Total            float64            `json:"total"          validate:"required,gt=0,dec2"`
	MemberAmounts    map[string]float64 `json:"member_amounts" validate:"required,min=1,dive,keys,hex32,endkeys,gt=0,dec2"`
	Frequency        string             `json:"frequency"      validate:"required,oneof=daily weekly monthly"`
	Count            int                `json:"count"          validate:"required,gt=0"`
	DisbursementDate string             `json:"disbursement_date" validate:"required,datetime=2006-01-02"`
}

func (h *LoanHandler) CreateGroupLoan(c echo.Context) error {
	var req createGroupLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	disbursed, _ := time.Parse("2006-01-02", req.DisbursementDate)
	dto, err := h.uc.CreateGroup(c.Request().Context(), loanuc.CreateGroupInput{
		GroupID:          req.GroupID,
		Total:            req.Total,
		MemberAmounts:    req.MemberAmounts,
		Frequency:        domainLoan.Frequency(req.Frequency),
		Count:            req.Count,
		DisbursementDate: disbursed,
	})
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type rebindCollateralReq struct {
	MemberID string `json:"member_id" validate:"required,hex32"`
}

func (h *LoanHandler) RebindCollateral(c echo.Context) error {
	var req rebindCollateralReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.RebindCollateral(c.Request().Context(), c.Param("loan_id"), req.MemberID)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// Activate consumes the approval workflow's decision signal.
func (h *LoanHandler) Activate(c echo.Context) error {
	dto, err := h.uc.Activate(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Reject(c echo.Context) error {
	dto, err := h.uc.Reject(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) GetSchedule(c echo.Context) error {
	memberID := c.QueryParam("member_id")
	if memberID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing member_id query param"})
	}
	dto, err := h.uc.Schedule(c.Request().Context(), c.Param("loan_id"), memberID)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) GetCollateral(c echo.Context) error {
	dto, err := h.uc.CollateralStatus(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
