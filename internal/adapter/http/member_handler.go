package http

import (
	"net/http"

	memberuc "microfin-ledger/internal/usecase/member"

	"github.com/labstack/echo/v4"
)

type MemberHandler struct{ uc *memberuc.Usecase }

func NewMemberHandler(uc *memberuc.Usecase) *MemberHandler { return &MemberHandler{uc: uc} }

type createMemberReq struct {
	AgentID  string `json:"agent_id"  validate:"required,hex32"`
	FullName string `json:"full_name" validate:"required"`
}

func (h *MemberHandler) CreateMember(c echo.Context) error {
	var req createMemberReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Create(c.Request().Context(), memberuc.CreateInput{AgentID: req.AgentID, FullName: req.FullName})
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *MemberHandler) GetMember(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("member_id"))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
