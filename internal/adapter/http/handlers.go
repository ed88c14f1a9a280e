package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Handler serves the routes that belong to no aggregate.
type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

// Health is the liveness probe for the engine's deployment.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}
