package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestHealth(t *testing.T) {
	e := echo.New()
	h := NewHandler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	start := time.Now().UTC()
	if err := h.Health(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	ct := rec.Header().Get(echo.HeaderContentType)
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		t.Fatalf("content type = %q", ct)
	}

	var body struct {
		Status string `json:"status"`
		Time   string `json:"time"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("status field = %q, want ok", body.Status)
	}
	ts, err := time.Parse(time.RFC3339Nano, body.Time)
	if err != nil {
		t.Fatalf("time field %q: %v", body.Time, err)
	}
	if ts.Before(start.Add(-time.Second)) || ts.After(time.Now().UTC().Add(time.Second)) {
		t.Errorf("time field out of range: %v", ts)
	}
}
