package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// helper: new Echo with the middleware and a simple route
func setupEcho(rdb *redis.Client, ttl time.Duration, handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(IdempotencyMiddleware(rdb, ttl))
	e.POST("/loans", handler)
	e.GET("/loans", handler) // for non-mutating bypass test
	return e
}

func mkJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(b)
}

func doReq(t *testing.T, e *echo.Echo, method, path string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, rdb
}

func validHeaders() map[string]string {
	return map[string]string{
		"Ax-Request-Id": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		"Ax-Request-At": time.Now().UTC().Format(time.RFC3339),
		"Ax-Agent-Id":   "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
	}
}

// simple handler to exercise respRecorder capture & saveFinal
func okCreatedHandler(c echo.Context) error {
	return c.JSON(http.StatusCreated, map[string]any{"ok": true})
}

func Test_BypassOnGET_NoHeadersRequired(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, 30*time.Second, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "get ok"})
	})
	rec := doReq(t, e, http.MethodGet, "/loans", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func Test_ValidationFailures(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, 30*time.Second, okCreatedHandler)

	cases := map[string]func(h map[string]string){
		"missing Ax-Request-Id": func(h map[string]string) { delete(h, "Ax-Request-Id") },
		"invalid Ax-Request-Id": func(h map[string]string) { h["Ax-Request-Id"] = "NOT-VALID" },
		"invalid Ax-Request-At": func(h map[string]string) { h["Ax-Request-At"] = "not-a-time" },
		"skewed Ax-Request-At": func(h map[string]string) {
			h["Ax-Request-At"] = time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
		},
		"missing Ax-Agent-Id": func(h map[string]string) { delete(h, "Ax-Agent-Id") },
		"invalid Ax-Agent-Id": func(h map[string]string) { h["Ax-Agent-Id"] = "AGENT-1" },
	}
	for name, mutate := range cases {
		h := validHeaders()
		mutate(h)
		rec := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, map[string]int{"x": 1}), h)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s => want 400, got %d", name, rec.Code)
		}
	}
}

func Test_ReplayStoredResponse(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()

	calls := 0
	e := setupEcho(rdb, 30*time.Second, func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusCreated, map[string]any{"ok": true, "call": calls})
	})

	h := validHeaders()
	body := map[string]any{"principal": 10000}

	rec1 := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, body), h)
	if rec1.Code != http.StatusCreated {
		t.Fatalf("first call => want 201, got %d", rec1.Code)
	}

	rec2 := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, body), h)
	if rec2.Code != http.StatusCreated {
		t.Fatalf("replay => want 201, got %d (body=%s)", rec2.Code, rec2.Body.String())
	}
	if calls != 1 {
		t.Fatalf("handler invoked %d times, want 1", calls)
	}
	if !strings.Contains(rec2.Body.String(), `"call":1`) {
		t.Fatalf("replay body is not the stored response: %s", rec2.Body.String())
	}
}

func Test_SameRequestIDDifferentBody_Conflicts(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, 30*time.Second, okCreatedHandler)

	h := validHeaders()
	rec1 := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, map[string]int{"a": 1}), h)
	if rec1.Code != http.StatusCreated {
		t.Fatalf("first call => want 201, got %d", rec1.Code)
	}
	rec2 := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, map[string]int{"a": 2}), h)
	if rec2.Code != http.StatusConflict {
		t.Fatalf("reused id with new body => want 409, got %d", rec2.Code)
	}
}

func Test_InProgressConflicts(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, 30*time.Second, okCreatedHandler)

	// Simulate an in-flight request by planting a provisional entry.
	h := validHeaders()
	body := mkJSONBody(t, map[string]int{"a": 1})
	raw, _ := io.ReadAll(body)
	entry := idempEntry{InProgress: true, BodySHA256: bodyHash(raw), RequestID: h["Ax-Request-Id"], CreatedAt: nowUTC()}
	payload, _ := json.Marshal(entry)
	key := buildKey(http.MethodPost, "/loans", h["Ax-Agent-Id"], h["Ax-Request-Id"])
	if err := mr.Set(key, string(payload)); err != nil {
		t.Fatalf("seed redis: %v", err)
	}

	rec := doReq(t, e, http.MethodPost, "/loans", bytes.NewReader(raw), h)
	if rec.Code != http.StatusConflict {
		t.Fatalf("in-progress => want 409, got %d", rec.Code)
	}
}

func Test_DistinctAgents_DoNotCollide(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()

	calls := 0
	e := setupEcho(rdb, 30*time.Second, func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusCreated, map[string]any{"ok": true})
	})

	body := map[string]int{"a": 1}
	h1 := validHeaders()
	h2 := validHeaders()
	h2["Ax-Agent-Id"] = "cccccccccccccccccccccccccccccccc"

	if rec := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, body), h1); rec.Code != http.StatusCreated {
		t.Fatalf("agent 1 => want 201, got %d", rec.Code)
	}
	if rec := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, body), h2); rec.Code != http.StatusCreated {
		t.Fatalf("agent 2 => want 201, got %d", rec.Code)
	}
	if calls != 2 {
		t.Fatalf("handler invoked %d times, want 2", calls)
	}
}
