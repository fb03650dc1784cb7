package rest_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	rest "github.com/Gunvolt24/ginutils/internal/transport/http"
	"github.com/Gunvolt24/ginutils/pkg/httpx"
	"github.com/Gunvolt24/ginutils/pkg/metrics"
	"github.com/gin-gonic/gin"
)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

func newEngine(hooks *httpx.Hooks) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return rest.NewEngine(rest.EngineOptions{Log: noopLogger{}, Hooks: hooks})
}

func TestPing_200(t *testing.T) {
	r := newEngine(nil)

	req := httptest.NewRequest(http.MethodGet, "/ping", http.NoBody)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK || w.Body.String() != "pong" {
		t.Fatalf("want 200 pong, got %d %q", w.Code, w.Body.String())
	}
}

func TestMetrics_200(t *testing.T) {
	metrics.MustRegister()
	r := newEngine(nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	// Содержимое может меняться — достаточно проверить, что не пусто.
	if w.Body.Len() == 0 {
		t.Fatal("metrics body is empty")
	}
}

func TestNoRoute_404(t *testing.T) {
	r := newEngine(nil)

	req := httptest.NewRequest(http.MethodGet, "/no-such-route", http.NoBody)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d, body=%s", w.Code, w.Body.String())
	}
}

func TestMethodNotAllowed_405(t *testing.T) {
	r := newEngine(nil)

	req := httptest.NewRequest(http.MethodPost, "/ping", http.NoBody)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("want 405, got %d, body=%s", w.Code, w.Body.String())
	}
}

func TestRequestID_Header(t *testing.T) {
	r := newEngine(nil)

	req := httptest.NewRequest(http.MethodGet, "/ping", http.NoBody)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get(httpx.HeaderRequestID) == "" {
		t.Fatalf("X-Request-ID must be set")
	}
}

// Служебные маршруты регистрируются до хуков и не открывают сессий.
func TestHooks_NotAppliedToServiceRoutes(t *testing.T) {
	hooks := httpx.NewHooks()
	called := 0
	hooks.BeforeRequest(func(*gin.Context) error { called++; return nil })

	r := newEngine(hooks)
	r.GET("/app", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, path := range []string{"/ping", "/app"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
	}
	if called != 1 {
		t.Fatalf("before hook: want 1 call (only /app), got %d", called)
	}
}
