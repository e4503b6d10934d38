package ratelimit

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newTestRouter(store *Store, logs *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(logs, nil))
	r := gin.New()
	r.POST("/auth/signin", Middleware(store, nil, logger), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doPost(r http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/auth/signin", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddleware_BlocksAfterBurst(t *testing.T) {
	store := NewStore(0.5, 2)
	var logs bytes.Buffer
	r := newTestRouter(store, &logs)

	for i := 0; i < 2; i++ {
		if w := doPost(r, "10.0.0.1:1234"); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}

	w := doPost(r, "10.0.0.1:1234")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "2" {
		t.Errorf("expected Retry-After 2, got %q", got)
	}
	if !strings.Contains(logs.String(), "rate limit exceeded") || !strings.Contains(logs.String(), "10.0.0.1") {
		t.Errorf("expected rejection logged with the client key, got %q", logs.String())
	}

	if w := doPost(r, "10.0.0.2:1234"); w.Code != http.StatusOK {
		t.Errorf("expected another client to pass, got %d", w.Code)
	}
}

func TestStore_Cleanup(t *testing.T) {
	store := NewStore(1, 1, WithIdleTTL(-time.Second))
	store.Get("a")
	store.Get("b")

	if store.Len() != 2 {
		t.Fatalf("expected 2 keys, got %d", store.Len())
	}

	store.Cleanup()
	if store.Len() != 0 {
		t.Errorf("expected idle keys to be removed, got %d", store.Len())
	}
}

func TestStore_RetryAfter(t *testing.T) {
	tests := []struct {
		rps  float64
		want time.Duration
	}{
		{rps: 1, want: time.Second},
		{rps: 4, want: 250 * time.Millisecond},
		{rps: 0, want: time.Second},
	}

	for _, tt := range tests {
		if got := NewStore(tt.rps, 1).RetryAfter(); got != tt.want {
			t.Errorf("rps %v: expected %v, got %v", tt.rps, tt.want, got)
		}
	}
}
