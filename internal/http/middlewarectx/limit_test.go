package middlewarectx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func newNoopLoggerLimit() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRateLimitMiddleware(t *testing.T) {
	logger := newNoopLoggerLimit()

	// Создаем тестовый handler
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("success")); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	})

	t.Run("allows requests within rate limit", func(t *testing.T) {
		middleware := RateLimitMiddleware(logger, rate.NewLimiter(10, 10))
		req := httptest.NewRequest(http.MethodPost, "/api/novapay/create-payment", nil)

		for i := 0; i < 10; i++ {
			w := httptest.NewRecorder()
			middleware(testHandler).ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "success", w.Body.String())
		}
	})

	t.Run("blocks requests exceeding rate limit", func(t *testing.T) {
		middleware := RateLimitMiddleware(logger, rate.NewLimiter(1, 1))
		req := httptest.NewRequest(http.MethodPost, "/api/novapay/create-payment", nil)

		w := httptest.NewRecorder()
		middleware(testHandler).ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		middleware(testHandler).ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"error":true,"message":"too many requests"}`, w.Body.String())
	})
}

func TestNewLimiter(t *testing.T) {
	t.Run("disabled when rps is zero", func(t *testing.T) {
		l := NewLimiter(0, 0)
		for i := 0; i < 100; i++ {
			assert.True(t, l.Allow())
		}
	})

	t.Run("burst is at least one", func(t *testing.T) {
		l := NewLimiter(0.001, 0)
		assert.Equal(t, 1, l.Burst())
		assert.True(t, l.Allow())
		assert.False(t, l.Allow())
	})
}
