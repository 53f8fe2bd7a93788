// Package middlewarectx содержит middleware для HTTP-обработчиков релея.
package middlewarectx

import (
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/novapay-relay/internal/http/response"
)

// RateLimitMiddleware ограничивает частоту запросов общим для всех клиентов лимитером.
// Отказ передаётся флагом error в теле, HTTP-статус остаётся 200.
func RateLimitMiddleware(log *slog.Logger, limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				log.Error("too many requests", slog.String("path", r.URL.Path))
				response.JSON(w, r, response.Error(TooManyRequestsMessage))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// TooManyRequestsMessage сообщение при превышении лимита
const TooManyRequestsMessage = "too many requests"

// NewLimiter создаёт лимитер; rps <= 0 отключает ограничение.
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}
