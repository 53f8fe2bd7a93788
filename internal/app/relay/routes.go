package relay

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	_ "github.com/magabrotheeeer/novapay-relay/docs" // swagger spec
	"github.com/magabrotheeeer/novapay-relay/internal/http/handlers/payment/paymentcreate"
	"github.com/magabrotheeeer/novapay-relay/internal/http/handlers/payment/paymentwebhook"
	"github.com/magabrotheeeer/novapay-relay/internal/http/middlewarectx"
	"github.com/magabrotheeeer/novapay-relay/internal/metrics"
)

// Deps зависимости обработчиков
type Deps struct {
	PaymentService paymentcreate.Service
	Metrics        *metrics.RelayMetrics
	Limiter        *rate.Limiter
	Gatherer       prometheus.Gatherer
	AdminFS        fs.FS
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Route("/api/novapay", func(r chi.Router) {
		r.With(middlewarectx.RateLimitMiddleware(logger, deps.Limiter)).
			Post("/create-payment", paymentcreate.New(logger, deps.PaymentService).ServeHTTP)

		// Webhook endpoint (без аутентификации)
		r.Post("/webhook", paymentwebhook.New(logger, deps.Metrics).ServeHTTP)
	})

	// Админка
	r.Get("/admin", http.RedirectHandler("/admin/", http.StatusMovedPermanently).ServeHTTP)
	r.Handle("/admin/*", http.StripPrefix("/admin/", http.FileServer(http.FS(deps.AdminFS))))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
