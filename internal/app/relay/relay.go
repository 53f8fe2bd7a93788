// Package relay собирает зависимости релея и управляет жизненным циклом HTTP-сервера.
package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/magabrotheeeer/novapay-relay/internal/config"
	"github.com/magabrotheeeer/novapay-relay/internal/http/middlewarectx"
	"github.com/magabrotheeeer/novapay-relay/internal/lib/rsakey"
	"github.com/magabrotheeeer/novapay-relay/internal/lib/signer"
	"github.com/magabrotheeeer/novapay-relay/internal/metrics"
	"github.com/magabrotheeeer/novapay-relay/internal/novapay"
	"github.com/magabrotheeeer/novapay-relay/internal/services/payment"
	"github.com/magabrotheeeer/novapay-relay/web/admin"
)

type App struct {
	server *http.Server
	logger *slog.Logger
}

// New загружает ключ мерчанта и собирает роутер. Без ключа приложение не создаётся.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.relay.New"

	key, err := rsakey.Load(cfg.PrivateKey, cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	relayMetrics := metrics.New(reg)

	paymentService := payment.NewService(
		logger,
		payment.Merchant{
			ID:          cfg.MerchantID,
			CallbackURL: cfg.CallbackURL,
			SuccessURL:  cfg.SuccessURL,
			FailURL:     cfg.FailURL,
		},
		signer.New(key),
		novapay.NewClient(cfg.APIURL, cfg.NovaPay.Timeout),
		relayMetrics,
	)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Deps{
		PaymentService: paymentService,
		Metrics:        relayMetrics,
		Limiter:        middlewarectx.NewLimiter(cfg.RPS, cfg.Burst),
		Gatherer:       reg,
		AdminFS:        admin.FS,
	})

	srv := &http.Server{
		Addr:              cfg.AddressHTTP(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.TimeoutHTTP,
		WriteTimeout:      cfg.TimeoutHTTP,
		IdleTimeout:       cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
	}, nil
}

// Handler возвращает корневой обработчик приложения.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		return a.server.Shutdown(timeoutCtx)
	}
}
