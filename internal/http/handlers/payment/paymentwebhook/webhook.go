package paymentwebhook

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/novapay-relay/internal/lib/sl"
	"github.com/magabrotheeeer/novapay-relay/internal/metrics"
	"github.com/magabrotheeeer/novapay-relay/internal/novapay"
)

// ограничение на размер тела вебхука
const maxBodySize = 1 << 20

// Handler принимает postback от NovaPay.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	metrics *metrics.RelayMetrics
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, m *metrics.RelayMetrics) *Handler {
	return &Handler{
		log:     log,
		metrics: m,
	}
}

// ServeHTTP godoc
// @Summary Вебхук NovaPay
// @Description Принимает postback о смене статуса платежа и всегда отвечает OK
// @Tags Payments
// @Accept  json
// @Produce  plain
// @Success 200 {string} string "OK"
// @Router /webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("panic while handling webhook", sl.Panic(rec))
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
	}
	defer r.Body.Close()

	log.Info("webhook received", slog.String("body", string(body)))

	// Подпись не проверяется, разбор нужен только для логов и метрик
	status := novapay.StatusUnknown
	var payload novapay.Postback
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Warn("webhook body is not a postback", sl.Err(err))
	} else {
		// метка метрики только из конечного набора, тело не доверенное
		status = novapay.NormalizeStatus(payload.Status)
		log.Info("postback",
			slog.String("session_id", payload.ID),
			slog.String("status", payload.Status),
			slog.String("processing_result", payload.ProcessingResult),
		)
	}

	if h.metrics != nil {
		h.metrics.WebhooksTotal.WithLabelValues(status).Inc()
	}
}
