// Package metrics содержит prometheus-метрики релея.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Значения метки result для PaymentRequestsTotal
const (
	ResultSuccess         = "success"
	ResultUpstreamError   = "upstream_error"
	ResultInvalidResponse = "invalid_response"
	ResultInternalError   = "internal_error"
)

// RelayMetrics метрики создания платежей и вебхуков
type RelayMetrics struct {
	PaymentRequestsTotal *prometheus.CounterVec   // запросы на создание платежа (по результату)
	UpstreamDuration     *prometheus.HistogramVec // время ответа NovaPay (по коду ответа)
	WebhooksTotal        *prometheus.CounterVec   // полученные вебхуки (по статусу платежа)
}

// New регистрирует метрики в reg. nil означает prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *RelayMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &RelayMetrics{
		PaymentRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "novapay_payment_requests_total",
				Help: "Total number of create-payment requests",
			},
			[]string{"result"},
		),
		UpstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "novapay_upstream_duration_seconds",
				Help:    "Duration of checkout session calls to NovaPay",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"code"},
		),
		WebhooksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "novapay_webhooks_total",
				Help: "Total number of received NovaPay postbacks",
			},
			[]string{"status"},
		),
	}
}
