// Package payment собирает запрос на создание checkout-сессии, подписывает его,
// отправляет в NovaPay и приводит ответ провайдера к формату админки.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/magabrotheeeer/novapay-relay/internal/lib/signer"
	"github.com/magabrotheeeer/novapay-relay/internal/metrics"
	"github.com/magabrotheeeer/novapay-relay/internal/models"
	"github.com/magabrotheeeer/novapay-relay/internal/novapay"
)

// InvalidResponseMessage сообщение для ответа провайдера, который не является JSON
const InvalidResponseMessage = "invalid response from payment provider"

// Signer определяет интерфейс подписи тела запроса.
type Signer interface {
	Sign(payload any) (signer.Envelope, error)
}

// ProviderClient определяет интерфейс для работы с платежным провайдером.
type ProviderClient interface {
	CreateCheckoutSession(ctx context.Context, env signer.Envelope) (*novapay.Response, error)
}

// Merchant данные мерчанта, подставляемые в каждый запрос
type Merchant struct {
	ID          string
	CallbackURL string
	SuccessURL  string
	FailURL     string
}

// Service сервис создания платежей.
type Service struct {
	log      *slog.Logger
	merchant Merchant
	signer   Signer
	client   ProviderClient
	metrics  *metrics.RelayMetrics
}

// NewService создаёт сервис создания платежей.
func NewService(log *slog.Logger, merchant Merchant, s Signer, client ProviderClient, m *metrics.RelayMetrics) *Service {
	return &Service{
		log:      log,
		merchant: merchant,
		signer:   s,
		client:   client,
		metrics:  m,
	}
}

// CreatePayment создаёт checkout-сессию. Ответы провайдера, в том числе ошибочные,
// возвращаются в PaymentResult; ошибка означает сбой подписи или транспорта.
func (s *Service) CreatePayment(ctx context.Context, req models.PaymentRequest) (models.PaymentResult, error) {
	const op = "services.payment.CreatePayment"
	log := s.log.With(slog.String("op", op), slog.String("order_id", req.OrderID))

	env, err := s.signer.Sign(s.buildPayload(req))
	if err != nil {
		s.observe(metrics.ResultInternalError)
		return models.PaymentResult{}, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("body sent", slog.String("body", string(env.Body)))
	log.Debug("signature", slog.String("x-sign", env.Signature))

	start := time.Now()
	resp, err := s.client.CreateCheckoutSession(ctx, env)
	if err != nil {
		s.observe(metrics.ResultInternalError)
		return models.PaymentResult{}, fmt.Errorf("%s: %w", op, err)
	}
	if s.metrics != nil {
		s.metrics.UpstreamDuration.WithLabelValues(strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())
	}
	log.Info("raw response", slog.String("status", resp.Status()), slog.String("body", string(resp.Body)))

	result, outcome := normalize(resp)
	s.observe(outcome)
	return result, nil
}

func (s *Service) buildPayload(req models.PaymentRequest) novapay.CheckoutSessionRequest {
	return novapay.CheckoutSessionRequest{
		MerchantID: s.merchant.ID,
		OrderID:    req.OrderID,
		Amount: novapay.Amount{
			Value:    float64(req.Amount),
			Currency: novapay.CurrencyUAH,
		},
		ClientPhone: NormalizePhone(req.Phone),
		Description: req.Description,
		CallbackURL: s.merchant.CallbackURL,
		SuccessURL:  s.merchant.SuccessURL,
		FailURL:     s.merchant.FailURL,
	}
}

func (s *Service) observe(result string) {
	if s.metrics == nil {
		return
	}
	s.metrics.PaymentRequestsTotal.WithLabelValues(result).Inc()
}

// normalize приводит сырой ответ провайдера к PaymentResult.
func normalize(resp *novapay.Response) (models.PaymentResult, string) {
	body := bytes.TrimSpace(resp.Body)
	if !json.Valid(body) {
		return models.PaymentResult{
			Error:   true,
			Message: InvalidResponseMessage,
			Raw:     string(resp.Body),
		}, metrics.ResultInvalidResponse
	}

	raw := json.RawMessage(body)
	if !resp.OK() || body[0] != '{' {
		return models.PaymentResult{
			Error:   true,
			Details: raw,
		}, metrics.ResultUpstreamError
	}

	// поля с неожиданным типом просто остаются пустыми
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return models.PaymentResult{Error: true, Details: raw}, metrics.ResultUpstreamError
	}
	checkoutURL, _ := fields["checkout_url"].(string)
	sessionID, _ := fields["session_id"].(string)

	return models.PaymentResult{
		Success:    true,
		PaymentURL: checkoutURL,
		SessionID:  sessionID,
		Raw:        raw,
	}, metrics.ResultSuccess
}

// NormalizePhone добавляет ведущий "+", если его нет.
func NormalizePhone(phone string) string {
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	return "+" + phone
}
