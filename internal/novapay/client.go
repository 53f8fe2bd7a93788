// Package novapay содержит HTTP-клиент и типы API эквайринга NovaPay.
package novapay

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/magabrotheeeer/novapay-relay/internal/lib/signer"
)

const (
	// DefaultAPIURL базовый адрес боевого API
	DefaultAPIURL = "https://api-ecom.novapay.ua/v1"
	// SignHeader заголовок с подписью тела запроса
	SignHeader = "x-sign"

	checkoutSessionPath = "/checkout/session"
)

type Client struct {
	http *resty.Client
}

// NewClient создаёт клиент NovaPay. timeout == 0 отключает таймаут запроса.
func NewClient(apiURL string, timeout time.Duration) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Client{
		http: resty.New().
			SetBaseURL(apiURL).
			SetTimeout(timeout),
	}
}

// CreateCheckoutSession отправляет подписанное тело как есть и возвращает ответ без разбора.
// Ошибка возвращается только если ответ не был получен.
func (c *Client) CreateCheckoutSession(ctx context.Context, env signer.Envelope) (*Response, error) {
	const op = "novapay.CreateCheckoutSession"

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader(SignHeader, env.Signature).
		SetBody(env.Body).
		Post(checkoutSessionPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}, nil
}

// Status возвращает текстовое описание кода ответа для логов
func (r *Response) Status() string {
	return fmt.Sprintf("%d %s", r.StatusCode, http.StatusText(r.StatusCode))
}
