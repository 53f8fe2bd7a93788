package novapay

import (
	"encoding/json"
	"strings"
)

// CurrencyUAH — единственная поддерживаемая валюта.
const CurrencyUAH = "UAH"

// CheckoutSessionRequest тело запроса POST /v1/checkout/session.
// Порядок полей определяет порядок ключей в подписываемом JSON.
type CheckoutSessionRequest struct {
	MerchantID  string `json:"merchant_id"`
	OrderID     string `json:"order_id"`
	Amount      Amount `json:"amount"`
	ClientPhone string `json:"client_phone"`
	Description string `json:"description"`
	CallbackURL string `json:"callback_url"`
	SuccessURL  string `json:"success_url"`
	FailURL     string `json:"fail_url"`
}

// Amount сумма платежа
type Amount struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}

// Response сырой ответ провайдера
type Response struct {
	StatusCode int
	Body       []byte
}

// OK сообщает, что провайдер ответил статусом 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Postback уведомление о смене статуса платежа (callback_url).
type Postback struct {
	ID               string          `json:"id"`
	Status           string          `json:"status"`
	Paytype          string          `json:"paytype"`
	ProcessingResult string          `json:"processing_result"`
	CreatedAt        string          `json:"created_at"`
	ClientPhone      string          `json:"client_phone"`
	Metadata         json.RawMessage `json:"metadata,omitempty"`
}

// Статусы сессии NovaPay, которые приходят в postback
const (
	StatusCreated                  = "created"
	StatusExpired                  = "expired"
	StatusProcessing               = "processing"
	StatusHolded                   = "holded"
	StatusHold                     = "hold"
	StatusHoldConfirmed            = "hold_confirmed"
	StatusProcessingHoldCompletion = "processing_hold_completion"
	StatusPaid                     = "paid"
	StatusFailed                   = "failed"
	StatusProcessingVoid           = "processing_void"
	StatusVoided                   = "voided"

	// StatusUnknown пустой статус
	StatusUnknown = "unknown"
	// StatusOther любой статус не из списка
	StatusOther = "other"
)

var knownStatuses = map[string]struct{}{
	StatusCreated:                  {},
	StatusExpired:                  {},
	StatusProcessing:               {},
	StatusHolded:                   {},
	StatusHold:                     {},
	StatusHoldConfirmed:            {},
	StatusProcessingHoldCompletion: {},
	StatusPaid:                     {},
	StatusFailed:                   {},
	StatusProcessingVoid:           {},
	StatusVoided:                   {},
}

// NormalizeStatus приводит статус из postback к конечному набору значений.
func NormalizeStatus(status string) string {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" {
		return StatusUnknown
	}
	if _, ok := knownStatuses[status]; ok {
		return status
	}
	return StatusOther
}
