package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PaymentRequest запрос на создание платежа из админки.
type PaymentRequest struct {
	OrderID     string `json:"orderId" validate:"required"`
	Amount      Amount `json:"amount" validate:"gt=0"`
	Description string `json:"description" validate:"required"`
	Phone       string `json:"phone" validate:"required,phone"`
}

// Amount сумма, принимает как JSON-число, так и строку с числом.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*a = 0
			return nil
		}
		// ParseFloat понимает "Inf", "NaN" и "1_000", браузерный Number() нет
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || strings.Contains(s, "_") || math.IsInf(v, 0) || math.IsNaN(v) {
			return fmt.Errorf("amount: %q is not a number", s)
		}
		*a = Amount(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*a = Amount(v)
	return nil
}

// PaymentResult ответ сервиса на создание платежа.
// Ошибка передаётся флагом Error в теле, HTTP-статус остаётся 200.
type PaymentResult struct {
	Success    bool            `json:"success,omitempty"`
	Error      bool            `json:"error,omitempty"`
	Message    string          `json:"message,omitempty"`
	PaymentURL string          `json:"paymentUrl,omitempty"`
	SessionID  string          `json:"sessionId,omitempty"`
	Details    json.RawMessage `json:"details,omitempty"`
	// Raw разобранный JSON провайдера или исходный текст, если это не JSON
	Raw any `json:"raw,omitempty"`
}
