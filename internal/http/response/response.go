// Package response содержит вспомогательные типы и функции для формирования
// JSON-ответов об ошибках. Ошибки передаются флагом error в теле ответа.
package response

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"
)

// InternalServerError — сообщение для любых внутренних ошибок.
const InternalServerError = "Internal Server Error"

// Response описывает JSON-ответ с ошибкой.
type Response struct {
	Error   bool   `json:"error" example:"true"`
	Message string `json:"message,omitempty" example:"Internal Server Error"`
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) Response {
	return Response{
		Error:   true,
		Message: msg,
	}
}

// InternalError возвращает ответ для внутренней ошибки.
func InternalError() Response {
	return Error(InternalServerError)
}

// ValidationError формирует Response на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "gt":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be greater than %s", err.Field(), err.Param()))
		case "phone":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must contain only digits with optional leading +", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Error(strings.Join(errsMsgs, ", "))
}

// JSON пишет v как JSON без экранирования HTML, чтобы тело провайдера
// в details/raw уходило клиенту без изменений. Статус берётся из render.Status.
func JSON(w http.ResponseWriter, r *http.Request, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if status, ok := r.Context().Value(render.StatusCtxKey).(int); ok {
		w.WriteHeader(status)
	}
	_, _ = w.Write(buf.Bytes())
}
