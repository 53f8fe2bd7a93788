// Package paymentcreate обрабатывает создание платежей из админки.
package paymentcreate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/novapay-relay/internal/http/response"
	"github.com/magabrotheeeer/novapay-relay/internal/lib/sl"
	"github.com/magabrotheeeer/novapay-relay/internal/models"
)

var phoneRe = regexp.MustCompile(`^\+?[0-9]+$`)

// Service определяет интерфейс для работы с платежами.
type Service interface {
	CreatePayment(ctx context.Context, req models.PaymentRequest) (models.PaymentResult, error)
}

// Handler обрабатывает запросы на создание платежей.
type Handler struct {
	log            *slog.Logger // Логгер для записи информации и ошибок
	paymentService Service
	validate       *validator.Validate // Валидатор структуры входящих данных
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, ps Service) *Handler {
	v := validator.New()
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})

	return &Handler{
		log:            log,
		paymentService: ps,
		validate:       v,
	}
}

// ServeHTTP godoc
// @Summary Создать платеж
// @Description Создает checkout-сессию NovaPay. Ошибки провайдера, превышение лимита и внутренние ошибки возвращаются со статусом 200 и флагом error.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body models.PaymentRequest true "Данные для создания платежа"
// @Success 200 {object} models.PaymentResult "Результат создания платежа"
// @Failure 400 {object} response.Response "Некорректный JSON или ошибка валидации"
// @Router /create-payment [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("panic while creating payment", sl.Panic(rec))
			response.JSON(w, r, response.InternalError())
		}
	}()

	var req models.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		response.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		response.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	result, err := h.paymentService.CreatePayment(r.Context(), req)
	if err != nil {
		log.Error("failed to create payment", sl.Err(err))
		response.JSON(w, r, response.InternalError())
		return
	}

	if result.Success {
		log.Info("payment created", slog.String("session_id", result.SessionID))
	} else {
		log.Warn("payment provider returned an error", slog.String("order_id", req.OrderID))
	}
	response.JSON(w, r, result)
}
