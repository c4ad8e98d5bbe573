// Package webhook реализует HTTP-обработчик событий платежного провайдера.
//
// Подпись запроса проверяется до разбора тела, события применяются через
// сервис реконсилиации. Код ответа управляет повторной доставкой: 200
// подтверждает событие, 500 просит провайдера прислать его еще раз.
package webhook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/SalekhM8/BrainBooster-sub000/internal/http/response"
	"github.com/SalekhM8/BrainBooster-sub000/internal/lib/sl"
	"github.com/SalekhM8/BrainBooster-sub000/internal/metrics"
	"github.com/SalekhM8/BrainBooster-sub000/internal/paymentprovider"
	"github.com/SalekhM8/BrainBooster-sub000/internal/services/reconciler"
)

// Service описывает интерфейс сервиса реконсилиации подписок.
type Service interface {
	Apply(ctx context.Context, event *paymentprovider.Event) error
}

// Handler обрабатывает webhook-запросы платежного провайдера.
type Handler struct {
	log           *slog.Logger
	service       Service
	webhookSecret string // Секрет для проверки подписи
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, secret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		webhookSecret: secret,
	}
}

// ServeHTTP godoc
// @Summary Webhook платежного провайдера
// @Description Принимает события жизненного цикла подписки. Подпись HMAC-SHA256 передается в заголовке X-Api-Signature.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param X-Api-Signature header string true "Подпись тела запроса"
// @Success 200 {object} map[string]bool "Событие принято"
// @Failure 400 {object} response.ErrorResponse "Неверная подпись или тело запроса"
// @Failure 500 {object} response.ErrorResponse "Сбой обработки, провайдер повторит доставку"
// @Router /payments/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.webhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	defer func() {
		_ = r.Body.Close()
	}()

	signature := r.Header.Get("X-Api-Signature")
	event, err := paymentprovider.VerifyAndParseEvent(body, signature, h.webhookSecret)
	if err != nil {
		switch {
		case errors.Is(err, paymentprovider.ErrInvalidSignature):
			log.Error("invalid or missing webhook signature")
			metrics.WebhookEventsTotal.WithLabelValues("unknown", metrics.OutcomeInvalidSignature).Inc()
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid signature"))
		case errors.Is(err, paymentprovider.ErrUnknownEvent):
			// Неизвестный тип подтверждается, чтобы провайдер не переотправлял его.
			log.Info("ignored unknown webhook event", sl.Err(err))
			metrics.WebhookEventsTotal.WithLabelValues("unknown", metrics.OutcomeUnknownEvent).Inc()
			render.JSON(w, r, map[string]bool{"received": true})
		default:
			log.Error("failed to parse webhook payload", sl.Err(err))
			metrics.WebhookEventsTotal.WithLabelValues("unknown", metrics.OutcomeMalformed).Inc()
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request body"))
		}
		return
	}

	kind := string(event.Kind)
	if err := h.service.Apply(r.Context(), event); err != nil {
		if errors.Is(err, reconciler.ErrMalformedMetadata) {
			// Повтор не исправит событие без обязательных полей: подтверждаем и отбрасываем.
			log.Warn("dropped malformed webhook event", sl.Err(err))
			metrics.WebhookEventsTotal.WithLabelValues(kind, metrics.OutcomeMalformed).Inc()
			render.JSON(w, r, map[string]bool{"received": true})
			return
		}
		log.Error("failed to apply webhook event", sl.Err(err))
		metrics.WebhookEventsTotal.WithLabelValues(kind, metrics.OutcomeError).Inc()
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to process event"))
		return
	}

	log.Info("webhook processed", slog.String("event", kind))
	metrics.WebhookEventsTotal.WithLabelValues(kind, metrics.OutcomeOK).Inc()
	render.JSON(w, r, map[string]bool{"received": true})
}
