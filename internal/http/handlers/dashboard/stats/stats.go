// Package stats реализует HTTP-обработчик счетчиков панели администратора.
package stats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/SalekhM8/BrainBooster-sub000/internal/http/middlewarectx"
	"github.com/SalekhM8/BrainBooster-sub000/internal/http/response"
	"github.com/SalekhM8/BrainBooster-sub000/internal/lib/sl"
	"github.com/SalekhM8/BrainBooster-sub000/internal/models"
	"github.com/SalekhM8/BrainBooster-sub000/internal/services/dashboard"
)

// Service описывает сборку счетчиков панели.
type Service interface {
	Stats(ctx context.Context) (*dashboard.Stats, error)
}

// Handler обрабатывает HTTP-запросы счетчиков панели.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Счетчики панели
// @Description Возвращает число учеников, активных подписок и непрочитанных уведомлений. Доступно только администраторам.
// @Tags Dashboard
// @Security BearerAuth
// @Produce  json
// @Success 200 {object} response.Response "Счетчики"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /dashboard/stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.stats"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	role, _ := r.Context().Value(middlewarectx.Role).(string)
	if role != string(models.RoleAdmin) {
		log.Info("stats denied", slog.String("role", role))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("admin access required"))
		return
	}

	result, err := h.service.Stats(r.Context())
	if err != nil {
		log.Error("failed to collect stats", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to collect stats"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(result))
}
