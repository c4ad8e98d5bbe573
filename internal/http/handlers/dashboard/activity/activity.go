// Package activity реализует HTTP-обработчик ленты последних событий
// для панели администратора.
package activity

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/SalekhM8/BrainBooster-sub000/internal/http/middlewarectx"
	"github.com/SalekhM8/BrainBooster-sub000/internal/http/response"
	"github.com/SalekhM8/BrainBooster-sub000/internal/lib/sl"
	"github.com/SalekhM8/BrainBooster-sub000/internal/models"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Service описывает сборку ленты событий.
type Service interface {
	Activity(ctx context.Context, limit int) ([]models.ActivityItem, error)
}

// Handler обрабатывает HTTP-запросы ленты событий.
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
// @Summary Лента активности
// @Description Возвращает последние события платформы: регистрации, изменения подписок, уведомления. Доступно только администраторам.
// @Tags Dashboard
// @Security BearerAuth
// @Produce  json
// @Param limit query int false "Максимум записей (по умолчанию 20)"
// @Success 200 {object} response.Response "Лента событий"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /dashboard/activity [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.activity"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	role, _ := r.Context().Value(middlewarectx.Role).(string)
	if role != string(models.RoleAdmin) {
		log.Info("activity feed denied", slog.String("role", role))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("admin access required"))
		return
	}

	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= maxLimit {
			limit = parsed
		}
	}

	items, err := h.service.Activity(r.Context(), limit)
	if err != nil {
		log.Error("failed to build activity feed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to build activity feed"))
		return
	}

	log.Info("activity feed built", slog.Int("count", len(items)))
	render.JSON(w, r, response.StatusOKWithData(items))
}
