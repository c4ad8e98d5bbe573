// Package checkout реализует HTTP-обработчик создания сессии оплаты у
// платежного провайдера. Учетная запись и подписка появятся позже, когда
// провайдер пришлет событие завершенной оплаты.
package checkout

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/SalekhM8/BrainBooster-sub000/internal/config"
	"github.com/SalekhM8/BrainBooster-sub000/internal/http/response"
	"github.com/SalekhM8/BrainBooster-sub000/internal/lib/sl"
	"github.com/SalekhM8/BrainBooster-sub000/internal/models"
	"github.com/SalekhM8/BrainBooster-sub000/internal/paymentprovider"
)

// Request — структура входных данных для создания сессии оплаты.
type Request struct {
	PlanID    int    `json:"plan_id" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
	YearGroup string   `json:"year_group" validate:"omitempty,oneof=KS3 GCSE A_LEVEL"`
	Subjects  []string `json:"subjects" validate:"omitempty,dive,oneof=MATHS ENGLISH SCIENCE HISTORY GEOGRAPHY"`
}

// PlanRepository описывает выборку тарифных планов.
type PlanRepository interface {
	FindPlanByID(ctx context.Context, id int) (*models.PricingPlan, error)
}

// ProviderClient описывает клиент платежного провайдера.
type ProviderClient interface {
	CreateCheckoutSession(ctx context.Context, req paymentprovider.CreateCheckoutSessionRequest) (*paymentprovider.CreateCheckoutSessionResponse, error)
}

// Handler обрабатывает HTTP-запросы создания сессии оплаты.
type Handler struct {
	log      *slog.Logger
	plans    PlanRepository
	provider ProviderClient
	cfg      config.PaymentProvider
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, plans PlanRepository, provider ProviderClient, cfg config.PaymentProvider) *Handler {
	return &Handler{
		log:      log,
		plans:    plans,
		provider: provider,
		cfg:      cfg,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создание сессии оплаты
// @Description Создает сессию оплаты выбранного тарифного плана и возвращает URL страницы оплаты.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body Request true "План и данные покупателя"
// @Success 200 {object} map[string]string "URL страницы оплаты"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или неизвестный план"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Провайдер недоступен"
// @Router /checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.checkout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	plan, err := h.plans.FindPlanByID(r.Context(), req.PlanID)
	if err != nil {
		log.Error("unknown pricing plan", sl.Err(err), slog.Int("plan_id", req.PlanID))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown pricing plan"))
		return
	}
	if !plan.IsActive {
		log.Info("rejected checkout for inactive plan", slog.Int("plan_id", plan.ID))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("pricing plan is not available"))
		return
	}

	metadata := map[string]string{
		"planTier":  string(plan.Tier),
		"firstName": req.FirstName,
		"lastName":  req.LastName,
		"yearGroup": req.YearGroup,
	}
	if len(req.Subjects) > 0 {
		// Список предметов едет через metadata провайдера JSON-строкой.
		rawSubjects, err := json.Marshal(req.Subjects)
		if err != nil {
			log.Error("failed to encode subjects", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))
			return
		}
		metadata["subjects"] = string(rawSubjects)
	}

	session, err := h.provider.CreateCheckoutSession(r.Context(), paymentprovider.CreateCheckoutSessionRequest{
		PriceID:       plan.ProviderPriceID,
		CustomerEmail: req.Email,
		SuccessURL:    h.cfg.SuccessURL,
		CancelURL:     h.cfg.CancelURL,
		Metadata:      metadata,
	})
	if err != nil {
		log.Error("failed to create checkout session", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("payment provider unavailable"))
		return
	}

	log.Info("checkout session created",
		slog.String("session_id", session.ID),
		slog.Int("plan_id", plan.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]string{
		"session_id":   session.ID,
		"checkout_url": session.URL,
	}))
}
