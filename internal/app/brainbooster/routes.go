package brainbooster

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	// Регистрация сгенерированной swagger-спецификации
	_ "github.com/SalekhM8/BrainBooster-sub000/docs"

	"github.com/SalekhM8/BrainBooster-sub000/internal/config"
	"github.com/SalekhM8/BrainBooster-sub000/internal/http/handlers/auth/login"
	"github.com/SalekhM8/BrainBooster-sub000/internal/http/handlers/auth/register"
	"github.com/SalekhM8/BrainBooster-sub000/internal/http/handlers/checkout"
	"github.com/SalekhM8/BrainBooster-sub000/internal/http/handlers/dashboard/activity"
	"github.com/SalekhM8/BrainBooster-sub000/internal/http/handlers/dashboard/stats"
	"github.com/SalekhM8/BrainBooster-sub000/internal/http/handlers/notification/notificationlist"
	"github.com/SalekhM8/BrainBooster-sub000/internal/http/handlers/notification/notificationread"
	"github.com/SalekhM8/BrainBooster-sub000/internal/http/handlers/plans"
	"github.com/SalekhM8/BrainBooster-sub000/internal/http/handlers/webhook"
	"github.com/SalekhM8/BrainBooster-sub000/internal/http/middlewarectx"
	"github.com/SalekhM8/BrainBooster-sub000/internal/paymentprovider"
	authservice "github.com/SalekhM8/BrainBooster-sub000/internal/services/auth"
	dashboardservice "github.com/SalekhM8/BrainBooster-sub000/internal/services/dashboard"
	reconcilerservice "github.com/SalekhM8/BrainBooster-sub000/internal/services/reconciler"
	"github.com/SalekhM8/BrainBooster-sub000/internal/storage/repository"
)

// RouteDeps зависимости маршрутов приложения.
type RouteDeps struct {
	Auth       *authservice.AuthService
	Reconciler *reconcilerservice.Reconciler
	Dashboard  *dashboardservice.DashboardService
	Storage    *repository.Storage
	Provider   *paymentprovider.Client
	Config     *config.Config
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, deps RouteDeps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, deps.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, deps.Auth).ServeHTTP)
		r.Get("/plans", plans.New(logger, deps.Storage).ServeHTTP)
		r.Post("/checkout", checkout.New(logger, deps.Storage, deps.Provider, deps.Config.PaymentProvider).ServeHTTP)

		// Webhook платежного провайдера: аутентификации нет, запрос
		// пропускает только верная подпись.
		r.Post("/payments/webhook", webhook.New(logger, deps.Reconciler, deps.Config.PaymentProvider.WebhookSecret).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(deps.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, 10, 30))
			r.Get("/notifications", notificationlist.New(logger, deps.Storage).ServeHTTP)
			r.Post("/notifications/{id}/read", notificationread.New(logger, deps.Storage).ServeHTTP)
			r.Get("/dashboard/activity", activity.New(logger, deps.Dashboard).ServeHTTP)
			r.Get("/dashboard/stats", stats.New(logger, deps.Dashboard).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
