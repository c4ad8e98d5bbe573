// Package brainbooster собирает HTTP-сервис платформы: хранилище, кеш,
// очередь писем, сервисы и маршруты.
package brainbooster

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/SalekhM8/BrainBooster-sub000/internal/cache"
	"github.com/SalekhM8/BrainBooster-sub000/internal/config"
	"github.com/SalekhM8/BrainBooster-sub000/internal/lib/jwt"
	"github.com/SalekhM8/BrainBooster-sub000/internal/lib/rabbitmq"
	"github.com/SalekhM8/BrainBooster-sub000/internal/migrations"
	"github.com/SalekhM8/BrainBooster-sub000/internal/paymentprovider"
	authservice "github.com/SalekhM8/BrainBooster-sub000/internal/services/auth"
	dashboardservice "github.com/SalekhM8/BrainBooster-sub000/internal/services/dashboard"
	reconcilerservice "github.com/SalekhM8/BrainBooster-sub000/internal/services/reconciler"
	"github.com/SalekhM8/BrainBooster-sub000/internal/storage/repository"
)

// Ограничение памяти для in-memory кеша.
const memoryCacheCapacity = 1024

// App держит HTTP-сервер и внешние соединения сервиса.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New собирает приложение: применяет миграции, подключает кеш и брокер,
// строит сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	appCache, err := newCache(ctx, cfg)
	if err != nil {
		return nil, err
	}

	conn, ch, err := rabbitmq.Connect(cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}
	if err := rabbitmq.SetupQueues(ch, cfg.RabbitMQ.Exchange, rabbitmq.GetEmailQueues()); err != nil {
		_ = conn.Close()
		return nil, err
	}
	emailQueue := rabbitmq.NewEmailQueue(ch, cfg.RabbitMQ.Exchange)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL)
	providerClient := paymentprovider.NewClient(
		cfg.PaymentProvider.AccountID,
		cfg.PaymentProvider.SecretKey,
		cfg.PaymentProvider.APIURL,
	)

	authService := authservice.New(db, jwtMaker)
	reconciler := reconcilerservice.New(db, emailQueue, logger)
	dashboardService := dashboardservice.New(db, appCache, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, RouteDeps{
		Auth:       authService,
		Reconciler: reconciler,
		Dashboard:  dashboardService,
		Storage:    db,
		Provider:   providerClient,
		Config:     cfg,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.TimeoutHTTP,
		WriteTimeout: cfg.HTTPServer.TimeoutHTTP,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// newCache выбирает реализацию кеша по конфигурации.
func newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	if cfg.CacheDriver == "memory" {
		return cache.NewMemoryCache(memoryCacheCapacity, nil), nil
	}
	return cache.InitServer(ctx, cfg.RedisConnection)
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.ch.Close(); closeErr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", closeErr))
		}
		if closeErr := a.conn.Close(); closeErr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", closeErr))
		}
		_ = a.db.DB.Close()
		return err
	}
}
