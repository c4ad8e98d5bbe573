// Package sender собирает воркер доставки писем из очереди заданий.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/SalekhM8/BrainBooster-sub000/internal/config"
	"github.com/SalekhM8/BrainBooster-sub000/internal/lib/rabbitmq"
	libsmtp "github.com/SalekhM8/BrainBooster-sub000/internal/lib/smtp"
	senderservice "github.com/SalekhM8/BrainBooster-sub000/internal/services/sender"
)

// App держит соединения воркера и сервис отправки писем.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New подключает брокер, объявляет очереди и собирает сервис отправки.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, ch, err := rabbitmq.Connect(cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}
	if err := rabbitmq.SetupQueues(ch, cfg.RabbitMQ.Exchange, rabbitmq.GetEmailQueues()); err != nil {
		_ = conn.Close()
		return nil, err
	}

	transport := libsmtp.NewTransport(cfg, logger)
	senderService := senderservice.New(logger, transport)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run запускает потребителя очереди и ждет отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumeMessages(ctx, a.ch, rabbitmq.QueueEmailJobs, a.senderService.ProcessEmailJob)
	if err != nil {
		a.logger.Error("failed to start email jobs consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}
	return nil
}
