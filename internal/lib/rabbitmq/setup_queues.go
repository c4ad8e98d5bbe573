package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// Очередь почтовых заданий и ее ключ маршрутизации.
const (
	QueueEmailJobs = "email.jobs"
	RoutingKeyJobs = "jobs"
)

// QueueConfig описывает очередь и ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetEmailQueues возвращает очереди почтовых заданий.
func GetEmailQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueEmailJobs, RoutingKey: RoutingKeyJobs},
	}
}

// SetupQueues объявляет exchange и привязывает к нему очереди.
func SetupQueues(ch *amqp.Channel, exchange string, queues []QueueConfig) error {
	const op = "rabbitmq.SetupQueues"
	if err := ch.ExchangeDeclare(exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for _, q := range queues {
		if _, err := ch.QueueDeclare(q.QueueName, true, false, false, false, nil); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if err := ch.QueueBind(q.QueueName, q.RoutingKey, exchange, false, nil); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}
