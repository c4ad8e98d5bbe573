package rabbitmq

import (
	"github.com/streadway/amqp"

	"github.com/SalekhM8/BrainBooster-sub000/internal/models"
)

// EmailQueue публикует почтовые задания в очередь отправки.
type EmailQueue struct {
	ch       *amqp.Channel
	exchange string
}

// NewEmailQueue создает публикатор почтовых заданий.
func NewEmailQueue(ch *amqp.Channel, exchange string) *EmailQueue {
	return &EmailQueue{
		ch:       ch,
		exchange: exchange,
	}
}

// PublishEmailJob публикует задание на отправку письма.
func (q *EmailQueue) PublishEmailJob(job models.EmailJob) error {
	return PublishMessage(q.ch, q.exchange, RoutingKeyJobs, job)
}
