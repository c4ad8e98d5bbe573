// Package metrics содержит счетчики Prometheus для наблюдения за сервисом.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WebhookEventsTotal считает обработанные события платежного провайдера
// по типу события и результату обработки.
var WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "brainbooster_webhook_events_total",
	Help: "Total number of payment provider webhook events by kind and outcome.",
}, []string{"kind", "outcome"})

// Возможные значения метки outcome.
const (
	OutcomeOK               = "ok"
	OutcomeInvalidSignature = "invalid_signature"
	OutcomeUnknownEvent     = "unknown_event"
	OutcomeMalformed        = "malformed"
	OutcomeError            = "error"
)
