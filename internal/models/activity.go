package models

import "time"

// ActivityKind тип записи в ленте активности.
type ActivityKind string

// Возможные типы записей активности.
const (
	ActivityUser         ActivityKind = "USER"
	ActivitySubscription ActivityKind = "SUBSCRIPTION"
	ActivityNotification ActivityKind = "NOTIFICATION"
)

// ActivityItem элемент сводной ленты активности. Лента синтезируется
// из трех потоков сущностей и сортируется по времени.
type ActivityItem struct {
	Kind       ActivityKind `json:"kind"`
	Title      string       `json:"title"`
	Detail     string       `json:"detail"`
	OccurredAt time.Time    `json:"occurred_at"`
}
