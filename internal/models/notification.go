package models

import "time"

// NotificationType тип уведомления.
type NotificationType string

// Возможные типы уведомлений.
const (
	NotificationSubscription NotificationType = "SUBSCRIPTION"
	NotificationPayment      NotificationType = "PAYMENT"
	NotificationSession      NotificationType = "SESSION"
	NotificationSystem       NotificationType = "SYSTEM"
)

// Notification уведомление пользователя. Создается как побочный эффект
// переходов состояния подписки, помечается прочитанным самим пользователем.
type Notification struct {
	ID        int
	UserUID   string           // Владелец уведомления
	Type      NotificationType
	Title     string
	Message   string
	Link      string           // Ссылка для перехода (опционально)
	IsRead    bool
	CreatedAt time.Time
}
