package models

// EmailJobKind тип письма в очереди отправки.
type EmailJobKind string

// Возможные типы писем.
const (
	EmailWelcomeCredentials EmailJobKind = "welcome_credentials"
	EmailPaymentFailed      EmailJobKind = "payment_failed"
	EmailCancelled          EmailJobKind = "cancelled"
)

// EmailJob задание на отправку письма, публикуется в очередь и
// обрабатывается воркером notification-sender. Доставка не гарантируется:
// реконсилиация только фиксирует намерение отправить.
type EmailJob struct {
	Kind      EmailJobKind `json:"kind"`
	Email     string       `json:"email"`
	FirstName string       `json:"first_name"`
	Tier      Tier         `json:"tier,omitempty"`
	Password  string       `json:"password,omitempty"` // Одноразовый сгенерированный пароль
}
