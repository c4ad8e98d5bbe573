// Package paymentprovider реализует клиент платежного провайдера и разбор
// его webhook-событий. События провайдера приходят слабо типизированными,
// поэтому на границе они превращаются в размеченное объединение Event:
// неизвестные типы отклоняются явно, а не проваливаются дальше молча.
package paymentprovider

import "time"

// EventKind тип webhook-события провайдера.
type EventKind string

// Обрабатываемые типы событий жизненного цикла подписки.
const (
	EventCheckoutCompleted    EventKind = "checkout.session.completed"
	EventSubscriptionUpdated  EventKind = "customer.subscription.updated"
	EventSubscriptionDeleted  EventKind = "customer.subscription.deleted"
	EventInvoicePaymentFailed EventKind = "invoice.payment_failed"
)

// Event размеченное объединение webhook-событий. Заполнено ровно одно
// из полей полезной нагрузки, соответствующее Kind.
type Event struct {
	Kind         EventKind
	Checkout     *CheckoutSession
	Subscription *SubscriptionObject
	Invoice      *Invoice
}

// CheckoutSession полезная нагрузка события завершенной оплаты.
// Metadata несет planTier, firstName, lastName, yearGroup и subjects —
// все поля опциональны, дефолты определяет реконсилиация.
type CheckoutSession struct {
	CustomerID     string            `json:"customer"`
	SubscriptionID string            `json:"subscription"`
	CustomerEmail  string            `json:"customer_email"`
	Metadata       map[string]string `json:"metadata"`
}

// SubscriptionObject полезная нагрузка событий обновления и удаления подписки.
type SubscriptionObject struct {
	ID                 string `json:"id"`
	CustomerID         string `json:"customer"`
	Status             string `json:"status"`
	CurrentPeriodStart int64  `json:"current_period_start"` // Unix-секунды
	CurrentPeriodEnd   int64  `json:"current_period_end"`   // Unix-секунды
}

// PeriodStart возвращает начало оплаченного периода или nil, если провайдер его не прислал.
func (s *SubscriptionObject) PeriodStart() *time.Time {
	return unixOrNil(s.CurrentPeriodStart)
}

// PeriodEnd возвращает конец оплаченного периода или nil, если провайдер его не прислал.
func (s *SubscriptionObject) PeriodEnd() *time.Time {
	return unixOrNil(s.CurrentPeriodEnd)
}

func unixOrNil(sec int64) *time.Time {
	if sec == 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}

// Invoice полезная нагрузка события неуспешного платежа. Подписка
// разрешается по ссылке из счета.
type Invoice struct {
	SubscriptionID string `json:"subscription"`
}

// CreateCheckoutSessionRequest запрос на создание сессии оплаты.
type CreateCheckoutSessionRequest struct {
	PriceID       string            `json:"price_id"`
	CustomerEmail string            `json:"customer_email"`
	SuccessURL    string            `json:"success_url"`
	CancelURL     string            `json:"cancel_url"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// CreateCheckoutSessionResponse ответ провайдера с URL страницы оплаты.
type CreateCheckoutSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
