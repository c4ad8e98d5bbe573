package models

import (
	"strings"
	"time"
)

// Tier уровень тарифного плана подписки.
type Tier string

// Возможные уровни тарифа.
const (
	TierBasic   Tier = "BASIC"
	TierPremium Tier = "PREMIUM"
)

// SubscriptionStatus статус локальной подписки.
type SubscriptionStatus string

// Возможные статусы подписки.
const (
	SubscriptionActive    SubscriptionStatus = "ACTIVE"
	SubscriptionCancelled SubscriptionStatus = "CANCELLED"
	SubscriptionExpired   SubscriptionStatus = "EXPIRED"
	SubscriptionPastDue   SubscriptionStatus = "PAST_DUE"
)

// Subscription локальное отражение подписки платежного провайдера.
// На одного пользователя приходится не более одной подписки (уникальный
// внешний ключ user_uid). Подписка никогда не удаляется, только переводится
// в статус CANCELLED.
type Subscription struct {
	ID                     int
	UserUID                string     // Владелец подписки
	ProviderCustomerID     string     // ID клиента у провайдера
	ProviderSubscriptionID string     // ID подписки у провайдера
	Tier                   Tier       // Уровень тарифа
	Status                 SubscriptionStatus
	CurrentPeriodStart     *time.Time // Начало оплаченного периода
	CurrentPeriodEnd       *time.Time // Конец оплаченного периода
	HomeworkSiteAccess     bool       // Доступ к порталу домашних заданий (PREMIUM)
	HomeworkSiteUsername   string
	HomeworkSitePassword   string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// SubscriptionUpdate описывает частичное обновление подписки.
// Nil-поля остаются без изменений.
type SubscriptionUpdate struct {
	Status             SubscriptionStatus
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
}

// StatusFromProvider переводит строковый статус провайдера в локальный.
// Неизвестные статусы считаются активными: провайдер — источник истины,
// и новый промежуточный статус не должен отключать пользователя.
func StatusFromProvider(providerStatus string) SubscriptionStatus {
	switch strings.ToLower(providerStatus) {
	case "active":
		return SubscriptionActive
	case "canceled":
		return SubscriptionCancelled
	case "past_due":
		return SubscriptionPastDue
	case "unpaid":
		return SubscriptionExpired
	default:
		return SubscriptionActive
	}
}
