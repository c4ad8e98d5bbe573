// Package reconciler приводит локальное состояние подписок в соответствие
// с событиями платежного провайдера. Провайдер считается источником истины:
// каждое событие применяется идемпотентно, а побочные эффекты (уведомления,
// письма) выполняются по принципу наилучших усилий.
package reconciler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SalekhM8/BrainBooster-sub000/internal/lib/password"
	"github.com/SalekhM8/BrainBooster-sub000/internal/lib/random"
	"github.com/SalekhM8/BrainBooster-sub000/internal/lib/sl"
	"github.com/SalekhM8/BrainBooster-sub000/internal/models"
	"github.com/SalekhM8/BrainBooster-sub000/internal/paymentprovider"
	"github.com/SalekhM8/BrainBooster-sub000/internal/storage/repository"
)

// Ошибки реконсилиации.
var (
	// ErrReconciliationFailed означает сбой сохранения состояния.
	// Провайдер должен повторить доставку события.
	ErrReconciliationFailed = errors.New("reconciliation failed")
	// ErrMalformedMetadata означает событие без обязательных полей.
	// Такое событие подтверждается и отбрасывается, повтор не поможет.
	ErrMalformedMetadata = errors.New("malformed event metadata")
)

// Store определяет методы хранилища, нужные реконсилиации.
type Store interface {
	// FindUserByEmail возвращает пользователя по email.
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	// FindUserByUID возвращает пользователя по uid.
	FindUserByUID(ctx context.Context, uid string) (*models.User, error)
	// CreateUser сохраняет нового пользователя и возвращает его uid.
	CreateUser(ctx context.Context, user models.User) (string, error)
	// UpsertSubscriptionForUser создает или обновляет подписку пользователя.
	UpsertSubscriptionForUser(ctx context.Context, sub models.Subscription) (int, error)
	// FindSubscriptionByProviderID возвращает подписку по ID подписки провайдера.
	FindSubscriptionByProviderID(ctx context.Context, providerSubscriptionID string) (*models.Subscription, error)
	// UpdateSubscription применяет частичное обновление подписки.
	UpdateSubscription(ctx context.Context, id int, upd models.SubscriptionUpdate) (int, error)
	// CreateNotification сохраняет уведомление пользователя.
	CreateNotification(ctx context.Context, n models.Notification) (int, error)
}

// EmailQueue публикует задания на отправку писем.
type EmailQueue interface {
	PublishEmailJob(job models.EmailJob) error
}

// Reconciler применяет проверенные события провайдера к хранилищу.
type Reconciler struct {
	store Store
	queue EmailQueue
	log   *slog.Logger
}

// New создает новый Reconciler.
func New(store Store, queue EmailQueue, log *slog.Logger) *Reconciler {
	return &Reconciler{
		store: store,
		queue: queue,
		log:   log,
	}
}

// Apply применяет одно событие провайдера. Возвращает
// ErrReconciliationFailed при сбое записи (провайдер повторит доставку)
// и ErrMalformedMetadata для событий без обязательных полей (повтор
// бессмыслен, событие подтверждается).
func (r *Reconciler) Apply(ctx context.Context, event *paymentprovider.Event) error {
	const op = "reconciler.Apply"
	switch event.Kind {
	case paymentprovider.EventCheckoutCompleted:
		return r.applyCheckoutCompleted(ctx, event.Checkout)
	case paymentprovider.EventSubscriptionUpdated:
		return r.applySubscriptionUpdated(ctx, event.Subscription)
	case paymentprovider.EventSubscriptionDeleted:
		return r.applySubscriptionDeleted(ctx, event.Subscription)
	case paymentprovider.EventInvoicePaymentFailed:
		return r.applyInvoicePaymentFailed(ctx, event.Invoice)
	default:
		return fmt.Errorf("%s: unsupported event kind: %s", op, event.Kind)
	}
}

// applyCheckoutCompleted обрабатывает завершенную оплату: находит или
// создает пользователя по email и создает либо обновляет его подписку.
// Повторная доставка события не создает дубликатов: подписка ключуется
// уникальным user_uid.
func (r *Reconciler) applyCheckoutCompleted(ctx context.Context, checkout *paymentprovider.CheckoutSession) error {
	const op = "reconciler.applyCheckoutCompleted"
	log := r.log.With(slog.String("op", op))

	if checkout.CustomerEmail == "" {
		log.Warn("checkout session without customer email, dropping event",
			slog.String("provider_subscription_id", checkout.SubscriptionID))
		return fmt.Errorf("%s: %w: missing customer email", op, ErrMalformedMetadata)
	}

	userUID, created, err := r.findOrCreateUser(ctx, checkout)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrReconciliationFailed, err)
	}

	tier := tierFromMetadata(checkout.Metadata)
	sub := models.Subscription{
		UserUID:                userUID,
		ProviderCustomerID:     checkout.CustomerID,
		ProviderSubscriptionID: checkout.SubscriptionID,
		Tier:                   tier,
		Status:                 models.SubscriptionActive,
		HomeworkSiteAccess:     tier == models.TierPremium,
	}
	if sub.HomeworkSiteAccess {
		portalPassword, err := random.Alphanumeric(random.PlaceholderPasswordLength)
		if err != nil {
			return fmt.Errorf("%s: %w: %w", op, ErrReconciliationFailed, err)
		}
		sub.HomeworkSiteUsername = checkout.CustomerEmail
		sub.HomeworkSitePassword = portalPassword
	}

	subID, err := r.store.UpsertSubscriptionForUser(ctx, sub)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrReconciliationFailed, err)
	}
	log.Info("subscription reconciled after checkout",
		slog.Int("subscription_id", subID),
		slog.String("user_uid", userUID),
		slog.String("tier", string(tier)),
		slog.Bool("user_created", created))

	_, err = r.store.CreateNotification(ctx, models.Notification{
		UserUID: userUID,
		Type:    models.NotificationSubscription,
		Title:   "Subscription Active",
		Message: fmt.Sprintf("Your %s subscription is now active.", tier),
	})
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrReconciliationFailed, err)
	}
	return nil
}

// findOrCreateUser возвращает uid пользователя с данным email, создавая
// учетную запись при ее отсутствии. Новому пользователю генерируется
// одноразовый пароль, который уходит письмом вместе с учетными данными.
func (r *Reconciler) findOrCreateUser(ctx context.Context, checkout *paymentprovider.CheckoutSession) (string, bool, error) {
	const op = "reconciler.findOrCreateUser"
	log := r.log.With(slog.String("op", op))

	user, err := r.store.FindUserByEmail(ctx, checkout.CustomerEmail)
	if err == nil {
		return user.UID, false, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return "", false, err
	}

	plainPassword, err := random.Alphanumeric(random.PlaceholderPasswordLength)
	if err != nil {
		return "", false, err
	}
	hash, err := password.GetHash(plainPassword)
	if err != nil {
		return "", false, err
	}

	newUser := models.User{
		Email:        checkout.CustomerEmail,
		PasswordHash: hash,
		FirstName:    checkout.Metadata[metaFirstName],
		LastName:     checkout.Metadata[metaLastName],
		Role:         models.RoleStudent,
		IsActive:     true,
		Subjects:     subjectsFromMetadata(checkout.Metadata),
		YearGroup:    yearGroupFromMetadata(checkout.Metadata),
	}
	uid, err := r.store.CreateUser(ctx, newUser)
	if err != nil {
		return "", false, err
	}
	log.Info("created user from checkout session", slog.String("user_uid", uid))

	job := models.EmailJob{
		Kind:      models.EmailWelcomeCredentials,
		Email:     newUser.Email,
		FirstName: newUser.FirstName,
		Tier:      tierFromMetadata(checkout.Metadata),
		Password:  plainPassword,
	}
	if err := r.queue.PublishEmailJob(job); err != nil {
		log.Warn("failed to queue welcome email", sl.Err(err))
	}
	return uid, true, nil
}

// applySubscriptionUpdated обновляет статус и оплаченный период по данным
// провайдера. Подписка, неизвестная локально, логируется и пропускается.
func (r *Reconciler) applySubscriptionUpdated(ctx context.Context, obj *paymentprovider.SubscriptionObject) error {
	const op = "reconciler.applySubscriptionUpdated"
	log := r.log.With(slog.String("op", op))

	sub, err := r.store.FindSubscriptionByProviderID(ctx, obj.ID)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			log.Warn("event for unknown subscription, dropping",
				slog.String("provider_subscription_id", obj.ID))
			return nil
		}
		return fmt.Errorf("%s: %w: %w", op, ErrReconciliationFailed, err)
	}

	status := models.StatusFromProvider(obj.Status)
	_, err = r.store.UpdateSubscription(ctx, sub.ID, models.SubscriptionUpdate{
		Status:             status,
		CurrentPeriodStart: obj.PeriodStart(),
		CurrentPeriodEnd:   obj.PeriodEnd(),
	})
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrReconciliationFailed, err)
	}
	log.Info("subscription updated",
		slog.Int("subscription_id", sub.ID),
		slog.String("status", string(status)))
	return nil
}

// applySubscriptionDeleted переводит подписку в CANCELLED и уведомляет
// пользователя. Запись подписки сохраняется.
func (r *Reconciler) applySubscriptionDeleted(ctx context.Context, obj *paymentprovider.SubscriptionObject) error {
	const op = "reconciler.applySubscriptionDeleted"
	log := r.log.With(slog.String("op", op))

	sub, err := r.store.FindSubscriptionByProviderID(ctx, obj.ID)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			log.Warn("event for unknown subscription, dropping",
				slog.String("provider_subscription_id", obj.ID))
			return nil
		}
		return fmt.Errorf("%s: %w: %w", op, ErrReconciliationFailed, err)
	}

	_, err = r.store.UpdateSubscription(ctx, sub.ID, models.SubscriptionUpdate{
		Status: models.SubscriptionCancelled,
	})
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrReconciliationFailed, err)
	}

	_, err = r.store.CreateNotification(ctx, models.Notification{
		UserUID: sub.UserUID,
		Type:    models.NotificationSubscription,
		Title:   "Subscription Cancelled",
		Message: "Your subscription has been cancelled. You can resubscribe at any time.",
	})
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrReconciliationFailed, err)
	}
	log.Info("subscription cancelled", slog.Int("subscription_id", sub.ID))

	r.queueUserEmail(ctx, log, sub, models.EmailCancelled)
	return nil
}

// applyInvoicePaymentFailed переводит подписку в PAST_DUE и уведомляет
// пользователя о неуспешном платеже.
func (r *Reconciler) applyInvoicePaymentFailed(ctx context.Context, invoice *paymentprovider.Invoice) error {
	const op = "reconciler.applyInvoicePaymentFailed"
	log := r.log.With(slog.String("op", op))

	if invoice.SubscriptionID == "" {
		log.Warn("invoice without subscription reference, dropping event")
		return fmt.Errorf("%s: %w: missing subscription reference", op, ErrMalformedMetadata)
	}

	sub, err := r.store.FindSubscriptionByProviderID(ctx, invoice.SubscriptionID)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			log.Warn("event for unknown subscription, dropping",
				slog.String("provider_subscription_id", invoice.SubscriptionID))
			return nil
		}
		return fmt.Errorf("%s: %w: %w", op, ErrReconciliationFailed, err)
	}

	_, err = r.store.UpdateSubscription(ctx, sub.ID, models.SubscriptionUpdate{
		Status: models.SubscriptionPastDue,
	})
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrReconciliationFailed, err)
	}

	_, err = r.store.CreateNotification(ctx, models.Notification{
		UserUID: sub.UserUID,
		Type:    models.NotificationPayment,
		Title:   "Payment Failed",
		Message: "We could not collect your latest payment. Please update your payment details.",
	})
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrReconciliationFailed, err)
	}
	log.Info("subscription marked past due", slog.Int("subscription_id", sub.ID))

	r.queueUserEmail(ctx, log, sub, models.EmailPaymentFailed)
	return nil
}

// queueUserEmail публикует письмо владельцу подписки. Доставка письма
// не гарантируется, сбой публикации не прерывает реконсилиацию.
func (r *Reconciler) queueUserEmail(ctx context.Context, log *slog.Logger, sub *models.Subscription, kind models.EmailJobKind) {
	user, err := r.store.FindUserByUID(ctx, sub.UserUID)
	if err != nil {
		log.Warn("failed to resolve subscription owner for email", sl.Err(err))
		return
	}
	job := models.EmailJob{
		Kind:      kind,
		Email:     user.Email,
		FirstName: user.FirstName,
		Tier:      sub.Tier,
	}
	if err := r.queue.PublishEmailJob(job); err != nil {
		log.Warn("failed to queue email", sl.Err(err))
	}
}
