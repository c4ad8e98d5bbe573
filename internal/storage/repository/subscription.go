package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SalekhM8/BrainBooster-sub000/internal/models"
)

// UpsertSubscriptionForUser вставляет подписку пользователя или обновляет
// существующую. Конфликт разрешается по уникальному user_uid: на одного
// пользователя приходится не более одной подписки, повторная доставка
// события оплаты обновляет ту же строку. Учетные данные портала домашних
// заданий сохраняются существующие, если они уже были выданы.
func (s *Storage) UpsertSubscriptionForUser(ctx context.Context, sub models.Subscription) (int, error) {
	const op = "storage.UpsertSubscriptionForUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (user_uid, provider_customer_id, provider_subscription_id,
			      tier, status, current_period_start, current_period_end,
			      homework_site_access, homework_site_username, homework_site_password)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  ON CONFLICT (user_uid) DO UPDATE SET
			      provider_customer_id = excluded.provider_customer_id,
			      provider_subscription_id = excluded.provider_subscription_id,
			      tier = excluded.tier,
			      status = excluded.status,
			      current_period_start = excluded.current_period_start,
			      current_period_end = excluded.current_period_end,
			      homework_site_access = excluded.homework_site_access,
			      homework_site_username = COALESCE(NULLIF(subscriptions.homework_site_username, ''), excluded.homework_site_username),
			      homework_site_password = COALESCE(NULLIF(subscriptions.homework_site_password, ''), excluded.homework_site_password),
			      updated_at = NOW()
			  RETURNING id`
	var id int
	err := s.DB.QueryRowContext(ctx, query,
		sub.UserUID, sub.ProviderCustomerID, sub.ProviderSubscriptionID,
		sub.Tier, sub.Status, sub.CurrentPeriodStart, sub.CurrentPeriodEnd,
		sub.HomeworkSiteAccess, sub.HomeworkSiteUsername, sub.HomeworkSitePassword).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// FindSubscriptionByProviderID возвращает подписку по идентификатору подписки
// у провайдера. Если подписка не найдена, возвращает ErrSubscriptionNotFound.
func (s *Storage) FindSubscriptionByProviderID(ctx context.Context, providerSubscriptionID string) (*models.Subscription, error) {
	const op = "storage.FindSubscriptionByProviderID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, provider_customer_id, provider_subscription_id,
			      tier, status, current_period_start, current_period_end,
			      homework_site_access, homework_site_username, homework_site_password,
			      created_at, updated_at
			  FROM subscriptions WHERE provider_subscription_id = $1`
	row := s.DB.QueryRowContext(ctx, query, providerSubscriptionID)

	var result models.Subscription
	if err := row.Scan(&result.ID, &result.UserUID, &result.ProviderCustomerID,
		&result.ProviderSubscriptionID, &result.Tier, &result.Status,
		&result.CurrentPeriodStart, &result.CurrentPeriodEnd,
		&result.HomeworkSiteAccess, &result.HomeworkSiteUsername, &result.HomeworkSitePassword,
		&result.CreatedAt, &result.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrSubscriptionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// FindSubscriptionByUser возвращает подписку пользователя.
// Если подписки нет, возвращает ErrSubscriptionNotFound.
func (s *Storage) FindSubscriptionByUser(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "storage.FindSubscriptionByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, provider_customer_id, provider_subscription_id,
			      tier, status, current_period_start, current_period_end,
			      homework_site_access, homework_site_username, homework_site_password,
			      created_at, updated_at
			  FROM subscriptions WHERE user_uid = $1`
	row := s.DB.QueryRowContext(ctx, query, userUID)

	var result models.Subscription
	if err := row.Scan(&result.ID, &result.UserUID, &result.ProviderCustomerID,
		&result.ProviderSubscriptionID, &result.Tier, &result.Status,
		&result.CurrentPeriodStart, &result.CurrentPeriodEnd,
		&result.HomeworkSiteAccess, &result.HomeworkSiteUsername, &result.HomeworkSitePassword,
		&result.CreatedAt, &result.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrSubscriptionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpdateSubscription обновляет статус и границы оплаченного периода подписки.
// Nil-границы оставляют прежние значения.
func (s *Storage) UpdateSubscription(ctx context.Context, id int, upd models.SubscriptionUpdate) (int, error) {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET status = $1,
			      current_period_start = COALESCE($2, current_period_start),
			      current_period_end = COALESCE($3, current_period_end),
			      updated_at = NOW()
			  WHERE id = $4`
	result, err := s.DB.ExecContext(ctx, query,
		upd.Status, upd.CurrentPeriodStart, upd.CurrentPeriodEnd, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// CountSubscriptionsByStatus возвращает число подписок в заданном статусе.
func (s *Storage) CountSubscriptionsByStatus(ctx context.Context, status models.SubscriptionStatus) (int, error) {
	const op = "storage.CountSubscriptionsByStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM subscriptions WHERE status = $1`
	var count int
	if err := s.DB.QueryRowContext(ctx, query, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// ListRecentSubscriptions возвращает последние обновленные подписки.
func (s *Storage) ListRecentSubscriptions(ctx context.Context, limit int) ([]*models.Subscription, error) {
	const op = "storage.ListRecentSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, provider_customer_id, provider_subscription_id,
			      tier, status, current_period_start, current_period_end,
			      homework_site_access, homework_site_username, homework_site_password,
			      created_at, updated_at
			  FROM subscriptions
			  ORDER BY updated_at DESC
			  LIMIT $1`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		var item models.Subscription
		if err := rows.Scan(&item.ID, &item.UserUID, &item.ProviderCustomerID,
			&item.ProviderSubscriptionID, &item.Tier, &item.Status,
			&item.CurrentPeriodStart, &item.CurrentPeriodEnd,
			&item.HomeworkSiteAccess, &item.HomeworkSiteUsername, &item.HomeworkSitePassword,
			&item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
