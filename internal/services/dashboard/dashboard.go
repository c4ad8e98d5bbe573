// Package dashboard собирает сводную информацию для панели администратора:
// ленту последних событий и счетчики, закрытые кешем.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SalekhM8/BrainBooster-sub000/internal/cache"
	"github.com/SalekhM8/BrainBooster-sub000/internal/lib/sl"
	"github.com/SalekhM8/BrainBooster-sub000/internal/models"
)

const (
	statsCacheKey = "dashboard:stats"
	statsCacheTTL = time.Minute
)

// ActivityRepository описывает выборки хранилища для ленты событий и счетчиков.
type ActivityRepository interface {
	// ListRecentUsers возвращает последних зарегистрированных пользователей.
	ListRecentUsers(ctx context.Context, limit int) ([]*models.User, error)
	// ListRecentSubscriptions возвращает последние измененные подписки.
	ListRecentSubscriptions(ctx context.Context, limit int) ([]*models.Subscription, error)
	// ListRecentNotifications возвращает последние уведомления.
	ListRecentNotifications(ctx context.Context, limit int) ([]*models.Notification, error)
	// CountUsersByRole возвращает число активных пользователей с заданной ролью.
	CountUsersByRole(ctx context.Context, role models.Role) (int, error)
	// CountSubscriptionsByStatus возвращает число подписок в заданном статусе.
	CountSubscriptionsByStatus(ctx context.Context, status models.SubscriptionStatus) (int, error)
	// CountUnreadNotifications возвращает число непрочитанных уведомлений.
	CountUnreadNotifications(ctx context.Context) (int, error)
}

// Stats счетчики панели администратора.
type Stats struct {
	Students            int `json:"students"`
	ActiveSubscriptions int `json:"active_subscriptions"`
	UnreadNotifications int `json:"unread_notifications"`
}

// DashboardService реализует сборку ленты событий и счетчиков.
type DashboardService struct {
	repo  ActivityRepository
	cache cache.Cache
	log   *slog.Logger
}

// New создает новый экземпляр DashboardService.
func New(repo ActivityRepository, c cache.Cache, log *slog.Logger) *DashboardService {
	return &DashboardService{
		repo:  repo,
		cache: c,
		log:   log,
	}
}

// Activity собирает ленту событий из трех источников: регистраций,
// изменений подписок и уведомлений. Потоки сливаются, сортируются по
// времени по убыванию и обрезаются до limit.
func (s *DashboardService) Activity(ctx context.Context, limit int) ([]models.ActivityItem, error) {
	const op = "dashboard.Activity"

	users, err := s.repo.ListRecentUsers(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	subs, err := s.repo.ListRecentSubscriptions(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	notifications, err := s.repo.ListRecentNotifications(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items := make([]models.ActivityItem, 0, len(users)+len(subs)+len(notifications))
	for _, u := range users {
		items = append(items, models.ActivityItem{
			Kind:       models.ActivityUser,
			Title:      "New registration",
			Detail:     fmt.Sprintf("%s %s (%s)", u.FirstName, u.LastName, u.Email),
			OccurredAt: u.CreatedAt,
		})
	}
	for _, sub := range subs {
		items = append(items, models.ActivityItem{
			Kind:       models.ActivitySubscription,
			Title:      fmt.Sprintf("Subscription %s", sub.Status),
			Detail:     fmt.Sprintf("%s tier, user %s", sub.Tier, sub.UserUID),
			OccurredAt: sub.UpdatedAt,
		})
	}
	for _, n := range notifications {
		items = append(items, models.ActivityItem{
			Kind:       models.ActivityNotification,
			Title:      n.Title,
			Detail:     n.Message,
			OccurredAt: n.CreatedAt,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].OccurredAt.After(items[j].OccurredAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// Stats возвращает счетчики панели. Значения кешируются на минуту,
// сбой кеша не прерывает запрос.
func (s *DashboardService) Stats(ctx context.Context) (*Stats, error) {
	const op = "dashboard.Stats"

	var cached Stats
	found, err := s.cache.Get(statsCacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read stats from cache", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	students, err := s.repo.CountUsersByRole(ctx, models.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	active, err := s.repo.CountSubscriptionsByStatus(ctx, models.SubscriptionActive)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	unread, err := s.repo.CountUnreadNotifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	stats := &Stats{
		Students:            students,
		ActiveSubscriptions: active,
		UnreadNotifications: unread,
	}
	if err := s.cache.Set(statsCacheKey, stats, statsCacheTTL); err != nil {
		s.log.Warn("failed to cache stats", sl.Err(err))
	}
	return stats, nil
}
