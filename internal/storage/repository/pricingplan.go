package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/SalekhM8/BrainBooster-sub000/internal/models"
)

// ListActivePlans возвращает активные тарифные планы.
func (s *Storage) ListActivePlans(ctx context.Context) ([]*models.PricingPlan, error) {
	const op = "storage.ListActivePlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, tier, monthly_price_pence, yearly_price_pence, features,
			      provider_product_id, provider_price_id, is_active
			  FROM pricing_plans
			  WHERE is_active = true
			  ORDER BY monthly_price_pence`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.PricingPlan
	for rows.Next() {
		var item models.PricingPlan
		var features string
		if err := rows.Scan(&item.ID, &item.Tier, &item.MonthlyPricePence,
			&item.YearlyPricePence, &features, &item.ProviderProductID,
			&item.ProviderPriceID, &item.IsActive); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if features != "" {
			item.Features = strings.Split(features, ",")
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindPlanByID возвращает тарифный план по ID.
func (s *Storage) FindPlanByID(ctx context.Context, id int) (*models.PricingPlan, error) {
	const op = "storage.FindPlanByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, tier, monthly_price_pence, yearly_price_pence, features,
			      provider_product_id, provider_price_id, is_active
			  FROM pricing_plans WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.PricingPlan
	var features string
	if err := row.Scan(&result.ID, &result.Tier, &result.MonthlyPricePence,
		&result.YearlyPricePence, &features, &result.ProviderProductID,
		&result.ProviderPriceID, &result.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: plan %d not found", op, id)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if features != "" {
		result.Features = strings.Split(features, ",")
	}
	return &result, nil
}
