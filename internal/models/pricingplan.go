package models

// PricingPlan тарифный план. Цены хранятся в пенсах.
// Реконсилиация планы не изменяет, они только читаются.
type PricingPlan struct {
	ID                int
	Tier              Tier
	MonthlyPricePence int
	YearlyPricePence  int
	Features          []string
	ProviderProductID string
	ProviderPriceID   string
	IsActive          bool
}
