package domain

import "github.com/shopspring/decimal"

// MetricChange compares one figure across two periods.
type MetricChange struct {
	Old           decimal.Decimal `json:"old"`
	New           decimal.Decimal `json:"new"`
	Delta         decimal.Decimal `json:"delta"`
	GrowthPercent decimal.Decimal `json:"growth_percent"`
}

// ProductChange is the movement of one product present in both periods.
type ProductChange struct {
	ProductName   string          `json:"product_name"`
	RevenueDelta  decimal.Decimal `json:"revenue_delta"`
	ProfitDelta   decimal.Decimal `json:"profit_delta"`
	QuantityDelta int64           `json:"quantity_delta"`
	MarginDelta   decimal.Decimal `json:"margin_delta"`
}

// ProductTotal is a product's revenue and profit within one period.
type ProductTotal struct {
	ProductName string          `json:"product_name"`
	Revenue     decimal.Decimal `json:"revenue"`
	Profit      decimal.Decimal `json:"profit"`
}

// PeriodComparison contrasts an older report with a newer one.
type PeriodComparison struct {
	Revenue             MetricChange    `json:"revenue"`
	Profit              MetricChange    `json:"profit"`
	Quantity            MetricChange    `json:"quantity"`
	AverageMargin       MetricChange    `json:"average_margin"`
	SignificantChanges  []ProductChange `json:"significant_changes"`
	NewProducts         []ProductTotal  `json:"new_products"`
	DisappearedProducts []ProductTotal  `json:"disappeared_products"`
	CommonProducts      int             `json:"common_products"`
}
