package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Overview carries the totals shown on the first sheet of the report.
type Overview struct {
	Period                *Period         `json:"period,omitempty"`
	GeneratedAt           time.Time       `json:"generated_at"`
	TotalOrders           int             `json:"total_orders"`
	TotalQuantity         int64           `json:"total_quantity"`
	TotalRevenue          decimal.Decimal `json:"total_revenue"`
	TotalCost             decimal.Decimal `json:"total_cost"`
	TotalProfit           decimal.Decimal `json:"total_profit"`
	Share60               decimal.Decimal `json:"share_60"`
	Share40               decimal.Decimal `json:"share_40"`
	AverageOrderValue     decimal.Decimal `json:"average_order_value"`
	AverageProfitPerOrder decimal.Decimal `json:"average_profit_per_order"`
	MarginPercent         decimal.Decimal `json:"margin_percent"`
	Products              int             `json:"products"`
	ProfitableProducts    int             `json:"profitable_products"`
	HighMarginProducts    int             `json:"high_margin_products"`
	LowMarginProducts     int             `json:"low_margin_products"`
}

// ReportDocument is everything the report serializer renders. It holds no
// figure that was not produced by aggregation, apart from the overview totals
// and the top products selection.
type ReportDocument struct {
	RunID       string              `json:"run_id"`
	Overview    Overview            `json:"overview"`
	Products    []ProductSummary    `json:"products"`
	SKUs        []SKUSummary        `json:"skus"`
	Daily       []DailySales        `json:"daily"`
	TopProducts []ProductSummary    `json:"top_products"`
	Costs       []CostEntry         `json:"costs"`
	Settlement  *SettlementAnalysis `json:"settlement,omitempty"`
}
