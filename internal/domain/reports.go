package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sentinel daily rows returned instead of failing when dates are unusable.
const (
	DateColumnNotFound = "date column not found"
	DateUnavailable    = "date data unavailable"
)

// Profitability holds the cost and profit figures shared by every summary.
type Profitability struct {
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	Profit        decimal.Decimal `json:"profit"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
	Share60       decimal.Decimal `json:"share_60"`
	Share40       decimal.Decimal `json:"share_40"`
}

// ProductSummary is the per-product aggregation. In fallback mode the key is
// the adjustment id and the descriptive fields carry placeholders.
type ProductSummary struct {
	AdjustmentID string          `json:"adjustment_id,omitempty"`
	SKU          string          `json:"sku"`
	ProductName  string          `json:"product_name"`
	Variation    string          `json:"variation"`
	Quantity     int64           `json:"quantity"`
	Revenue      decimal.Decimal `json:"revenue"`
	Profitability
}

// SKUSummary is the per-SKU aggregation.
type SKUSummary struct {
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Orders      int             `json:"orders"`
	Revenue     decimal.Decimal `json:"revenue"`
	Profitability
}

// DailySales is the per-day aggregation. Sentinel rows carry a Label and no Date.
type DailySales struct {
	Date     *time.Time      `json:"date,omitempty"`
	Label    string          `json:"label"`
	Quantity int64           `json:"quantity"`
	Orders   int             `json:"orders"`
	Revenue  decimal.Decimal `json:"revenue"`
	Cost     decimal.Decimal `json:"cost"`
	Profit   decimal.Decimal `json:"profit"`
	Margin   decimal.Decimal `json:"margin_percent"`
}

// Sentinel reports whether the row stands in for missing date data.
func (d DailySales) Sentinel() bool {
	return d.Date == nil
}

// OrderSource labels how an order reached the shop.
type OrderSource string

const (
	SourceAffiliate OrderSource = "Affiliate"
	SourceDirect    OrderSource = "Direct"
)

// SourceMetrics summarises one side of the affiliate/direct partition.
type SourceMetrics struct {
	Orders     int             `json:"orders"`
	Fees       decimal.Decimal `json:"fees"`
	FeePercent decimal.Decimal `json:"fee_percent"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// SourceBreakdown compares affiliate orders with direct shop orders.
type SourceBreakdown struct {
	Affiliate SourceMetrics `json:"affiliate"`
	Direct    SourceMetrics `json:"direct"`
	Total     SourceMetrics `json:"total"`
}

// RefundedOrder is one refunded settlement id with its refund value.
type RefundedOrder struct {
	AdjustmentID string          `json:"adjustment_id"`
	Refund       decimal.Decimal `json:"refund"`
}

// RefundAnalysis summarises refunded settlements.
type RefundAnalysis struct {
	RefundedOrders int             `json:"refunded_orders"`
	TotalRefund    decimal.Decimal `json:"total_refund"`
	RefundRate     decimal.Decimal `json:"refund_rate_percent"`
	Orders         []RefundedOrder `json:"orders"`
}

// CommissionLine is the total of one commission column.
type CommissionLine struct {
	Column  string          `json:"column"`
	Total   decimal.Decimal `json:"total"`
	Percent decimal.Decimal `json:"percent"`
}

// CommissionBreakdown lists commission totals and overall fees.
type CommissionBreakdown struct {
	Lines       []CommissionLine `json:"lines"`
	TotalFees   decimal.Decimal  `json:"total_fees"`
	FeesPercent decimal.Decimal  `json:"fees_percent"`
}

// OrderSourceRow is a non-refunded settlement tagged with its source.
type OrderSourceRow struct {
	AdjustmentID     string                     `json:"adjustment_id"`
	GrossRevenue     decimal.Decimal            `json:"gross_revenue"`
	SettlementAmount decimal.Decimal            `json:"settlement_amount"`
	TotalFees        decimal.Decimal            `json:"total_fees"`
	Commissions      map[string]decimal.Decimal `json:"commissions"`
	Source           OrderSource                `json:"source"`
}

// SettlementAnalysis groups the settlement-only breakdowns. A nil part means
// its columns were absent from the settlement export.
type SettlementAnalysis struct {
	Refunds      *RefundAnalysis      `json:"refunds,omitempty"`
	Sources      *SourceBreakdown     `json:"sources,omitempty"`
	Commissions  *CommissionBreakdown `json:"commissions,omitempty"`
	OrderSources []OrderSourceRow     `json:"order_sources,omitempty"`
}

// Period is the date range covered by the reconciled orders.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ProfitReport is the immutable result of one pipeline run.
type ProfitReport struct {
	RunID        string              `json:"run_id"`
	GeneratedAt  time.Time           `json:"generated_at"`
	Orders       []ReconciledOrder   `json:"-"`
	Stats        ReconciliationStats `json:"stats"`
	Capabilities Capabilities        `json:"capabilities"`
	Products     []ProductSummary    `json:"products"`
	SKUs         []SKUSummary        `json:"skus"`
	Daily        []DailySales        `json:"daily"`
	Settlement   *SettlementAnalysis `json:"settlement,omitempty"`
	Costs        *CostMap            `json:"costs"`
	MissingCosts []string            `json:"missing_costs,omitempty"`
	CostWarning  string              `json:"cost_warning,omitempty"`
	Period       *Period             `json:"period,omitempty"`
}
