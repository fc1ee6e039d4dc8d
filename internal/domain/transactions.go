package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatusCompleted is the order status the marketplace uses for completed orders.
const StatusCompleted = "Selesai"

// Orders export column names.
const (
	ColOrderStatus = "Order Status"
	ColOrderID     = "Order ID"
	ColQuantity    = "Quantity"
	ColSellerSKU   = "Seller SKU"
	ColProductName = "Product Name"
	ColVariation   = "Variation"
)

// Settlement (income) export column names.
const (
	ColAdjustmentID        = "Order/adjustment ID"
	ColSettlementAmount    = "Total settlement amount"
	ColCustomerRefund      = "Customer refund"
	ColTotalRevenue        = "Total revenue"
	ColTotalFees           = "Total fees"
	ColAffiliateCommission = "Affiliate commission"
	ColDynamicCommission   = "Dynamic Commission"
	ColPlatformCommission  = "TikTok Shop commission fee"
)

// RequiredOrderColumns must be present in every orders export.
var RequiredOrderColumns = []string{
	ColOrderStatus, ColOrderID, ColQuantity, ColSellerSKU, ColProductName, ColVariation,
}

// RequiredSettlementColumns must be present in every settlement export.
var RequiredSettlementColumns = []string{
	ColAdjustmentID, ColSettlementAmount,
}

// DateColumns lists the recognised order date headers in lookup priority.
var DateColumns = []string{
	"Order created time(UTC)",
	"Order creation time",
	"Order Creation Time",
	"Creation Time",
	"Date",
	"Order Date",
	"Order created time",
	"Created time",
}

// CommissionColumns are the optional commission breakdown columns, in report order.
var CommissionColumns = []string{
	ColDynamicCommission, ColAffiliateCommission, ColPlatformCommission,
}

// OrderRecord is one row of the completed orders export.
type OrderRecord struct {
	OrderID     string     `json:"order_id"`
	Status      string     `json:"status"`
	Quantity    int64      `json:"quantity"`
	SKU         string     `json:"sku"`
	ProductName string     `json:"product_name"`
	Variation   string     `json:"variation"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// Completed reports whether the order reached the completed status.
func (o OrderRecord) Completed() bool {
	return o.Status == StatusCompleted
}

// SettlementRecord is one row of the settlement (income) export.
// Optional amounts are zero when their column is absent; see Capabilities.
type SettlementRecord struct {
	AdjustmentID        string          `json:"adjustment_id"`
	SettlementAmount    decimal.Decimal `json:"settlement_amount"`
	GrossRevenue        decimal.Decimal `json:"gross_revenue"`
	TotalFees           decimal.Decimal `json:"total_fees"`
	CustomerRefund      decimal.Decimal `json:"customer_refund"`
	AffiliateCommission decimal.Decimal `json:"affiliate_commission"`
	DynamicCommission   decimal.Decimal `json:"dynamic_commission"`
	PlatformCommission  decimal.Decimal `json:"platform_commission"`
	SettledAt           *time.Time      `json:"settled_at,omitempty"`
}

// Refunded reports whether the record marks its order as refunded.
func (s SettlementRecord) Refunded() bool {
	return s.CustomerRefund.IsNegative()
}

// Commission returns the amount recorded for one of CommissionColumns.
func (s SettlementRecord) Commission(column string) decimal.Decimal {
	switch column {
	case ColDynamicCommission:
		return s.DynamicCommission
	case ColAffiliateCommission:
		return s.AffiliateCommission
	case ColPlatformCommission:
		return s.PlatformCommission
	}
	return decimal.Zero
}

// Capabilities records which optional columns the inputs carried, which in
// turn decides which optional aggregations can run.
type Capabilities struct {
	Refund              bool   `json:"refund"`
	GrossRevenue        bool   `json:"gross_revenue"`
	Fees                bool   `json:"fees"`
	AffiliateCommission bool   `json:"affiliate_commission"`
	DynamicCommission   bool   `json:"dynamic_commission"`
	PlatformCommission  bool   `json:"platform_commission"`
	DateColumn          string `json:"date_column,omitempty"`
	DateInSettlements   bool   `json:"date_in_settlements"`
}

// HasCommission reports whether the given commission column was present.
func (c Capabilities) HasCommission(column string) bool {
	switch column {
	case ColDynamicCommission:
		return c.DynamicCommission
	case ColAffiliateCommission:
		return c.AffiliateCommission
	case ColPlatformCommission:
		return c.PlatformCommission
	}
	return false
}

// HasDate reports whether a recognised date column was found.
func (c Capabilities) HasDate() bool {
	return c.DateColumn != ""
}
