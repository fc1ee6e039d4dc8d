package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Placeholders used when product details could not be attached to a settlement.
const (
	UnknownProduct   = "Unknown Product"
	UnknownSKU       = "Unknown SKU"
	UnknownVariation = "Unknown Variation"
)

// ReconciledOrder is a settlement row with the order it was joined to.
// Order is nil when the settlement had no completed order counterpart.
type ReconciledOrder struct {
	Settlement SettlementRecord `json:"settlement"`
	Order      *OrderRecord     `json:"order,omitempty"`
}

// AdjustmentID is the settlement identifier; it is the row's identity.
func (r ReconciledOrder) AdjustmentID() string {
	return r.Settlement.AdjustmentID
}

// Revenue is the settlement amount recognised for the order.
func (r ReconciledOrder) Revenue() decimal.Decimal {
	return r.Settlement.SettlementAmount
}

// Matched reports whether an order row was attached.
func (r ReconciledOrder) Matched() bool {
	return r.Order != nil
}

// Quantity is the ordered quantity, zero on a join miss.
func (r ReconciledOrder) Quantity() int64 {
	if r.Order == nil {
		return 0
	}
	return r.Order.Quantity
}

// SKU returns the seller SKU or "" on a join miss.
func (r ReconciledOrder) SKU() string {
	if r.Order == nil {
		return ""
	}
	return r.Order.SKU
}

// ProductName returns the product name or "" on a join miss.
func (r ReconciledOrder) ProductName() string {
	if r.Order == nil {
		return ""
	}
	return r.Order.ProductName
}

// Variation returns the variation or "" on a join miss.
func (r ReconciledOrder) Variation() string {
	if r.Order == nil {
		return ""
	}
	return r.Order.Variation
}

// Date returns the order date taken from the detected date column.
func (r ReconciledOrder) Date(caps Capabilities) *time.Time {
	if !caps.HasDate() {
		return nil
	}
	if caps.DateInSettlements {
		return r.Settlement.SettledAt
	}
	if r.Order == nil {
		return nil
	}
	return r.Order.CreatedAt
}

// ReconciliationStats are the diagnostics collected while reconciling.
type ReconciliationStats struct {
	TotalSettlements     int             `json:"total_settlements"`
	CleanSettlements     int             `json:"clean_settlements"`
	RefundedSettlements  int             `json:"refunded_settlements"`
	TotalOrders          int             `json:"total_orders"`
	CompletedOrders      int             `json:"completed_orders"`
	UniqueCompletedIDs   int             `json:"unique_completed_ids"`
	JoinedRows           int             `json:"joined_rows"`
	MatchedSettlements   int             `json:"matched_settlements"`
	UnmatchedSettlements int             `json:"unmatched_settlements"`
	ReconciledOrders     int             `json:"reconciled_orders"`
	CleanRevenue         decimal.Decimal `json:"clean_revenue"`
	ReconciledRevenue    decimal.Decimal `json:"reconciled_revenue"`
}
