package api

import (
	"github.com/shopspring/decimal"

	"profit-reconciliation/internal/domain"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error                     string   `json:"error"`
	MissingOrdersColumns      []string `json:"missing_orders_columns,omitempty"`
	MissingSettlementsColumns []string `json:"missing_settlements_columns,omitempty"`
}

// CostListResponse lists the cost table in insertion order.
type CostListResponse struct {
	Costs []domain.CostEntry `json:"costs"`
}

// SetCostRequest is the body of PUT /api/costs/{product}. The cost may be
// sent as a JSON number or string.
type SetCostRequest struct {
	CostPerUnit *decimal.Decimal `json:"cost_per_unit"`
}

// ImportResponse reports how many entries a bulk import accepted.
type ImportResponse struct {
	Imported int `json:"imported"`
	Products int `json:"products"`
}

// RefreshResponse reports the size of the reloaded table.
type RefreshResponse struct {
	Products int `json:"products"`
}
