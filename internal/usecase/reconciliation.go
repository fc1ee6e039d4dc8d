package usecase

import (
	"github.com/shopspring/decimal"

	"profit-reconciliation/internal/domain"
)

// Reconcile joins clean settlements to completed orders.
//
// Settlements carrying a negative customer refund are dropped, orders are
// restricted to the completed status, and each remaining settlement is left
// joined to the orders sharing its id. The result holds one row per
// adjustment id: the first settlement row for an id wins, and it keeps the
// first matching order in order-table order, so duplicated order lines never
// multiply revenue. Reconcile has no hidden state; equal inputs give equal
// outputs.
func Reconcile(orders []domain.OrderRecord, settlements []domain.SettlementRecord) ([]domain.ReconciledOrder, domain.ReconciliationStats, error) {
	stats := domain.ReconciliationStats{
		TotalSettlements:  len(settlements),
		TotalOrders:       len(orders),
		CleanRevenue:      decimal.Zero,
		ReconciledRevenue: decimal.Zero,
	}

	// Step 1: refund filter
	clean := make([]domain.SettlementRecord, 0, len(settlements))
	for _, s := range settlements {
		if s.Refunded() {
			stats.RefundedSettlements++
			continue
		}
		clean = append(clean, s)
		stats.CleanRevenue = stats.CleanRevenue.Add(s.SettlementAmount)
	}
	stats.CleanSettlements = len(clean)
	if len(clean) == 0 {
		return nil, stats, domain.ErrNoCleanSettlements
	}

	// Step 2: status filter, indexed by order id in table order
	completed := make(map[string][]int)
	for i, o := range orders {
		if !o.Completed() {
			continue
		}
		stats.CompletedOrders++
		completed[o.OrderID] = append(completed[o.OrderID], i)
	}
	stats.UniqueCompletedIDs = len(completed)
	if stats.CompletedOrders == 0 {
		return nil, stats, domain.ErrNoCompletedOrders
	}

	// Step 3 & 4: left join and de-duplication by adjustment id
	seen := make(map[string]bool, len(clean))
	reconciled := make([]domain.ReconciledOrder, 0, len(clean))
	for _, s := range clean {
		matches := completed[s.AdjustmentID]
		if len(matches) == 0 {
			stats.JoinedRows++
		} else {
			stats.JoinedRows += len(matches)
		}
		if seen[s.AdjustmentID] {
			continue
		}
		seen[s.AdjustmentID] = true

		row := domain.ReconciledOrder{Settlement: s}
		if len(matches) > 0 {
			order := orders[matches[0]]
			row.Order = &order
			stats.MatchedSettlements++
		} else {
			stats.UnmatchedSettlements++
		}
		reconciled = append(reconciled, row)
		stats.ReconciledRevenue = stats.ReconciledRevenue.Add(s.SettlementAmount)
	}
	if stats.JoinedRows == 0 {
		return nil, stats, domain.ErrNoMatchingOrders
	}
	stats.ReconciledOrders = len(reconciled)

	return reconciled, stats, nil
}
