package usecase

import (
	"sort"

	"github.com/shopspring/decimal"

	"profit-reconciliation/internal/domain"
)

// TopProductsLimit is how many products the top products sheet lists.
const TopProductsLimit = 10

// Margin thresholds used by the overview product counts.
var (
	highMarginPercent = decimal.NewFromInt(20)
	lowMarginPercent  = decimal.NewFromInt(10)
)

// BuildReport derives the report document from a pipeline result. Only the
// overview totals and the top products selection are computed here.
func BuildReport(report *domain.ProfitReport) *domain.ReportDocument {
	doc := &domain.ReportDocument{
		RunID:       report.RunID,
		Overview:    buildOverview(report),
		Products:    report.Products,
		SKUs:        report.SKUs,
		Daily:       report.Daily,
		TopProducts: TopProducts(report.Products, TopProductsLimit),
		Settlement:  report.Settlement,
	}

	doc.Costs = report.Costs.Entries()
	sort.SliceStable(doc.Costs, func(i, j int) bool {
		return doc.Costs[i].ProductName < doc.Costs[j].ProductName
	})
	return doc
}

func buildOverview(report *domain.ProfitReport) domain.Overview {
	ov := domain.Overview{
		Period:       report.Period,
		GeneratedAt:  report.GeneratedAt,
		TotalOrders:  len(report.Orders),
		TotalRevenue: decimal.Zero,
		TotalCost:    decimal.Zero,
		Products:     len(report.Products),
	}
	for _, o := range report.Orders {
		ov.TotalQuantity += o.Quantity()
		ov.TotalRevenue = ov.TotalRevenue.Add(o.Revenue())
	}
	for _, p := range report.Products {
		ov.TotalCost = ov.TotalCost.Add(p.TotalCost)
		if p.Profit.IsPositive() {
			ov.ProfitableProducts++
		}
		if p.MarginPercent.GreaterThan(highMarginPercent) {
			ov.HighMarginProducts++
		}
		if p.MarginPercent.LessThan(lowMarginPercent) {
			ov.LowMarginProducts++
		}
	}
	ov.TotalProfit = ov.TotalRevenue.Sub(ov.TotalCost)
	ov.Share60 = ov.TotalProfit.Mul(shareSixty)
	ov.Share40 = ov.TotalProfit.Mul(shareForty)
	ov.MarginPercent = positivePercent(ov.TotalProfit, ov.TotalRevenue)

	ov.AverageOrderValue = decimal.Zero
	ov.AverageProfitPerOrder = decimal.Zero
	if ov.TotalOrders > 0 {
		n := decimal.NewFromInt(int64(ov.TotalOrders))
		ov.AverageOrderValue = ov.TotalRevenue.Div(n).Round(2)
		ov.AverageProfitPerOrder = ov.TotalProfit.Div(n).Round(2)
	}
	return ov
}

// TopProducts returns up to n products with the largest profit. Ties keep
// their aggregation order.
func TopProducts(products []domain.ProductSummary, n int) []domain.ProductSummary {
	sorted := make([]domain.ProductSummary, len(products))
	copy(sorted, products)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Profit.GreaterThan(sorted[j].Profit)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
