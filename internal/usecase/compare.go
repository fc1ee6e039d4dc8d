package usecase

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"profit-reconciliation/internal/domain"
)

// Thresholds above which a product movement is reported as significant.
var (
	SignificantRevenueDelta = decimal.NewFromInt(100000)
	SignificantProfitDelta  = decimal.NewFromInt(50000)
	SignificantMarginDelta  = decimal.NewFromInt(5)
)

var (
	settlementFilePattern = regexp.MustCompile(`income[_-](\d{8,})`)
	orderFilePattern      = regexp.MustCompile(`selesai[ _-]pesanan[-_]?([\d-]+)`)
)

// Compare contrasts an older report with a newer one.
func Compare(older, newer *domain.ProfitReport) *domain.PeriodComparison {
	oldTotals := reportTotals(older)
	newTotals := reportTotals(newer)

	cmp := &domain.PeriodComparison{
		Revenue:             metricChange(oldTotals.revenue, newTotals.revenue),
		Profit:              metricChange(oldTotals.profit, newTotals.profit),
		Quantity:            metricChange(decimal.NewFromInt(oldTotals.quantity), decimal.NewFromInt(newTotals.quantity)),
		AverageMargin:       metricChange(oldTotals.averageMargin, newTotals.averageMargin),
		SignificantChanges:  []domain.ProductChange{},
		NewProducts:         []domain.ProductTotal{},
		DisappearedProducts: []domain.ProductTotal{},
	}

	oldProducts, oldOrder := productsByName(older.Products)
	newProducts, newOrder := productsByName(newer.Products)

	for _, name := range newOrder {
		n := newProducts[name]
		o, ok := oldProducts[name]
		if !ok {
			cmp.NewProducts = append(cmp.NewProducts, domain.ProductTotal{ProductName: name, Revenue: n.revenue, Profit: n.profit})
			continue
		}
		cmp.CommonProducts++
		change := domain.ProductChange{
			ProductName:   name,
			RevenueDelta:  n.revenue.Sub(o.revenue),
			ProfitDelta:   n.profit.Sub(o.profit),
			QuantityDelta: n.quantity - o.quantity,
			MarginDelta:   n.margin().Sub(o.margin()),
		}
		if significant(change) {
			cmp.SignificantChanges = append(cmp.SignificantChanges, change)
		}
	}
	for _, name := range oldOrder {
		if _, ok := newProducts[name]; ok {
			continue
		}
		o := oldProducts[name]
		cmp.DisappearedProducts = append(cmp.DisappearedProducts, domain.ProductTotal{ProductName: name, Revenue: o.revenue, Profit: o.profit})
	}
	sort.SliceStable(cmp.SignificantChanges, func(i, j int) bool {
		return cmp.SignificantChanges[i].RevenueDelta.GreaterThan(cmp.SignificantChanges[j].RevenueDelta)
	})
	return cmp
}

func significant(c domain.ProductChange) bool {
	return c.RevenueDelta.Abs().GreaterThan(SignificantRevenueDelta) ||
		c.ProfitDelta.Abs().GreaterThan(SignificantProfitDelta) ||
		c.MarginDelta.Abs().GreaterThan(SignificantMarginDelta)
}

type totals struct {
	revenue       decimal.Decimal
	profit        decimal.Decimal
	quantity      int64
	averageMargin decimal.Decimal
}

func reportTotals(r *domain.ProfitReport) totals {
	t := totals{revenue: decimal.Zero, profit: decimal.Zero, averageMargin: decimal.Zero}
	margins := decimal.Zero
	for _, p := range r.Products {
		t.revenue = t.revenue.Add(p.Revenue)
		t.profit = t.profit.Add(p.Profit)
		t.quantity += p.Quantity
		margins = margins.Add(p.MarginPercent)
	}
	if len(r.Products) > 0 {
		t.averageMargin = margins.Div(decimal.NewFromInt(int64(len(r.Products)))).Round(2)
	}
	return t
}

func metricChange(older, newer decimal.Decimal) domain.MetricChange {
	return domain.MetricChange{
		Old:           older,
		New:           newer,
		Delta:         newer.Sub(older),
		GrowthPercent: positivePercent(newer.Sub(older), older),
	}
}

type productTotals struct {
	revenue  decimal.Decimal
	profit   decimal.Decimal
	quantity int64
}

func (p productTotals) margin() decimal.Decimal {
	return MarginPercent(p.profit, p.revenue)
}

// productsByName folds variations and SKUs of the same product together.
func productsByName(products []domain.ProductSummary) (map[string]*productTotals, []string) {
	byName := make(map[string]*productTotals)
	var order []string
	for _, p := range products {
		t, ok := byName[p.ProductName]
		if !ok {
			t = &productTotals{revenue: decimal.Zero, profit: decimal.Zero}
			byName[p.ProductName] = t
			order = append(order, p.ProductName)
		}
		t.revenue = t.revenue.Add(p.Revenue)
		t.profit = t.profit.Add(p.Profit)
		t.quantity += p.Quantity
	}
	return byName, order
}

// PeriodFiles names the four exports of a two-period comparison.
type PeriodFiles struct {
	OldOrders      string
	OldSettlements string
	NewOrders      string
	NewSettlements string
}

// DetectPeriodFiles classifies uploaded file names into the settlement
// exports ("income_20250723...") and completed order exports
// ("Selesai pesanan-2025-07-23...") of two periods, older first.
func DetectPeriodFiles(names []string) (PeriodFiles, error) {
	type stamped struct {
		name  string
		stamp string
	}
	var settlements, orders []stamped
	for _, name := range names {
		base := strings.ToLower(filepath.Base(name))
		if m := settlementFilePattern.FindStringSubmatch(base); m != nil {
			settlements = append(settlements, stamped{name, strings.ReplaceAll(m[1], "-", "")})
			continue
		}
		if m := orderFilePattern.FindStringSubmatch(base); m != nil {
			orders = append(orders, stamped{name, strings.ReplaceAll(m[1], "-", "")})
		}
	}
	if len(settlements) != 2 || len(orders) != 2 {
		return PeriodFiles{}, fmt.Errorf("%w: need two income files and two completed order files "+
			"(e.g. income_20250723xxxx.xlsx, Selesai pesanan-2025-07-23-xx_xx.xlsx), got %d and %d",
			domain.ErrPeriodFiles, len(settlements), len(orders))
	}
	byStamp := func(files []stamped) func(i, j int) bool {
		return func(i, j int) bool { return files[i].stamp < files[j].stamp }
	}
	sort.SliceStable(settlements, byStamp(settlements))
	sort.SliceStable(orders, byStamp(orders))

	return PeriodFiles{
		OldOrders:      orders[0].name,
		OldSettlements: settlements[0].name,
		NewOrders:      orders[1].name,
		NewSettlements: settlements[1].name,
	}, nil
}
