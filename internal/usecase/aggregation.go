package usecase

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"profit-reconciliation/internal/domain"
)

var (
	hundred    = decimal.NewFromInt(100)
	shareSixty = decimal.RequireFromString("0.6")
	shareForty = decimal.RequireFromString("0.4")
)

// minGrouping is how many descriptive fields product grouping needs.
const minGrouping = 2

// Aggregator turns reconciled orders into the report summaries.
type Aggregator struct {
	logger *zap.Logger
}

// NewAggregator creates an aggregator.
func NewAggregator(logger *zap.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// Profitability computes cost, profit, margin and the 60/40 split for a group.
func Profitability(quantity int64, revenue, unitCost decimal.Decimal) domain.Profitability {
	totalCost := unitCost.Mul(decimal.NewFromInt(quantity))
	profit := revenue.Sub(totalCost)
	return domain.Profitability{
		UnitCost:      unitCost,
		TotalCost:     totalCost,
		Profit:        profit,
		MarginPercent: MarginPercent(profit, revenue),
		Share60:       profit.Mul(shareSixty),
		Share40:       profit.Mul(shareForty),
	}
}

// MarginPercent is profit over revenue in percent, rounded to two decimals.
// A zero revenue yields a zero margin.
func MarginPercent(profit, revenue decimal.Decimal) decimal.Decimal {
	return percentOf(profit, revenue)
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}

type productKey struct {
	sku, name, variation string
}

// Products groups reconciled orders per product. When fewer than two of the
// descriptive fields carry data, every adjustment id becomes its own row.
func (a *Aggregator) Products(orders []domain.ReconciledOrder, costs *domain.CostMap) []domain.ProductSummary {
	if !descriptiveFieldsPresent(orders) {
		a.logger.Warn("product details missing after join, summarising per order id",
			zap.Int("orders", len(orders)))
		return a.productsByOrder(orders, costs)
	}

	groups := make(map[productKey]*domain.ProductSummary)
	var keys []productKey
	for _, o := range orders {
		key := productKey{
			sku:       orPlaceholder(o.SKU(), domain.UnknownSKU),
			name:      orPlaceholder(o.ProductName(), domain.UnknownProduct),
			variation: orPlaceholder(o.Variation(), domain.UnknownVariation),
		}
		g, ok := groups[key]
		if !ok {
			g = &domain.ProductSummary{SKU: key.sku, ProductName: key.name, Variation: key.variation, Revenue: decimal.Zero}
			groups[key] = g
			keys = append(keys, key)
		}
		g.Quantity += o.Quantity()
		g.Revenue = g.Revenue.Add(o.Revenue())
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].sku != keys[j].sku {
			return keys[i].sku < keys[j].sku
		}
		if keys[i].name != keys[j].name {
			return keys[i].name < keys[j].name
		}
		return keys[i].variation < keys[j].variation
	})

	out := make([]domain.ProductSummary, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		g.Profitability = Profitability(g.Quantity, g.Revenue, costs.Cost(g.ProductName))
		out = append(out, *g)
	}
	return out
}

func (a *Aggregator) productsByOrder(orders []domain.ReconciledOrder, costs *domain.CostMap) []domain.ProductSummary {
	out := make([]domain.ProductSummary, 0, len(orders))
	for _, o := range orders {
		row := domain.ProductSummary{
			AdjustmentID: o.AdjustmentID(),
			SKU:          domain.UnknownSKU,
			ProductName:  domain.UnknownProduct,
			Variation:    domain.UnknownVariation,
			Quantity:     1,
			Revenue:      o.Revenue(),
		}
		row.Profitability = Profitability(row.Quantity, row.Revenue, costs.Cost(row.ProductName))
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AdjustmentID < out[j].AdjustmentID })
	return out
}

// descriptiveFieldsPresent reports whether at least two of SKU, product name
// and variation carry a value on some row.
func descriptiveFieldsPresent(orders []domain.ReconciledOrder) bool {
	var sku, name, variation bool
	for _, o := range orders {
		sku = sku || o.SKU() != ""
		name = name || o.ProductName() != ""
		variation = variation || o.Variation() != ""
	}
	present := 0
	for _, ok := range []bool{sku, name, variation} {
		if ok {
			present++
		}
	}
	return present >= minGrouping
}

// SKUs groups reconciled orders per seller SKU. The unit cost comes from the
// first product name seen for the SKU.
func (a *Aggregator) SKUs(orders []domain.ReconciledOrder, costs *domain.CostMap) []domain.SKUSummary {
	groups := make(map[string]*domain.SKUSummary)
	ids := make(map[string]map[string]struct{})
	var keys []string
	for _, o := range orders {
		sku := orPlaceholder(o.SKU(), domain.UnknownSKU)
		g, ok := groups[sku]
		if !ok {
			g = &domain.SKUSummary{SKU: sku, Revenue: decimal.Zero}
			groups[sku] = g
			ids[sku] = make(map[string]struct{})
			keys = append(keys, sku)
		}
		if g.ProductName == "" {
			g.ProductName = o.ProductName()
		}
		g.Quantity += o.Quantity()
		g.Revenue = g.Revenue.Add(o.Revenue())
		ids[sku][o.AdjustmentID()] = struct{}{}
	}
	sort.Strings(keys)

	out := make([]domain.SKUSummary, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		g.Orders = len(ids[k])
		g.ProductName = orPlaceholder(g.ProductName, domain.UnknownProduct)
		g.Profitability = Profitability(g.Quantity, g.Revenue, costs.Cost(g.ProductName))
		out = append(out, *g)
	}
	return out
}

// Daily groups reconciled orders per calendar day of the detected date
// column. A single sentinel row is returned when no usable date exists.
func (a *Aggregator) Daily(orders []domain.ReconciledOrder, costs *domain.CostMap, caps domain.Capabilities, datesInvalid bool) []domain.DailySales {
	if !caps.HasDate() {
		return []domain.DailySales{sentinelDay(domain.DateColumnNotFound)}
	}
	if datesInvalid {
		a.logger.Warn("unparseable dates in date column", zap.String("column", caps.DateColumn))
		return []domain.DailySales{sentinelDay(domain.DateUnavailable)}
	}

	type day struct {
		row domain.DailySales
		ids map[string]struct{}
	}
	days := make(map[string]*day)
	var keys []string
	for _, o := range orders {
		ts := o.Date(caps)
		if ts == nil {
			continue
		}
		date := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
		key := date.Format(time.DateOnly)
		d, ok := days[key]
		if !ok {
			d = &day{
				row: domain.DailySales{Date: &date, Label: key, Revenue: decimal.Zero, Cost: decimal.Zero},
				ids: make(map[string]struct{}),
			}
			days[key] = d
			keys = append(keys, key)
		}
		d.row.Quantity += o.Quantity()
		d.row.Revenue = d.row.Revenue.Add(o.Revenue())
		d.row.Cost = d.row.Cost.Add(costs.Cost(o.ProductName()).Mul(decimal.NewFromInt(o.Quantity())))
		d.ids[o.AdjustmentID()] = struct{}{}
	}
	if len(keys) == 0 {
		return []domain.DailySales{sentinelDay(domain.DateUnavailable)}
	}
	sort.Strings(keys)

	out := make([]domain.DailySales, 0, len(keys))
	for _, k := range keys {
		d := days[k]
		d.row.Orders = len(d.ids)
		d.row.Profit = d.row.Revenue.Sub(d.row.Cost)
		d.row.Margin = MarginPercent(d.row.Profit, d.row.Revenue)
		out = append(out, d.row)
	}
	return out
}

func sentinelDay(label string) domain.DailySales {
	return domain.DailySales{
		Label:   label,
		Revenue: decimal.Zero,
		Cost:    decimal.Zero,
		Profit:  decimal.Zero,
		Margin:  decimal.Zero,
	}
}

// Settlement analyses the full settlement export: refunds, affiliate versus
// direct orders and commission totals. It returns nil when none of the
// optional columns were present.
func (a *Aggregator) Settlement(settlements []domain.SettlementRecord, caps domain.Capabilities) *domain.SettlementAnalysis {
	analysis := &domain.SettlementAnalysis{}

	refunded := make(map[string]bool)
	if caps.Refund {
		analysis.Refunds = refundAnalysis(settlements, refunded)
	}

	var base []domain.SettlementRecord
	for _, s := range settlements {
		if !refunded[s.AdjustmentID] {
			base = append(base, s)
		}
	}

	if caps.AffiliateCommission {
		analysis.Sources, analysis.OrderSources = sourceBreakdown(base, caps)
	}
	if caps.DynamicCommission || caps.AffiliateCommission || caps.PlatformCommission {
		analysis.Commissions = commissionBreakdown(base, caps)
	}

	if analysis.Refunds == nil && analysis.Sources == nil && analysis.Commissions == nil {
		return nil
	}
	return analysis
}

func refundAnalysis(settlements []domain.SettlementRecord, refunded map[string]bool) *domain.RefundAnalysis {
	out := &domain.RefundAnalysis{TotalRefund: decimal.Zero, RefundRate: decimal.Zero, Orders: []domain.RefundedOrder{}}
	all := make(map[string]struct{})
	type pair struct {
		id     string
		refund string
	}
	listed := make(map[pair]bool)
	for _, s := range settlements {
		all[s.AdjustmentID] = struct{}{}
		if !s.Refunded() {
			continue
		}
		refunded[s.AdjustmentID] = true
		out.TotalRefund = out.TotalRefund.Add(s.CustomerRefund)
		p := pair{s.AdjustmentID, s.CustomerRefund.String()}
		if !listed[p] {
			listed[p] = true
			out.Orders = append(out.Orders, domain.RefundedOrder{AdjustmentID: s.AdjustmentID, Refund: s.CustomerRefund})
		}
	}
	out.TotalRefund = out.TotalRefund.Abs()
	out.RefundedOrders = len(refunded)
	out.RefundRate = percentOf(decimal.NewFromInt(int64(len(refunded))), decimal.NewFromInt(int64(len(all))))
	sort.SliceStable(out.Orders, func(i, j int) bool { return out.Orders[i].AdjustmentID < out.Orders[j].AdjustmentID })
	return out
}

func sourceBreakdown(base []domain.SettlementRecord, caps domain.Capabilities) (*domain.SourceBreakdown, []domain.OrderSourceRow) {
	out := &domain.SourceBreakdown{}
	aff := &out.Affiliate
	direct := &out.Direct
	for _, m := range []*domain.SourceMetrics{aff, direct} {
		m.Fees, m.Revenue = decimal.Zero, decimal.Zero
	}

	var affRows, directRows []domain.OrderSourceRow
	for _, s := range base {
		var m *domain.SourceMetrics
		var source domain.OrderSource
		switch {
		case s.AffiliateCommission.IsNegative():
			m, source = aff, domain.SourceAffiliate
		case s.AffiliateCommission.IsZero():
			m, source = direct, domain.SourceDirect
		default:
			continue
		}
		m.Orders++
		m.Fees = m.Fees.Add(s.TotalFees)
		m.Revenue = m.Revenue.Add(s.SettlementAmount)

		row := domain.OrderSourceRow{
			AdjustmentID:     s.AdjustmentID,
			GrossRevenue:     s.GrossRevenue,
			SettlementAmount: s.SettlementAmount,
			TotalFees:        s.TotalFees,
			Commissions:      make(map[string]decimal.Decimal),
			Source:           source,
		}
		for _, col := range domain.CommissionColumns {
			if caps.HasCommission(col) {
				row.Commissions[col] = s.Commission(col).Abs()
			}
		}
		if source == domain.SourceAffiliate {
			affRows = append(affRows, row)
		} else {
			directRows = append(directRows, row)
		}
	}

	aff.FeePercent = positivePercent(aff.Fees, aff.Revenue)
	direct.FeePercent = positivePercent(direct.Fees, direct.Revenue)
	out.Total = domain.SourceMetrics{
		Orders:  aff.Orders + direct.Orders,
		Fees:    aff.Fees.Add(direct.Fees),
		Revenue: aff.Revenue.Add(direct.Revenue),
	}
	out.Total.FeePercent = positivePercent(out.Total.Fees, out.Total.Revenue)

	return out, append(affRows, directRows...)
}

func commissionBreakdown(base []domain.SettlementRecord, caps domain.Capabilities) *domain.CommissionBreakdown {
	settled := decimal.Zero
	fees := decimal.Zero
	for _, s := range base {
		settled = settled.Add(s.SettlementAmount)
		fees = fees.Add(s.TotalFees)
	}

	out := &domain.CommissionBreakdown{TotalFees: fees}
	for _, col := range domain.CommissionColumns {
		if !caps.HasCommission(col) {
			continue
		}
		total := decimal.Zero
		for _, s := range base {
			total = total.Add(s.Commission(col))
		}
		total = total.Abs()
		out.Lines = append(out.Lines, domain.CommissionLine{
			Column:  col,
			Total:   total,
			Percent: positivePercent(total, settled),
		})
	}
	out.FeesPercent = positivePercent(fees, settled)
	return out
}

// positivePercent is part over whole in percent, zero unless whole is positive.
func positivePercent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return percentOf(part, whole)
}

// ReportPeriod returns the first and last calendar day covered by orders.
func ReportPeriod(orders []domain.ReconciledOrder, caps domain.Capabilities) *domain.Period {
	var period *domain.Period
	for _, o := range orders {
		ts := o.Date(caps)
		if ts == nil {
			continue
		}
		if period == nil {
			period = &domain.Period{Start: *ts, End: *ts}
			continue
		}
		if ts.Before(period.Start) {
			period.Start = *ts
		}
		if ts.After(period.End) {
			period.End = *ts
		}
	}
	return period
}

func orPlaceholder(v, placeholder string) string {
	if v == "" {
		return placeholder
	}
	return v
}
