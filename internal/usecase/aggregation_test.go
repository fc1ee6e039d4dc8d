package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"profit-reconciliation/internal/domain"
	"profit-reconciliation/internal/usecase"
)

func reconciledRow(o *domain.OrderRecord, s domain.SettlementRecord) domain.ReconciledOrder {
	return domain.ReconciledOrder{Settlement: s, Order: o}
}

func TestAggregator_Products(t *testing.T) {
	agg := usecase.NewAggregator(zap.NewNop())
	alpha := completedOrder("1", "A", "Alpha", "Red", 2)
	alphaAgain := completedOrder("3", "A", "Alpha", "Red", 3)
	beta := completedOrder("2", "B", "Beta", "Blue", 1)

	tests := []struct {
		name   string
		orders []domain.ReconciledOrder
		costs  *domain.CostMap
		want   []domain.ProductSummary
	}{
		{
			name: "groups by sku, name and variation",
			orders: []domain.ReconciledOrder{
				reconciledRow(&beta, cleanSettlement("2", "5000")),
				reconciledRow(&alpha, cleanSettlement("1", "10000")),
				reconciledRow(&alphaAgain, cleanSettlement("3", "15000")),
			},
			costs: domain.CostMapFrom(domain.CostEntry{ProductName: "Alpha", CostPerUnit: dec("1000")}),
			want: []domain.ProductSummary{
				{SKU: "A", ProductName: "Alpha", Variation: "Red", Quantity: 5, Revenue: dec("25000"),
					Profitability: usecase.Profitability(5, dec("25000"), dec("1000"))},
				{SKU: "B", ProductName: "Beta", Variation: "Blue", Quantity: 1, Revenue: dec("5000"),
					Profitability: usecase.Profitability(1, dec("5000"), dec("0"))},
			},
		},
		{
			name: "join misses get placeholders and zero quantity",
			orders: []domain.ReconciledOrder{
				reconciledRow(&alpha, cleanSettlement("1", "10000")),
				reconciledRow(nil, cleanSettlement("9", "700")),
			},
			costs: domain.NewCostMap(),
			want: []domain.ProductSummary{
				{SKU: "A", ProductName: "Alpha", Variation: "Red", Quantity: 2, Revenue: dec("10000"),
					Profitability: usecase.Profitability(2, dec("10000"), dec("0"))},
				{SKU: domain.UnknownSKU, ProductName: domain.UnknownProduct, Variation: domain.UnknownVariation, Revenue: dec("700"),
					Profitability: usecase.Profitability(0, dec("700"), dec("0"))},
			},
		},
		{
			name: "falls back to one row per order id without product details",
			orders: []domain.ReconciledOrder{
				reconciledRow(nil, cleanSettlement("2", "300")),
				reconciledRow(nil, cleanSettlement("1", "200")),
			},
			costs: domain.NewCostMap(),
			want: []domain.ProductSummary{
				{AdjustmentID: "1", SKU: domain.UnknownSKU, ProductName: domain.UnknownProduct, Variation: domain.UnknownVariation,
					Quantity: 1, Revenue: dec("200"), Profitability: usecase.Profitability(1, dec("200"), dec("0"))},
				{AdjustmentID: "2", SKU: domain.UnknownSKU, ProductName: domain.UnknownProduct, Variation: domain.UnknownVariation,
					Quantity: 1, Revenue: dec("300"), Profitability: usecase.Profitability(1, dec("300"), dec("0"))},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := agg.Products(tt.orders, tt.costs)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.Equal(t, tt.want[i].AdjustmentID, got[i].AdjustmentID)
				assert.Equal(t, tt.want[i].SKU, got[i].SKU)
				assert.Equal(t, tt.want[i].ProductName, got[i].ProductName)
				assert.Equal(t, tt.want[i].Variation, got[i].Variation)
				assert.Equal(t, tt.want[i].Quantity, got[i].Quantity)
				assertDecimal(t, tt.want[i].Revenue.String(), got[i].Revenue)
				assertDecimal(t, tt.want[i].Profit.String(), got[i].Profit)
				assertDecimal(t, tt.want[i].MarginPercent.String(), got[i].MarginPercent)
			}
		})
	}
}

func TestAggregator_ProductsFallbackNeedsTwoFields(t *testing.T) {
	agg := usecase.NewAggregator(zap.NewNop())
	skuOnly := domain.OrderRecord{OrderID: "1", Status: domain.StatusCompleted, Quantity: 4, SKU: "A"}
	got := agg.Products([]domain.ReconciledOrder{reconciledRow(&skuOnly, cleanSettlement("1", "100"))}, domain.NewCostMap())

	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].AdjustmentID)
	assert.Equal(t, int64(1), got[0].Quantity)
	assert.Equal(t, domain.UnknownProduct, got[0].ProductName)
}

func TestProfitability(t *testing.T) {
	tests := []struct {
		name       string
		quantity   int64
		revenue    string
		unitCost   string
		wantCost   string
		wantProfit string
		wantMargin string
	}{
		{name: "product A", quantity: 5, revenue: "25000", unitCost: "1000", wantCost: "5000", wantProfit: "20000", wantMargin: "80"},
		{name: "no cost", quantity: 1, revenue: "5000", unitCost: "0", wantCost: "0", wantProfit: "5000", wantMargin: "100"},
		{name: "loss", quantity: 3, revenue: "3000", unitCost: "1500", wantCost: "4500", wantProfit: "-1500", wantMargin: "-50"},
		{name: "zero revenue", quantity: 2, revenue: "0", unitCost: "10", wantCost: "20", wantProfit: "-20", wantMargin: "0"},
		{name: "rounded margin", quantity: 1, revenue: "3", unitCost: "1", wantCost: "1", wantProfit: "2", wantMargin: "66.67"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := usecase.Profitability(tt.quantity, dec(tt.revenue), dec(tt.unitCost))
			assertDecimal(t, tt.wantCost, got.TotalCost)
			assertDecimal(t, tt.wantProfit, got.Profit)
			assertDecimal(t, tt.wantMargin, got.MarginPercent)
			assert.True(t, got.Share60.Add(got.Share40).Equal(got.Profit), "shares must add up to profit")
			if dec(tt.revenue).IsPositive() && got.Profit.IsPositive() {
				assert.True(t, got.MarginPercent.LessThanOrEqual(dec("100")))
			}
		})
	}
}

func TestAggregator_SKUs(t *testing.T) {
	agg := usecase.NewAggregator(zap.NewNop())
	first := completedOrder("1", "A", "Alpha", "Red", 2)
	second := completedOrder("2", "A", "Alpha Renamed", "Blue", 1)
	other := completedOrder("3", "B", "Beta", "Blue", 4)
	orders := []domain.ReconciledOrder{
		reconciledRow(&other, cleanSettlement("3", "400")),
		reconciledRow(&first, cleanSettlement("1", "1000")),
		reconciledRow(&second, cleanSettlement("2", "500")),
	}
	costs := domain.CostMapFrom(
		domain.CostEntry{ProductName: "Alpha", CostPerUnit: dec("100")},
		domain.CostEntry{ProductName: "Beta", CostPerUnit: dec("50")},
	)

	got := agg.SKUs(orders, costs)

	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].SKU)
	assert.Equal(t, "Alpha", got[0].ProductName)
	assert.Equal(t, int64(3), got[0].Quantity)
	assert.Equal(t, 2, got[0].Orders)
	assertDecimal(t, "1500", got[0].Revenue)
	assertDecimal(t, "300", got[0].TotalCost)
	assert.Equal(t, "B", got[1].SKU)
	assertDecimal(t, "200", got[1].TotalCost)
}

func TestAggregator_Daily(t *testing.T) {
	agg := usecase.NewAggregator(zap.NewNop())
	day1 := completedOrder("1", "A", "Alpha", "Red", 2)
	day1.CreatedAt = datePtr(2025, time.July, 1)
	day2 := completedOrder("2", "A", "Alpha", "Red", 1)
	day2.CreatedAt = datePtr(2025, time.July, 2)
	day1Again := completedOrder("3", "A", "Alpha", "Red", 1)
	later := day1.CreatedAt.Add(5 * time.Hour)
	day1Again.CreatedAt = &later
	orders := []domain.ReconciledOrder{
		reconciledRow(&day2, cleanSettlement("2", "500")),
		reconciledRow(&day1, cleanSettlement("1", "1000")),
		reconciledRow(&day1Again, cleanSettlement("3", "400")),
	}
	costs := domain.CostMapFrom(domain.CostEntry{ProductName: "Alpha", CostPerUnit: dec("100")})

	tests := []struct {
		name         string
		caps         domain.Capabilities
		datesInvalid bool
		wantLabels   []string
	}{
		{name: "no date column", caps: domain.Capabilities{}, wantLabels: []string{domain.DateColumnNotFound}},
		{name: "unparseable dates", caps: domain.Capabilities{DateColumn: "Date"}, datesInvalid: true, wantLabels: []string{domain.DateUnavailable}},
		{name: "grouped by calendar day", caps: domain.Capabilities{DateColumn: "Order created time"}, wantLabels: []string{"2025-07-01", "2025-07-02"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := agg.Daily(orders, costs, tt.caps, tt.datesInvalid)
			var labels []string
			for _, d := range got {
				labels = append(labels, d.Label)
			}
			assert.Equal(t, tt.wantLabels, labels)
		})
	}

	got := agg.Daily(orders, costs, domain.Capabilities{DateColumn: "Order created time"}, false)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].Orders)
	assert.Equal(t, int64(3), got[0].Quantity)
	assertDecimal(t, "1400", got[0].Revenue)
	assertDecimal(t, "300", got[0].Cost)
	assertDecimal(t, "1100", got[0].Profit)
	assertDecimal(t, "78.57", got[0].Margin)
	assert.False(t, got[0].Sentinel())
}

func TestAggregator_Settlement(t *testing.T) {
	agg := usecase.NewAggregator(zap.NewNop())
	settlements := []domain.SettlementRecord{
		{AdjustmentID: "1", SettlementAmount: dec("9000"), TotalFees: dec("-1000"), AffiliateCommission: dec("-500"), PlatformCommission: dec("-300")},
		{AdjustmentID: "2", SettlementAmount: dec("4500"), TotalFees: dec("-500"), PlatformCommission: dec("-200")},
		{AdjustmentID: "3", SettlementAmount: dec("6500"), TotalFees: dec("-500"), CustomerRefund: dec("-2000")},
		{AdjustmentID: "3", SettlementAmount: dec("0"), CustomerRefund: dec("0")},
	}

	t.Run("no optional columns", func(t *testing.T) {
		assert.Nil(t, agg.Settlement(settlements, domain.Capabilities{}))
	})

	t.Run("full breakdown", func(t *testing.T) {
		caps := domain.Capabilities{Refund: true, Fees: true, AffiliateCommission: true, PlatformCommission: true}
		got := agg.Settlement(settlements, caps)
		require.NotNil(t, got)

		require.NotNil(t, got.Refunds)
		assert.Equal(t, 1, got.Refunds.RefundedOrders)
		assertDecimal(t, "2000", got.Refunds.TotalRefund)
		assertDecimal(t, "33.33", got.Refunds.RefundRate)
		require.Len(t, got.Refunds.Orders, 1)
		assert.Equal(t, "3", got.Refunds.Orders[0].AdjustmentID)

		require.NotNil(t, got.Sources)
		assert.Equal(t, 1, got.Sources.Affiliate.Orders)
		assert.Equal(t, 1, got.Sources.Direct.Orders)
		assert.Equal(t, 2, got.Sources.Total.Orders)
		assertDecimal(t, "13500", got.Sources.Total.Revenue)
		assertDecimal(t, "-1500", got.Sources.Total.Fees)

		require.NotNil(t, got.Commissions)
		require.Len(t, got.Commissions.Lines, 2)
		assert.Equal(t, domain.ColAffiliateCommission, got.Commissions.Lines[0].Column)
		assertDecimal(t, "500", got.Commissions.Lines[0].Total)
		assert.Equal(t, domain.ColPlatformCommission, got.Commissions.Lines[1].Column)
		assertDecimal(t, "500", got.Commissions.Lines[1].Total)
		assertDecimal(t, "3.7", got.Commissions.Lines[1].Percent)

		require.Len(t, got.OrderSources, 2)
		assert.Equal(t, domain.SourceAffiliate, got.OrderSources[0].Source)
		assert.Equal(t, domain.SourceDirect, got.OrderSources[1].Source)
		assertDecimal(t, "300", got.OrderSources[0].Commissions[domain.ColPlatformCommission])
	})
}
