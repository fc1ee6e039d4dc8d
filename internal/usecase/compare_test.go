package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profit-reconciliation/internal/domain"
	"profit-reconciliation/internal/usecase"
)

func TestCompare(t *testing.T) {
	older := &domain.ProfitReport{Products: []domain.ProductSummary{
		product("Kaos", "200000", "10000", 10),
		product("Topi", "50000", "5000", 5),
		product("Tas", "80000", "20000", 2),
	}}
	newer := &domain.ProfitReport{Products: []domain.ProductSummary{
		product("Kaos", "400000", "10000", 20),
		product("Topi", "52000", "5000", 5),
		product("Tas", "60000", "20000", 2),
		product("Sepatu", "150000", "50000", 1),
	}}
	newer.Products = append(newer.Products, domain.ProductSummary{
		SKU: "TOPI-2", ProductName: "Topi", Variation: "Red", Quantity: 1, Revenue: dec("1000"),
		Profitability: usecase.Profitability(1, dec("1000"), dec("0")),
	})

	got := usecase.Compare(older, newer)

	assertDecimal(t, "330000", got.Revenue.Old)
	assertDecimal(t, "663000", got.Revenue.New)
	assertDecimal(t, "333000", got.Revenue.Delta)
	assertDecimal(t, "100.91", got.Revenue.GrowthPercent)
	assertDecimal(t, "17", got.Quantity.Old)
	assertDecimal(t, "29", got.Quantity.New)
	assert.Equal(t, 3, got.CommonProducts)

	require.Len(t, got.SignificantChanges, 2)
	assert.Equal(t, "Kaos", got.SignificantChanges[0].ProductName)
	assertDecimal(t, "200000", got.SignificantChanges[0].RevenueDelta)
	assert.Equal(t, int64(10), got.SignificantChanges[0].QuantityDelta)
	assert.Equal(t, "Tas", got.SignificantChanges[1].ProductName)
	assertDecimal(t, "-16.67", got.SignificantChanges[1].MarginDelta)

	require.Len(t, got.NewProducts, 1)
	assert.Equal(t, "Sepatu", got.NewProducts[0].ProductName)
	assertDecimal(t, "100000", got.NewProducts[0].Profit)
	assert.Empty(t, got.DisappearedProducts)
}

func TestCompare_ZeroBaseline(t *testing.T) {
	got := usecase.Compare(&domain.ProfitReport{}, &domain.ProfitReport{Products: []domain.ProductSummary{
		product("Kaos", "1000", "0", 1),
	}})

	assertDecimal(t, "0", got.Revenue.GrowthPercent)
	assertDecimal(t, "1000", got.Revenue.Delta)
	require.Len(t, got.NewProducts, 1)
}

func TestDetectPeriodFiles(t *testing.T) {
	tests := []struct {
		name    string
		files   []string
		want    usecase.PeriodFiles
		wantErr bool
	}{
		{
			name: "two periods in any order",
			files: []string{
				"income_20250801123456.xlsx",
				"Selesai pesanan-2025-08-01-10_00.xlsx",
				"INCOME_20250701000000.xlsx",
				"uploads/Selesai pesanan-2025-07-01-09_30.xlsx",
			},
			want: usecase.PeriodFiles{
				OldOrders:      "uploads/Selesai pesanan-2025-07-01-09_30.xlsx",
				OldSettlements: "INCOME_20250701000000.xlsx",
				NewOrders:      "Selesai pesanan-2025-08-01-10_00.xlsx",
				NewSettlements: "income_20250801123456.xlsx",
			},
		},
		{
			name:    "one period only",
			files:   []string{"income_20250801123456.xlsx", "Selesai pesanan-2025-08-01.xlsx"},
			wantErr: true,
		},
		{
			name:    "unrecognised names",
			files:   []string{"a.xlsx", "b.xlsx", "c.xlsx", "d.xlsx"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := usecase.DetectPeriodFiles(tt.files)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrPeriodFiles)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
