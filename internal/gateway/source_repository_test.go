package gateway

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"profit-reconciliation/internal/domain"
)

// workbook builds an xlsx file whose first sheet holds rows.
func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		ref, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", ref, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestReadXLSXTable(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{domain.ColOrderStatus, domain.ColOrderID, domain.ColQuantity},
		{"Order status", "Platform unique order ID", "Quantity sold"},
		{"Selesai", "577001", 2},
		{nil, nil, nil},
		{"Selesai", "577002", 1.5},
	})

	got, err := readXLSXTable("orders.xlsx", buf, orderSkipRows)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.ColOrderStatus, domain.ColOrderID, domain.ColQuantity}, got.Columns)
	assert.Equal(t, [][]string{
		{"Selesai", "577001", "2"},
		{"Selesai", "577002", "1.5"},
	}, got.Rows)
}

func TestReadXLSXTable_Errors(t *testing.T) {
	t.Run("not a workbook", func(t *testing.T) {
		_, err := readXLSXTable("orders.xlsx", strings.NewReader("plain text"), 0)
		assert.ErrorContains(t, err, "failed to open workbook orders.xlsx")
	})

	t.Run("empty sheet", func(t *testing.T) {
		_, err := readXLSXTable("orders.xlsx", workbook(t, nil), 0)
		assert.ErrorIs(t, err, domain.ErrEmptyInput)
	})
}

func TestSpreadsheetSourceRepository(t *testing.T) {
	repo := NewSpreadsheetSourceRepository(zap.NewNop())
	ctx := context.Background()

	t.Run("orders csv skips description row", func(t *testing.T) {
		data := "Order Status,Order ID\nOrder status,Platform unique order ID\nSelesai,577001\n"
		got, err := repo.ReadOrders(ctx, "Selesai pesanan-20250701.CSV", strings.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"Selesai", "577001"}}, got.Rows)
	})

	t.Run("settlements csv keeps first row", func(t *testing.T) {
		data := "Order/adjustment ID,Total settlement amount\n577001,150000\n"
		got, err := repo.ReadSettlements(ctx, "income_20250701.csv", strings.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"577001", "150000"}}, got.Rows)
	})

	t.Run("settlements xlsx", func(t *testing.T) {
		buf := workbook(t, [][]interface{}{
			{domain.ColAdjustmentID, domain.ColSettlementAmount},
			{"577001", 150000},
		})
		got, err := repo.ReadSettlements(ctx, "income_20250701.xlsx", buf)
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"577001", "150000"}}, got.Rows)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := repo.ReadOrders(ctx, "orders.pdf", strings.NewReader(""))
		assert.ErrorContains(t, err, `unsupported file type ".pdf"`)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := repo.ReadOrders(cctx, "orders.csv", strings.NewReader("Order ID\n1\n"))
		assert.ErrorIs(t, err, context.Canceled)
	})
}
