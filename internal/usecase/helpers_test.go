package usecase_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"profit-reconciliation/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func completedOrder(id, sku, name, variation string, qty int64) domain.OrderRecord {
	return domain.OrderRecord{
		OrderID:     id,
		Status:      domain.StatusCompleted,
		Quantity:    qty,
		SKU:         sku,
		ProductName: name,
		Variation:   variation,
	}
}

func cleanSettlement(id, amount string) domain.SettlementRecord {
	return domain.SettlementRecord{AdjustmentID: id, SettlementAmount: dec(amount)}
}

func refundedSettlement(id, amount, refund string) domain.SettlementRecord {
	s := cleanSettlement(id, amount)
	s.CustomerRefund = dec(refund)
	return s
}

func datePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 10, 30, 0, 0, time.UTC)
	return &t
}

// orderColumns is the header of the orders fixtures.
var orderColumns = []string{
	domain.ColOrderStatus, domain.ColOrderID, domain.ColQuantity,
	domain.ColSellerSKU, domain.ColProductName, domain.ColVariation,
}

// scenarioTables returns the three-order fixture: SKUs A/B/A, quantities
// 2/1/3 and settlement amounts 10000/5000/15000.
func scenarioTables() (*domain.Table, *domain.Table) {
	orders := domain.NewTable("orders.csv", orderColumns, [][]string{
		{"Selesai", "1001", "2", "A", "A", "Default"},
		{"Selesai", "1002", "1", "B", "B", "Default"},
		{"Selesai", "1003", "3", "A", "A", "Default"},
	})
	settlements := domain.NewTable("income.csv",
		[]string{domain.ColAdjustmentID, domain.ColSettlementAmount, domain.ColCustomerRefund},
		[][]string{
			{"1001", "10000", "0"},
			{"1002", "5000", "0"},
			{"1003", "15000", "0"},
		})
	return orders, settlements
}
