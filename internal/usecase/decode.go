package usecase

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"profit-reconciliation/internal/domain"
)

// Input is a validated pair of exports decoded into typed records.
type Input struct {
	Orders       []domain.OrderRecord
	Settlements  []domain.SettlementRecord
	Capabilities domain.Capabilities
	// DatesInvalid is set when a non-empty date cell could not be parsed.
	DatesInvalid bool
}

var errNotANumber = errors.New("not a number")

// Accepted date layouts, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
	// Slash dates are day first, as in the marketplace's Indonesian exports.
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// maxExcelSerial is 9999-12-31 in the 1900 date system.
const maxExcelSerial = 2958466

var integralFloat = regexp.MustCompile(`^(\d+)\.0+$`)

// DetectCapabilities records which optional columns are present. The date
// column is the first recognised name present in either export; when both
// carry it the settlement column is used.
func DetectCapabilities(orders, settlements *domain.Table) domain.Capabilities {
	caps := domain.Capabilities{
		Refund:              settlements.Has(domain.ColCustomerRefund),
		GrossRevenue:        settlements.Has(domain.ColTotalRevenue),
		Fees:                settlements.Has(domain.ColTotalFees),
		AffiliateCommission: settlements.Has(domain.ColAffiliateCommission),
		DynamicCommission:   settlements.Has(domain.ColDynamicCommission),
		PlatformCommission:  settlements.Has(domain.ColPlatformCommission),
	}
	for _, col := range domain.DateColumns {
		switch {
		case settlements.Has(col):
			caps.DateColumn = col
			caps.DateInSettlements = true
			return caps
		case orders.Has(col):
			caps.DateColumn = col
			return caps
		}
	}
	return caps
}

// Decode types both tables. They must have passed ValidateSchema.
func Decode(orders, settlements *domain.Table) (*Input, error) {
	in := &Input{Capabilities: DetectCapabilities(orders, settlements)}
	caps := in.Capabilities

	od := newTableDecoder(orders)
	for i := range orders.Rows {
		qty, err := od.quantity(i, domain.ColQuantity)
		if err != nil {
			return nil, err
		}
		rec := domain.OrderRecord{
			OrderID:     normalizeID(od.str(i, domain.ColOrderID)),
			Status:      od.str(i, domain.ColOrderStatus),
			Quantity:    qty,
			SKU:         od.str(i, domain.ColSellerSKU),
			ProductName: od.str(i, domain.ColProductName),
			Variation:   od.str(i, domain.ColVariation),
		}
		if caps.HasDate() && !caps.DateInSettlements {
			rec.CreatedAt = od.date(i, caps.DateColumn, &in.DatesInvalid)
		}
		in.Orders = append(in.Orders, rec)
	}

	sd := newTableDecoder(settlements)
	for i := range settlements.Rows {
		rec := domain.SettlementRecord{AdjustmentID: normalizeID(sd.str(i, domain.ColAdjustmentID))}
		amounts := []struct {
			column string
			dst    *decimal.Decimal
		}{
			{domain.ColSettlementAmount, &rec.SettlementAmount},
			{domain.ColTotalRevenue, &rec.GrossRevenue},
			{domain.ColTotalFees, &rec.TotalFees},
			{domain.ColCustomerRefund, &rec.CustomerRefund},
			{domain.ColAffiliateCommission, &rec.AffiliateCommission},
			{domain.ColDynamicCommission, &rec.DynamicCommission},
			{domain.ColPlatformCommission, &rec.PlatformCommission},
		}
		for _, a := range amounts {
			v, err := sd.amount(i, a.column)
			if err != nil {
				return nil, err
			}
			*a.dst = v
		}
		if caps.DateInSettlements {
			rec.SettledAt = sd.date(i, caps.DateColumn, &in.DatesInvalid)
		}
		in.Settlements = append(in.Settlements, rec)
	}
	return in, nil
}

type tableDecoder struct {
	table *domain.Table
	index map[string]int
}

func newTableDecoder(t *domain.Table) *tableDecoder {
	idx := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, dup := idx[c]; !dup {
			idx[c] = i
		}
	}
	return &tableDecoder{table: t, index: idx}
}

// str returns the trimmed cell, "" when the column is absent.
func (d *tableDecoder) str(row int, column string) string {
	i, ok := d.index[column]
	if !ok {
		return ""
	}
	return strings.TrimSpace(d.table.Rows[row][i])
}

func (d *tableDecoder) amount(row int, column string) (decimal.Decimal, error) {
	raw := d.str(row, column)
	v, err := ParseAmount(raw)
	if err != nil {
		return decimal.Zero, d.valueError(row, column, raw, err)
	}
	return v, nil
}

func (d *tableDecoder) quantity(row int, column string) (int64, error) {
	raw := d.str(row, column)
	v, err := ParseAmount(raw)
	if err != nil {
		return 0, d.valueError(row, column, raw, err)
	}
	if !v.Equal(v.Truncate(0)) {
		return 0, d.valueError(row, column, raw, errors.New("quantity is not a whole number"))
	}
	return v.IntPart(), nil
}

// date parses the cell, flagging invalid when a non-empty value is unusable.
func (d *tableDecoder) date(row int, column string, invalid *bool) *time.Time {
	raw := d.str(row, column)
	if raw == "" {
		return nil
	}
	t, err := ParseDate(raw)
	if err != nil {
		*invalid = true
		return nil
	}
	return &t
}

func (d *tableDecoder) valueError(row int, column, raw string, err error) error {
	return &domain.ValueError{
		Source: d.table.Source,
		Row:    row + 1,
		Column: column,
		Value:  raw,
		Err:    err,
	}
}

// ParseAmount reads a money or count cell. Empty cells are zero; thousands
// separators, the "Rp" prefix and surrounding spaces are ignored.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "Rp")
	s = strings.NewReplacer(",", "", " ", "", "\u00a0", "").Replace(s)
	if s == "" || s == "-" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errNotANumber
	}
	return v, nil
}

// ParseDate reads a date cell as text or as an Excel serial number.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && serial < maxExcelSerial {
		return excelize.ExcelDateToTime(serial, false)
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}

// normalizeID strips the ".0" suffix spreadsheets put on numeric ids.
func normalizeID(id string) string {
	if m := integralFloat.FindStringSubmatch(id); m != nil {
		return m[1]
	}
	return id
}
