package gateway

import (
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"profit-reconciliation/internal/domain"
)

// Report sheet names.
const (
	SheetOverview     = "Ringkasan"
	SheetAffiliate    = "Analisis Affiliate vs Toko"
	SheetCommissions  = "Breakdown Komisi & Fee"
	SheetOrderSources = "Detail Sumber Order & Fee"
	SheetProducts     = "Ringkasan per Produk"
	SheetSKUs         = "Ringkasan per SKU"
	SheetDaily        = "Penjualan Harian"
	SheetTopProducts  = "Produk Teratas"
	SheetCosts        = "Daftar Biaya Produk"
)

const (
	currencyFormat = "#,##0"
	percentFormat  = "0.00%"
)

// XLSXReportWriter implements usecase.ReportWriter as a multi-sheet workbook.
type XLSXReportWriter struct {
	logger *zap.Logger
}

// NewXLSXReportWriter creates a report writer.
func NewXLSXReportWriter(logger *zap.Logger) *XLSXReportWriter {
	return &XLSXReportWriter{logger: logger}
}

type reportStyles struct {
	title, header, section, currency, percent, number int
}

func newReportStyles(f *excelize.File) (reportStyles, error) {
	var st reportStyles
	currency, percent := currencyFormat, percentFormat
	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&st.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}},
		{&st.header, &excelize.Style{
			Font: &excelize.Font{Bold: true},
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		}},
		{&st.section, &excelize.Style{Font: &excelize.Font{Bold: true, Color: "#1F4E78"}}},
		{&st.currency, &excelize.Style{CustomNumFmt: &currency}},
		{&st.percent, &excelize.Style{CustomNumFmt: &percent}},
		{&st.number, &excelize.Style{CustomNumFmt: &currency}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return st, fmt.Errorf("failed to create report style: %w", err)
		}
		*d.dst = id
	}
	return st, nil
}

// cell is one value plus the style it is written with.
type cell struct {
	value interface{}
	style int
}

// sheet writes cells to one worksheet and keeps the first error.
type sheet struct {
	f      *excelize.File
	name   string
	styles reportStyles
	err    error
}

func (s *sheet) set(col, row int, c cell) {
	if s.err != nil {
		return
	}
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		s.err = err
		return
	}
	if s.err = s.f.SetCellValue(s.name, ref, c.value); s.err != nil {
		return
	}
	if c.style != 0 {
		s.err = s.f.SetCellStyle(s.name, ref, ref, c.style)
	}
}

func (s *sheet) row(row int, cells ...cell) {
	for i, c := range cells {
		s.set(i+1, row, c)
	}
}

// table writes a header row at row 1 and one row per record below it.
func (s *sheet) table(headers []string, rows [][]cell) {
	for i, h := range headers {
		s.set(i+1, 1, cell{h, s.styles.header})
	}
	for r, cells := range rows {
		s.row(r+2, cells...)
	}
	if s.err == nil && len(headers) > 0 {
		last, err := excelize.ColumnNumberToName(len(headers))
		if err != nil {
			s.err = err
			return
		}
		s.err = s.f.SetColWidth(s.name, "A", last, 18)
	}
}

func (s *sheet) text(v string) cell { return cell{value: v} }

func (s *sheet) count(n int64) cell { return cell{n, s.styles.number} }

func (s *sheet) money(d decimal.Decimal) cell { return cell{d.InexactFloat64(), s.styles.currency} }

// percent takes a value in percent and writes it as a fraction.
func (s *sheet) percent(d decimal.Decimal) cell {
	return cell{d.Div(decimal.NewFromInt(100)).InexactFloat64(), s.styles.percent}
}

// WriteReport renders doc and writes the workbook to out.
func (w *XLSXReportWriter) WriteReport(ctx context.Context, out io.Writer, doc *domain.ReportDocument) error {
	f := excelize.NewFile()
	defer f.Close()

	styles, err := newReportStyles(f)
	if err != nil {
		return err
	}
	if err := f.SetSheetName(f.GetSheetName(0), SheetOverview); err != nil {
		return fmt.Errorf("failed to name overview sheet: %w", err)
	}

	type section struct {
		name   string
		render func(*sheet, *domain.ReportDocument)
		when   bool
	}
	sections := []section{
		{SheetOverview, writeOverview, true},
		{SheetAffiliate, writeAffiliate, doc.Settlement != nil && (doc.Settlement.Refunds != nil || doc.Settlement.Sources != nil)},
		{SheetCommissions, writeCommissions, doc.Settlement != nil && doc.Settlement.Commissions != nil},
		{SheetOrderSources, writeOrderSources, doc.Settlement != nil && len(doc.Settlement.OrderSources) > 0},
		{SheetProducts, func(s *sheet, d *domain.ReportDocument) { writeProducts(s, d.Products) }, true},
		{SheetSKUs, writeSKUs, true},
		{SheetDaily, writeDaily, true},
		{SheetTopProducts, func(s *sheet, d *domain.ReportDocument) { writeProducts(s, d.TopProducts) }, true},
		{SheetCosts, writeCosts, len(doc.Costs) > 0},
	}

	var written []string
	for _, sec := range sections {
		if !sec.when {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if sec.name != SheetOverview {
			if _, err := f.NewSheet(sec.name); err != nil {
				return fmt.Errorf("failed to add sheet %s: %w", sec.name, err)
			}
		}
		s := &sheet{f: f, name: sec.name, styles: styles}
		sec.render(s, doc)
		if s.err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", sec.name, s.err)
		}
		written = append(written, sec.name)
	}
	f.SetActiveSheet(0)

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	w.logger.Debug("report written", zap.String("run_id", doc.RunID), zap.Strings("sheets", written))
	return nil
}

func writeOverview(s *sheet, doc *domain.ReportDocument) {
	ov := doc.Overview
	st := s.styles

	s.set(1, 1, cell{"LAPORAN PENJUALAN & ANALISIS PROFIT", st.title})
	if s.err == nil {
		s.err = s.f.MergeCell(s.name, "A1", "C1")
	}

	period := "-"
	if ov.Period != nil {
		period = ov.Period.Start.Format("02/01/2006") + " - " + ov.Period.End.Format("02/01/2006")
	}
	s.row(3, cell{"Periode:", st.header}, s.text(period))
	s.row(4, cell{"Dibuat:", st.header}, s.text(ov.GeneratedAt.Format("02 January 2006 15:04")))

	s.set(1, 7, cell{"RINGKASAN PENJUALAN & PROFIT", st.header})
	lines := [][]cell{
		{s.text("Total Pesanan:"), s.count(int64(ov.TotalOrders))},
		{s.text("Total Kuantitas:"), s.count(ov.TotalQuantity)},
		{s.text("Total Pendapatan:"), s.money(ov.TotalRevenue)},
		{s.text("Total Biaya:"), s.money(ov.TotalCost)},
		{s.text("Total Profit:"), s.money(ov.TotalProfit)},
		{s.text("Bagian 60%:"), s.money(ov.Share60)},
		{s.text("Bagian 40%:"), s.money(ov.Share40)},
		nil,
		{s.text("Nilai Rata-rata Pesanan:"), s.money(ov.AverageOrderValue)},
		{s.text("Rata-rata Profit per Pesanan:"), s.money(ov.AverageProfitPerOrder)},
		{s.text("Margin Profit Keseluruhan:"), s.percent(ov.MarginPercent)},
		nil,
		{cell{"INFORMASI TAMBAHAN", st.section}},
		{s.text("Total Produk:"), s.count(int64(ov.Products))},
		{s.text("Produk dengan Profit > 0:"), s.count(int64(ov.ProfitableProducts))},
		{s.text("Produk dengan Margin > 20%:"), s.count(int64(ov.HighMarginProducts))},
		{s.text("Produk dengan Margin < 10%:"), s.count(int64(ov.LowMarginProducts))},
		nil,
		{cell{"CATATAN PENTING", st.section}},
		{s.text("• Pendapatan diambil dari file income (settlement)")},
		{s.text("• Analisis affiliate vs toko tersedia di lembar terpisah")},
		{s.text("• Breakdown komisi & fee tersedia di lembar terpisah")},
	}
	for i, line := range lines {
		s.row(8+i, line...)
	}
	if s.err == nil {
		s.err = s.f.SetColWidth(s.name, "A", "B", 30)
	}
}

func writeAffiliate(s *sheet, doc *domain.ReportDocument) {
	st := s.styles
	row := 1
	if r := doc.Settlement.Refunds; r != nil {
		s.set(1, row, cell{"ANALISIS REFUND", st.section})
		s.row(row+1, s.text("Jumlah Order Refund"), s.count(int64(r.RefundedOrders)))
		s.row(row+2, s.text("Total Nilai Refund"), s.money(r.TotalRefund))
		s.row(row+3, s.text("Tingkat Refund"), s.percent(r.RefundRate))
		row += 5
	}
	if src := doc.Settlement.Sources; src != nil {
		s.set(1, row, cell{"AFFILIATE VS TOKO", st.section})
		s.row(row+1, cell{"Metrik", st.header}, cell{"Affiliate", st.header}, cell{"Toko (Direct)", st.header}, cell{"Total", st.header})
		s.row(row+2, s.text("Jumlah Order"), s.count(int64(src.Affiliate.Orders)), s.count(int64(src.Direct.Orders)), s.count(int64(src.Total.Orders)))
		s.row(row+3, s.text("Total Fee"), s.money(src.Affiliate.Fees), s.money(src.Direct.Fees), s.money(src.Total.Fees))
		s.row(row+4, s.text("Persentase Fee"), s.percent(src.Affiliate.FeePercent), s.percent(src.Direct.FeePercent), s.percent(src.Total.FeePercent))
		s.row(row+5, s.text("Total Pendapatan"), s.money(src.Affiliate.Revenue), s.money(src.Direct.Revenue), s.money(src.Total.Revenue))
	}
	if s.err == nil {
		s.err = s.f.SetColWidth(s.name, "A", "D", 22)
	}
}

func writeCommissions(s *sheet, doc *domain.ReportDocument) {
	c := doc.Settlement.Commissions
	var rows [][]cell
	for _, line := range c.Lines {
		rows = append(rows, []cell{s.text(line.Column), s.money(line.Total), s.percent(line.Percent)})
	}
	rows = append(rows, []cell{cell{"Total Fees", s.styles.section}, s.money(c.TotalFees), s.percent(c.FeesPercent)})
	s.table([]string{"Jenis Komisi / Fee", "Total", "% dari Pendapatan"}, rows)
}

func writeOrderSources(s *sheet, doc *domain.ReportDocument) {
	var commissionCols []string
	for _, col := range domain.CommissionColumns {
		for _, r := range doc.Settlement.OrderSources {
			if _, ok := r.Commissions[col]; ok {
				commissionCols = append(commissionCols, col)
				break
			}
		}
	}

	headers := []string{"Order ID", "Total revenue", "Total settlement amount", "Total fees"}
	headers = append(headers, commissionCols...)
	headers = append(headers, "Sumber")

	rows := make([][]cell, 0, len(doc.Settlement.OrderSources))
	for _, r := range doc.Settlement.OrderSources {
		cells := []cell{s.text(r.AdjustmentID), s.money(r.GrossRevenue), s.money(r.SettlementAmount), s.money(r.TotalFees)}
		for _, col := range commissionCols {
			cells = append(cells, s.money(r.Commissions[col]))
		}
		cells = append(cells, s.text(string(r.Source)))
		rows = append(rows, cells)
	}
	s.table(headers, rows)
}

func writeProducts(s *sheet, products []domain.ProductSummary) {
	perOrder := false
	for _, p := range products {
		if p.AdjustmentID != "" {
			perOrder = true
			break
		}
	}

	headers := []string{"SKU", "Nama Produk", "Variasi", "Kuantitas", "Pendapatan", "Biaya per Unit", "Total Biaya", "Profit", "Margin Profit %", "Bagian 60%", "Bagian 40%"}
	if perOrder {
		headers = append([]string{"Order ID"}, headers...)
	}
	rows := make([][]cell, 0, len(products))
	for _, p := range products {
		var cells []cell
		if perOrder {
			cells = append(cells, s.text(p.AdjustmentID))
		}
		cells = append(cells,
			s.text(p.SKU), s.text(p.ProductName), s.text(p.Variation), s.count(p.Quantity), s.money(p.Revenue))
		cells = append(cells, s.profitCells(p.Profitability)...)
		rows = append(rows, cells)
	}
	s.table(headers, rows)
}

func (s *sheet) profitCells(p domain.Profitability) []cell {
	return []cell{s.money(p.UnitCost), s.money(p.TotalCost), s.money(p.Profit), s.percent(p.MarginPercent), s.money(p.Share60), s.money(p.Share40)}
}

func writeSKUs(s *sheet, doc *domain.ReportDocument) {
	rows := make([][]cell, 0, len(doc.SKUs))
	for _, k := range doc.SKUs {
		cells := []cell{s.text(k.SKU), s.text(k.ProductName), s.count(k.Quantity), s.count(int64(k.Orders)), s.money(k.Revenue)}
		rows = append(rows, append(cells, s.profitCells(k.Profitability)...))
	}
	s.table([]string{"SKU", "Nama Produk", "Kuantitas", "Jumlah Pesanan", "Pendapatan", "Biaya per Unit", "Total Biaya", "Profit", "Margin Profit %", "Bagian 60%", "Bagian 40%"}, rows)
}

func writeDaily(s *sheet, doc *domain.ReportDocument) {
	rows := make([][]cell, 0, len(doc.Daily))
	for _, d := range doc.Daily {
		if d.Sentinel() {
			rows = append(rows, []cell{s.text(d.Label)})
			continue
		}
		rows = append(rows, []cell{
			s.text(d.Label), s.count(d.Quantity), s.count(int64(d.Orders)),
			s.money(d.Revenue), s.money(d.Cost), s.money(d.Profit), s.percent(d.Margin),
		})
	}
	s.table([]string{"Tanggal", "Kuantitas", "Jumlah Pesanan", "Pendapatan", "Biaya", "Profit", "Margin Profit %"}, rows)
}

func writeCosts(s *sheet, doc *domain.ReportDocument) {
	rows := make([][]cell, 0, len(doc.Costs))
	for _, c := range doc.Costs {
		rows = append(rows, []cell{s.text(c.ProductName), s.money(c.CostPerUnit)})
	}
	s.table([]string{"Nama Produk", "Biaya per Unit"}, rows)
}
