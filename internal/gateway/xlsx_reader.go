package gateway

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"profit-reconciliation/internal/domain"
)

// readXLSXTable reads the first worksheet of a workbook. Cells are read raw,
// so amounts keep full precision and dates arrive as serial numbers.
func readXLSXTable(name string, r io.Reader, skip int) (*domain.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s has no worksheet", domain.ErrEmptyInput, name)
	}
	records, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from %s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s has no header row", domain.ErrEmptyInput, name)
	}

	var rows [][]string
	for i, record := range records[1:] {
		if i < skip || blankRecord(record) {
			continue
		}
		rows = append(rows, record)
	}
	return domain.NewTable(name, records[0], rows), nil
}
