package gateway

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"profit-reconciliation/internal/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readCSVTable reads a CSV export. The first record is the header; skip
// further records after it are discarded, then every non-blank record is a
// data row.
func readCSVTable(name string, r io.Reader, skip int) (*domain.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", name, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s has no header row", domain.ErrEmptyInput, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header from %s: %w", name, err)
	}

	var rows [][]string
	for line := 0; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record from %s: %w", name, err)
		}
		if line < skip || blankRecord(record) {
			continue
		}
		rows = append(rows, record)
	}
	return domain.NewTable(name, header, rows), nil
}

func blankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
