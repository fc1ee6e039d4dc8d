package usecase

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"profit-reconciliation/internal/domain"
)

// ParseCostImport reads a flat JSON object of product name to unit cost.
// Entries whose value is not a number, or is negative, are dropped. Anything
// other than an object fails with domain.ErrImportFormat.
func ParseCostImport(data []byte) (*domain.CostMap, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImportFormat, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object of product costs", domain.ErrImportFormat)
	}

	costs := domain.NewCostMap()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrImportFormat, err)
		}
		name, _ := tok.(string)

		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrImportFormat, err)
		}
		number, ok := value.(json.Number)
		if !ok {
			continue
		}
		cost, err := decimal.NewFromString(number.String())
		if err != nil || cost.IsNegative() {
			continue
		}
		costs.Set(name, cost)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImportFormat, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after object", domain.ErrImportFormat)
	}
	return costs, nil
}
