package usecase

import (
	"fmt"

	"profit-reconciliation/internal/domain"
)

// ValidateSchema checks both exports for their required columns. Every
// missing column of both tables is reported in a single *domain.SchemaError.
func ValidateSchema(orders, settlements *domain.Table) error {
	schemaErr := &domain.SchemaError{
		MissingOrderColumns:      missingColumns(orders, domain.RequiredOrderColumns),
		MissingSettlementColumns: missingColumns(settlements, domain.RequiredSettlementColumns),
	}
	if len(schemaErr.MissingOrderColumns) > 0 || len(schemaErr.MissingSettlementColumns) > 0 {
		return schemaErr
	}
	return nil
}

// checkNotEmpty rejects tables without data rows.
func checkNotEmpty(t *domain.Table, kind string) error {
	if t.Empty() {
		name := kind
		if t != nil && t.Source != "" {
			name = t.Source
		}
		return fmt.Errorf("%w: %s file %s has no data rows", domain.ErrEmptyInput, kind, name)
	}
	return nil
}

func missingColumns(t *domain.Table, required []string) []string {
	if t == nil {
		out := make([]string, len(required))
		copy(out, required)
		return out
	}
	return t.Missing(required)
}
