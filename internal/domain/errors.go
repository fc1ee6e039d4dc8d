package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchema reports required columns missing from an input.
	ErrSchema = errors.New("missing required columns")
	// ErrEmptyInput reports an empty input or one emptied by filtering.
	ErrEmptyInput = errors.New("empty input")
	// ErrNoCleanSettlements means every settlement row was refunded.
	ErrNoCleanSettlements = fmt.Errorf("%w: no settlement rows without refund", ErrEmptyInput)
	// ErrNoCompletedOrders means no order carries the completed status.
	ErrNoCompletedOrders = fmt.Errorf("%w: no orders with status %q", ErrEmptyInput, StatusCompleted)
	// ErrNoMatchingOrders means the settlement/order join produced no rows.
	ErrNoMatchingOrders = errors.New("no matching orders between settlements and orders")
	// ErrInvalidValue reports a cell that could not be parsed.
	ErrInvalidValue = errors.New("invalid value")
	// ErrRemoteStore reports a failure talking to the remote cost store.
	ErrRemoteStore = errors.New("remote cost store unavailable")
	// ErrImportFormat reports a rejected bulk cost import.
	ErrImportFormat = errors.New("invalid cost import")
	// ErrPeriodFiles reports an upload set that is not two periods of exports.
	ErrPeriodFiles = errors.New("cannot detect period files")
)

// SchemaError lists the columns missing from each input.
type SchemaError struct {
	MissingOrderColumns      []string `json:"missing_orders_columns"`
	MissingSettlementColumns []string `json:"missing_settlements_columns"`
}

func (e *SchemaError) Error() string {
	var parts []string
	if len(e.MissingOrderColumns) > 0 {
		parts = append(parts, fmt.Sprintf("orders file is missing %s", strings.Join(quoteAll(e.MissingOrderColumns), ", ")))
	}
	if len(e.MissingSettlementColumns) > 0 {
		parts = append(parts, fmt.Sprintf("settlements file is missing %s", strings.Join(quoteAll(e.MissingSettlementColumns), ", ")))
	}
	return fmt.Sprintf("%s: %s", ErrSchema, strings.Join(parts, "; "))
}

// Is makes errors.Is(err, ErrSchema) hold for a SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// ValueError pinpoints an unparseable cell.
type ValueError struct {
	Source string
	Row    int // 1-based data row, header excluded
	Column string
	Value  string
	Err    error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %s data row %d column %q: cannot parse %q: %v", ErrInvalidValue, e.Source, e.Row, e.Column, e.Value, e.Err)
}

func (e *ValueError) Is(target error) bool {
	return target == ErrInvalidValue
}

func (e *ValueError) Unwrap() error {
	return e.Err
}

func quoteAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%q", v)
	}
	return out
}
