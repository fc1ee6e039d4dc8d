package gateway

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"profit-reconciliation/internal/domain"
)

// The orders export carries a description row under its header.
const (
	orderSkipRows      = 1
	settlementSkipRows = 0
)

// SpreadsheetSourceRepository implements usecase.SourceRepository for xlsx
// and csv exports, picking the format from the file extension.
type SpreadsheetSourceRepository struct {
	logger *zap.Logger
}

// NewSpreadsheetSourceRepository creates a new repository instance.
func NewSpreadsheetSourceRepository(logger *zap.Logger) *SpreadsheetSourceRepository {
	return &SpreadsheetSourceRepository{logger: logger}
}

// ReadOrders reads a completed orders export.
func (r *SpreadsheetSourceRepository) ReadOrders(ctx context.Context, name string, rd io.Reader) (*domain.Table, error) {
	return r.read(ctx, name, rd, orderSkipRows)
}

// ReadSettlements reads a settlement (income) export.
func (r *SpreadsheetSourceRepository) ReadSettlements(ctx context.Context, name string, rd io.Reader) (*domain.Table, error) {
	return r.read(ctx, name, rd, settlementSkipRows)
}

func (r *SpreadsheetSourceRepository) read(ctx context.Context, name string, rd io.Reader, skip int) (*domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		table *domain.Table
		err   error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".csv":
		table, err = readCSVTable(name, rd, skip)
	case ".xlsx", ".xlsm":
		table, err = readXLSXTable(name, rd, skip)
	default:
		return nil, fmt.Errorf("unsupported file type %q for %s: upload .xlsx or .csv", ext, name)
	}
	if err != nil {
		return nil, err
	}

	r.logger.Debug("export loaded",
		zap.String("file", name),
		zap.Int("columns", len(table.Columns)),
		zap.Int("rows", table.Len()))
	return table, nil
}
