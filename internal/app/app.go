// Package app wires configuration into the adapters and use cases shared
// by the CLI and the HTTP server.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"profit-reconciliation/internal/config"
	"profit-reconciliation/internal/gateway"
	"profit-reconciliation/internal/usecase"
)

// App holds the wired use cases.
type App struct {
	Profit *usecase.ProfitUseCase
	Costs  *usecase.CostStore
}

// New builds the application from cfg. Without a configured spreadsheet
// the cost store runs on its local cache only and every remote operation
// reports domain.ErrRemoteStore.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	var remote usecase.CostRepository
	if cfg.Sheets.Enabled() {
		creds, err := gateway.CredentialOptions(cfg.Sheets.CredentialsJSON, cfg.Sheets.CredentialsFile)
		if err != nil {
			return nil, err
		}
		sheets, err := gateway.NewSheetsCostRepository(ctx, gateway.SheetsConfig{
			SpreadsheetID: cfg.Sheets.SpreadsheetID,
			SheetName:     cfg.Sheets.SheetName,
			Timeout:       cfg.Sheets.Timeout,
			RetryBackoff:  cfg.Sheets.RetryBackoff,
		}, logger.Named("sheets"), creds...)
		if err != nil {
			return nil, fmt.Errorf("failed to connect cost sheet: %w", err)
		}
		remote = sheets
	} else {
		logger.Warn("no spreadsheet configured, cost edits cannot be saved")
	}

	costs := usecase.NewCostStore(remote, gateway.NewFileCostCache(cfg.Cache.File), cfg.Cache.Expiry, logger.Named("costs"))
	profit := usecase.NewProfitUseCase(
		gateway.NewSpreadsheetSourceRepository(logger.Named("sources")),
		costs,
		gateway.NewXLSXReportWriter(logger.Named("report")),
		logger.Named("pipeline"),
	)
	return &App{Profit: profit, Costs: costs}, nil
}
