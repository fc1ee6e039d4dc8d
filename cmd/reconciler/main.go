package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"profit-reconciliation/internal/app"
	"profit-reconciliation/internal/config"
	"profit-reconciliation/internal/domain"
	"profit-reconciliation/internal/logger"
	"profit-reconciliation/internal/money"
	"profit-reconciliation/internal/usecase"
)

type options struct {
	orders, settlements       string
	oldOrders, oldSettlements string
	report                    string
	importCosts, exportCosts  string
	refreshCosts              bool
	configDir                 string
}

func main() {
	// Define command-line flags
	var opts options
	flag.StringVar(&opts.orders, "orders", "", "Path to the completed orders export (.xlsx or .csv)")
	flag.StringVar(&opts.settlements, "settlements", "", "Path to the settlement (income) export (.xlsx or .csv)")
	flag.StringVar(&opts.oldOrders, "old-orders", "", "Orders export of an earlier period to compare against")
	flag.StringVar(&opts.oldSettlements, "old-settlements", "", "Settlement export of an earlier period to compare against")
	flag.StringVar(&opts.report, "report", "", "Write the xlsx report to this path")
	flag.StringVar(&opts.importCosts, "import-costs", "", "Merge a JSON object of product costs into the cost table")
	flag.StringVar(&opts.exportCosts, "export-costs", "", "Write the cost table as JSON to this path")
	flag.BoolVar(&opts.refreshCosts, "refresh-costs", false, "Reload the cost table from the spreadsheet, bypassing the cache")
	flag.StringVar(&opts.configDir, "config", "", "Directory holding config.toml")
	flag.Parse()

	analysis := opts.orders != "" || opts.settlements != ""
	costOps := opts.importCosts != "" || opts.exportCosts != "" || opts.refreshCosts
	if !analysis && !costOps {
		fmt.Fprintln(os.Stderr, "Error: give -orders and -settlements, or a cost flag (-import-costs, -export-costs, -refresh-costs).")
		flag.Usage()
		os.Exit(1)
	}
	if analysis && (opts.orders == "" || opts.settlements == "") {
		fmt.Fprintln(os.Stderr, "Error: -orders and -settlements must be given together.")
		os.Exit(1)
	}
	if (opts.oldOrders == "") != (opts.oldSettlements == "") {
		fmt.Fprintln(os.Stderr, "Error: -old-orders and -old-settlements must be given together.")
		os.Exit(1)
	}

	var dirs []string
	if opts.configDir != "" {
		dirs = append(dirs, opts.configDir)
	}
	cfg, err := config.Load(dirs...)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	zl, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync()

	// --- Dependency Injection (Wiring the application) ---
	ctx := context.Background()
	a, err := app.New(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialise", zap.Error(err))
	}

	if costOps {
		if err := runCostOps(ctx, a.Costs, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if analysis {
		if err := runAnalysis(ctx, a.Profit, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

func runCostOps(ctx context.Context, costs *usecase.CostStore, opts options) error {
	if opts.refreshCosts {
		refreshed, err := costs.Refresh(ctx)
		if err != nil {
			return fmt.Errorf("cost refresh failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Loaded %d product costs from the spreadsheet\n", refreshed.Len())
	} else if _, err := costs.Load(ctx); err != nil && !errors.Is(err, domain.ErrRemoteStore) {
		return err
	}

	if opts.importCosts != "" {
		data, err := os.ReadFile(opts.importCosts)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", opts.importCosts, err)
		}
		n, err := costs.Import(ctx, data)
		if err != nil {
			return fmt.Errorf("cost import failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Imported %d product costs\n", n)
	}

	if opts.exportCosts != "" {
		data, err := costs.Export()
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.exportCosts, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", opts.exportCosts, err)
		}
		fmt.Fprintf(os.Stderr, "Exported %d product costs to %s\n", costs.Costs().Len(), opts.exportCosts)
	}
	return nil
}

func runAnalysis(ctx context.Context, profit *usecase.ProfitUseCase, opts options) error {
	newer, closeNewer, err := openInput(opts.orders, opts.settlements)
	if err != nil {
		return err
	}
	defer closeNewer()

	var (
		report *domain.ProfitReport
		output interface{}
	)
	if opts.oldOrders != "" {
		older, closeOlder, err := openInput(opts.oldOrders, opts.oldSettlements)
		if err != nil {
			return err
		}
		defer closeOlder()

		result, err := profit.Compare(ctx, older, newer)
		if err != nil {
			return fmt.Errorf("comparison failed: %w", err)
		}
		report, output = result.New, result
	} else {
		report, err = profit.Analyze(ctx, newer)
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}
		output = report
	}

	if opts.report != "" {
		f, err := os.Create(opts.report)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		if err := profit.WriteReport(ctx, f, report); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write report file: %w", err)
		}
	}

	// --- Present the Output ---
	encoded, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to generate JSON report: %w", err)
	}
	fmt.Println(string(encoded))
	printSummary(report)
	return nil
}

func openInput(ordersPath, settlementsPath string) (usecase.AnalysisInput, func(), error) {
	orders, err := os.Open(ordersPath)
	if err != nil {
		return usecase.AnalysisInput{}, nil, fmt.Errorf("failed to open orders file %s: %w", ordersPath, err)
	}
	settlements, err := os.Open(settlementsPath)
	if err != nil {
		orders.Close()
		return usecase.AnalysisInput{}, nil, fmt.Errorf("failed to open settlements file %s: %w", settlementsPath, err)
	}
	in := usecase.AnalysisInput{
		Orders:      usecase.Upload{Name: filepath.Base(ordersPath), Body: orders},
		Settlements: usecase.Upload{Name: filepath.Base(settlementsPath), Body: settlements},
	}
	return in, func() {
		orders.Close()
		settlements.Close()
	}, nil
}

// printSummary writes the headline figures to stderr so stdout stays JSON.
func printSummary(report *domain.ProfitReport) {
	ov := usecase.BuildReport(report).Overview
	fmt.Fprintf(os.Stderr, "Orders: %s  Quantity: %s\n", money.Count(int64(ov.TotalOrders)), money.Count(ov.TotalQuantity))
	fmt.Fprintf(os.Stderr, "Revenue: %s  Cost: %s  Profit: %s (%s)\n",
		money.Rupiah(ov.TotalRevenue), money.Rupiah(ov.TotalCost), money.Rupiah(ov.TotalProfit), money.Percent(ov.MarginPercent))
	fmt.Fprintf(os.Stderr, "Share 60%%: %s  Share 40%%: %s\n", money.Rupiah(ov.Share60), money.Rupiah(ov.Share40))
	if report.CostWarning != "" {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", report.CostWarning)
	}
	if len(report.MissingCosts) > 0 {
		fmt.Fprintf(os.Stderr, "Products without a unit cost: %d\n", len(report.MissingCosts))
	}
}
