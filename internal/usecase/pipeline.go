package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"profit-reconciliation/internal/domain"
)

// Upload is one export file handed to the pipeline.
type Upload struct {
	Name string
	Body io.Reader
}

// AnalysisInput is the pair of exports for one period.
type AnalysisInput struct {
	Orders      Upload
	Settlements Upload
}

// ComparisonResult holds both period reports and their comparison.
type ComparisonResult struct {
	Old        *domain.ProfitReport     `json:"old"`
	New        *domain.ProfitReport     `json:"new"`
	Comparison *domain.PeriodComparison `json:"comparison"`
}

// ProfitUseCase runs the reconciliation pipeline: validate, reconcile,
// aggregate and report.
type ProfitUseCase struct {
	sources    SourceRepository
	costs      CostProvider
	writer     ReportWriter
	aggregator *Aggregator
	logger     *zap.Logger
	now        func() time.Time
}

// NewProfitUseCase creates a new instance of the usecase.
func NewProfitUseCase(sources SourceRepository, costs CostProvider, writer ReportWriter, logger *zap.Logger) *ProfitUseCase {
	return &ProfitUseCase{
		sources:    sources,
		costs:      costs,
		writer:     writer,
		aggregator: NewAggregator(logger),
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock replaces the time source used to stamp reports.
func (uc *ProfitUseCase) WithClock(now func() time.Time) *ProfitUseCase {
	uc.now = now
	return uc
}

// Analyze reads both exports and runs the pipeline on them.
func (uc *ProfitUseCase) Analyze(ctx context.Context, in AnalysisInput) (*domain.ProfitReport, error) {
	orders, err := uc.sources.ReadOrders(ctx, in.Orders.Name, in.Orders.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read orders: %w", err)
	}
	settlements, err := uc.sources.ReadSettlements(ctx, in.Settlements.Name, in.Settlements.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read settlements: %w", err)
	}
	return uc.AnalyzeTables(ctx, orders, settlements)
}

// AnalyzeTables runs the pipeline on already loaded tables. Failures return
// a nil report. An unavailable cost store does not fail the run: costs are
// treated as zero and the report carries a CostWarning.
func (uc *ProfitUseCase) AnalyzeTables(ctx context.Context, orders, settlements *domain.Table) (*domain.ProfitReport, error) {
	runID := uuid.NewString()
	log := uc.logger.With(zap.String("run_id", runID))

	// Step 1: validation
	if err := checkNotEmpty(orders, "orders"); err != nil {
		return nil, err
	}
	if err := checkNotEmpty(settlements, "settlements"); err != nil {
		return nil, err
	}
	if err := ValidateSchema(orders, settlements); err != nil {
		log.Warn("input schema rejected", zap.Error(err))
		return nil, err
	}
	input, err := Decode(orders, settlements)
	if err != nil {
		return nil, err
	}

	// Step 2: reconciliation
	reconciled, stats, err := Reconcile(input.Orders, input.Settlements)
	if err != nil {
		log.Warn("reconciliation stopped", zap.Error(err),
			zap.Int("settlements", stats.TotalSettlements),
			zap.Int("clean_settlements", stats.CleanSettlements),
			zap.Int("completed_orders", stats.CompletedOrders))
		return nil, err
	}
	log.Debug("reconciled settlements",
		zap.Int("settlements", stats.TotalSettlements),
		zap.Int("refunded", stats.RefundedSettlements),
		zap.Int("clean", stats.CleanSettlements),
		zap.Int("completed_orders", stats.CompletedOrders),
		zap.Int("unique_completed_ids", stats.UniqueCompletedIDs),
		zap.Int("joined_rows", stats.JoinedRows),
		zap.Int("matched", stats.MatchedSettlements),
		zap.Int("unmatched", stats.UnmatchedSettlements),
		zap.Stringer("clean_revenue", stats.CleanRevenue),
		zap.Stringer("reconciled_revenue", stats.ReconciledRevenue))

	// Step 3: costs
	report := &domain.ProfitReport{
		RunID:        runID,
		GeneratedAt:  uc.now(),
		Orders:       reconciled,
		Stats:        stats,
		Capabilities: input.Capabilities,
	}
	costs, err := uc.costs.Load(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrRemoteStore) {
			return nil, fmt.Errorf("could not load product costs: %w", err)
		}
		log.Warn("cost data unavailable, unit costs default to zero", zap.Error(err))
		report.CostWarning = fmt.Sprintf("cost data unavailable, every unit cost is treated as 0: %v", err)
		costs = domain.NewCostMap()
	}
	report.Costs = costs

	// Step 4: aggregation
	report.Products = uc.aggregator.Products(reconciled, costs)
	report.SKUs = uc.aggregator.SKUs(reconciled, costs)
	report.Daily = uc.aggregator.Daily(reconciled, costs, input.Capabilities, input.DatesInvalid)
	report.Settlement = uc.aggregator.Settlement(input.Settlements, input.Capabilities)
	report.Period = ReportPeriod(reconciled, input.Capabilities)

	names := make([]string, 0, len(report.Products))
	for _, p := range report.Products {
		names = append(names, p.ProductName)
	}
	report.MissingCosts = MissingCosts(costs, names)
	if len(report.MissingCosts) > 0 {
		log.Info("products without unit cost", zap.Strings("products", report.MissingCosts))
	}

	log.Info("analysis complete",
		zap.Int("orders", len(reconciled)),
		zap.Int("products", len(report.Products)),
		zap.Int("skus", len(report.SKUs)))
	return report, nil
}

// Compare analyses two periods and contrasts them.
func (uc *ProfitUseCase) Compare(ctx context.Context, older, newer AnalysisInput) (*ComparisonResult, error) {
	oldReport, err := uc.Analyze(ctx, older)
	if err != nil {
		return nil, fmt.Errorf("older period: %w", err)
	}
	newReport, err := uc.Analyze(ctx, newer)
	if err != nil {
		return nil, fmt.Errorf("newer period: %w", err)
	}
	return &ComparisonResult{
		Old:        oldReport,
		New:        newReport,
		Comparison: Compare(oldReport, newReport),
	}, nil
}

// WriteReport renders the report document of a pipeline result to w.
func (uc *ProfitUseCase) WriteReport(ctx context.Context, w io.Writer, report *domain.ProfitReport) error {
	if err := uc.writer.WriteReport(ctx, w, BuildReport(report)); err != nil {
		return fmt.Errorf("could not write report: %w", err)
	}
	return nil
}
