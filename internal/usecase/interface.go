package usecase

import (
	"context"
	"io"

	"profit-reconciliation/internal/domain"
)

// The usecase layer depends on these interfaces, not on concrete adapters.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go

// SourceRepository loads the raw order and settlement exports.
type SourceRepository interface {
	ReadOrders(ctx context.Context, name string, r io.Reader) (*domain.Table, error)
	ReadSettlements(ctx context.Context, name string, r io.Reader) (*domain.Table, error)
}

// CostRepository is the authoritative remote cost table.
type CostRepository interface {
	FetchCosts(ctx context.Context) (*domain.CostMap, error)
	// ReplaceCosts overwrites the whole remote table with costs.
	ReplaceCosts(ctx context.Context, costs *domain.CostMap) error
}

// CostCache is the local, time-boxed replica of the remote cost table.
type CostCache interface {
	Read(ctx context.Context) (*domain.CostSnapshot, error)
	Write(ctx context.Context, snapshot domain.CostSnapshot) error
}

// CostProvider supplies unit costs to a pipeline run.
type CostProvider interface {
	Load(ctx context.Context) (*domain.CostMap, error)
}

// ReportWriter renders a report document.
type ReportWriter interface {
	WriteReport(ctx context.Context, w io.Writer, doc *domain.ReportDocument) error
}
