package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"profit-reconciliation/internal/domain"
	"profit-reconciliation/internal/usecase"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Analyzer runs the profit pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, in usecase.AnalysisInput) (*domain.ProfitReport, error)
	Compare(ctx context.Context, older, newer usecase.AnalysisInput) (*usecase.ComparisonResult, error)
	WriteReport(ctx context.Context, w io.Writer, report *domain.ProfitReport) error
}

// CostManager edits the product cost table.
type CostManager interface {
	Costs() *domain.CostMap
	Stats() domain.CostStats
	SetCost(ctx context.Context, product string, cost decimal.Decimal) error
	DeleteCost(ctx context.Context, product string) (bool, error)
	Import(ctx context.Context, data []byte) (int, error)
	Export() ([]byte, error)
	Refresh(ctx context.Context) (*domain.CostMap, error)
}

// Handler holds the dependencies of every route.
type Handler struct {
	analyzer  Analyzer
	costs     CostManager
	maxUpload int64
	logger    *zap.Logger
	now       func() time.Time
}

// NewHandler creates a handler. maxUpload bounds each request body in bytes.
func NewHandler(analyzer Analyzer, costs CostManager, maxUpload int64, logger *zap.Logger) *Handler {
	return &Handler{
		analyzer:  analyzer,
		costs:     costs,
		maxUpload: maxUpload,
		logger:    logger,
		now:       time.Now,
	}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Analyze runs the pipeline on the uploaded orders and settlements exports.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	report, ok := h.analyze(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Report runs the pipeline and returns the xlsx report as a download.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	report, ok := h.analyze(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.analyzer.WriteReport(r.Context(), &buf, report); err != nil {
		h.logger.Error("report rendering failed", zap.String("run_id", report.RunID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	filename := fmt.Sprintf("Laporan_Profit_%s.xlsx", h.now().Format("20060102_150405"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Compare analyses four uploaded exports, two per period, told apart by
// their file names.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	if !h.parseMultipart(w, r) {
		return
	}
	headers := r.MultipartForm.File["files"]
	byName := make(map[string]*multipart.FileHeader, len(headers))
	names := make([]string, 0, len(headers))
	for _, fh := range headers {
		byName[fh.Filename] = fh
		names = append(names, fh.Filename)
	}

	files, err := usecase.DetectPeriodFiles(names)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	var opened []multipart.File
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()
	open := func(name string) (usecase.Upload, error) {
		f, err := byName[name].Open()
		if err != nil {
			return usecase.Upload{}, fmt.Errorf("failed to open upload %s: %w", name, err)
		}
		opened = append(opened, f)
		return usecase.Upload{Name: name, Body: f}, nil
	}

	var older, newer usecase.AnalysisInput
	for _, step := range []struct {
		dst  *usecase.Upload
		name string
	}{
		{&older.Orders, files.OldOrders},
		{&older.Settlements, files.OldSettlements},
		{&newer.Orders, files.NewOrders},
		{&newer.Settlements, files.NewSettlements},
	} {
		if *step.dst, err = open(step.name); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	result, err := h.analyzer.Compare(r.Context(), older, newer)
	if err != nil {
		writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ListCosts returns the cost table.
func (h *Handler) ListCosts(w http.ResponseWriter, r *http.Request) {
	entries := h.costs.Costs().Entries()
	if entries == nil {
		entries = []domain.CostEntry{}
	}
	writeJSON(w, http.StatusOK, CostListResponse{Costs: entries})
}

// CostStats returns count, average, min and max of the cost table.
func (h *Handler) CostStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.costs.Stats())
}

// SetCost records the unit cost of the product named in the path.
func (h *Handler) SetCost(w http.ResponseWriter, r *http.Request) {
	product := productParam(r)

	var req SetCostRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxUpload)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.CostPerUnit == nil {
		writeError(w, http.StatusBadRequest, errors.New("cost_per_unit is required"))
		return
	}

	if err := h.costs.SetCost(r.Context(), product, *req.CostPerUnit); err != nil {
		writeCostError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.CostEntry{ProductName: product, CostPerUnit: *req.CostPerUnit})
}

// DeleteCost removes the product named in the path.
func (h *Handler) DeleteCost(w http.ResponseWriter, r *http.Request) {
	product := productParam(r)
	found, err := h.costs.DeleteCost(r.Context(), product)
	if err != nil {
		writeCostError(w, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, fmt.Errorf("product %q has no cost", product))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportCosts merges a flat JSON object of product costs into the table.
func (h *Handler) ImportCosts(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUpload))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("failed to read request body: %w", err))
		return
	}
	n, err := h.costs.Import(r.Context(), data)
	if err != nil {
		writeCostError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ImportResponse{Imported: n, Products: h.costs.Costs().Len()})
}

// ExportCosts downloads the cost table as JSON.
func (h *Handler) ExportCosts(w http.ResponseWriter, r *http.Request) {
	data, err := h.costs.Export()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="cost_data.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// RefreshCosts reloads the table from the remote store.
func (h *Handler) RefreshCosts(w http.ResponseWriter, r *http.Request) {
	costs, err := h.costs.Refresh(r.Context())
	if err != nil {
		writeCostError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RefreshResponse{Products: costs.Len()})
}

func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) (*domain.ProfitReport, bool) {
	if !h.parseMultipart(w, r) {
		return nil, false
	}

	var in usecase.AnalysisInput
	for _, part := range []struct {
		field string
		dst   *usecase.Upload
	}{
		{"orders", &in.Orders},
		{"settlements", &in.Settlements},
	} {
		f, fh, err := r.FormFile(part.field)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("missing %s file: %w", part.field, err))
			return nil, false
		}
		defer f.Close()
		*part.dst = usecase.Upload{Name: fh.Filename, Body: f}
	}

	report, err := h.analyzer.Analyze(r.Context(), in)
	if err != nil {
		writePipelineError(w, err)
		return nil, false
	}
	return report, true
}

func (h *Handler) parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid multipart upload: %w", err))
		return false
	}
	return true
}

func productParam(r *http.Request) string {
	raw := chi.URLParam(r, "product")
	if p, err := url.PathUnescape(raw); err == nil {
		return p
	}
	return raw
}

// writePipelineError maps every pipeline failure to 422, listing missing
// columns when the schema was rejected.
func writePipelineError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: err.Error()}
	var schemaErr *domain.SchemaError
	if errors.As(err, &schemaErr) {
		resp.MissingOrdersColumns = schemaErr.MissingOrderColumns
		resp.MissingSettlementsColumns = schemaErr.MissingSettlementColumns
	}
	writeJSON(w, http.StatusUnprocessableEntity, resp)
}

func writeCostError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidValue), errors.Is(err, domain.ErrImportFormat):
		writeError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, domain.ErrRemoteStore):
		writeError(w, http.StatusBadGateway, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}
