package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"profit-reconciliation/internal/domain"
)

// Cost sheet header cells.
const (
	headerProductName = "product_name"
	headerCostPerUnit = "cost_per_unit"
)

// SheetsConfig locates the cost sheet and bounds every call made to it.
type SheetsConfig struct {
	SpreadsheetID string
	SheetName     string
	Timeout       time.Duration
	RetryBackoff  time.Duration
}

// SheetsCostRepository implements usecase.CostRepository on a Google Sheet
// holding a product_name / cost_per_unit table.
type SheetsCostRepository struct {
	values *sheets.SpreadsheetsValuesService
	cfg    SheetsConfig
	logger *zap.Logger
}

// CredentialOptions selects service account credentials, inline JSON first.
func CredentialOptions(credentialsJSON, credentialsFile string) ([]option.ClientOption, error) {
	switch {
	case strings.TrimSpace(credentialsJSON) != "":
		return []option.ClientOption{option.WithCredentialsJSON([]byte(credentialsJSON))}, nil
	case credentialsFile != "":
		return []option.ClientOption{option.WithCredentialsFile(credentialsFile)}, nil
	}
	return nil, errors.New("no Google service account credentials configured")
}

// NewSheetsCostRepository connects to the Sheets API.
func NewSheetsCostRepository(ctx context.Context, cfg SheetsConfig, logger *zap.Logger, opts ...option.ClientOption) (*SheetsCostRepository, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("spreadsheet id is required")
	}
	if cfg.SheetName == "" {
		cfg.SheetName = "Sheet1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 500 * time.Millisecond
	}

	opts = append([]option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}, opts...)
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return &SheetsCostRepository{values: service.Spreadsheets.Values, cfg: cfg, logger: logger}, nil
}

// FetchCosts reads the whole cost table. Rows with an empty name or an
// unreadable or negative cost are skipped.
func (s *SheetsCostRepository) FetchCosts(ctx context.Context) (*domain.CostMap, error) {
	var resp *sheets.ValueRange
	err := s.call(ctx, "fetch", func(ctx context.Context) error {
		var err error
		resp, err = s.values.Get(s.cfg.SpreadsheetID, s.tableRange()).
			ValueRenderOption("UNFORMATTED_VALUE").
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch cost sheet: %v", domain.ErrRemoteStore, err)
	}

	costs := domain.NewCostMap()
	if len(resp.Values) == 0 {
		return costs, nil
	}
	nameCol, costCol := headerIndex(resp.Values[0], headerProductName), headerIndex(resp.Values[0], headerCostPerUnit)
	if nameCol < 0 || costCol < 0 {
		return nil, fmt.Errorf("%w: cost sheet header must contain %s and %s", domain.ErrRemoteStore, headerProductName, headerCostPerUnit)
	}

	for i, row := range resp.Values[1:] {
		name := strings.TrimSpace(cellString(row, nameCol))
		if name == "" {
			continue
		}
		cost, err := cellDecimal(row, costCol)
		if err == nil && cost.IsNegative() {
			err = errors.New("cost is negative")
		}
		if err != nil {
			s.logger.Warn("skipping cost sheet row", zap.Int("row", i+2), zap.String("product", name), zap.Error(err))
			continue
		}
		costs.Set(name, cost)
	}
	return costs, nil
}

// ReplaceCosts writes the header followed by every entry in map order, then
// clears the rows left over below the new table. A failed write leaves the
// previous table in place.
func (s *SheetsCostRepository) ReplaceCosts(ctx context.Context, costs *domain.CostMap) error {
	values := [][]interface{}{{headerProductName, headerCostPerUnit}}
	for _, e := range costs.Entries() {
		values = append(values, []interface{}{e.ProductName, e.CostPerUnit.InexactFloat64()})
	}

	err := s.call(ctx, "update", func(ctx context.Context) error {
		_, err := s.values.Update(s.cfg.SpreadsheetID, s.cfg.SheetName+"!A1", &sheets.ValueRange{Values: values}).
			ValueInputOption("RAW").
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: failed to write cost sheet: %v", domain.ErrRemoteStore, err)
	}

	stale := fmt.Sprintf("%s!A%d:Z", s.cfg.SheetName, len(values)+1)
	err = s.call(ctx, "clear", func(ctx context.Context) error {
		_, err := s.values.Clear(s.cfg.SpreadsheetID, stale, &sheets.ClearValuesRequest{}).Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: failed to clear stale cost rows: %v", domain.ErrRemoteStore, err)
	}
	return nil
}

func (s *SheetsCostRepository) tableRange() string {
	return s.cfg.SheetName + "!A:Z"
}

// call runs fn under the per-call timeout and retries transient failures once.
func (s *SheetsCostRepository) call(ctx context.Context, op string, fn func(context.Context) error) error {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = s.cfg.RetryBackoff
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, 1), ctx)

	return backoff.RetryNotify(func() error {
		callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()

		err := fn(callCtx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || !transient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy, func(err error, wait time.Duration) {
		s.logger.Warn("sheets call failed, retrying",
			zap.String("op", op),
			zap.Duration("wait", wait),
			zap.Error(err))
	})
}

// transient reports failures worth one more attempt: timeouts, network
// errors, rate limiting and server errors.
func transient(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func headerIndex(header []interface{}, name string) int {
	for i, cell := range header {
		if strings.EqualFold(strings.TrimSpace(fmt.Sprint(cell)), name) {
			return i
		}
	}
	return -1
}

func cellString(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	return fmt.Sprint(row[i])
}

func cellDecimal(row []interface{}, i int) (decimal.Decimal, error) {
	if i >= len(row) || row[i] == nil {
		return decimal.Zero, errors.New("cost is empty")
	}
	switch v := row[i].(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(v), ",", "")
		if s == "" {
			return decimal.Zero, errors.New("cost is empty")
		}
		return decimal.NewFromString(s)
	}
	return decimal.Zero, fmt.Errorf("unexpected cost cell %v", row[i])
}
