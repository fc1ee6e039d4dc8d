package api_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"profit-reconciliation/internal/api"
	"profit-reconciliation/internal/domain"
	"profit-reconciliation/internal/gateway"
	"profit-reconciliation/internal/usecase"
	mock_usecase "profit-reconciliation/internal/usecase/mocks"
)

const (
	ordersCSV = "Order Status,Order ID,Quantity,Seller SKU,Product Name,Variation\n" +
		"Order status,Platform unique order ID,Quantity sold,SKU,Product,Variation\n" +
		"Selesai,1001,2,A,A,Default\n" +
		"Selesai,1002,1,B,B,Default\n" +
		"Selesai,1003,3,A,A,Default\n"
	settlementsCSV = "Order/adjustment ID,Total settlement amount,Customer refund\n" +
		"1001,10000,0\n" +
		"1002,5000,0\n" +
		"1003,15000,0\n"
)

type fixture struct {
	remote *mock_usecase.MockCostRepository
	cache  *mock_usecase.MockCostCache
	store  *usecase.CostStore
	server *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &fixture{
		remote: mock_usecase.NewMockCostRepository(ctrl),
		cache:  mock_usecase.NewMockCostCache(ctrl),
	}
	f.cache.EXPECT().Read(gomock.Any()).Return(nil, errors.New("no cache")).AnyTimes()
	f.cache.EXPECT().Write(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	logger := zap.NewNop()
	f.store = usecase.NewCostStore(f.remote, f.cache, time.Hour, logger)
	profit := usecase.NewProfitUseCase(
		gateway.NewSpreadsheetSourceRepository(logger),
		f.store,
		gateway.NewXLSXReportWriter(logger),
		logger,
	)
	handler := api.NewHandler(profit, f.store, 1<<20, logger)
	f.server = httptest.NewServer(api.NewRouter(handler, nil))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fixture) remoteCosts(entries ...domain.CostEntry) {
	f.remote.EXPECT().FetchCosts(gomock.Any()).Return(domain.CostMapFrom(entries...), nil).AnyTimes()
}

type upload struct {
	field, name, body string
}

func multipartBody(t *testing.T, uploads ...upload) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, u := range uploads {
		part, err := mw.CreateFormFile(u.field, u.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(u.body))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (f *fixture) do(t *testing.T, method, path string, body *bytes.Buffer, contentType string) *http.Response {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req, err := http.NewRequest(method, f.server.URL+path, body)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	resp := f.do(t, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAnalyze(t *testing.T) {
	f := newFixture(t)
	f.remoteCosts(domain.CostEntry{ProductName: "A", CostPerUnit: decimal.NewFromInt(1000)})

	body, ct := multipartBody(t,
		upload{"orders", "Selesai pesanan-2025-07-01.csv", ordersCSV},
		upload{"settlements", "income_20250701.csv", settlementsCSV},
	)
	resp := f.do(t, http.MethodPost, "/api/analyze", body, ct)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report struct {
		RunID    string `json:"run_id"`
		Products []struct {
			SKU      string          `json:"sku"`
			Quantity int64           `json:"quantity"`
			Revenue  decimal.Decimal `json:"revenue"`
			Profit   decimal.Decimal `json:"profit"`
		} `json:"products"`
		MissingCosts []string `json:"missing_costs"`
	}
	decodeBody(t, resp, &report)

	assert.NotEmpty(t, report.RunID)
	require.Len(t, report.Products, 2)
	assert.Equal(t, "A", report.Products[0].SKU)
	assert.Equal(t, int64(5), report.Products[0].Quantity)
	assert.True(t, decimal.NewFromInt(25000).Equal(report.Products[0].Revenue))
	assert.True(t, decimal.NewFromInt(20000).Equal(report.Products[0].Profit))
	assert.Equal(t, []string{"B"}, report.MissingCosts)
}

func TestAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name              string
		uploads           []upload
		wantStatus        int
		wantMissingOrders []string
	}{
		{
			name: "missing columns listed",
			uploads: []upload{
				{"orders", "orders.csv", "Order ID,Quantity\nid,qty\n1001,1\n"},
				{"settlements", "income.csv", settlementsCSV},
			},
			wantStatus:        http.StatusUnprocessableEntity,
			wantMissingOrders: []string{domain.ColOrderStatus, domain.ColSellerSKU, domain.ColProductName, domain.ColVariation},
		},
		{
			name: "every settlement refunded",
			uploads: []upload{
				{"orders", "orders.csv", ordersCSV},
				{"settlements", "income.csv", "Order/adjustment ID,Total settlement amount,Customer refund\n1001,10000,-10000\n"},
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "settlements file missing",
			uploads:    []upload{{"orders", "orders.csv", ordersCSV}},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.remoteCosts()

			body, ct := multipartBody(t, tt.uploads...)
			resp := f.do(t, http.MethodPost, "/api/analyze", body, ct)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var errResp api.ErrorResponse
			decodeBody(t, resp, &errResp)
			assert.NotEmpty(t, errResp.Error)
			assert.Equal(t, tt.wantMissingOrders, errResp.MissingOrdersColumns)
		})
	}
}

func TestReport(t *testing.T) {
	f := newFixture(t)
	f.remoteCosts(domain.CostEntry{ProductName: "A", CostPerUnit: decimal.NewFromInt(1000)})

	body, ct := multipartBody(t,
		upload{"orders", "orders.csv", ordersCSV},
		upload{"settlements", "income.csv", settlementsCSV},
	)
	resp := f.do(t, http.MethodPost, "/api/report", body, ct)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "Laporan_Profit_")

	wb, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer wb.Close()
	assert.Contains(t, wb.GetSheetList(), gateway.SheetOverview)
	assert.Contains(t, wb.GetSheetList(), gateway.SheetProducts)
}

func TestCompare(t *testing.T) {
	f := newFixture(t)
	f.remoteCosts()

	newerOrders := ordersCSV + "Selesai,1004,1,C,C,Default\n"
	newerSettlements := settlementsCSV + "1004,200000,0\n"

	body, ct := multipartBody(t,
		upload{"files", "income_20250801.csv", newerSettlements},
		upload{"files", "Selesai pesanan-2025-07-01.csv", ordersCSV},
		upload{"files", "income_20250701.csv", settlementsCSV},
		upload{"files", "Selesai pesanan-2025-08-01.csv", newerOrders},
	)
	resp := f.do(t, http.MethodPost, "/api/compare", body, ct)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Comparison domain.PeriodComparison `json:"comparison"`
	}
	decodeBody(t, resp, &result)
	assert.True(t, decimal.NewFromInt(30000).Equal(result.Comparison.Revenue.Old))
	assert.True(t, decimal.NewFromInt(230000).Equal(result.Comparison.Revenue.New))
	require.Len(t, result.Comparison.NewProducts, 1)
	assert.Equal(t, "C", result.Comparison.NewProducts[0].ProductName)
	assert.Equal(t, 2, result.Comparison.CommonProducts)
}

func TestCompare_UndetectableFiles(t *testing.T) {
	f := newFixture(t)

	body, ct := multipartBody(t,
		upload{"files", "orders.csv", ordersCSV},
		upload{"files", "income.csv", settlementsCSV},
	)
	resp := f.do(t, http.MethodPost, "/api/compare", body, ct)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCosts(t *testing.T) {
	t.Run("list and stats after refresh", func(t *testing.T) {
		f := newFixture(t)
		f.remoteCosts(
			domain.CostEntry{ProductName: "Topi", CostPerUnit: decimal.NewFromInt(10000)},
			domain.CostEntry{ProductName: "Kaos", CostPerUnit: decimal.NewFromInt(30000)},
		)

		resp := f.do(t, http.MethodPost, "/api/costs/refresh", nil, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var refreshed api.RefreshResponse
		decodeBody(t, resp, &refreshed)
		assert.Equal(t, 2, refreshed.Products)

		resp = f.do(t, http.MethodGet, "/api/costs", nil, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var list api.CostListResponse
		decodeBody(t, resp, &list)
		require.Len(t, list.Costs, 2)
		assert.Equal(t, "Topi", list.Costs[0].ProductName)

		resp = f.do(t, http.MethodGet, "/api/costs/stats", nil, "")
		var stats domain.CostStats
		decodeBody(t, resp, &stats)
		assert.Equal(t, 2, stats.Products)
		assert.True(t, decimal.NewFromInt(20000).Equal(stats.Average))
	})

	t.Run("empty list is an empty array", func(t *testing.T) {
		f := newFixture(t)
		resp := f.do(t, http.MethodGet, "/api/costs", nil, "")
		raw := new(bytes.Buffer)
		raw.ReadFrom(resp.Body)
		assert.JSONEq(t, `{"costs": []}`, raw.String())
	})

	t.Run("set cost saves the table", func(t *testing.T) {
		f := newFixture(t)
		f.remoteCosts()
		f.remote.EXPECT().ReplaceCosts(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ interface{}, costs *domain.CostMap) error {
				assert.True(t, decimal.NewFromInt(12500).Equal(costs.Cost("Kaos Polos")))
				return nil
			})

		resp := f.do(t, http.MethodPut, "/api/costs/Kaos%20Polos", bytes.NewBufferString(`{"cost_per_unit": 12500}`), "application/json")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, decimal.NewFromInt(12500).Equal(f.store.GetCost("Kaos Polos")))
	})

	t.Run("negative cost rejected", func(t *testing.T) {
		f := newFixture(t)
		resp := f.do(t, http.MethodPut, "/api/costs/Topi", bytes.NewBufferString(`{"cost_per_unit": "-1"}`), "application/json")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("missing cost field", func(t *testing.T) {
		f := newFixture(t)
		resp := f.do(t, http.MethodPut, "/api/costs/Topi", bytes.NewBufferString(`{}`), "application/json")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("remote failure surfaces as bad gateway", func(t *testing.T) {
		f := newFixture(t)
		f.remoteCosts()
		f.remote.EXPECT().ReplaceCosts(gomock.Any(), gomock.Any()).Return(domain.ErrRemoteStore)

		resp := f.do(t, http.MethodPut, "/api/costs/Topi", bytes.NewBufferString(`{"cost_per_unit": 1}`), "application/json")
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})

	t.Run("delete", func(t *testing.T) {
		f := newFixture(t)
		f.remoteCosts(domain.CostEntry{ProductName: "Topi", CostPerUnit: decimal.NewFromInt(10000)})
		f.remote.EXPECT().ReplaceCosts(gomock.Any(), gomock.Any()).Return(nil)
		f.do(t, http.MethodPost, "/api/costs/refresh", nil, "")

		resp := f.do(t, http.MethodDelete, "/api/costs/Topi", nil, "")
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = f.do(t, http.MethodDelete, "/api/costs/Topi", nil, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("import and export", func(t *testing.T) {
		f := newFixture(t)
		f.remoteCosts()
		f.remote.EXPECT().ReplaceCosts(gomock.Any(), gomock.Any()).Return(nil)

		resp := f.do(t, http.MethodPost, "/api/costs/import",
			bytes.NewBufferString(`{"Topi": 10000, "Kaos": 30000, "Rusak": "x", "Minus": -5}`), "application/json")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var imported api.ImportResponse
		decodeBody(t, resp, &imported)
		assert.Equal(t, 2, imported.Imported)
		assert.Equal(t, 2, imported.Products)

		resp = f.do(t, http.MethodGet, "/api/costs/export", nil, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "cost_data.json")
		raw := new(bytes.Buffer)
		raw.ReadFrom(resp.Body)
		assert.JSONEq(t, `{"Topi": 10000, "Kaos": 30000}`, raw.String())
		assert.Less(t, strings.Index(raw.String(), "Topi"), strings.Index(raw.String(), "Kaos"))
	})

	t.Run("import rejects non object", func(t *testing.T) {
		f := newFixture(t)
		resp := f.do(t, http.MethodPost, "/api/costs/import", bytes.NewBufferString(`[1, 2]`), "application/json")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})
}
