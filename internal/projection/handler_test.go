package projection

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/aevon-lab/order-insights/internal/aggregation"
	v1 "github.com/aevon-lab/order-insights/internal/api/v1"
	coreagg "github.com/aevon-lab/order-insights/internal/core/aggregation"
	httperr "github.com/aevon-lab/order-insights/internal/core/errors"
	"github.com/aevon-lab/order-insights/internal/export"
	"github.com/aevon-lab/order-insights/internal/ingestion"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// stubReports returns canned results or errors.
type stubReports struct {
	err error
}

func (s stubReports) Views(context.Context) ([]coreagg.AggregateView, error) {
	return nil, s.err
}

func (s stubReports) View(context.Context, string) (*coreagg.AggregateView, error) {
	return nil, s.err
}

func (s stubReports) Export(context.Context) (*aggregation.Result, error) {
	return nil, s.err
}

func newRouter(reports Reports) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewService(reports).RegisterRoutes(r)
	return r
}

func newSampleRunner(t *testing.T) (*aggregation.Runner, string) {
	t.Helper()
	repo, err := coreagg.NewFileSystemViewRepository("")
	require.NoError(t, err)
	dest := filepath.Join(t.TempDir(), "report.xlsx")
	return aggregation.NewRunner(
		ingestion.NewSampleSource(),
		repo,
		export.NewWorkbookWriter("order-insights"),
		nil,
		aggregation.Options{},
		dest,
	), dest
}

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestHandleListViews(t *testing.T) {
	runner, _ := newSampleRunner(t)
	w := serve(newRouter(runner), http.MethodGet, "/v1/reports")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ViewsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Views, 4)
	require.Equal(t, coreagg.ViewTotalSales, resp.Views[0].Name)
	require.Equal(t, []string{"TotalSalesRevenue"}, resp.Views[0].Columns)
	require.True(t, decimal.NewFromInt(8800).Equal(resp.Views[0].Rows[0].Value))
}

func TestHandleGetView(t *testing.T) {
	runner, _ := newSampleRunner(t)
	r := newRouter(runner)

	w := serve(r, http.MethodGet, "/v1/reports/Top_Products")
	require.Equal(t, http.StatusOK, w.Code)

	var view coreagg.AggregateView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Equal(t, []string{"Product", "TotalQuantitySold"}, view.Columns)
	require.Equal(t, "Headphones", view.Rows[0].Key)
	require.True(t, decimal.NewFromInt(5).Equal(view.Rows[0].Value))

	w = serve(r, http.MethodGet, "/v1/reports/Unknown_View")
	require.Equal(t, http.StatusNotFound, w.Code)

	var errResp httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	require.Equal(t, httperr.HttpViewNotFoundError, errResp.ErrorType)
}

func TestHandleExport(t *testing.T) {
	runner, dest := newSampleRunner(t)
	w := serve(newRouter(runner), http.MethodPost, "/v1/reports/export")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ExportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, dest, resp.OutputPath)
	require.Equal(t, 5, resp.Records)
	require.NotEmpty(t, resp.RunID)
	require.Equal(t, []string{
		coreagg.ViewTotalSales,
		coreagg.ViewTopProducts,
		coreagg.ViewRevenueByCategory,
		coreagg.ViewOrdersByCustomer,
	}, resp.Sheets)

	id, err := export.Identifier(dest)
	require.NoError(t, err)
	require.Equal(t, resp.RunID, id)
}

func TestHandlers_StatusMapping(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		method         string
		path           string
		expectedStatus int
		expectedType   string
	}{
		{
			name:           "unknown view returns 404",
			err:            fmt.Errorf("lookup: %w", coreagg.ErrUnknownView),
			method:         http.MethodGet,
			path:           "/v1/reports/Nope",
			expectedStatus: http.StatusNotFound,
			expectedType:   httperr.HttpViewNotFoundError,
		},
		{
			name:           "invalid order returns 422",
			err:            fmt.Errorf("enrich orders: %w", v1.ErrInvalidOrder),
			method:         http.MethodGet,
			path:           "/v1/reports",
			expectedStatus: http.StatusUnprocessableEntity,
			expectedType:   httperr.HttpInvalidOrderError,
		},
		{
			name:           "source failure returns 500",
			err:            fmt.Errorf("load orders: connection refused"),
			method:         http.MethodGet,
			path:           "/v1/reports",
			expectedStatus: http.StatusInternalServerError,
			expectedType:   httperr.HttpInternalError,
		},
		{
			name:           "export failure returns 500",
			err:            fmt.Errorf("export report.xlsx: disk full"),
			method:         http.MethodPost,
			path:           "/v1/reports/export",
			expectedStatus: http.StatusInternalServerError,
			expectedType:   httperr.HttpExportError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(newRouter(stubReports{err: tc.err}), tc.method, tc.path)
			require.Equal(t, tc.expectedStatus, w.Code)

			var resp httperr.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.Equal(t, tc.expectedType, resp.ErrorType)
			require.Contains(t, resp.Details, tc.err.Error())
		})
	}
}
