package v1

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "rms/internal/core/context"
	"rms/internal/core/entity"
	"rms/internal/domain/registers/stock"
	"rms/internal/domain/reports"
	"rms/pkg/logger"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type registers struct{}

func (registers) ListBins(context.Context, stock.BinFilter) ([]entity.Bin, error) {
	return []entity.Bin{{ItemCode: "BOLT", Warehouse: "Stores"}}, nil
}

func (registers) ListEntries(context.Context, stock.LedgerFilter) ([]entity.StockLedgerEntry, int64, error) {
	return nil, 0, nil
}

type balance struct{}

func (balance) StockBalance(context.Context, reports.StockBalanceFilter) (*reports.Result, error) {
	return &reports.Result{Columns: reports.StockBalanceColumns, Data: [][]any{}}, nil
}

type validator map[string]*appctx.UserContext

func (v validator) ValidateToken(token string) (*appctx.UserContext, error) {
	if u, ok := v[token]; ok {
		return u, nil
	}
	return nil, errors.New("invalid")
}

func get(h http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func testConfig() RouterConfig {
	return RouterConfig{
		Logger:         logger.NewNop(),
		DB:             pinger{},
		MetricsEnabled: true,
		Services: Services{
			Registers: registers{},
			Reports:   balance{},
		},
	}
}

func TestRouter_Health(t *testing.T) {
	cfg := testConfig()
	r := NewRouter(cfg)

	assert.Equal(t, http.StatusOK, get(r, "/health/live", "").Code)
	assert.Equal(t, http.StatusOK, get(r, "/health/ready", "").Code)

	cfg.DB = pinger{err: errors.New("connection refused")}
	assert.Equal(t, http.StatusServiceUnavailable, get(NewRouter(cfg), "/health/ready", "").Code)
}

func TestRouter_OpenAPIWithoutAuth(t *testing.T) {
	r := NewRouter(testConfig())

	w := get(r, "/api/v1/registers/bins?itemCode=BOLT", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"itemCode":"BOLT"`)

	assert.Equal(t, http.StatusOK, get(r, "/api/v1/desk/modules", "").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/api/v1/document/material-request", "").Code)

	w = get(r, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rms_http_requests_total")
}

func TestRouter_Roles(t *testing.T) {
	cfg := testConfig()
	cfg.JWTValidator = validator{
		"clerk":   {UserID: "clerk", Roles: []string{RoleStockUser}},
		"planner": {UserID: "planner", Roles: []string{RoleManufacturingUser}},
	}
	r := NewRouter(cfg)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/v1/registers/bins", "").Code)
	assert.Equal(t, http.StatusOK, get(r, "/api/v1/registers/bins", "clerk").Code)
	assert.Equal(t, http.StatusForbidden, get(r, "/api/v1/registers/bins", "planner").Code)

	// Desk and metadata need a login but no role.
	assert.Equal(t, http.StatusOK, get(r, "/api/v1/desk/modules", "planner").Code)
	assert.Equal(t, http.StatusOK, get(r, "/health/live", "").Code)
}

func TestNewHandler_Gzip(t *testing.T) {
	h := NewHandler(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/desk/modules", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
}
