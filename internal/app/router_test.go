package app

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/backoffice/internal/catalog"
	"github.com/odyssey-erp/backoffice/internal/dashboard"
	dashboardhttp "github.com/odyssey-erp/backoffice/internal/dashboard/http"
	"github.com/odyssey-erp/backoffice/internal/mockdata"
	"github.com/odyssey-erp/backoffice/internal/observability"
	"github.com/odyssey-erp/backoffice/internal/rbac"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cat, err := catalog.Default()
	require.NoError(t, err)
	metrics := observability.NewMetrics()
	svc := dashboard.NewService(cat, mockdata.New(), nil, metrics)
	handler := dashboardhttp.NewHandler(logger, svc, rbac.Middleware{DefaultRole: rbac.RoleCashier, Logger: logger}, time.UTC)
	return NewRouter(RouterParams{
		Logger:           logger,
		Config:           &Config{AppEnv: "test", AppRequestTimeout: 5 * time.Second},
		DashboardHandler: handler,
		Metrics:          metrics,
	})
}

func TestRouterHealthAndSecureHeaders(t *testing.T) {
	router := testRouter(t)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rr.Header().Get("X-Ratelimit-Limit"))
}

func TestRouterServesMenuAndMetrics(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/menus/settings", nil)
	req.Header.Set(rbac.RoleHeader, "cashier")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var view dashboard.MenuView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, rbac.RoleCashier, view.Role)
	assert.NotEmpty(t, view.Groups)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `backoffice_http_requests_total{code="200",route="/api/menus/{section}"} 1`)
	assert.Contains(t, rr.Body.String(), `backoffice_menu_locked_items_total{role="cashier",section="settings"} 3`)
}
