package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	return rr.Body.String()
}

func TestMetricsHandlerExposesJobMetrics(t *testing.T) {
	metrics := NewMetrics()
	tracker := metrics.Jobs().Track("dashboard:warmup")
	_ = tracker.End(errors.New("boom"))

	body := scrape(t, metrics)
	if !strings.Contains(body, `backoffice_jobs_total{job="dashboard:warmup",status="failure"} 1`) {
		t.Fatalf("expected job run to be recorded, got: %s", body)
	}
	if !strings.Contains(body, `backoffice_jobs_failures_total{job="dashboard:warmup"} 1`) {
		t.Fatalf("expected job failure to be recorded, got: %s", body)
	}
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	metrics := NewMetrics()

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/test")

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected status %d, got %d", http.StatusTeapot, rr.Code)
	}

	metricsBody := scrape(t, metrics)
	if !strings.Contains(metricsBody, "http_requests_total{code=\"418\",route=\"/test\"} 1") {
		t.Fatalf("expected metrics to record request, got: %s", metricsBody)
	}
	if !strings.Contains(metricsBody, "http_request_duration_seconds_bucket{route=\"/test\"") {
		t.Fatalf("expected duration histogram to be present, got: %s", metricsBody)
	}
}

func TestObserveReportAndLocked(t *testing.T) {
	metrics := NewMetrics()
	metrics.ObserveReport("sold-products", OutcomeOK, 3)
	metrics.ObserveReport("users", OutcomeForbidden, 0)
	metrics.ObserveLocked("settings", "cashier", 3)
	metrics.ObserveLocked("settings", "admin", 0)

	body := scrape(t, metrics)
	for _, want := range []string{
		`backoffice_report_views_total{outcome="ok",report="sold-products"} 1`,
		`backoffice_report_views_total{outcome="forbidden",report="users"} 1`,
		`backoffice_report_matched_rows_count{report="sold-products"} 1`,
		`backoffice_menu_locked_items_total{role="cashier",section="settings"} 3`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in metrics, got: %s", want, body)
		}
	}
	if strings.Contains(body, `role="admin"`) {
		t.Fatalf("zero locked count must not be recorded")
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var metrics *Metrics
	metrics.ObserveReport("x", OutcomeOK, 1)
	metrics.ObserveLocked("settings", "admin", 1)
	if metrics.Jobs() != nil {
		t.Fatalf("expected nil job metrics")
	}
	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}
