package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	jobmetrics "github.com/odyssey-erp/backoffice/internal/jobs"
)

// Report view outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeForbidden = "forbidden"
	OutcomeNotFound  = "not_found"
	OutcomeError     = "error"
)

// Metrics collects Prometheus metrics for the back-office service.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	reportViews     *prometheus.CounterVec
	matchedRows     *prometheus.HistogramVec
	menuDenied      *prometheus.CounterVec
	jobs            *jobmetrics.Metrics
}

// NewMetrics initialises the registry and base collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_http_requests_total",
		Help: "HTTP requests by route and status.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backoffice_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	views := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_report_views_total",
		Help: "Report view builds by report and outcome.",
	}, []string{"report", "outcome"})
	matched := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backoffice_report_matched_rows",
		Help:    "Rows left after filtering a report.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	}, []string{"report"})
	denied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_menu_locked_items_total",
		Help: "Menu items rendered locked for the active role.",
	}, []string{"section", "role"})
	registry.MustRegister(requests, duration, views, matched, denied)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		reportViews:     views,
		matchedRows:     matched,
		menuDenied:      denied,
		jobs:            jobmetrics.NewMetrics(registry),
	}
}

// Handler returns the http.Handler serving /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records metrics for every HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ObserveReport records one report view build.
func (m *Metrics) ObserveReport(report, outcome string, matched int) {
	if m == nil {
		return
	}
	m.reportViews.WithLabelValues(report, outcome).Inc()
	if outcome == OutcomeOK {
		m.matchedRows.WithLabelValues(report).Observe(float64(matched))
	}
}

// ObserveLocked records menu items rendered locked for a role.
func (m *Metrics) ObserveLocked(section, role string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.menuDenied.WithLabelValues(section, role).Add(float64(count))
}

// Jobs exposes the background job collectors bound to this registry.
func (m *Metrics) Jobs() *jobmetrics.Metrics {
	if m == nil {
		return nil
	}
	return m.jobs
}

// Registerer exposes the registry for custom collectors.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
