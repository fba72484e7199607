package dashboardhttp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/backoffice/internal/dashboard"
	"github.com/odyssey-erp/backoffice/internal/platform/httpx"
	"github.com/odyssey-erp/backoffice/internal/rbac"
	"github.com/odyssey-erp/backoffice/internal/records"
)

const dateLayout = "2006-01-02"

// Service describes the dashboard operations the handlers depend on.
type Service interface {
	Menu(ctx context.Context, section string, role rbac.Role) (dashboard.MenuView, error)
	Report(ctx context.Context, reportID string, criteria records.Criteria, role rbac.Role) (dashboard.ReportView, error)
	Invalidate(ctx context.Context) error
}

// WarmupQueue schedules background rebuilds of report views.
type WarmupQueue interface {
	EnqueueDashboardWarmup(ctx context.Context, reason string) error
}

// Handler exposes landing pages and report tables as JSON.
type Handler struct {
	logger    *slog.Logger
	service   Service
	warmups   WarmupQueue
	rbac      rbac.Middleware
	validator *validator.Validate
	location  *time.Location
}

// NewHandler builds the dashboard HTTP handler. Dates in query strings are
// interpreted in loc.
func NewHandler(logger *slog.Logger, service Service, rbacMW rbac.Middleware, loc *time.Location) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		logger:    logger,
		service:   service,
		rbac:      rbacMW,
		validator: validator.New(),
		location:  loc,
	}
}

// WithWarmups makes cache invalidation enqueue a warm-up run.
func (h *Handler) WithWarmups(q WarmupQueue) *Handler {
	h.warmups = q
	return h
}

// MountRoutes registers dashboard routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.rbac.ResolveRole)
	r.Get("/menus/{section}", h.getMenu)
	r.Get("/reports/{reportID}", h.getReport)
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireRole(rbac.RoleAdmin))
		r.Post("/cache/invalidate", h.invalidate)
	})
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	role := rbac.RoleFromContext(r.Context())
	view, err := h.service.Menu(r.Context(), chi.URLParam(r, "section"), role)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

type reportQuery struct {
	From   string `validate:"omitempty,datetime=2006-01-02"`
	To     string `validate:"omitempty,datetime=2006-01-02"`
	Search string `validate:"max=120"`
}

func (h *Handler) getReport(w http.ResponseWriter, r *http.Request) {
	criteria, fields := h.parseCriteria(r)
	if len(fields) > 0 {
		httpx.ValidationProblem(w, fields)
		return
	}
	role := rbac.RoleFromContext(r.Context())
	view, err := h.service.Report(r.Context(), chi.URLParam(r, "reportID"), criteria, role)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) invalidate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Invalidate(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	if h.warmups != nil {
		if err := h.warmups.EnqueueDashboardWarmup(r.Context(), "invalidated via api"); err != nil {
			h.logger.Warn("enqueue dashboard warmup", slog.Any("error", err))
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseCriteria builds Criteria from the query string. A reversed range is
// not rejected; it simply matches nothing.
func (h *Handler) parseCriteria(r *http.Request) (records.Criteria, map[string]string) {
	q := r.URL.Query()
	form := reportQuery{
		From:   strings.TrimSpace(q.Get("from")),
		To:     strings.TrimSpace(q.Get("to")),
		Search: q.Get("q"),
	}
	fields := make(map[string]string)
	if err := h.validator.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[strings.ToLower(fe.Field())] = fe.Tag()
			}
		}
		return records.Criteria{}, fields
	}

	criteria := records.Criteria{Search: form.Search}
	if form.From != "" || form.To != "" {
		dr := &records.DateRange{
			Start: time.Date(1, time.January, 1, 0, 0, 0, 0, h.location),
			End:   time.Date(9999, time.December, 31, 0, 0, 0, 0, h.location),
		}
		if form.From != "" {
			dr.Start, _ = time.ParseInLocation(dateLayout, form.From, h.location)
		}
		if form.To != "" {
			dr.End, _ = time.ParseInLocation(dateLayout, form.To, h.location)
		}
		criteria.DateRange = dr
	}
	for _, f := range records.Fields() {
		if v := strings.TrimSpace(q.Get(string(f))); v != "" {
			if criteria.Categorical == nil {
				criteria.Categorical = make(map[records.Field]string)
			}
			criteria.Categorical[f] = v
		}
	}
	return criteria, nil
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if !errors.Is(err, httpx.ErrNotFound) && !errors.Is(err, httpx.ErrForbidden) {
		h.logger.Error("dashboard request", slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
