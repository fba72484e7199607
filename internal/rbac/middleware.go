package rbac

import (
	"context"
	"log/slog"
	"net/http"
)

// RoleHeader carries the active role, set by the upstream auth gateway.
const RoleHeader = "X-Backoffice-Role"

type roleContextKey struct{}

// ContextWithRole stores the active role in context.
func ContextWithRole(ctx context.Context, role Role) context.Context {
	return context.WithValue(ctx, roleContextKey{}, role)
}

// RoleFromContext extracts the active role from context.
func RoleFromContext(ctx context.Context) Role {
	role, _ := ctx.Value(roleContextKey{}).(Role)
	return role
}

// Middleware wires role resolution and gating helpers for HTTP handlers.
type Middleware struct {
	DefaultRole Role
	Logger      *slog.Logger
}

// ResolveRole places the request's role in context, falling back to
// DefaultRole when the header is absent.
func (m Middleware) ResolveRole(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := NormalizeRole(r.Header.Get(RoleHeader))
		if role == "" {
			role = NormalizeRole(string(m.DefaultRole))
		}
		next.ServeHTTP(w, r.WithContext(ContextWithRole(r.Context(), role)))
	})
}

// RequireRole ensures the active role is one of roles. No roles means open.
func (m Middleware) RequireRole(roles ...Role) func(http.Handler) http.Handler {
	var required *Restriction
	if len(roles) > 0 {
		required = Restrict(roles...)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if CanAccess(required, role) {
				next.ServeHTTP(w, r)
				return
			}
			if m.Logger != nil {
				m.Logger.Warn("rbac require role", slog.String("role", string(role)), slog.String("path", r.URL.Path))
			}
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}
