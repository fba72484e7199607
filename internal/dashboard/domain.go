package dashboard

import (
	"context"
	"fmt"

	"github.com/odyssey-erp/backoffice/internal/catalog"
	"github.com/odyssey-erp/backoffice/internal/platform/httpx"
	"github.com/odyssey-erp/backoffice/internal/rbac"
	"github.com/odyssey-erp/backoffice/internal/records"
)

var (
	// ErrNotFound indicates an unknown section or report.
	ErrNotFound = fmt.Errorf("dashboard: %w", httpx.ErrNotFound)
	// ErrForbidden indicates the active role may not open the item.
	ErrForbidden = fmt.Errorf("dashboard: %w", httpx.ErrForbidden)
)

// DataProvider supplies the records behind a report source.
type DataProvider interface {
	Records(ctx context.Context, source string) ([]records.Record, error)
}

// MenuItem is a card as rendered for one role.
type MenuItem struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Category      string      `json:"category"`
	Route         string      `json:"route"`
	Enabled       bool        `json:"enabled"`
	RequiredRoles []rbac.Role `json:"required_roles,omitempty"`
}

// MenuGroup is one category of a landing page.
type MenuGroup struct {
	Category   string     `json:"category"`
	Title      string     `json:"title"`
	Items      []MenuItem `json:"items"`
	Count      int        `json:"count"`
	Percentage int        `json:"percentage"`
}

// MenuView is a landing page resolved for the active role.
type MenuView struct {
	Section string      `json:"section"`
	Title   string      `json:"title"`
	Role    rbac.Role   `json:"role"`
	Items   []MenuItem  `json:"items"`
	Groups  []MenuGroup `json:"groups"`
}

// Share is a category's portion of a report's rows.
type Share struct {
	Category   string `json:"category"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// ReportView is a filtered record table plus its summaries.
type ReportView struct {
	ReportID  string                     `json:"report_id"`
	Title     string                     `json:"title"`
	Criteria  records.Criteria           `json:"criteria"`
	Rows      []records.Record           `json:"rows"`
	Total     int                        `json:"total"`
	Matched   int                        `json:"matched"`
	Breakdown []Share                    `json:"breakdown"`
	Options   map[records.Field][]string `json:"options"`
}

func toMenuItem(card catalog.MenuCard, role rbac.Role) MenuItem {
	return MenuItem{
		ID:            card.ID,
		Title:         card.Title,
		Description:   card.Description,
		Category:      string(card.Category),
		Route:         card.Route,
		Enabled:       rbac.CanAccess(card.RequiredRoles, role),
		RequiredRoles: card.RequiredRoles.Roles(),
	}
}
