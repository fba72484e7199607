package rbac

import "strings"

// Role identifies the permission tier of the active user.
type Role string

// Roles known to the default catalogs. Any other value is accepted and simply
// matches no restriction.
const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleCashier Role = "cashier"
)

// NormalizeRole trims and lower-cases a raw role value.
func NormalizeRole(raw string) Role {
	return Role(strings.ToLower(strings.TrimSpace(raw)))
}

// Restriction lists the roles allowed to use an item. A nil *Restriction
// leaves the item open to everyone; an empty one admits nobody.
type Restriction struct {
	roles map[Role]struct{}
	order []Role
}

// Restrict builds a Restriction admitting the given roles.
func Restrict(roles ...Role) *Restriction {
	r := &Restriction{roles: make(map[Role]struct{}, len(roles))}
	for _, role := range roles {
		role = NormalizeRole(string(role))
		if role == "" {
			continue
		}
		if _, dup := r.roles[role]; dup {
			continue
		}
		r.roles[role] = struct{}{}
		r.order = append(r.order, role)
	}
	return r
}

// RestrictNames is Restrict for raw string values, as found in configuration.
func RestrictNames(names []string) *Restriction {
	roles := make([]Role, 0, len(names))
	for _, n := range names {
		roles = append(roles, Role(n))
	}
	return Restrict(roles...)
}

// Allows reports whether role is a member of the restriction.
func (r *Restriction) Allows(role Role) bool {
	if r == nil {
		return true
	}
	role = NormalizeRole(string(role))
	if role == "" {
		return false
	}
	_, ok := r.roles[role]
	return ok
}

// Roles returns the admitted roles in declaration order.
func (r *Restriction) Roles() []Role {
	if r == nil {
		return nil
	}
	out := make([]Role, len(r.order))
	copy(out, r.order)
	return out
}

// CanAccess decides whether current may see and use an item declaring the
// required restriction.
func CanAccess(required *Restriction, current Role) bool {
	if required == nil {
		return true
	}
	return required.Allows(current)
}
