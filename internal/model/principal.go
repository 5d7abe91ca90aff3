package model

import (
	"github.com/google/uuid"
)

// Principal is the resolved, authenticated identity for one request. It is
// derived from the bearer token plus the live user row and never persisted.
//
// IsSuperAdmin is copied from the user's tenant at resolution time; it is a
// tenant property, orthogonal to holding the admin role.
type Principal struct {
	UserID       uuid.UUID
	Username     string
	TenantID     uuid.UUID
	Roles        RoleSet
	IsSuperAdmin bool
}

// IsAdmin reports whether the principal holds the admin role in its own tenant.
func (p *Principal) IsAdmin() bool {
	return p.Roles.Has(RoleAdmin)
}
