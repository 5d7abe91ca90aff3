package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Role is the closed role vocabulary. "Super admin" is not a role; it is a
// property of the user's tenant (Tenant.IsSuperAdmin).
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleDoctor    Role = "doctor"
	RoleFrontDesk Role = "front_desk"
	RoleStaff     Role = "staff"
)

// rolePrecedence orders roles for picking a single effective role.
var rolePrecedence = []Role{RoleAdmin, RoleDoctor, RoleFrontDesk, RoleStaff}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleFrontDesk, RoleStaff:
		return true
	}
	return false
}

// RoleSet is the user's role list, stored as a JSONB array.
type RoleSet []Role

func (rs RoleSet) Has(role Role) bool {
	for _, r := range rs {
		if r == role {
			return true
		}
	}
	return false
}

// Effective returns the highest-precedence role in the set.
func (rs RoleSet) Effective() Role {
	for _, r := range rolePrecedence {
		if rs.Has(r) {
			return r
		}
	}
	return RoleStaff
}

func (rs RoleSet) Value() (driver.Value, error) {
	if rs == nil {
		return []byte(`["staff"]`), nil
	}
	return json.Marshal(rs)
}

func (rs *RoleSet) Scan(src interface{}) error {
	return scanJSON(src, rs)
}

// User represents a staff account. A user belongs to exactly one tenant for
// its lifetime.
type User struct {
	Base
	TenantID     uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Username     string    `json:"username" db:"username"`
	Password     string    `json:"password,omitempty" db:"-"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Roles        RoleSet   `json:"roles" db:"roles"`
	IsActive     bool      `json:"is_active" db:"is_active"`
}

// CreateUserRequest represents user creation parameters
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Roles    []Role `json:"roles" binding:"required,min=1,dive,role"`
}

// UpdateUserRequest represents user update parameters; nil fields are untouched
type UpdateUserRequest struct {
	Roles    []Role `json:"roles" binding:"omitempty,min=1,dive,role"`
	IsActive *bool  `json:"is_active"`
}

// ResetPasswordRequest carries an admin-driven password reset
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}

// GlobalAdmin is a cross-tenant admin listing row (operator console)
type GlobalAdmin struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Username   string    `json:"username" db:"username"`
	ClinicID   uuid.UUID `json:"clinic_id" db:"clinic_id"`
	ClinicName string    `json:"clinic_name" db:"clinic_name"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
