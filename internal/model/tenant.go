package model

import (
	"github.com/google/uuid"
)

// Tenant is an isolated clinic, the unit of data partitioning. Exactly one
// tenant carries IsSuperAdmin: the operator tenant that provisions and
// manages all others. It can never be deleted.
type Tenant struct {
	Base
	Name         string `json:"name" db:"name"`
	Domain       string `json:"domain" db:"domain"`
	IsSuperAdmin bool   `json:"is_super_admin" db:"is_super_admin"`
}

// TenantSettings is the per-clinic display record, created lazily on first read.
type TenantSettings struct {
	Base
	TenantID   uuid.UUID `json:"tenant_id" db:"tenant_id"`
	ClinicName string    `json:"clinic_name" db:"clinic_name"`
	LogoURL    *string   `json:"logo_url" db:"logo_url"`
	Address    *string   `json:"address" db:"address"`
	Phone      *string   `json:"phone" db:"phone"`
	Website    *string   `json:"website" db:"website"`
}

// CreateTenantRequest provisions a clinic together with its bootstrap admin.
type CreateTenantRequest struct {
	Name          string `json:"name" binding:"required"`
	AdminUsername string `json:"admin_username" binding:"required"`
	AdminPassword string `json:"admin_password" binding:"required,min=8"`
}

// TenantSummary is the operator listing row: tenant plus its admin username.
type TenantSummary struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Domain        string    `json:"domain" db:"domain"`
	IsSuperAdmin  bool      `json:"is_super_admin" db:"is_super_admin"`
	AdminUsername *string   `json:"admin_username" db:"admin_username"`
}

// UpdateSettingsRequest carries a partial settings update; nil fields are untouched.
type UpdateSettingsRequest struct {
	ClinicName *string `json:"clinic_name"`
	LogoURL    *string `json:"logo_url"`
	Address    *string `json:"address"`
	Phone      *string `json:"phone"`
	Website    *string `json:"website"`
}
