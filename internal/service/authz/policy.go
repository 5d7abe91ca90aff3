package authz

import (
	"github.com/google/uuid"

	"github.com/clinicalos/clinic-api/internal/model"
	apperrors "github.com/clinicalos/clinic-api/pkg/errors"
)

// Action classifies what a request is trying to do. Checks are evaluated in
// precedence order: tenant-admin, super-admin-only, tenant-scoped resource.
type Action int

const (
	// ActionTenantRead and ActionTenantWrite cover ordinary tenant-scoped
	// resources: patients, appointments, records, prescriptions, invoices.
	ActionTenantRead Action = iota
	ActionTenantWrite
	// ActionTenantAdmin covers managing users and settings within the
	// caller's own tenant.
	ActionTenantAdmin
	// ActionSuperAdmin covers tenant lifecycle, impersonation and global
	// stats. Only principals of the operator tenant qualify; no role grants
	// this.
	ActionSuperAdmin
)

// Service is the authorization policy. It is stateless; every decision is a
// pure function of the principal and the target.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Authorize gates an action against a resource's tenant. resourceTenant is
// ignored for ActionSuperAdmin and may be uuid.Nil for actions that target
// the caller's own tenant.
//
// Deny outcomes are deliberate: privilege-class failures are Forbidden,
// cross-tenant resource references are NotFound so the existence of other
// tenants' rows is never confirmed.
func (s *Service) Authorize(p *model.Principal, action Action, resourceTenant uuid.UUID) error {
	switch action {
	case ActionSuperAdmin:
		return s.RequireSuperAdmin(p)
	case ActionTenantAdmin:
		return s.RequireTenantAdmin(p)
	default:
		return s.RequireSameTenant(p, resourceTenant)
	}
}

// RequireTenantAdmin passes for admin-role users and for any principal of
// the operator tenant.
func (s *Service) RequireTenantAdmin(p *model.Principal) error {
	if p.IsAdmin() || p.IsSuperAdmin {
		return nil
	}
	return apperrors.Forbidden("admin privileges required")
}

// RequireSuperAdmin passes only for principals whose tenant is the operator
// tenant. Holding the admin role elsewhere never substitutes.
func (s *Service) RequireSuperAdmin(p *model.Principal) error {
	if p.IsSuperAdmin {
		return nil
	}
	return apperrors.Forbidden("super admin only")
}

// RequireSameTenant hides cross-tenant rows: a mismatch reads as not-found.
// Super-admin principals get no ambient cross-tenant access; they must
// impersonate to act inside another tenant.
func (s *Service) RequireSameTenant(p *model.Principal, resourceTenant uuid.UUID) error {
	if resourceTenant == p.TenantID {
		return nil
	}
	return apperrors.NotFound("resource", nil)
}

// CanManageUser gates mutations of a user account: admin within the same
// tenant, or any operator-tenant principal for any tenant. Self-deletion and
// self-deactivation are refused outright, whatever the caller's privileges.
func (s *Service) CanManageUser(p *model.Principal, target *model.User, deactivating bool) error {
	if err := s.RequireTenantAdmin(p); err != nil {
		return err
	}

	if !p.IsSuperAdmin && target.TenantID != p.TenantID {
		return apperrors.NotFound("user", nil)
	}

	if target.ID == p.UserID && deactivating {
		return apperrors.Policy("cannot delete or deactivate your own account")
	}

	return nil
}
