package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/clinicalos/clinic-api/internal/model"
	apperrors "github.com/clinicalos/clinic-api/pkg/errors"
)

func principal(tenantID uuid.UUID, super bool, roles ...model.Role) *model.Principal {
	return &model.Principal{
		UserID:       uuid.New(),
		Username:     "someone",
		TenantID:     tenantID,
		Roles:        model.RoleSet(roles),
		IsSuperAdmin: super,
	}
}

func TestRequireTenantAdmin(t *testing.T) {
	svc := NewService()
	tenant := uuid.New()

	assert.NoError(t, svc.RequireTenantAdmin(principal(tenant, false, model.RoleAdmin)))
	assert.NoError(t, svc.RequireTenantAdmin(principal(tenant, true, model.RoleStaff)))

	err := svc.RequireTenantAdmin(principal(tenant, false, model.RoleDoctor))
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestRequireSuperAdminIgnoresRoles(t *testing.T) {
	svc := NewService()

	// The admin role alone never grants operator powers.
	err := svc.RequireSuperAdmin(principal(uuid.New(), false, model.RoleAdmin))
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	// Any role in the operator tenant does.
	assert.NoError(t, svc.RequireSuperAdmin(principal(uuid.New(), true, model.RoleStaff)))
}

func TestRequireSameTenantHidesCrossTenantRows(t *testing.T) {
	svc := NewService()
	tenant := uuid.New()

	assert.NoError(t, svc.RequireSameTenant(principal(tenant, false, model.RoleStaff), tenant))

	// Mismatch reads as not-found, never forbidden.
	err := svc.RequireSameTenant(principal(tenant, false, model.RoleAdmin), uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	// Super admins get no ambient cross-tenant access either.
	err = svc.RequireSameTenant(principal(tenant, true, model.RoleAdmin), uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestAuthorizeDispatch(t *testing.T) {
	svc := NewService()
	tenant := uuid.New()
	staff := principal(tenant, false, model.RoleStaff)

	assert.NoError(t, svc.Authorize(staff, ActionTenantRead, tenant))
	assert.NoError(t, svc.Authorize(staff, ActionTenantWrite, tenant))

	assert.True(t, apperrors.Is(svc.Authorize(staff, ActionTenantAdmin, tenant), apperrors.ErrForbidden))
	assert.True(t, apperrors.Is(svc.Authorize(staff, ActionSuperAdmin, uuid.Nil), apperrors.ErrForbidden))
}

func TestCanManageUser(t *testing.T) {
	svc := NewService()
	tenant := uuid.New()
	otherTenant := uuid.New()

	admin := principal(tenant, false, model.RoleAdmin)
	staff := principal(tenant, false, model.RoleStaff)
	super := principal(uuid.New(), true, model.RoleAdmin)

	sameTenantUser := &model.User{Base: model.Base{ID: uuid.New()}, TenantID: tenant}
	otherTenantUser := &model.User{Base: model.Base{ID: uuid.New()}, TenantID: otherTenant}

	tests := []struct {
		name         string
		caller       *model.Principal
		target       *model.User
		deactivating bool
		wantCode     apperrors.ErrorCode
	}{
		{"admin manages own tenant", admin, sameTenantUser, false, 0},
		{"admin deletes in own tenant", admin, sameTenantUser, true, 0},
		{"staff cannot manage", staff, sameTenantUser, false, apperrors.ErrForbidden},
		{"admin cross-tenant reads as missing", admin, otherTenantUser, false, apperrors.ErrNotFound},
		{"super admin manages any tenant", super, otherTenantUser, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CanManageUser(tt.caller, tt.target, tt.deactivating)
			if tt.wantCode == 0 {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperrors.Is(err, tt.wantCode))
			}
		})
	}
}

func TestCanManageUserRefusesSelfDeactivation(t *testing.T) {
	svc := NewService()
	tenant := uuid.New()

	admin := principal(tenant, false, model.RoleAdmin)
	self := &model.User{Base: model.Base{ID: admin.UserID}, TenantID: tenant}

	// Editing your own roles is fine.
	assert.NoError(t, svc.CanManageUser(admin, self, false))

	// Deleting or deactivating yourself is refused, even for operators.
	err := svc.CanManageUser(admin, self, true)
	assert.True(t, apperrors.Is(err, apperrors.ErrPolicy))

	super := principal(tenant, true, model.RoleAdmin)
	selfSuper := &model.User{Base: model.Base{ID: super.UserID}, TenantID: tenant}
	err = svc.CanManageUser(super, selfSuper, true)
	assert.True(t, apperrors.Is(err, apperrors.ErrPolicy))
}
