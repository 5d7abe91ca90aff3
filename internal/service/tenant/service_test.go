package tenant

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/clinicalos/clinic-api/internal/model"
	"github.com/clinicalos/clinic-api/internal/service/authz"
	pkgauth "github.com/clinicalos/clinic-api/pkg/auth"
	apperrors "github.com/clinicalos/clinic-api/pkg/errors"
	"github.com/clinicalos/clinic-api/pkg/metrics"
	"github.com/clinicalos/clinic-api/pkg/security"
)

type fakeTenantRepo struct {
	tenants  map[uuid.UUID]*model.Tenant
	settings map[uuid.UUID]*model.TenantSettings
	deleted  []uuid.UUID
	created  []*model.User
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{
		tenants:  map[uuid.UUID]*model.Tenant{},
		settings: map[uuid.UUID]*model.TenantSettings{},
	}
}

func (f *fakeTenantRepo) CreateWithAdmin(ctx context.Context, tenant *model.Tenant, admin *model.User) error {
	for _, t := range f.tenants {
		if t.Name == tenant.Name || t.Domain == tenant.Domain {
			return apperrors.Conflict("tenant already exists", nil)
		}
	}
	tenant.ID = uuid.New()
	admin.ID = uuid.New()
	admin.TenantID = tenant.ID
	f.tenants[tenant.ID] = tenant
	f.created = append(f.created, admin)
	return nil
}

func (f *fakeTenantRepo) Get(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	t, ok := f.tenants[id]
	if !ok {
		return nil, apperrors.NotFound("tenant", nil)
	}
	return t, nil
}

func (f *fakeTenantRepo) List(ctx context.Context) ([]*model.TenantSummary, error) {
	var out []*model.TenantSummary
	for _, t := range f.tenants {
		out = append(out, &model.TenantSummary{ID: t.ID, Name: t.Name, Domain: t.Domain, IsSuperAdmin: t.IsSuperAdmin})
	}
	return out, nil
}

func (f *fakeTenantRepo) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.tenants[id]; !ok {
		return apperrors.NotFound("tenant", nil)
	}
	delete(f.tenants, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeTenantRepo) GetSettings(ctx context.Context, tenantID uuid.UUID) (*model.TenantSettings, error) {
	s, ok := f.settings[tenantID]
	if !ok {
		return nil, apperrors.NotFound("settings", nil)
	}
	return s, nil
}

func (f *fakeTenantRepo) CreateSettings(ctx context.Context, s *model.TenantSettings) error {
	if _, ok := f.settings[s.TenantID]; ok {
		return nil
	}
	s.ID = uuid.New()
	f.settings[s.TenantID] = s
	return nil
}

func (f *fakeTenantRepo) UpdateSettings(ctx context.Context, s *model.TenantSettings) error {
	f.settings[s.TenantID] = s
	return nil
}

type fakeUserRepo struct {
	admins map[uuid.UUID]*model.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error { panic("not used") }
func (f *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	panic("not used")
}
func (f *fakeUserRepo) GetWithTenant(ctx context.Context, username string) (*model.User, *model.Tenant, error) {
	panic("not used")
}
func (f *fakeUserRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*model.User, error) {
	panic("not used")
}
func (f *fakeUserRepo) ListGlobalAdmins(ctx context.Context) ([]*model.GlobalAdmin, error) {
	panic("not used")
}
func (f *fakeUserRepo) FindAdmin(ctx context.Context, tenantID uuid.UUID) (*model.User, error) {
	admin, ok := f.admins[tenantID]
	if !ok {
		return nil, apperrors.NotFound("admin user", nil)
	}
	return admin, nil
}
func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error { panic("not used") }
func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	panic("not used")
}
func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error { panic("not used") }

func superPrincipal() *model.Principal {
	return &model.Principal{UserID: uuid.New(), TenantID: uuid.New(), Roles: model.RoleSet{model.RoleAdmin}, IsSuperAdmin: true}
}

func clinicAdmin(tenantID uuid.UUID) *model.Principal {
	return &model.Principal{UserID: uuid.New(), TenantID: tenantID, Roles: model.RoleSet{model.RoleAdmin}}
}

func newService(tenants *fakeTenantRepo, users *fakeUserRepo) *Service {
	jwtSvc := pkgauth.NewJWTService("test-secret", time.Hour)
	m := metrics.NewMetricsWith(prometheus.NewRegistry(), "test", "tenant")
	return NewService(tenants, users, authz.NewService(), jwtSvc, security.NewBcryptHasher(4), m)
}

func TestCreateProvisioning(t *testing.T) {
	tenants := newFakeTenantRepo()
	svc := newService(tenants, &fakeUserRepo{})

	created, err := svc.Create(context.Background(), superPrincipal(), &model.CreateTenantRequest{
		Name:          "Smile Dental Care",
		AdminUsername: "smile.admin",
		AdminPassword: "strong password",
	})
	assert.NoError(t, err)
	assert.Equal(t, "smile-dental-care.clinicalos.com", created.Domain)
	assert.False(t, created.IsSuperAdmin)

	assert.Len(t, tenants.created, 1)
	admin := tenants.created[0]
	assert.Equal(t, created.ID, admin.TenantID)
	assert.Equal(t, "smile.admin", admin.Username)
	assert.True(t, admin.Roles.Has(model.RoleAdmin))
	assert.True(t, admin.IsActive)
	assert.NotEmpty(t, admin.PasswordHash)
	assert.NotEqual(t, "strong password", admin.PasswordHash)
}

func TestCreateRequiresOperator(t *testing.T) {
	svc := newService(newFakeTenantRepo(), &fakeUserRepo{})

	_, err := svc.Create(context.Background(), clinicAdmin(uuid.New()), &model.CreateTenantRequest{
		Name:          "Rogue Clinic",
		AdminUsername: "rogue",
		AdminPassword: "strong password",
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestCreateDuplicateName(t *testing.T) {
	tenants := newFakeTenantRepo()
	svc := newService(tenants, &fakeUserRepo{})
	req := &model.CreateTenantRequest{Name: "Smile Dental", AdminUsername: "a1", AdminPassword: "strong password"}

	_, err := svc.Create(context.Background(), superPrincipal(), req)
	assert.NoError(t, err)

	req2 := &model.CreateTenantRequest{Name: "Smile Dental", AdminUsername: "a2", AdminPassword: "strong password"}
	_, err = svc.Create(context.Background(), superPrincipal(), req2)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestDeleteRootTenantRefused(t *testing.T) {
	tenants := newFakeTenantRepo()
	root := &model.Tenant{Base: model.Base{ID: uuid.New()}, Name: "Operator", IsSuperAdmin: true}
	tenants.tenants[root.ID] = root
	svc := newService(tenants, &fakeUserRepo{})

	err := svc.Delete(context.Background(), superPrincipal(), root.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrPolicy))
	assert.Empty(t, tenants.deleted)
}

func TestDeleteRequiresOperator(t *testing.T) {
	tenants := newFakeTenantRepo()
	victim := &model.Tenant{Base: model.Base{ID: uuid.New()}, Name: "Victim"}
	tenants.tenants[victim.ID] = victim
	svc := newService(tenants, &fakeUserRepo{})

	err := svc.Delete(context.Background(), clinicAdmin(victim.ID), victim.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
	assert.Empty(t, tenants.deleted)
}

func TestDeleteCascades(t *testing.T) {
	tenants := newFakeTenantRepo()
	victim := &model.Tenant{Base: model.Base{ID: uuid.New()}, Name: "Victim"}
	tenants.tenants[victim.ID] = victim
	svc := newService(tenants, &fakeUserRepo{})

	assert.NoError(t, svc.Delete(context.Background(), superPrincipal(), victim.ID))
	assert.Equal(t, []uuid.UUID{victim.ID}, tenants.deleted)
}

func TestImpersonate(t *testing.T) {
	tenantID := uuid.New()
	admin := &model.User{
		Base:     model.Base{ID: uuid.New()},
		TenantID: tenantID,
		Username: "clinic.admin",
		Roles:    model.RoleSet{model.RoleAdmin},
		IsActive: true,
	}
	users := &fakeUserRepo{admins: map[uuid.UUID]*model.User{tenantID: admin}}
	svc := newService(newFakeTenantRepo(), users)

	tokens, err := svc.Impersonate(context.Background(), superPrincipal(), tenantID)
	assert.NoError(t, err)

	claims, err := pkgauth.NewJWTService("test-secret", time.Hour).VerifyToken(tokens.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, "clinic.admin", claims.Subject)
	assert.Equal(t, tenantID, claims.TenantID)
}

func TestImpersonateNoAdmin(t *testing.T) {
	users := &fakeUserRepo{admins: map[uuid.UUID]*model.User{}}
	svc := newService(newFakeTenantRepo(), users)

	_, err := svc.Impersonate(context.Background(), superPrincipal(), uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestImpersonateRequiresOperator(t *testing.T) {
	svc := newService(newFakeTenantRepo(), &fakeUserRepo{})

	_, err := svc.Impersonate(context.Background(), clinicAdmin(uuid.New()), uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestGetSettingsLazyCreation(t *testing.T) {
	tenants := newFakeTenantRepo()
	clinic := &model.Tenant{Base: model.Base{ID: uuid.New()}, Name: "City Clinic"}
	tenants.tenants[clinic.ID] = clinic
	svc := newService(tenants, &fakeUserRepo{})

	p := clinicAdmin(clinic.ID)

	settings, err := svc.GetSettings(context.Background(), p)
	assert.NoError(t, err)
	assert.Equal(t, "City Clinic", settings.ClinicName)

	// Second read returns the same row instead of creating another.
	again, err := svc.GetSettings(context.Background(), p)
	assert.NoError(t, err)
	assert.Equal(t, settings.ID, again.ID)
}

func TestUpdateSettingsPartial(t *testing.T) {
	tenants := newFakeTenantRepo()
	clinic := &model.Tenant{Base: model.Base{ID: uuid.New()}, Name: "City Clinic"}
	tenants.tenants[clinic.ID] = clinic
	svc := newService(tenants, &fakeUserRepo{})

	p := clinicAdmin(clinic.ID)
	phone := "+1 555 0100"

	updated, err := svc.UpdateSettings(context.Background(), p, &model.UpdateSettingsRequest{Phone: &phone})
	assert.NoError(t, err)
	assert.Equal(t, &phone, updated.Phone)
	assert.Equal(t, "City Clinic", updated.ClinicName)

	staff := &model.Principal{UserID: uuid.New(), TenantID: clinic.ID, Roles: model.RoleSet{model.RoleStaff}}
	_, err = svc.UpdateSettings(context.Background(), staff, &model.UpdateSettingsRequest{Phone: &phone})
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}
