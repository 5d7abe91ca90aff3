package router

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	authhandler "github.com/clinicalos/clinic-api/internal/handler/auth"
	tenanthandler "github.com/clinicalos/clinic-api/internal/handler/tenant"
	userhandler "github.com/clinicalos/clinic-api/internal/handler/user"
	"github.com/clinicalos/clinic-api/internal/middleware"
	"github.com/clinicalos/clinic-api/internal/model"
	authservice "github.com/clinicalos/clinic-api/internal/service/auth"
	"github.com/clinicalos/clinic-api/internal/service/authz"
	tenantservice "github.com/clinicalos/clinic-api/internal/service/tenant"
	userservice "github.com/clinicalos/clinic-api/internal/service/user"
	"github.com/clinicalos/clinic-api/pkg/auth"
	apperrors "github.com/clinicalos/clinic-api/pkg/errors"
	"github.com/clinicalos/clinic-api/pkg/metrics"
	"github.com/clinicalos/clinic-api/pkg/security"
	"github.com/clinicalos/clinic-api/pkg/validator"
)

type fakeUserRepo struct {
	byUsername map[string]*model.User
	tenant     *model.Tenant
	created    []*model.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	user.ID = uuid.New()
	f.created = append(f.created, user)
	return nil
}

func (f *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	panic("not used")
}

func (f *fakeUserRepo) GetWithTenant(ctx context.Context, username string) (*model.User, *model.Tenant, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return nil, nil, apperrors.NotFound("user", nil)
	}
	return u, f.tenant, nil
}

func (f *fakeUserRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*model.User, error) {
	var users []*model.User
	for _, u := range f.byUsername {
		if u.TenantID == tenantID {
			users = append(users, u)
		}
	}
	return users, nil
}

func (f *fakeUserRepo) ListGlobalAdmins(ctx context.Context) ([]*model.GlobalAdmin, error) {
	panic("not used")
}

func (f *fakeUserRepo) FindAdmin(ctx context.Context, tenantID uuid.UUID) (*model.User, error) {
	panic("not used")
}

func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error { panic("not used") }

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	panic("not used")
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error { panic("not used") }

type fakeTenantRepo struct {
	tenant   *model.Tenant
	settings map[uuid.UUID]*model.TenantSettings
}

func (f *fakeTenantRepo) CreateWithAdmin(ctx context.Context, tenant *model.Tenant, admin *model.User) error {
	panic("not used")
}

func (f *fakeTenantRepo) Get(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	return f.tenant, nil
}

func (f *fakeTenantRepo) List(ctx context.Context) ([]*model.TenantSummary, error) {
	panic("not used")
}

func (f *fakeTenantRepo) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	panic("not used")
}

func (f *fakeTenantRepo) GetSettings(ctx context.Context, tenantID uuid.UUID) (*model.TenantSettings, error) {
	s, ok := f.settings[tenantID]
	if !ok {
		return nil, apperrors.NotFound("settings", nil)
	}
	return s, nil
}

func (f *fakeTenantRepo) CreateSettings(ctx context.Context, settings *model.TenantSettings) error {
	f.settings[settings.TenantID] = settings
	return nil
}

func (f *fakeTenantRepo) UpdateSettings(ctx context.Context, settings *model.TenantSettings) error {
	f.settings[settings.TenantID] = settings
	return nil
}

type stubHandler struct{}

func (stubHandler) RegisterRoutes(*gin.RouterGroup) {}

type gatingFixture struct {
	engine     *gin.Engine
	tenants    *fakeTenantRepo
	users      *fakeUserRepo
	staffToken string
	adminToken string
	tenantID   uuid.UUID
}

func newGatingFixture(t *testing.T) *gatingFixture {
	t.Helper()
	require.NoError(t, validator.RegisterCustom())

	tenant := &model.Tenant{Base: model.Base{ID: uuid.New()}, Name: "City Clinic"}
	staff := &model.User{Base: model.Base{ID: uuid.New()}, TenantID: tenant.ID,
		Username: "front.desk", Roles: model.RoleSet{model.RoleStaff}, IsActive: true}
	admin := &model.User{Base: model.Base{ID: uuid.New()}, TenantID: tenant.ID,
		Username: "clinic.admin", Roles: model.RoleSet{model.RoleAdmin}, IsActive: true}

	users := &fakeUserRepo{
		byUsername: map[string]*model.User{staff.Username: staff, admin.Username: admin},
		tenant:     tenant,
	}
	tenants := &fakeTenantRepo{tenant: tenant, settings: map[uuid.UUID]*model.TenantSettings{}}

	jwtSvc := auth.NewJWTService("router-gating-secret", time.Hour)
	hasher := security.NewBcryptHasher(4)
	m := metrics.NewMetricsWith(prometheus.NewRegistry(), "test", "router")
	policy := authz.NewService()

	authSvc := authservice.NewService(users, tenants, jwtSvc, hasher, m)
	userSvc := userservice.NewService(users, policy, hasher)
	tenantSvc := tenantservice.NewService(tenants, users, policy, jwtSvc, hasher, m)

	r := New(
		middleware.NewAuthMiddleware(authSvc),
		authhandler.NewHandler(authSvc),
		tenanthandler.NewHandler(tenantSvc),
		userhandler.NewHandler(userSvc),
		stubHandler{},
		stubHandler{},
		stubHandler{},
		stubHandler{},
		stubHandler{},
		func(c *gin.Context) { c.Next() },
		Config{RateLimit: rate.Inf, RateBurst: 1, CORSConfig: middleware.DefaultCORSConfig()},
	)
	r.Setup()

	staffToken, err := jwtSvc.GenerateToken(staff)
	require.NoError(t, err)
	adminToken, err := jwtSvc.GenerateToken(admin)
	require.NoError(t, err)

	return &gatingFixture{
		engine:     r.Engine(),
		tenants:    tenants,
		users:      users,
		staffToken: staffToken,
		adminToken: adminToken,
		tenantID:   tenant.ID,
	}
}

func (f *gatingFixture) do(method, path, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestRouteGating(t *testing.T) {
	f := newGatingFixture(t)

	t.Run("staff can list users", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/v1/users", f.staffToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("staff read provisions settings", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/v1/settings", f.staffToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, f.tenants.settings, f.tenantID)
		assert.Equal(t, "City Clinic", f.tenants.settings[f.tenantID].ClinicName)
	})

	t.Run("staff cannot create users", func(t *testing.T) {
		body := []byte(`{"username":"new.nurse","password":"long enough 1","roles":["staff"]}`)
		w := f.do(http.MethodPost, "/api/v1/users", f.staffToken, body)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, f.users.created)
	})

	t.Run("staff cannot update settings", func(t *testing.T) {
		w := f.do(http.MethodPut, "/api/v1/settings", f.staffToken, []byte(`{"clinic_name":"Renamed"}`))
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "City Clinic", f.tenants.settings[f.tenantID].ClinicName)
	})

	t.Run("admin can create users", func(t *testing.T) {
		body := []byte(`{"username":"new.nurse","password":"long enough 1","roles":["staff"]}`)
		w := f.do(http.MethodPost, "/api/v1/users", f.adminToken, body)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Len(t, f.users.created, 1)
	})

	t.Run("missing token is unauthorized", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/v1/users", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
