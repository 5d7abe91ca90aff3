package tenant

import (
	"context"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/clinicalos/clinic-api/internal/model"
	"github.com/clinicalos/clinic-api/internal/repository"
	"github.com/clinicalos/clinic-api/internal/service/authz"
	"github.com/clinicalos/clinic-api/pkg/auth"
	apperrors "github.com/clinicalos/clinic-api/pkg/errors"
	"github.com/clinicalos/clinic-api/pkg/metrics"
	"github.com/clinicalos/clinic-api/pkg/security"
)

const domainSuffix = ".clinicalos.com"

// Service is the tenant lifecycle manager: provisioning, deletion,
// impersonation and per-clinic settings.
type Service struct {
	tenantRepo repository.TenantRepository
	userRepo   repository.UserRepository
	policy     *authz.Service
	jwtSvc     auth.JWTService
	hasher     security.PasswordHasher
	metrics    *metrics.Metrics
}

func NewService(tenantRepo repository.TenantRepository, userRepo repository.UserRepository,
	policy *authz.Service, jwtSvc auth.JWTService, hasher security.PasswordHasher,
	m *metrics.Metrics) *Service {
	return &Service{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		policy:     policy,
		jwtSvc:     jwtSvc,
		hasher:     hasher,
		metrics:    m,
	}
}

// Create provisions a clinic together with its bootstrap admin in one
// transaction. Name, derived domain and admin username collisions surface as
// conflicts via the store's uniqueness constraints, which also settles
// concurrent same-name creation races.
func (s *Service) Create(ctx context.Context, p *model.Principal, req *model.CreateTenantRequest) (*model.Tenant, error) {
	if err := s.policy.RequireSuperAdmin(p); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.AdminPassword)
	if err != nil {
		return nil, apperrors.BadRequest("invalid admin password", err)
	}

	tenant := &model.Tenant{
		Name:   req.Name,
		Domain: slug.Make(req.Name) + domainSuffix,
	}
	admin := &model.User{
		Username:     req.AdminUsername,
		PasswordHash: hash,
		Roles:        model.RoleSet{model.RoleAdmin},
		IsActive:     true,
	}

	if err := s.tenantRepo.CreateWithAdmin(ctx, tenant, admin); err != nil {
		return nil, err
	}

	s.metrics.TenantsCreated.Inc()
	return tenant, nil
}

func (s *Service) List(ctx context.Context, p *model.Principal) ([]*model.TenantSummary, error) {
	if err := s.policy.RequireSuperAdmin(p); err != nil {
		return nil, err
	}
	return s.tenantRepo.List(ctx)
}

// Delete removes a tenant and every row it owns, leaf tables first, in one
// transaction. The operator tenant itself is never deletable.
func (s *Service) Delete(ctx context.Context, p *model.Principal, id uuid.UUID) error {
	if err := s.policy.RequireSuperAdmin(p); err != nil {
		return err
	}

	target, err := s.tenantRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	if target.IsSuperAdmin {
		return apperrors.Policy("cannot delete root tenant")
	}

	if err := s.tenantRepo.DeleteCascade(ctx, id); err != nil {
		return err
	}

	s.metrics.TenantsDeleted.Inc()
	return nil
}

// Impersonate mints a fresh token for the target tenant's admin user. The
// token is indistinguishable from one the admin obtained by logging in;
// callers wanting an audit trail must record the event themselves.
func (s *Service) Impersonate(ctx context.Context, p *model.Principal, tenantID uuid.UUID) (*model.TokenResponse, error) {
	if err := s.policy.RequireSuperAdmin(p); err != nil {
		return nil, err
	}

	admin, err := s.userRepo.FindAdmin(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	token, err := s.jwtSvc.GenerateToken(admin)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.metrics.Impersonations.Inc()
	return &model.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// GetSettings returns the caller's clinic settings, creating the default row
// on first read. Creation copies the tenant's display name as the clinic
// name and is idempotent under concurrent first reads.
func (s *Service) GetSettings(ctx context.Context, p *model.Principal) (*model.TenantSettings, error) {
	settings, err := s.tenantRepo.GetSettings(ctx, p.TenantID)
	if err == nil {
		return settings, nil
	}
	if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	tenant, err := s.tenantRepo.Get(ctx, p.TenantID)
	if err != nil {
		return nil, err
	}

	settings = &model.TenantSettings{
		TenantID:   tenant.ID,
		ClinicName: tenant.Name,
	}
	if err := s.tenantRepo.CreateSettings(ctx, settings); err != nil {
		return nil, err
	}

	// Re-read in case a concurrent first read won the insert.
	return s.tenantRepo.GetSettings(ctx, p.TenantID)
}

func (s *Service) UpdateSettings(ctx context.Context, p *model.Principal, req *model.UpdateSettingsRequest) (*model.TenantSettings, error) {
	if err := s.policy.RequireTenantAdmin(p); err != nil {
		return nil, err
	}

	settings, err := s.GetSettings(ctx, p)
	if err != nil {
		return nil, err
	}

	if req.ClinicName != nil {
		settings.ClinicName = *req.ClinicName
	}
	if req.LogoURL != nil {
		settings.LogoURL = req.LogoURL
	}
	if req.Address != nil {
		settings.Address = req.Address
	}
	if req.Phone != nil {
		settings.Phone = req.Phone
	}
	if req.Website != nil {
		settings.Website = req.Website
	}

	if err := s.tenantRepo.UpdateSettings(ctx, settings); err != nil {
		return nil, err
	}

	return settings, nil
}
