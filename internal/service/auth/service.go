package auth

import (
	"context"

	"github.com/clinicalos/clinic-api/internal/model"
	"github.com/clinicalos/clinic-api/internal/repository"
	"github.com/clinicalos/clinic-api/pkg/auth"
	apperrors "github.com/clinicalos/clinic-api/pkg/errors"
	"github.com/clinicalos/clinic-api/pkg/metrics"
	"github.com/clinicalos/clinic-api/pkg/security"
)

type Service struct {
	userRepo   repository.UserRepository
	tenantRepo repository.TenantRepository
	jwtSvc     auth.JWTService
	hasher     security.PasswordHasher
	metrics    *metrics.Metrics
}

func NewService(userRepo repository.UserRepository, tenantRepo repository.TenantRepository,
	jwtSvc auth.JWTService, hasher security.PasswordHasher, m *metrics.Metrics) *Service {
	return &Service{
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
		jwtSvc:     jwtSvc,
		hasher:     hasher,
		metrics:    m,
	}
}

// Authenticate exchanges a username/password pair for a bearer token.
// Unknown usernames and wrong passwords collapse to one invalid-credentials
// outcome; a deactivated account is reported as such only after the password
// verified, so the signal never leaks to guessers.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*model.TokenResponse, error) {
	user, _, err := s.userRepo.GetWithTenant(ctx, username)
	if err != nil {
		s.metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		return nil, apperrors.InvalidCredentials(err)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		s.metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		return nil, apperrors.InvalidCredentials(nil)
	}

	if !user.IsActive {
		s.metrics.LoginAttempts.WithLabelValues("deactivated").Inc()
		return nil, apperrors.AccountDeactivated()
	}

	token, err := s.jwtSvc.GenerateToken(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.metrics.LoginAttempts.WithLabelValues("accepted").Inc()
	return &model.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// Resolve maps a raw bearer token to the Principal for this request. The
// live user row is always consulted, so deactivating a user invalidates
// every outstanding token on the next request.
func (s *Service) Resolve(ctx context.Context, rawToken string) (*model.Principal, error) {
	claims, err := s.jwtSvc.VerifyToken(rawToken)
	if err != nil {
		s.metrics.TokenRejections.WithLabelValues("invalid").Inc()
		return nil, err
	}

	user, tenant, err := s.userRepo.GetWithTenant(ctx, claims.Subject)
	if err != nil {
		s.metrics.TokenRejections.WithLabelValues("unknown_subject").Inc()
		return nil, apperrors.InvalidCredentials(err)
	}

	if !user.IsActive {
		s.metrics.TokenRejections.WithLabelValues("deactivated").Inc()
		return nil, apperrors.AccountDeactivated()
	}

	return &model.Principal{
		UserID:       user.ID,
		Username:     user.Username,
		TenantID:     user.TenantID,
		Roles:        user.Roles,
		IsSuperAdmin: tenant.IsSuperAdmin,
	}, nil
}

// CurrentUser builds the /auth/me payload: the principal plus tenant display
// info. Settings may not exist yet; absent ones fall back to the tenant name.
func (s *Service) CurrentUser(ctx context.Context, p *model.Principal) (*model.CurrentUserResponse, error) {
	tenant, err := s.tenantRepo.Get(ctx, p.TenantID)
	if err != nil {
		return nil, err
	}

	resp := &model.CurrentUserResponse{
		ID:            p.UserID,
		Username:      p.Username,
		Roles:         p.Roles,
		EffectiveRole: p.Roles.Effective(),
		TenantID:      p.TenantID,
		TenantName:    tenant.Name,
		IsSuperAdmin:  tenant.IsSuperAdmin,
	}

	settings, err := s.tenantRepo.GetSettings(ctx, p.TenantID)
	if err == nil {
		if settings.ClinicName != "" {
			resp.TenantName = settings.ClinicName
		}
		resp.LogoURL = settings.LogoURL
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	return resp, nil
}
