package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicalos/clinic-api/internal/model"
	"github.com/clinicalos/clinic-api/internal/repository"
	"github.com/clinicalos/clinic-api/internal/service/authz"
	apperrors "github.com/clinicalos/clinic-api/pkg/errors"
	"github.com/clinicalos/clinic-api/pkg/security"
)

// Service manages staff accounts within a tenant. Operator-tenant principals
// may additionally manage users of any tenant.
type Service struct {
	userRepo repository.UserRepository
	policy   *authz.Service
	hasher   security.PasswordHasher
}

func NewService(userRepo repository.UserRepository, policy *authz.Service, hasher security.PasswordHasher) *Service {
	return &Service{
		userRepo: userRepo,
		policy:   policy,
		hasher:   hasher,
	}
}

// List returns the caller's own tenant staff. Any role may list.
func (s *Service) List(ctx context.Context, p *model.Principal) ([]*model.User, error) {
	return s.userRepo.List(ctx, p.TenantID)
}

// ListGlobalAdmins is the operator console view of every clinic admin.
func (s *Service) ListGlobalAdmins(ctx context.Context, p *model.Principal) ([]*model.GlobalAdmin, error) {
	if err := s.policy.RequireSuperAdmin(p); err != nil {
		return nil, err
	}
	return s.userRepo.ListGlobalAdmins(ctx)
}

// Create adds a staff account to the caller's tenant. Usernames are globally
// unique; a collision anywhere surfaces as a conflict.
func (s *Service) Create(ctx context.Context, p *model.Principal, req *model.CreateUserRequest) (*model.User, error) {
	if err := s.policy.RequireTenantAdmin(p); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.BadRequest("invalid password", err)
	}

	user := &model.User{
		TenantID:     p.TenantID,
		Username:     req.Username,
		PasswordHash: hash,
		Roles:        model.RoleSet(req.Roles),
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Update edits roles and the active flag. Deactivating yourself is refused
// like self-deletion is.
func (s *Service) Update(ctx context.Context, p *model.Principal, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error) {
	target, err := s.userRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	deactivating := req.IsActive != nil && !*req.IsActive
	if err := s.policy.CanManageUser(p, target, deactivating); err != nil {
		return nil, err
	}

	if req.Roles != nil {
		target.Roles = model.RoleSet(req.Roles)
	}
	if req.IsActive != nil {
		target.IsActive = *req.IsActive
	}

	if err := s.userRepo.Update(ctx, target); err != nil {
		return nil, err
	}

	return target, nil
}

// ResetPassword is the admin-driven reset; there is no self-service flow.
func (s *Service) ResetPassword(ctx context.Context, p *model.Principal, id uuid.UUID, password string) error {
	target, err := s.userRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.policy.CanManageUser(p, target, false); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return apperrors.BadRequest("invalid password", err)
	}

	return s.userRepo.UpdatePassword(ctx, id, hash)
}

// Delete removes a staff account. Self-deletion always fails, even for the
// operator tenant's own bootstrap account.
func (s *Service) Delete(ctx context.Context, p *model.Principal, id uuid.UUID) error {
	target, err := s.userRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.policy.CanManageUser(p, target, true); err != nil {
		return err
	}

	return s.userRepo.Delete(ctx, id)
}
