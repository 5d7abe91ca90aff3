package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicalos/clinic-api/internal/model"
	"github.com/clinicalos/clinic-api/internal/repository"
)

type userRepository struct {
	BaseRepository
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{base}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, tenant_id, username, password_hash, roles, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	user.ID = uuid.New()
	user.CreatedAt = time.Now()

	_, err := r.execContext(ctx, "user.create", query,
		user.ID,
		user.TenantID,
		user.Username,
		user.PasswordHash,
		user.Roles,
		user.IsActive,
		user.CreatedAt,
	)
	return translateError(err, "user")
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT * FROM users WHERE id = $1`

	var user model.User
	if err := r.getContext(ctx, "user.get", &user, query, id); err != nil {
		return nil, translateError(err, "user")
	}

	return &user, nil
}

// GetWithTenant resolves a username to its user and owning tenant in a single
// round trip. Usernames are globally unique so no tenant discriminator is
// needed.
func (r *userRepository) GetWithTenant(ctx context.Context, username string) (*model.User, *model.Tenant, error) {
	query := `
		SELECT u.id, u.tenant_id, u.username, u.password_hash, u.roles, u.is_active, u.created_at,
			   t.id AS "tenant.id", t.name AS "tenant.name", t.domain AS "tenant.domain",
			   t.is_super_admin AS "tenant.is_super_admin", t.created_at AS "tenant.created_at"
		FROM users u
		JOIN tenants t ON t.id = u.tenant_id
		WHERE u.username = $1
	`

	var row struct {
		model.User
		Tenant model.Tenant `db:"tenant"`
	}
	if err := r.getContext(ctx, "user.get_with_tenant", &row, query, username); err != nil {
		return nil, nil, translateError(err, "user")
	}

	user := row.User
	tenant := row.Tenant
	return &user, &tenant, nil
}

func (r *userRepository) List(ctx context.Context, tenantID uuid.UUID) ([]*model.User, error) {
	query := `
		SELECT * FROM users
		WHERE tenant_id = $1
		ORDER BY created_at
	`

	var users []*model.User
	if err := r.selectContext(ctx, "user.list", &users, query, tenantID); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

func (r *userRepository) ListGlobalAdmins(ctx context.Context) ([]*model.GlobalAdmin, error) {
	query := `
		SELECT u.id, u.username, t.id AS clinic_id, t.name AS clinic_name,
			   u.is_active, u.created_at
		FROM users u
		JOIN tenants t ON t.id = u.tenant_id
		WHERE u.roles @> '["admin"]'
		ORDER BY u.created_at
	`

	var admins []*model.GlobalAdmin
	if err := r.selectContext(ctx, "user.list_global_admins", &admins, query); err != nil {
		return nil, fmt.Errorf("failed to list global admins: %w", err)
	}

	return admins, nil
}

func (r *userRepository) FindAdmin(ctx context.Context, tenantID uuid.UUID) (*model.User, error) {
	query := `
		SELECT * FROM users
		WHERE tenant_id = $1 AND roles @> '["admin"]'
		ORDER BY created_at
		LIMIT 1
	`

	var user model.User
	if err := r.getContext(ctx, "user.find_admin", &user, query, tenantID); err != nil {
		return nil, translateError(err, "admin user")
	}

	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users SET
			roles = $1,
			is_active = $2
		WHERE id = $3
	`

	result, err := r.execContext(ctx, "user.update", query,
		user.Roles,
		user.IsActive,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return requireRows(result, "user")
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1 WHERE id = $2`

	result, err := r.execContext(ctx, "user.update_password", query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return requireRows(result, "user")
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.execContext(ctx, "user.delete", query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return requireRows(result, "user")
}
