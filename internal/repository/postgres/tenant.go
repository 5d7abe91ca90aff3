package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clinicalos/clinic-api/internal/model"
	"github.com/clinicalos/clinic-api/internal/repository"
)

type tenantRepository struct {
	BaseRepository
}

func NewTenantRepository(base BaseRepository) repository.TenantRepository {
	return &tenantRepository{base}
}

func (r *tenantRepository) CreateWithAdmin(ctx context.Context, tenant *model.Tenant, admin *model.User) error {
	tenant.ID = uuid.New()
	tenant.CreatedAt = time.Now()
	admin.ID = uuid.New()
	admin.TenantID = tenant.ID
	admin.CreatedAt = tenant.CreatedAt

	start := time.Now()
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		tenantQuery := `
			INSERT INTO tenants (id, name, domain, is_super_admin, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.ExecContext(ctx, tenantQuery,
			tenant.ID,
			tenant.Name,
			tenant.Domain,
			tenant.IsSuperAdmin,
			tenant.CreatedAt,
		); err != nil {
			return translateError(err, "tenant")
		}

		userQuery := `
			INSERT INTO users (id, tenant_id, username, password_hash, roles, is_active, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		if _, err := tx.ExecContext(ctx, userQuery,
			admin.ID,
			admin.TenantID,
			admin.Username,
			admin.PasswordHash,
			admin.Roles,
			admin.IsActive,
			admin.CreatedAt,
		); err != nil {
			return translateError(err, "user")
		}

		return nil
	})
	r.track("tenant.create_with_admin", start, err)
	return err
}

func (r *tenantRepository) Get(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	query := `SELECT * FROM tenants WHERE id = $1`

	var tenant model.Tenant
	if err := r.getContext(ctx, "tenant.get", &tenant, query, id); err != nil {
		return nil, translateError(err, "tenant")
	}

	return &tenant, nil
}

func (r *tenantRepository) List(ctx context.Context) ([]*model.TenantSummary, error) {
	query := `
		SELECT t.id, t.name, t.domain, t.is_super_admin,
			   (SELECT u.username FROM users u
				WHERE u.tenant_id = t.id AND u.roles @> '["admin"]'
				ORDER BY u.created_at LIMIT 1) AS admin_username
		FROM tenants t
		ORDER BY t.created_at
	`

	var tenants []*model.TenantSummary
	if err := r.selectContext(ctx, "tenant.list", &tenants, query); err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}

	return tenants, nil
}

// tenantDeleteOrder lists all tenant-scoped tables leaf-first so foreign key
// constraints hold at every step of a cascading delete.
var tenantDeleteOrder = []struct {
	table  string
	column string
}{
	{"attachments", "tenant_id"},
	{"prescriptions", "tenant_id"},
	{"invoices", "tenant_id"},
	{"clinical_records", "tenant_id"},
	{"appointments", "tenant_id"},
	{"patients", "tenant_id"},
	{"users", "tenant_id"},
	{"tenant_settings", "tenant_id"},
}

func (r *tenantRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, step := range tenantDeleteOrder {
			query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", step.table, step.column)
			if _, err := tx.ExecContext(ctx, query, id); err != nil {
				return fmt.Errorf("failed to delete %s: %w", step.table, err)
			}
		}

		result, err := tx.ExecContext(ctx, "DELETE FROM tenants WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("failed to delete tenant: %w", err)
		}

		return requireRows(result, "tenant")
	})
	r.track("tenant.delete_cascade", start, err)
	return err
}

func (r *tenantRepository) GetSettings(ctx context.Context, tenantID uuid.UUID) (*model.TenantSettings, error) {
	query := `SELECT * FROM tenant_settings WHERE tenant_id = $1`

	var settings model.TenantSettings
	if err := r.getContext(ctx, "settings.get", &settings, query, tenantID); err != nil {
		return nil, translateError(err, "settings")
	}

	return &settings, nil
}

func (r *tenantRepository) CreateSettings(ctx context.Context, settings *model.TenantSettings) error {
	settings.ID = uuid.New()
	settings.CreatedAt = time.Now()

	// Idempotent under concurrent first reads; the row that wins is kept.
	query := `
		INSERT INTO tenant_settings (id, tenant_id, clinic_name, logo_url, address, phone, website, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (tenant_id) DO NOTHING
	`
	_, err := r.execContext(ctx, "settings.create", query,
		settings.ID,
		settings.TenantID,
		settings.ClinicName,
		settings.LogoURL,
		settings.Address,
		settings.Phone,
		settings.Website,
		settings.CreatedAt,
	)
	return translateError(err, "settings")
}

func (r *tenantRepository) UpdateSettings(ctx context.Context, settings *model.TenantSettings) error {
	query := `
		UPDATE tenant_settings SET
			clinic_name = $1,
			logo_url = $2,
			address = $3,
			phone = $4,
			website = $5
		WHERE tenant_id = $6
	`

	result, err := r.execContext(ctx, "settings.update", query,
		settings.ClinicName,
		settings.LogoURL,
		settings.Address,
		settings.Phone,
		settings.Website,
		settings.TenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}

	return requireRows(result, "settings")
}
