package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicalos/clinic-api/internal/model"
	"github.com/clinicalos/clinic-api/internal/repository"
)

type statsRepository struct {
	BaseRepository
}

func NewStatsRepository(base BaseRepository) repository.StatsRepository {
	return &statsRepository{base}
}

// CountTenants excludes the operator tenant itself.
func (r *statsRepository) CountTenants(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM tenants WHERE is_super_admin = FALSE`

	var count int64
	if err := r.getContext(ctx, "stats.count_tenants", &count, query); err != nil {
		return 0, fmt.Errorf("failed to count tenants: %w", err)
	}

	return count, nil
}

func (r *statsRepository) CountPatients(ctx context.Context, tenantID *uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM patients`
	args := []interface{}{}

	if tenantID != nil {
		query += " WHERE tenant_id = $1"
		args = append(args, *tenantID)
	}

	var count int64
	if err := r.getContext(ctx, "stats.count_patients", &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count patients: %w", err)
	}

	return count, nil
}

func (r *statsRepository) CountUsers(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM users WHERE tenant_id = $1`

	var count int64
	if err := r.getContext(ctx, "stats.count_users", &count, query, tenantID); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}

// CountClinicAdmins counts admin-role users across ordinary tenants only.
func (r *statsRepository) CountClinicAdmins(ctx context.Context) (int64, error) {
	query := `
		SELECT COUNT(*) FROM users u
		JOIN tenants t ON t.id = u.tenant_id
		WHERE t.is_super_admin = FALSE AND u.roles @> '["admin"]'
	`

	var count int64
	if err := r.getContext(ctx, "stats.count_clinic_admins", &count, query); err != nil {
		return 0, fmt.Errorf("failed to count clinic admins: %w", err)
	}

	return count, nil
}

func (r *statsRepository) CountAppointmentsBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (int64, error) {
	query := `
		SELECT COUNT(*) FROM appointments
		WHERE tenant_id = $1 AND start_time >= $2 AND start_time < $3
	`

	var count int64
	if err := r.getContext(ctx, "stats.count_appointments", &count, query, tenantID, from, to); err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}

	return count, nil
}

func (r *statsRepository) TenantGrowth(ctx context.Context) ([]*model.GrowthPoint, error) {
	query := `
		SELECT TO_CHAR(DATE_TRUNC('month', created_at), 'YYYY-MM') AS month,
			   COUNT(*) AS clinics
		FROM tenants
		WHERE is_super_admin = FALSE
		GROUP BY 1
		ORDER BY 1
	`

	var points []*model.GrowthPoint
	if err := r.selectContext(ctx, "stats.tenant_growth", &points, query); err != nil {
		return nil, fmt.Errorf("failed to aggregate tenant growth: %w", err)
	}

	return points, nil
}
