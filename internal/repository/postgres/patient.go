package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicalos/clinic-api/internal/model"
	"github.com/clinicalos/clinic-api/internal/repository"
)

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(base BaseRepository) repository.PatientRepository {
	return &patientRepository{base}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (id, tenant_id, mrn, name, dob, gender, mobile,
							  blood_group, allergies, address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	patient.ID = uuid.New()
	patient.CreatedAt = time.Now()

	_, err := r.execContext(ctx, "patient.create", query,
		patient.ID,
		patient.TenantID,
		patient.MRN,
		patient.Name,
		patient.DOB,
		patient.Gender,
		patient.Mobile,
		patient.BloodGroup,
		patient.Allergies,
		patient.Address,
		patient.CreatedAt,
	)
	return translateError(err, "patient")
}

func (r *patientRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE id = $1 AND tenant_id = $2`

	var patient model.Patient
	if err := r.getContext(ctx, "patient.get", &patient, query, id, tenantID); err != nil {
		return nil, translateError(err, "patient")
	}

	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients SET
			name = $1,
			mobile = $2,
			dob = $3,
			gender = $4,
			blood_group = $5,
			allergies = $6,
			address = $7
		WHERE id = $8 AND tenant_id = $9
	`

	result, err := r.execContext(ctx, "patient.update", query,
		patient.Name,
		patient.Mobile,
		patient.DOB,
		patient.Gender,
		patient.BloodGroup,
		patient.Allergies,
		patient.Address,
		patient.ID,
		patient.TenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}

	return requireRows(result, "patient")
}

func (r *patientRepository) List(ctx context.Context, tenantID uuid.UUID, filters *model.PatientFilters) ([]*model.Patient, error) {
	query := `SELECT * FROM patients WHERE tenant_id = $1`
	args := []interface{}{tenantID}

	if filters.Search != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR mrn ILIKE $%d)", len(args)+1, len(args)+1)
		args = append(args, "%"+filters.Search+"%")
	}

	query += " ORDER BY created_at DESC"

	limit := filters.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	query += fmt.Sprintf(" OFFSET $%d LIMIT $%d", len(args)+1, len(args)+2)
	args = append(args, filters.Offset, limit)

	var patients []*model.Patient
	if err := r.selectContext(ctx, "patient.list", &patients, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}

	return patients, nil
}
