package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicalos/clinic-api/internal/model"
	"github.com/clinicalos/clinic-api/internal/repository"
)

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(base BaseRepository) repository.AppointmentRepository {
	return &appointmentRepository{base}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (id, tenant_id, patient_id, doctor_id,
								  start_time, end_time, status, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()

	_, err := r.execContext(ctx, "appointment.create", query,
		appointment.ID,
		appointment.TenantID,
		appointment.PatientID,
		appointment.DoctorID,
		appointment.StartTime,
		appointment.EndTime,
		appointment.Status,
		appointment.Reason,
		appointment.CreatedAt,
	)
	return translateError(err, "appointment")
}

func (r *appointmentRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT * FROM appointments WHERE id = $1 AND tenant_id = $2`

	var appointment model.Appointment
	if err := r.getContext(ctx, "appointment.get", &appointment, query, id, tenantID); err != nil {
		return nil, translateError(err, "appointment")
	}

	return &appointment, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error {
	query := `UPDATE appointments SET status = $1 WHERE id = $2 AND tenant_id = $3`

	result, err := r.execContext(ctx, "appointment.update_status", query, status, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	return requireRows(result, "appointment")
}

func (r *appointmentRepository) List(ctx context.Context, tenantID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `SELECT * FROM appointments WHERE tenant_id = $1`
	args := []interface{}{tenantID}

	if filters.StartDate != nil {
		query += fmt.Sprintf(" AND start_time >= $%d", len(args)+1)
		args = append(args, *filters.StartDate)
	}

	if filters.EndDate != nil {
		query += fmt.Sprintf(" AND start_time <= $%d", len(args)+1)
		args = append(args, *filters.EndDate)
	}

	query += " ORDER BY start_time DESC LIMIT 200"

	var appointments []*model.Appointment
	if err := r.selectContext(ctx, "appointment.list", &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	return appointments, nil
}

func (r *appointmentRepository) ListByPatient(ctx context.Context, tenantID, patientID uuid.UUID) ([]*model.Appointment, error) {
	query := `
		SELECT * FROM appointments
		WHERE tenant_id = $1 AND patient_id = $2
		ORDER BY start_time DESC
	`

	var appointments []*model.Appointment
	if err := r.selectContext(ctx, "appointment.list_by_patient", &appointments, query, tenantID, patientID); err != nil {
		return nil, fmt.Errorf("failed to list patient appointments: %w", err)
	}

	return appointments, nil
}
