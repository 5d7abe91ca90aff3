package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicalos/clinic-api/internal/model"
	"github.com/clinicalos/clinic-api/internal/repository"
)

type prescriptionRepository struct {
	BaseRepository
}

func NewPrescriptionRepository(base BaseRepository) repository.PrescriptionRepository {
	return &prescriptionRepository{base}
}

func (r *prescriptionRepository) Create(ctx context.Context, prescription *model.Prescription) error {
	query := `
		INSERT INTO prescriptions (id, tenant_id, appointment_id, doctor_id, medications, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	prescription.ID = uuid.New()
	prescription.CreatedAt = time.Now()

	_, err := r.execContext(ctx, "prescription.create", query,
		prescription.ID,
		prescription.TenantID,
		prescription.AppointmentID,
		prescription.DoctorID,
		prescription.Medications,
		prescription.Notes,
		prescription.CreatedAt,
	)
	return translateError(err, "prescription")
}

func (r *prescriptionRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Prescription, error) {
	query := `SELECT * FROM prescriptions WHERE id = $1 AND tenant_id = $2`

	var prescription model.Prescription
	if err := r.getContext(ctx, "prescription.get", &prescription, query, id, tenantID); err != nil {
		return nil, translateError(err, "prescription")
	}

	return &prescription, nil
}

func (r *prescriptionRepository) ExistsForAppointment(ctx context.Context, appointmentID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM prescriptions WHERE appointment_id = $1)`

	var exists bool
	if err := r.getContext(ctx, "prescription.exists", &exists, query, appointmentID); err != nil {
		return false, fmt.Errorf("failed to check prescription existence: %w", err)
	}

	return exists, nil
}

type invoiceRepository struct {
	BaseRepository
}

func NewInvoiceRepository(base BaseRepository) repository.InvoiceRepository {
	return &invoiceRepository{base}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	query := `
		INSERT INTO invoices (id, tenant_id, appointment_id, total_amount, status, line_items, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	invoice.ID = uuid.New()
	invoice.CreatedAt = time.Now()

	_, err := r.execContext(ctx, "invoice.create", query,
		invoice.ID,
		invoice.TenantID,
		invoice.AppointmentID,
		invoice.TotalAmount,
		invoice.Status,
		invoice.LineItems,
		invoice.CreatedAt,
	)
	return translateError(err, "invoice")
}

func (r *invoiceRepository) List(ctx context.Context, tenantID uuid.UUID) ([]*model.Invoice, error) {
	query := `
		SELECT * FROM invoices
		WHERE tenant_id = $1
		ORDER BY created_at DESC
	`

	var invoices []*model.Invoice
	if err := r.selectContext(ctx, "invoice.list", &invoices, query, tenantID); err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	return invoices, nil
}
