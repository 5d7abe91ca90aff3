package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicalos/clinic-api/internal/model"
	"github.com/clinicalos/clinic-api/internal/repository"
)

type clinicalRecordRepository struct {
	BaseRepository
}

func NewClinicalRecordRepository(base BaseRepository) repository.ClinicalRecordRepository {
	return &clinicalRecordRepository{base}
}

func (r *clinicalRecordRepository) Create(ctx context.Context, record *model.ClinicalRecord) error {
	query := `
		INSERT INTO clinical_records (id, tenant_id, patient_id, date, type, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	record.ID = uuid.New()
	record.CreatedAt = time.Now()

	_, err := r.execContext(ctx, "clinical_record.create", query,
		record.ID,
		record.TenantID,
		record.PatientID,
		record.Date,
		record.Type,
		record.Data,
		record.CreatedAt,
	)
	return translateError(err, "clinical record")
}

func (r *clinicalRecordRepository) ListByPatient(ctx context.Context, tenantID, patientID uuid.UUID) ([]*model.ClinicalRecord, error) {
	query := `
		SELECT * FROM clinical_records
		WHERE tenant_id = $1 AND patient_id = $2
		ORDER BY date DESC
	`

	var records []*model.ClinicalRecord
	if err := r.selectContext(ctx, "clinical_record.list_by_patient", &records, query, tenantID, patientID); err != nil {
		return nil, fmt.Errorf("failed to list clinical records: %w", err)
	}

	return records, nil
}

type attachmentRepository struct {
	BaseRepository
}

func NewAttachmentRepository(base BaseRepository) repository.AttachmentRepository {
	return &attachmentRepository{base}
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *model.Attachment) error {
	query := `
		INSERT INTO attachments (id, tenant_id, patient_id, file_name, file_url, file_type, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	attachment.ID = uuid.New()
	attachment.UploadedAt = time.Now()

	_, err := r.execContext(ctx, "attachment.create", query,
		attachment.ID,
		attachment.TenantID,
		attachment.PatientID,
		attachment.FileName,
		attachment.FileURL,
		attachment.FileType,
		attachment.UploadedAt,
	)
	return translateError(err, "attachment")
}

func (r *attachmentRepository) ListByPatient(ctx context.Context, tenantID, patientID uuid.UUID) ([]*model.Attachment, error) {
	query := `
		SELECT * FROM attachments
		WHERE tenant_id = $1 AND patient_id = $2
		ORDER BY uploaded_at DESC
	`

	var attachments []*model.Attachment
	if err := r.selectContext(ctx, "attachment.list_by_patient", &attachments, query, tenantID, patientID); err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}

	return attachments, nil
}
