package model

import (
	"time"

	"github.com/google/uuid"
)

// ClinicalRecord is a dated clinical entry (vitals, history, lab result)
// with free-form JSON payload.
type ClinicalRecord struct {
	Base
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	PatientID uuid.UUID `json:"patient_id" db:"patient_id"`
	Date      time.Time `json:"date" db:"date"`
	Type      string    `json:"type" db:"type"`
	Data      JSONMap   `json:"data" db:"data"`
}

type CreateClinicalRecordRequest struct {
	Type string     `json:"type" binding:"required"`
	Data JSONMap    `json:"data" binding:"required"`
	Date *time.Time `json:"date"`
}

// Attachment is file metadata only; the URL is an opaque pointer into
// external storage.
type Attachment struct {
	ID         uuid.UUID `json:"id" db:"id"`
	TenantID   uuid.UUID `json:"tenant_id" db:"tenant_id"`
	PatientID  uuid.UUID `json:"patient_id" db:"patient_id"`
	FileName   string    `json:"file_name" db:"file_name"`
	FileURL    string    `json:"file_url" db:"file_url"`
	FileType   string    `json:"file_type" db:"file_type"`
	UploadedAt time.Time `json:"uploaded_at" db:"uploaded_at"`
}

type CreateAttachmentRequest struct {
	FileName string `json:"file_name" binding:"required"`
	FileType string `json:"file_type" binding:"required"`
	FileURL  string `json:"file_url" binding:"required,url"`
}
