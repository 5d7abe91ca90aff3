package model

import (
	"time"

	"github.com/google/uuid"
)

// Patient represents a clinic patient. MRN is the server-generated medical
// record number, unique within a tenant.
type Patient struct {
	Base
	TenantID   uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	MRN        string     `json:"mrn" db:"mrn"`
	Name       string     `json:"name" db:"name"`
	DOB        *time.Time `json:"dob" db:"dob"`
	Gender     string     `json:"gender" db:"gender"`
	Mobile     string     `json:"mobile" db:"mobile"`
	BloodGroup *string    `json:"blood_group" db:"blood_group"`
	Allergies  StringList `json:"allergies" db:"allergies"`
	Address    *string    `json:"address" db:"address"`
}

// PatientProfile aggregates a patient with their clinical history.
type PatientProfile struct {
	Patient
	ClinicalRecords []*ClinicalRecord `json:"clinical_records"`
	Appointments    []*Appointment    `json:"appointments"`
	Attachments     []*Attachment     `json:"attachments"`
}

type CreatePatientRequest struct {
	Name       string     `json:"name" binding:"required"`
	Mobile     string     `json:"mobile" binding:"required"`
	DOB        *time.Time `json:"dob"`
	Gender     string     `json:"gender" binding:"required"`
	BloodGroup *string    `json:"blood_group"`
	Allergies  []string   `json:"allergies"`
	Address    *string    `json:"address"`
}

type UpdatePatientRequest struct {
	Name       *string    `json:"name"`
	Mobile     *string    `json:"mobile"`
	DOB        *time.Time `json:"dob"`
	Gender     *string    `json:"gender"`
	BloodGroup *string    `json:"blood_group"`
	Allergies  []string   `json:"allergies"`
	Address    *string    `json:"address"`
}

// PatientFilters narrows a tenant-scoped patient listing.
type PatientFilters struct {
	Search string `json:"q" form:"q"`
	Offset int    `json:"skip" form:"skip"`
	Limit  int    `json:"limit" form:"limit"`
}
