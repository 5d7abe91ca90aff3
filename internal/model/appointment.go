package model

import (
	"time"

	"github.com/google/uuid"
)

// Appointment status constants
const (
	AppointmentStatusScheduled = "scheduled"
	AppointmentStatusConfirmed = "confirmed"
	AppointmentStatusCompleted = "completed"
	AppointmentStatusCancelled = "cancelled"
)

type Appointment struct {
	Base
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	PatientID uuid.UUID `json:"patient_id" db:"patient_id"`
	DoctorID  uuid.UUID `json:"doctor_id" db:"doctor_id"`
	StartTime time.Time `json:"start_time" db:"start_time"`
	EndTime   time.Time `json:"end_time" db:"end_time"`
	Status    string    `json:"status" db:"status"`
	Reason    *string   `json:"reason" db:"reason"`
}

type CreateAppointmentRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
	DoctorID  uuid.UUID `json:"doctor_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	Detail    *string   `json:"detail"`
}

type UpdateAppointmentRequest struct {
	Status string `json:"status" binding:"required,oneof=scheduled confirmed completed cancelled"`
}

// AppointmentFilters narrows a tenant-scoped appointment listing.
type AppointmentFilters struct {
	StartDate *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"end_date" time_format:"2006-01-02"`
}
