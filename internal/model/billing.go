package model

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"
)

// Invoice status constants
const (
	InvoiceStatusUnpaid    = "unpaid"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"
)

// Medication is a single prescription line.
type Medication struct {
	Drug     string `json:"drug" binding:"required"`
	Dose     string `json:"dose" binding:"required"`
	Freq     string `json:"freq" binding:"required"`
	Duration string `json:"duration" binding:"required"`
}

// MedicationList is stored as a JSONB array.
type MedicationList []Medication

func (l MedicationList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *MedicationList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

// Prescription is at most one per appointment.
type Prescription struct {
	Base
	TenantID      uuid.UUID      `json:"tenant_id" db:"tenant_id"`
	AppointmentID uuid.UUID      `json:"appointment_id" db:"appointment_id"`
	DoctorID      uuid.UUID      `json:"doctor_id" db:"doctor_id"`
	Medications   MedicationList `json:"medications" db:"medications"`
	Notes         *string        `json:"notes" db:"notes"`
}

type CreatePrescriptionRequest struct {
	Medications []Medication `json:"medications" binding:"required,min=1,dive"`
	Notes       *string      `json:"notes"`
}

// PrescriptionDetails joins everything a client needs to render a printout.
type PrescriptionDetails struct {
	Prescription *Prescription `json:"prescription"`
	Patient      *Patient      `json:"patient"`
	Doctor       *User         `json:"doctor"`
	Clinic       ClinicInfo    `json:"clinic"`
}

// ClinicInfo is the letterhead block on prescriptions and invoices.
type ClinicInfo struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	LogoURL *string `json:"logo_url"`
}

// LineItem is a single invoice charge.
type LineItem struct {
	Description string  `json:"description" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gte=0"`
}

// LineItemList is stored as a JSONB array.
type LineItemList []LineItem

func (l LineItemList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *LineItemList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

type Invoice struct {
	Base
	TenantID      uuid.UUID    `json:"tenant_id" db:"tenant_id"`
	AppointmentID uuid.UUID    `json:"appointment_id" db:"appointment_id"`
	TotalAmount   float64      `json:"total_amount" db:"total_amount"`
	Status        string       `json:"status" db:"status"`
	LineItems     LineItemList `json:"line_items" db:"line_items"`
}

type CreateInvoiceRequest struct {
	LineItems []LineItem `json:"line_items" binding:"required,min=1,dive"`
}
