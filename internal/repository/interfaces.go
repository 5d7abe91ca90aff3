package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicalos/clinic-api/internal/model"
)

// All repository interfaces in one file.
//
// Methods taking a tenantID are tenant-scoped: rows outside that tenant are
// invisible and lookups by id report not-found, never forbidden.
type (
	TenantRepository interface {
		// CreateWithAdmin inserts the tenant and its bootstrap admin in one
		// transaction; neither row exists if either insert fails.
		CreateWithAdmin(ctx context.Context, tenant *model.Tenant, admin *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.Tenant, error)
		List(ctx context.Context) ([]*model.TenantSummary, error)
		// DeleteCascade removes every tenant-scoped row leaf-first, then the
		// tenant itself, in one transaction.
		DeleteCascade(ctx context.Context, id uuid.UUID) error

		GetSettings(ctx context.Context, tenantID uuid.UUID) (*model.TenantSettings, error)
		CreateSettings(ctx context.Context, settings *model.TenantSettings) error
		UpdateSettings(ctx context.Context, settings *model.TenantSettings) error
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		// GetWithTenant fetches the user and its owning tenant in one round
		// trip; identity resolution depends on it.
		GetWithTenant(ctx context.Context, username string) (*model.User, *model.Tenant, error)
		List(ctx context.Context, tenantID uuid.UUID) ([]*model.User, error)
		ListGlobalAdmins(ctx context.Context) ([]*model.GlobalAdmin, error)
		// FindAdmin returns any user in the tenant holding the admin role.
		FindAdmin(ctx context.Context, tenantID uuid.UUID) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
		Delete(ctx context.Context, id uuid.UUID) error
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		List(ctx context.Context, tenantID uuid.UUID, filters *model.PatientFilters) ([]*model.Patient, error)
	}

	ClinicalRecordRepository interface {
		Create(ctx context.Context, record *model.ClinicalRecord) error
		ListByPatient(ctx context.Context, tenantID, patientID uuid.UUID) ([]*model.ClinicalRecord, error)
	}

	AttachmentRepository interface {
		Create(ctx context.Context, attachment *model.Attachment) error
		ListByPatient(ctx context.Context, tenantID, patientID uuid.UUID) ([]*model.Attachment, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Appointment, error)
		UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error
		List(ctx context.Context, tenantID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		ListByPatient(ctx context.Context, tenantID, patientID uuid.UUID) ([]*model.Appointment, error)
	}

	PrescriptionRepository interface {
		Create(ctx context.Context, prescription *model.Prescription) error
		Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Prescription, error)
		ExistsForAppointment(ctx context.Context, appointmentID uuid.UUID) (bool, error)
	}

	InvoiceRepository interface {
		Create(ctx context.Context, invoice *model.Invoice) error
		List(ctx context.Context, tenantID uuid.UUID) ([]*model.Invoice, error)
	}

	StatsRepository interface {
		CountTenants(ctx context.Context) (int64, error)
		CountPatients(ctx context.Context, tenantID *uuid.UUID) (int64, error)
		CountUsers(ctx context.Context, tenantID uuid.UUID) (int64, error)
		CountClinicAdmins(ctx context.Context) (int64, error)
		CountAppointmentsBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (int64, error)
		TenantGrowth(ctx context.Context) ([]*model.GrowthPoint, error)
	}
)
