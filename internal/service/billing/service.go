package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicalos/clinic-api/internal/model"
	"github.com/clinicalos/clinic-api/internal/repository"
	apperrors "github.com/clinicalos/clinic-api/pkg/errors"
)

type Service struct {
	prescriptionRepo repository.PrescriptionRepository
	invoiceRepo      repository.InvoiceRepository
	appointmentRepo  repository.AppointmentRepository
	patientRepo      repository.PatientRepository
	userRepo         repository.UserRepository
	tenantRepo       repository.TenantRepository
}

func NewService(prescriptionRepo repository.PrescriptionRepository, invoiceRepo repository.InvoiceRepository,
	appointmentRepo repository.AppointmentRepository, patientRepo repository.PatientRepository,
	userRepo repository.UserRepository, tenantRepo repository.TenantRepository) *Service {
	return &Service{
		prescriptionRepo: prescriptionRepo,
		invoiceRepo:      invoiceRepo,
		appointmentRepo:  appointmentRepo,
		patientRepo:      patientRepo,
		userRepo:         userRepo,
		tenantRepo:       tenantRepo,
	}
}

// CreatePrescription writes the prescription for an appointment. An
// appointment can carry at most one.
func (s *Service) CreatePrescription(ctx context.Context, p *model.Principal, appointmentID uuid.UUID, req *model.CreatePrescriptionRequest) (*model.Prescription, error) {
	appt, err := s.appointmentRepo.Get(ctx, p.TenantID, appointmentID)
	if err != nil {
		return nil, err
	}

	exists, err := s.prescriptionRepo.ExistsForAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Conflict("prescription already exists for this appointment", nil)
	}

	prescription := &model.Prescription{
		TenantID:      p.TenantID,
		AppointmentID: appointmentID,
		DoctorID:      appt.DoctorID,
		Medications:   model.MedicationList(req.Medications),
		Notes:         req.Notes,
	}

	if err := s.prescriptionRepo.Create(ctx, prescription); err != nil {
		return nil, err
	}

	return prescription, nil
}

// GetPrescriptionDetails assembles the printable view: prescription, patient,
// prescribing doctor and the clinic letterhead.
func (s *Service) GetPrescriptionDetails(ctx context.Context, p *model.Principal, id uuid.UUID) (*model.PrescriptionDetails, error) {
	prescription, err := s.prescriptionRepo.Get(ctx, p.TenantID, id)
	if err != nil {
		return nil, err
	}

	appt, err := s.appointmentRepo.Get(ctx, p.TenantID, prescription.AppointmentID)
	if err != nil {
		return nil, err
	}

	patient, err := s.patientRepo.Get(ctx, p.TenantID, appt.PatientID)
	if err != nil {
		return nil, err
	}

	doctor, err := s.userRepo.Get(ctx, prescription.DoctorID)
	if err != nil {
		return nil, err
	}

	clinic := model.ClinicInfo{}
	if settings, err := s.tenantRepo.GetSettings(ctx, p.TenantID); err == nil {
		clinic.Name = settings.ClinicName
		clinic.LogoURL = settings.LogoURL
		if settings.Address != nil {
			clinic.Address = *settings.Address
		}
	} else if tenant, terr := s.tenantRepo.Get(ctx, p.TenantID); terr == nil {
		clinic.Name = tenant.Name
	}

	return &model.PrescriptionDetails{
		Prescription: prescription,
		Patient:      patient,
		Doctor:       doctor,
		Clinic:       clinic,
	}, nil
}

// CreateInvoice bills an appointment. The total is always recomputed from the
// line items server-side.
func (s *Service) CreateInvoice(ctx context.Context, p *model.Principal, appointmentID uuid.UUID, req *model.CreateInvoiceRequest) (*model.Invoice, error) {
	if _, err := s.appointmentRepo.Get(ctx, p.TenantID, appointmentID); err != nil {
		return nil, err
	}

	var total float64
	for _, item := range req.LineItems {
		total += item.Amount
	}

	invoice := &model.Invoice{
		TenantID:      p.TenantID,
		AppointmentID: appointmentID,
		TotalAmount:   total,
		Status:        model.InvoiceStatusUnpaid,
		LineItems:     model.LineItemList(req.LineItems),
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	return invoice, nil
}

func (s *Service) ListInvoices(ctx context.Context, p *model.Principal) ([]*model.Invoice, error) {
	return s.invoiceRepo.List(ctx, p.TenantID)
}
