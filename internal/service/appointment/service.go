package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicalos/clinic-api/internal/model"
	"github.com/clinicalos/clinic-api/internal/repository"
	"github.com/clinicalos/clinic-api/internal/service/authz"
	apperrors "github.com/clinicalos/clinic-api/pkg/errors"
)

// defaultSlot is the appointment length when no explicit end is given.
const defaultSlot = 30 * time.Minute

type Service struct {
	appointmentRepo repository.AppointmentRepository
	patientRepo     repository.PatientRepository
	userRepo        repository.UserRepository
	policy          *authz.Service
}

func NewService(appointmentRepo repository.AppointmentRepository, patientRepo repository.PatientRepository,
	userRepo repository.UserRepository, policy *authz.Service) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		userRepo:        userRepo,
		policy:          policy,
	}
}

// Schedule books a slot. Patient and doctor are both resolved under the
// caller's tenant, so a cross-tenant id surfaces as a not-found.
func (s *Service) Schedule(ctx context.Context, p *model.Principal, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if _, err := s.patientRepo.Get(ctx, p.TenantID, req.PatientID); err != nil {
		return nil, err
	}
	doctor, err := s.userRepo.Get(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.RequireSameTenant(p, doctor.TenantID); err != nil {
		return nil, apperrors.NotFound("doctor", nil)
	}

	appt := &model.Appointment{
		TenantID:  p.TenantID,
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		StartTime: req.StartTime,
		EndTime:   req.StartTime.Add(defaultSlot),
		Status:    model.AppointmentStatusScheduled,
		Reason:    req.Detail,
	}

	if err := s.appointmentRepo.Create(ctx, appt); err != nil {
		return nil, err
	}

	return appt, nil
}

func (s *Service) List(ctx context.Context, p *model.Principal, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return s.appointmentRepo.List(ctx, p.TenantID, filters)
}

func (s *Service) UpdateStatus(ctx context.Context, p *model.Principal, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	if err := s.appointmentRepo.UpdateStatus(ctx, p.TenantID, id, req.Status); err != nil {
		return nil, err
	}
	return s.appointmentRepo.Get(ctx, p.TenantID, id)
}
