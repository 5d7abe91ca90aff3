package patient

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicalos/clinic-api/internal/model"
	"github.com/clinicalos/clinic-api/internal/repository"
)

const mrnAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type Service struct {
	patientRepo     repository.PatientRepository
	recordRepo      repository.ClinicalRecordRepository
	attachmentRepo  repository.AttachmentRepository
	appointmentRepo repository.AppointmentRepository
}

func NewService(patientRepo repository.PatientRepository, recordRepo repository.ClinicalRecordRepository,
	attachmentRepo repository.AttachmentRepository, appointmentRepo repository.AppointmentRepository) *Service {
	return &Service{
		patientRepo:     patientRepo,
		recordRepo:      recordRepo,
		attachmentRepo:  attachmentRepo,
		appointmentRepo: appointmentRepo,
	}
}

// generateMRN builds a medical record number like PT-4K7Q2M.
func generateMRN() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate MRN: %w", err)
	}
	for i, b := range buf {
		buf[i] = mrnAlphabet[int(b)%len(mrnAlphabet)]
	}
	return "PT-" + string(buf), nil
}

func (s *Service) Create(ctx context.Context, p *model.Principal, req *model.CreatePatientRequest) (*model.Patient, error) {
	mrn, err := generateMRN()
	if err != nil {
		return nil, err
	}

	patient := &model.Patient{
		TenantID:   p.TenantID,
		MRN:        mrn,
		Name:       req.Name,
		Mobile:     req.Mobile,
		DOB:        req.DOB,
		Gender:     req.Gender,
		BloodGroup: req.BloodGroup,
		Allergies:  model.StringList(req.Allergies),
		Address:    req.Address,
	}

	if err := s.patientRepo.Create(ctx, patient); err != nil {
		return nil, err
	}

	return patient, nil
}

func (s *Service) List(ctx context.Context, p *model.Principal, filters *model.PatientFilters) ([]*model.Patient, error) {
	return s.patientRepo.List(ctx, p.TenantID, filters)
}

func (s *Service) Get(ctx context.Context, p *model.Principal, id uuid.UUID) (*model.Patient, error) {
	return s.patientRepo.Get(ctx, p.TenantID, id)
}

func (s *Service) Update(ctx context.Context, p *model.Principal, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.patientRepo.Get(ctx, p.TenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		patient.Name = *req.Name
	}
	if req.Mobile != nil {
		patient.Mobile = *req.Mobile
	}
	if req.DOB != nil {
		patient.DOB = req.DOB
	}
	if req.Gender != nil {
		patient.Gender = *req.Gender
	}
	if req.BloodGroup != nil {
		patient.BloodGroup = req.BloodGroup
	}
	if req.Allergies != nil {
		patient.Allergies = model.StringList(req.Allergies)
	}
	if req.Address != nil {
		patient.Address = req.Address
	}

	if err := s.patientRepo.Update(ctx, patient); err != nil {
		return nil, err
	}

	return patient, nil
}

// GetProfile aggregates a patient with their clinical records, appointments
// and attachments.
func (s *Service) GetProfile(ctx context.Context, p *model.Principal, id uuid.UUID) (*model.PatientProfile, error) {
	patient, err := s.patientRepo.Get(ctx, p.TenantID, id)
	if err != nil {
		return nil, err
	}

	records, err := s.recordRepo.ListByPatient(ctx, p.TenantID, id)
	if err != nil {
		return nil, err
	}

	appointments, err := s.appointmentRepo.ListByPatient(ctx, p.TenantID, id)
	if err != nil {
		return nil, err
	}

	attachments, err := s.attachmentRepo.ListByPatient(ctx, p.TenantID, id)
	if err != nil {
		return nil, err
	}

	return &model.PatientProfile{
		Patient:         *patient,
		ClinicalRecords: records,
		Appointments:    appointments,
		Attachments:     attachments,
	}, nil
}

// AddRecord attaches a clinical entry to a patient; the patient lookup
// enforces tenant scope before any write happens.
func (s *Service) AddRecord(ctx context.Context, p *model.Principal, patientID uuid.UUID, req *model.CreateClinicalRecordRequest) (*model.ClinicalRecord, error) {
	if _, err := s.patientRepo.Get(ctx, p.TenantID, patientID); err != nil {
		return nil, err
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	record := &model.ClinicalRecord{
		TenantID:  p.TenantID,
		PatientID: patientID,
		Date:      date,
		Type:      req.Type,
		Data:      req.Data,
	}

	if err := s.recordRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

func (s *Service) ListRecords(ctx context.Context, p *model.Principal, patientID uuid.UUID) ([]*model.ClinicalRecord, error) {
	if _, err := s.patientRepo.Get(ctx, p.TenantID, patientID); err != nil {
		return nil, err
	}
	return s.recordRepo.ListByPatient(ctx, p.TenantID, patientID)
}

// AddAttachment registers file metadata; the URL is opaque and storage is
// external.
func (s *Service) AddAttachment(ctx context.Context, p *model.Principal, patientID uuid.UUID, req *model.CreateAttachmentRequest) (*model.Attachment, error) {
	if _, err := s.patientRepo.Get(ctx, p.TenantID, patientID); err != nil {
		return nil, err
	}

	attachment := &model.Attachment{
		TenantID:  p.TenantID,
		PatientID: patientID,
		FileName:  req.FileName,
		FileURL:   req.FileURL,
		FileType:  req.FileType,
	}

	if err := s.attachmentRepo.Create(ctx, attachment); err != nil {
		return nil, err
	}

	return attachment, nil
}

func (s *Service) ListAttachments(ctx context.Context, p *model.Principal, patientID uuid.UUID) ([]*model.Attachment, error) {
	if _, err := s.patientRepo.Get(ctx, p.TenantID, patientID); err != nil {
		return nil, err
	}
	return s.attachmentRepo.ListByPatient(ctx, p.TenantID, patientID)
}
