package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/clinicalos/clinic-api/internal/model"
	"github.com/clinicalos/clinic-api/internal/service/authz"
	apperrors "github.com/clinicalos/clinic-api/pkg/errors"
)

type fakeAppointmentRepo struct {
	byID map[uuid.UUID]*model.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{byID: map[uuid.UUID]*model.Appointment{}}
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, a *model.Appointment) error {
	a.ID = uuid.New()
	f.byID[a.ID] = a
	return nil
}

func (f *fakeAppointmentRepo) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Appointment, error) {
	a, ok := f.byID[id]
	if !ok || a.TenantID != tenantID {
		return nil, apperrors.NotFound("appointment", nil)
	}
	return a, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error {
	a, ok := f.byID[id]
	if !ok || a.TenantID != tenantID {
		return apperrors.NotFound("appointment", nil)
	}
	a.Status = status
	return nil
}

func (f *fakeAppointmentRepo) List(ctx context.Context, tenantID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range f.byID {
		if a.TenantID != tenantID {
			continue
		}
		if filters != nil && filters.StartDate != nil && a.StartTime.Before(*filters.StartDate) {
			continue
		}
		if filters != nil && filters.EndDate != nil && a.StartTime.After(*filters.EndDate) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAppointmentRepo) ListByPatient(ctx context.Context, tenantID, patientID uuid.UUID) ([]*model.Appointment, error) {
	panic("not used")
}

type fakePatientRepo struct {
	byID map[uuid.UUID]*model.Patient
}

func (f *fakePatientRepo) Create(ctx context.Context, p *model.Patient) error { panic("not used") }
func (f *fakePatientRepo) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Patient, error) {
	p, ok := f.byID[id]
	if !ok || p.TenantID != tenantID {
		return nil, apperrors.NotFound("patient", nil)
	}
	return p, nil
}
func (f *fakePatientRepo) Update(ctx context.Context, p *model.Patient) error { panic("not used") }
func (f *fakePatientRepo) List(ctx context.Context, tenantID uuid.UUID, filters *model.PatientFilters) ([]*model.Patient, error) {
	panic("not used")
}

type fakeUserRepo struct {
	byID map[uuid.UUID]*model.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u *model.User) error { panic("not used") }
func (f *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, apperrors.NotFound("user", nil)
	}
	return u, nil
}
func (f *fakeUserRepo) GetWithTenant(ctx context.Context, username string) (*model.User, *model.Tenant, error) {
	panic("not used")
}
func (f *fakeUserRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*model.User, error) {
	panic("not used")
}
func (f *fakeUserRepo) ListGlobalAdmins(ctx context.Context) ([]*model.GlobalAdmin, error) {
	panic("not used")
}
func (f *fakeUserRepo) FindAdmin(ctx context.Context, tenantID uuid.UUID) (*model.User, error) {
	panic("not used")
}
func (f *fakeUserRepo) Update(ctx context.Context, u *model.User) error { panic("not used") }
func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	panic("not used")
}
func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error { panic("not used") }

type fixture struct {
	svc       *Service
	repo      *fakeAppointmentRepo
	principal *model.Principal
	patient   *model.Patient
	doctor    *model.User
}

func newFixture() *fixture {
	tenantID := uuid.New()
	patient := &model.Patient{Base: model.Base{ID: uuid.New()}, TenantID: tenantID, Name: "Jan"}
	doctor := &model.User{Base: model.Base{ID: uuid.New()}, TenantID: tenantID, Username: "dr.house", Roles: model.RoleSet{model.RoleDoctor}}

	repo := newFakeAppointmentRepo()
	f := &fixture{
		svc: NewService(
			repo,
			&fakePatientRepo{byID: map[uuid.UUID]*model.Patient{patient.ID: patient}},
			&fakeUserRepo{byID: map[uuid.UUID]*model.User{doctor.ID: doctor}},
			authz.NewService(),
		),
		repo:      repo,
		principal: &model.Principal{UserID: uuid.New(), TenantID: tenantID, Roles: model.RoleSet{model.RoleFrontDesk}},
		patient:   patient,
		doctor:    doctor,
	}
	return f
}

func TestScheduleDefaultSlot(t *testing.T) {
	f := newFixture()

	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	reason := "follow-up"

	appt, err := f.svc.Schedule(context.Background(), f.principal, &model.CreateAppointmentRequest{
		PatientID: f.patient.ID,
		DoctorID:  f.doctor.ID,
		StartTime: start,
		Detail:    &reason,
	})
	assert.NoError(t, err)
	assert.Equal(t, start.Add(30*time.Minute), appt.EndTime)
	assert.Equal(t, model.AppointmentStatusScheduled, appt.Status)
	assert.Equal(t, &reason, appt.Reason)
}

func TestScheduleUnknownPatient(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Schedule(context.Background(), f.principal, &model.CreateAppointmentRequest{
		PatientID: uuid.New(),
		DoctorID:  f.doctor.ID,
		StartTime: time.Now(),
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestScheduleCrossTenantDoctorReadsAsMissing(t *testing.T) {
	f := newFixture()

	otherDoctor := &model.User{Base: model.Base{ID: uuid.New()}, TenantID: uuid.New(), Username: "dr.other"}
	f.svc.userRepo.(*fakeUserRepo).byID[otherDoctor.ID] = otherDoctor

	_, err := f.svc.Schedule(context.Background(), f.principal, &model.CreateAppointmentRequest{
		PatientID: f.patient.ID,
		DoctorID:  otherDoctor.ID,
		StartTime: time.Now(),
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture()

	appt, err := f.svc.Schedule(context.Background(), f.principal, &model.CreateAppointmentRequest{
		PatientID: f.patient.ID,
		DoctorID:  f.doctor.ID,
		StartTime: time.Now(),
	})
	assert.NoError(t, err)

	updated, err := f.svc.UpdateStatus(context.Background(), f.principal, appt.ID, &model.UpdateAppointmentRequest{
		Status: model.AppointmentStatusConfirmed,
	})
	assert.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, updated.Status)
}

func TestUpdateStatusCrossTenant(t *testing.T) {
	f := newFixture()

	appt, err := f.svc.Schedule(context.Background(), f.principal, &model.CreateAppointmentRequest{
		PatientID: f.patient.ID,
		DoctorID:  f.doctor.ID,
		StartTime: time.Now(),
	})
	assert.NoError(t, err)

	outsider := &model.Principal{UserID: uuid.New(), TenantID: uuid.New()}
	_, err = f.svc.UpdateStatus(context.Background(), outsider, appt.ID, &model.UpdateAppointmentRequest{
		Status: model.AppointmentStatusCancelled,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	assert.Equal(t, model.AppointmentStatusScheduled, f.repo.byID[appt.ID].Status)
}

func TestListFiltersByDate(t *testing.T) {
	f := newFixture()

	for _, day := range []int{1, 10, 20} {
		_, err := f.svc.Schedule(context.Background(), f.principal, &model.CreateAppointmentRequest{
			PatientID: f.patient.ID,
			DoctorID:  f.doctor.ID,
			StartTime: time.Date(2026, 4, day, 12, 0, 0, 0, time.UTC),
		})
		assert.NoError(t, err)
	}

	from := time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)

	appointments, err := f.svc.List(context.Background(), f.principal, &model.AppointmentFilters{
		StartDate: &from,
		EndDate:   &to,
	})
	assert.NoError(t, err)
	assert.Len(t, appointments, 1)
}
