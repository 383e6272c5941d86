package appointment

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quiroferreira/clinic-scheduler/internal/accessgate"
	"github.com/quiroferreira/clinic-scheduler/internal/clock"
	domain "github.com/quiroferreira/clinic-scheduler/internal/domain/appointment"
	"github.com/quiroferreira/clinic-scheduler/internal/httperr"
	"github.com/quiroferreira/clinic-scheduler/internal/models"
)

// ------------------------------------------------------
// fixed clock
// ------------------------------------------------------

type fixedClock struct {
	t time.Time
}

func (f fixedClock) Now() time.Time { return f.t }

func testClock() *clock.Service {
	return clock.NewService(
		fixedClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)},
		-180,
	)
}

// ------------------------------------------------------
// access gate over an in-memory grant list
// ------------------------------------------------------

type fakeAccessRepo struct {
	grants []models.SchedulingAccess
}

func (f *fakeAccessRepo) LatestActiveGrant(
	_ context.Context,
	professionalID uint,
	now time.Time,
) (*models.SchedulingAccess, error) {

	var latest *models.SchedulingAccess
	for i := range f.grants {
		g := &f.grants[i]
		if g.ProfessionalID != professionalID || !g.IsActive || !g.ExpiresAt.After(now) {
			continue
		}
		if latest == nil || g.CreatedAt.After(latest.CreatedAt) {
			latest = g
		}
	}
	return latest, nil
}

func (f *fakeAccessRepo) ExpireSubscriptions(context.Context, time.Time) (int64, int64, error) {
	return 0, 0, nil
}

func (f *fakeAccessRepo) addGrant(professionalID uint, expiresAt time.Time) {
	f.grants = append(f.grants, models.SchedulingAccess{
		ID:             uint(len(f.grants) + 1),
		ProfessionalID: professionalID,
		ExpiresAt:      expiresAt,
		IsActive:       true,
		CreatedAt:      time.Now(),
	})
}

func newGateWith(repo *fakeAccessRepo, clk *clock.Service) *accessgate.Gate {
	return accessgate.NewGate(repo, clk)
}

func grantedGate(clk *clock.Service, professionalIDs ...uint) *accessgate.Gate {
	repo := &fakeAccessRepo{}
	for _, id := range professionalIDs {
		repo.grants = append(repo.grants, models.SchedulingAccess{
			ID:             uint(len(repo.grants) + 1),
			ProfessionalID: id,
			ExpiresAt:      clk.Now().Add(time.Hour),
			IsActive:       true,
			CreatedAt:      clk.Now(),
		})
	}
	return accessgate.NewGate(repo, clk)
}

// ------------------------------------------------------
// in-memory appointment repository
// ------------------------------------------------------

type memoryRepo struct {
	services   map[uint]*models.Service
	locations  map[uint]*models.Location
	members    map[uint]*models.Member
	dependents map[uint]*models.Dependent
	privates   map[uint]*models.PrivatePatient

	appointments []models.Appointment
	nextID       uint

	// simulated serialization failures, consumed one per WithTx
	transientFailures int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		services: map[uint]*models.Service{
			3: {ID: 3, Name: "Sessão quiropraxia", BasePrice: decimal.NewFromFloat(80.00), SlotMinutes: 30},
			4: {ID: 4, Name: "Avaliação completa", BasePrice: decimal.NewFromFloat(150.00), SlotMinutes: 60},
		},
		locations: map[uint]*models.Location{
			1: {ID: 1, ProfessionalID: 7, Name: "Consultório centro", IsDefault: true},
		},
		members: map[uint]*models.Member{
			10: {ID: 10, Name: "João Conveniado", SubscriptionStatus: models.SubscriptionActive},
		},
		dependents: map[uint]*models.Dependent{
			20: {ID: 20, MemberID: 10, Name: "Clara Dependente", SubscriptionStatus: models.SubscriptionActive},
		},
		privates: map[uint]*models.PrivatePatient{
			42: {ID: 42, ProfessionalID: 7, Name: "Paciente Particular 42"},
			99: {ID: 99, ProfessionalID: 7, Name: "Paciente Particular 99"},
		},
	}
}

func (r *memoryRepo) WithTx(_ context.Context, fn func(domain.Repository) error) error {
	if r.transientFailures > 0 {
		r.transientFailures--
		return httperr.ErrBusiness(httperr.CodeTransient)
	}

	snapshot := append([]models.Appointment(nil), r.appointments...)
	savedID := r.nextID

	if err := fn(r); err != nil {
		r.appointments = snapshot
		r.nextID = savedID
		return err
	}
	return nil
}

func (r *memoryRepo) GetService(_ context.Context, id uint) (*models.Service, error) {
	if svc, ok := r.services[id]; ok {
		return svc, nil
	}
	return nil, httperr.ErrBusiness(httperr.CodeNotFound)
}

func (r *memoryRepo) GetLocation(_ context.Context, professionalID, id uint) (*models.Location, error) {
	if loc, ok := r.locations[id]; ok && loc.ProfessionalID == professionalID {
		return loc, nil
	}
	return nil, httperr.ErrBusiness(httperr.CodeNotFound)
}

func (r *memoryRepo) ResolvePatientName(_ context.Context, professionalID uint, ref domain.PatientRef) (string, error) {
	switch ref.Kind {
	case domain.PatientMember:
		if m, ok := r.members[ref.ID]; ok {
			return m.Name, nil
		}
	case domain.PatientDependent:
		if d, ok := r.dependents[ref.ID]; ok {
			return d.Name, nil
		}
	case domain.PatientPrivate:
		if p, ok := r.privates[ref.ID]; ok && p.ProfessionalID == professionalID {
			return p.Name, nil
		}
	}
	return "", httperr.ErrBusiness(httperr.CodeNotFound)
}

func (r *memoryRepo) attach(ap *models.Appointment) {
	if ap.MemberID != nil {
		ap.Member = r.members[*ap.MemberID]
	}
	if ap.DependentID != nil {
		ap.Dependent = r.dependents[*ap.DependentID]
	}
	if ap.PrivatePatientID != nil {
		ap.PrivatePatient = r.privates[*ap.PrivatePatientID]
	}
	if svc, ok := r.services[ap.ServiceID]; ok {
		ap.Service = *svc
	}
}

func (r *memoryRepo) ListOverlapping(_ context.Context, professionalID uint, from, to time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.ProfessionalID != professionalID || ap.Status == string(domain.StatusCancelled) {
			continue
		}
		if ap.StartAt.Before(to) && ap.EndAt().After(from) {
			cp := ap
			r.attach(&cp)
			out = append(out, cp)
		}
	}
	sortAppointments(out)
	return out, nil
}

func (r *memoryRepo) InsertBatch(_ context.Context, aps []*models.Appointment) error {
	for _, ap := range aps {
		r.nextID++
		ap.ID = r.nextID
		r.appointments = append(r.appointments, *ap)
	}
	return nil
}

func (r *memoryRepo) GetAppointmentForProfessional(_ context.Context, appointmentID, professionalID uint) (*models.Appointment, error) {
	for _, ap := range r.appointments {
		if ap.ID == appointmentID && ap.ProfessionalID == professionalID {
			cp := ap
			r.attach(&cp)
			return &cp, nil
		}
	}
	return nil, httperr.ErrBusiness(httperr.CodeNotFound)
}

func (r *memoryRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	for i := range r.appointments {
		if r.appointments[i].ID == ap.ID {
			r.appointments[i] = *ap
			return nil
		}
	}
	return httperr.ErrBusiness(httperr.CodeNotFound)
}

func (r *memoryRepo) ListRange(_ context.Context, professionalID uint, from, to time.Time, includeCancelled bool) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.ProfessionalID != professionalID {
			continue
		}
		if !includeCancelled && ap.Status == string(domain.StatusCancelled) {
			continue
		}
		if !ap.StartAt.Before(from) && ap.StartAt.Before(to) {
			cp := ap
			r.attach(&cp)
			out = append(out, cp)
		}
	}
	sortAppointments(out)
	return out, nil
}

func sortAppointments(aps []models.Appointment) {
	sort.Slice(aps, func(i, j int) bool {
		if aps[i].StartAt.Equal(aps[j].StartAt) {
			return aps[i].ID < aps[j].ID
		}
		return aps[i].StartAt.Before(aps[j].StartAt)
	})
}

var _ domain.Repository = (*memoryRepo)(nil)

// ------------------------------------------------------
// wiring helpers
// ------------------------------------------------------

type testEnv struct {
	repo  *memoryRepo
	clock *clock.Service
	gate  *accessgate.Gate

	create          *CreateAppointment
	createRecurring *CreateRecurringAppointments
	cancel          *CancelAppointment
	complete        *CompleteAppointment
	listAgenda      *ListAgenda
}

func newTestEnv(grantedProfessionals ...uint) *testEnv {
	repo := newMemoryRepo()
	clk := testClock()
	gate := grantedGate(clk, grantedProfessionals...)

	return &testEnv{
		repo:            repo,
		clock:           clk,
		gate:            gate,
		create:          NewCreateAppointment(repo, gate, clk, nil, 30, 3),
		createRecurring: NewCreateRecurringAppointments(repo, gate, clk, nil, 30, 50, 3),
		cancel:          NewCancelAppointment(repo, gate, clk, nil),
		complete:        NewCompleteAppointment(repo, gate, nil),
		listAgenda:      NewListAgenda(repo, gate, clk),
	}
}

func privateBooking(professionalID, patientID uint, date, timeStr string) CreateAppointmentInput {
	ref, _ := domain.NewPatientRef(nil, nil, &patientID)
	return CreateAppointmentInput{
		ProfessionalID: professionalID,
		PatientRef:     ref,
		ServiceID:      3,
		Date:           date,
		Time:           timeStr,
	}
}
