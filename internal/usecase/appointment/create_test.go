package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quiroferreira/clinic-scheduler/internal/httperr"
)

func TestCreateSimpleBooking(t *testing.T) {
	env := newTestEnv(7)

	ap, err := env.create.Execute(context.Background(), privateBooking(7, 42, "2025-03-10", "09:00"))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// 09:00 at UTC-3 is 12:00Z
	want := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	if !ap.StartAt.Equal(want) {
		t.Fatalf("start_at = %v, want %v", ap.StartAt, want)
	}
	if ap.ID == 0 {
		t.Fatal("expected an assigned id")
	}
	if ap.DurationMinutes != 30 {
		t.Fatalf("duration = %d, want service slot 30", ap.DurationMinutes)
	}
	if !ap.Value.Equal(decimal.NewFromFloat(80.00)) {
		t.Fatalf("value = %s, want service base price 80.00", ap.Value)
	}
	if ap.Status != "scheduled" {
		t.Fatalf("status = %q", ap.Status)
	}

	agenda, err := env.listAgenda.Execute(context.Background(), ListAgendaInput{
		ProfessionalID: 7,
		FromDate:       "2025-03-10",
		ToDate:         "2025-03-10",
	})
	if err != nil {
		t.Fatalf("ListAgenda: %v", err)
	}
	if len(agenda) != 1 {
		t.Fatalf("agenda rows = %d, want 1", len(agenda))
	}
	if agenda[0].PatientName != "Paciente Particular 42" {
		t.Fatalf("patient = %q", agenda[0].PatientName)
	}
}

func TestCreateConflictIdenticalSlot(t *testing.T) {
	env := newTestEnv(7)
	ctx := context.Background()

	if _, err := env.create.Execute(ctx, privateBooking(7, 42, "2025-03-10", "09:00")); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	_, err := env.create.Execute(ctx, privateBooking(7, 99, "2025-03-10", "09:00"))
	if !httperr.IsBusiness(err, httperr.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	be, _ := httperr.AsBusiness(err)
	details, ok := be.Details.(ConflictDetails)
	if !ok || len(details.Conflicts) != 1 {
		t.Fatalf("details = %+v", be.Details)
	}
	d := details.Conflicts[0]
	if d.Date != "2025-03-10" || d.Time != "09:00" || d.PatientName != "Paciente Particular 42" {
		t.Fatalf("conflict detail = %+v", d)
	}

	if len(env.repo.appointments) != 1 {
		t.Fatalf("store rows = %d, want 1", len(env.repo.appointments))
	}
}

func TestCreateAdjacentSlotAllowed(t *testing.T) {
	env := newTestEnv(7)
	ctx := context.Background()

	if _, err := env.create.Execute(ctx, privateBooking(7, 42, "2025-03-10", "09:00")); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if _, err := env.create.Execute(ctx, privateBooking(7, 99, "2025-03-10", "09:30")); err != nil {
		t.Fatalf("adjacent booking: %v", err)
	}

	agenda, err := env.listAgenda.Execute(ctx, ListAgendaInput{
		ProfessionalID: 7,
		FromDate:       "2025-03-10",
		ToDate:         "2025-03-10",
	})
	if err != nil {
		t.Fatalf("ListAgenda: %v", err)
	}
	if len(agenda) != 2 {
		t.Fatalf("agenda rows = %d, want 2", len(agenda))
	}
	if agenda[0].Time != "09:00" || agenda[1].Time != "09:30" {
		t.Fatalf("agenda out of order: %q, %q", agenda[0].Time, agenda[1].Time)
	}
}

func TestCreateDeniedWithoutGrant(t *testing.T) {
	env := newTestEnv(7) // professional 8 has no grant

	_, err := env.create.Execute(context.Background(), privateBooking(8, 42, "2025-03-10", "09:00"))
	if !httperr.IsBusiness(err, httperr.CodeNoSchedulingAccess) {
		t.Fatalf("expected no_scheduling_access, got %v", err)
	}
	if len(env.repo.appointments) != 0 {
		t.Fatal("denied booking must write nothing")
	}
}

func TestCreateSucceedsAfterGrantInserted(t *testing.T) {
	repo := newMemoryRepo()
	clk := testClock()
	accessRepo := &fakeAccessRepo{}
	gate := newGateWith(accessRepo, clk)
	uc := NewCreateAppointment(repo, gate, clk, nil, 30, 3)

	in := privateBooking(8, 42, "2025-03-10", "09:00")
	// private patient 42 belongs to professional 7 in the fixture
	repo.privates[42].ProfessionalID = 8

	if _, err := uc.Execute(context.Background(), in); !httperr.IsBusiness(err, httperr.CodeNoSchedulingAccess) {
		t.Fatalf("expected no_scheduling_access, got %v", err)
	}

	accessRepo.addGrant(8, clk.Now().Add(time.Hour))

	if _, err := uc.Execute(context.Background(), in); err != nil {
		t.Fatalf("booking after grant: %v", err)
	}
}

func TestCreateExplicitDurationAndValue(t *testing.T) {
	env := newTestEnv(7)

	in := privateBooking(7, 42, "2025-03-10", "09:00")
	duration := 45
	value := decimal.NewFromFloat(120.50)
	in.DurationMinutes = &duration
	in.Value = &value

	ap, err := env.create.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if ap.DurationMinutes != 45 {
		t.Fatalf("duration = %d, want 45", ap.DurationMinutes)
	}
	if !ap.Value.Equal(value) {
		t.Fatalf("value = %s, want 120.50", ap.Value)
	}
}

func TestCreateRejectsNegativeValue(t *testing.T) {
	env := newTestEnv(7)

	in := privateBooking(7, 42, "2025-03-10", "09:00")
	value := decimal.NewFromFloat(-1)
	in.Value = &value

	_, err := env.create.Execute(context.Background(), in)
	if !httperr.IsBusiness(err, httperr.CodeInvalidRequest) {
		t.Fatalf("expected invalid_request, got %v", err)
	}
}

func TestCreateUnknownService(t *testing.T) {
	env := newTestEnv(7)

	in := privateBooking(7, 42, "2025-03-10", "09:00")
	in.ServiceID = 999

	_, err := env.create.Execute(context.Background(), in)
	if !httperr.IsBusiness(err, httperr.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestCreateInvalidDateTime(t *testing.T) {
	env := newTestEnv(7)

	_, err := env.create.Execute(context.Background(), privateBooking(7, 42, "2025-03-10", "9h00"))
	if !httperr.IsBusiness(err, httperr.CodeInvalidRequest) {
		t.Fatalf("expected invalid_request, got %v", err)
	}
}

func TestCreateRetriesTransientFailures(t *testing.T) {
	env := newTestEnv(7)
	env.repo.transientFailures = 2 // fewer than max retries

	if _, err := env.create.Execute(context.Background(), privateBooking(7, 42, "2025-03-10", "09:00")); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
}

func TestCreateSurfacesPersistentTransient(t *testing.T) {
	env := newTestEnv(7)
	env.repo.transientFailures = 10

	_, err := env.create.Execute(context.Background(), privateBooking(7, 42, "2025-03-10", "09:00"))
	if !httperr.IsBusiness(err, httperr.CodeTransient) {
		t.Fatalf("expected transient, got %v", err)
	}
}
