package appointment

import (
	"context"
	"testing"

	domain "github.com/quiroferreira/clinic-scheduler/internal/domain/appointment"
	"github.com/quiroferreira/clinic-scheduler/internal/httperr"
)

func weeklyInput(professionalID, patientID uint, date, timeStr string, weeks int) CreateRecurringInput {
	return CreateRecurringInput{
		CreateAppointmentInput: privateBooking(professionalID, patientID, date, timeStr),
		Rule: domain.RecurrenceRule{
			Type:        domain.RecurrenceWeekly,
			WeeklyCount: weeks,
		},
	}
}

func TestRecurringWeeklyBooksAllOccurrences(t *testing.T) {
	env := newTestEnv(7)

	out, err := env.createRecurring.Execute(context.Background(), weeklyInput(7, 42, "2025-03-10", "09:00", 4))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out.Count != 4 || len(out.Appointments) != 4 {
		t.Fatalf("count = %d, appointments = %d, want 4", out.Count, len(out.Appointments))
	}

	// every occurrence carries the same group id
	for _, ap := range out.Appointments {
		if ap.RecurrenceGroupID == nil || *ap.RecurrenceGroupID != out.GroupID {
			t.Fatalf("group id mismatch on appointment %d", ap.ID)
		}
	}

	agenda, err := env.listAgenda.Execute(context.Background(), ListAgendaInput{
		ProfessionalID: 7,
		FromDate:       "2025-03-01",
		ToDate:         "2025-03-31",
	})
	if err != nil {
		t.Fatalf("ListAgenda: %v", err)
	}
	wantDates := []string{"2025-03-10", "2025-03-17", "2025-03-24", "2025-03-31"}
	if len(agenda) != len(wantDates) {
		t.Fatalf("agenda rows = %d, want %d", len(agenda), len(wantDates))
	}
	for i, row := range agenda {
		if row.Date != wantDates[i] || row.Time != "09:00" {
			t.Fatalf("row %d = %s %s, want %s 09:00", i, row.Date, row.Time, wantDates[i])
		}
	}
}

func TestRecurringAllOrNothingOnConflict(t *testing.T) {
	env := newTestEnv(7)
	ctx := context.Background()

	// third occurrence of the series is already taken
	if _, err := env.create.Execute(ctx, privateBooking(7, 99, "2025-03-17", "09:00")); err != nil {
		t.Fatalf("pre-existing booking: %v", err)
	}

	_, err := env.createRecurring.Execute(ctx, weeklyInput(7, 42, "2025-03-10", "09:00", 4))
	if !httperr.IsBusiness(err, httperr.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	be, _ := httperr.AsBusiness(err)
	details, ok := be.Details.(ConflictDetails)
	if !ok || len(details.Conflicts) != 1 {
		t.Fatalf("details = %+v", be.Details)
	}
	d := details.Conflicts[0]
	if d.Date != "2025-03-17" || d.Time != "09:00" || d.PatientName != "Paciente Particular 99" {
		t.Fatalf("conflict detail = %+v", d)
	}

	// only the pre-existing row remains
	if len(env.repo.appointments) != 1 {
		t.Fatalf("store rows = %d, want 1", len(env.repo.appointments))
	}
}

func TestRecurringReportsEveryCollision(t *testing.T) {
	env := newTestEnv(7)
	ctx := context.Background()

	if _, err := env.create.Execute(ctx, privateBooking(7, 99, "2025-03-10", "09:00")); err != nil {
		t.Fatalf("pre-existing booking: %v", err)
	}
	if _, err := env.create.Execute(ctx, privateBooking(7, 99, "2025-03-24", "09:00")); err != nil {
		t.Fatalf("pre-existing booking: %v", err)
	}

	_, err := env.createRecurring.Execute(ctx, weeklyInput(7, 42, "2025-03-10", "09:00", 4))
	be, ok := httperr.AsBusiness(err)
	if !ok || be.Code != httperr.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}

	details := be.Details.(ConflictDetails)
	if len(details.Conflicts) != 2 {
		t.Fatalf("collisions = %d, want 2", len(details.Conflicts))
	}
	if details.Conflicts[0].Date != "2025-03-10" || details.Conflicts[1].Date != "2025-03-24" {
		t.Fatalf("collision dates = %+v", details.Conflicts)
	}
}

func TestRecurringDailyOnSelectedWeekdays(t *testing.T) {
	env := newTestEnv(7)

	in := CreateRecurringInput{
		CreateAppointmentInput: privateBooking(7, 42, "2025-03-09", "10:00"), // Sunday
		Rule: domain.RecurrenceRule{
			Type:             domain.RecurrenceDaily,
			Occurrences:      5,
			SelectedWeekdays: []int{1, 3, 5},
		},
	}

	out, err := env.createRecurring.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out.Count != 5 {
		t.Fatalf("count = %d, want 5", out.Count)
	}

	agenda, _ := env.listAgenda.Execute(context.Background(), ListAgendaInput{
		ProfessionalID: 7,
		FromDate:       "2025-03-09",
		ToDate:         "2025-03-21",
	})
	wantDates := []string{"2025-03-10", "2025-03-12", "2025-03-14", "2025-03-17", "2025-03-19"}
	for i, row := range agenda {
		if row.Date != wantDates[i] {
			t.Fatalf("row %d = %s, want %s", i, row.Date, wantDates[i])
		}
	}
}

func TestRecurringDeniedWithoutGrant(t *testing.T) {
	env := newTestEnv(7)

	_, err := env.createRecurring.Execute(context.Background(), weeklyInput(8, 42, "2025-03-10", "09:00", 4))
	if !httperr.IsBusiness(err, httperr.CodeNoSchedulingAccess) {
		t.Fatalf("expected no_scheduling_access, got %v", err)
	}
	if len(env.repo.appointments) != 0 {
		t.Fatal("denied series must write nothing")
	}
}

func TestRecurringInvalidRule(t *testing.T) {
	env := newTestEnv(7)

	in := weeklyInput(7, 42, "2025-03-10", "09:00", 4)
	in.Rule.Type = "fortnightly"

	_, err := env.createRecurring.Execute(context.Background(), in)
	if !httperr.IsBusiness(err, httperr.CodeInvalidRequest) {
		t.Fatalf("expected invalid_request, got %v", err)
	}
}

func TestRecurringRetriesTransientFailures(t *testing.T) {
	env := newTestEnv(7)
	env.repo.transientFailures = 2

	out, err := env.createRecurring.Execute(context.Background(), weeklyInput(7, 42, "2025-03-10", "09:00", 3))
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if out.Count != 3 || len(env.repo.appointments) != 3 {
		t.Fatalf("count = %d, store rows = %d, want 3", out.Count, len(env.repo.appointments))
	}
}
