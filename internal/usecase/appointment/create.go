package appointment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quiroferreira/clinic-scheduler/internal/accessgate"
	"github.com/quiroferreira/clinic-scheduler/internal/audit"
	"github.com/quiroferreira/clinic-scheduler/internal/clock"
	domain "github.com/quiroferreira/clinic-scheduler/internal/domain/appointment"
	"github.com/quiroferreira/clinic-scheduler/internal/httperr"
	"github.com/quiroferreira/clinic-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	ProfessionalID uint
	PatientRef     domain.PatientRef

	ServiceID  uint
	LocationID *uint

	Date string
	Time string

	Value           *decimal.Decimal // nil = service base price
	DurationMinutes *int             // nil = service slot length
	Notes           string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	gate  *accessgate.Gate
	clock *clock.Service
	audit *audit.Dispatcher

	defaultSlotMinutes int
	txMaxRetries       int
}

func NewCreateAppointment(
	repo domain.Repository,
	gate *accessgate.Gate,
	clk *clock.Service,
	auditd *audit.Dispatcher,
	defaultSlotMinutes int,
	txMaxRetries int,
) *CreateAppointment {
	return &CreateAppointment{
		repo:               repo,
		gate:               gate,
		clock:              clk,
		audit:              auditd,
		defaultSlotMinutes: defaultSlotMinutes,
		txMaxRetries:       txMaxRetries,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	if _, err := uc.gate.Check(ctx, in.ProfessionalID); err != nil {
		return nil, err
	}

	start, err := uc.clock.ToUTC(in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	var created *models.Appointment

	err = withRetry(uc.txMaxRetries, func() error {
		return uc.repo.WithTx(ctx, func(tx domain.Repository) error {
			ap, err := buildAppointment(ctx, tx, in, start, uc.defaultSlotMinutes)
			if err != nil {
				return err
			}

			// conflict snapshot and insert share this transaction
			existing, err := tx.ListOverlapping(ctx, in.ProfessionalID, start, ap.EndAt())
			if err != nil {
				return err
			}

			conflicts := domain.DetectConflicts(
				[]domain.Candidate{{Start: start, End: ap.EndAt()}},
				existing,
			)
			if len(conflicts) > 0 {
				return httperr.ErrBusinessWithDetails(
					httperr.CodeConflict,
					buildConflictDetails(uc.clock, conflicts),
				)
			}

			if err := tx.InsertBatch(ctx, []*models.Appointment{ap}); err != nil {
				return err
			}

			created = ap
			return nil
		})
	})

	if err != nil {
		if httperr.IsBusiness(err, httperr.CodeConflict) {
			uc.audit.Dispatch(audit.Event{
				ProfessionalID: &in.ProfessionalID,
				Action:         "appointment_conflict",
				Entity:         "appointment",
				Metadata:       map[string]any{"start_at": start},
			})
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ProfessionalID: &in.ProfessionalID,
		Action:         "appointment_created",
		Entity:         "appointment",
		EntityID:       &created.ID,
	})

	return created, nil
}

// ======================================================
// HELPERS (shared with the recurring use case)
// ======================================================

// buildAppointment validates the catalog references and assembles one
// scheduled row. Value defaults to the service base price; the slot length
// defaults to the service's configured minutes, then to the clinic default.
func buildAppointment(
	ctx context.Context,
	tx domain.Repository,
	in CreateAppointmentInput,
	start time.Time,
	defaultSlotMinutes int,
) (*models.Appointment, error) {

	svc, err := tx.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}

	if in.LocationID != nil {
		if _, err := tx.GetLocation(ctx, in.ProfessionalID, *in.LocationID); err != nil {
			return nil, err
		}
	}

	if _, err := tx.ResolvePatientName(ctx, in.ProfessionalID, in.PatientRef); err != nil {
		return nil, err
	}

	duration := defaultSlotMinutes
	if svc.SlotMinutes > 0 {
		duration = svc.SlotMinutes
	}
	if in.DurationMinutes != nil {
		duration = *in.DurationMinutes
	}
	if duration <= 0 {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}

	value := svc.BasePrice
	if in.Value != nil {
		value = *in.Value
	}
	if value.IsNegative() {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}

	memberID, dependentID, privateID := in.PatientRef.Columns()

	return &models.Appointment{
		ProfessionalID:   in.ProfessionalID,
		MemberID:         memberID,
		DependentID:      dependentID,
		PrivatePatientID: privateID,
		ServiceID:        in.ServiceID,
		LocationID:       in.LocationID,
		StartAt:          start,
		DurationMinutes:  duration,
		Value:            value,
		Status:           string(domain.InitialStatus()),
		Notes:            in.Notes,
	}, nil
}
