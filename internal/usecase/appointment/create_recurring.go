package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/quiroferreira/clinic-scheduler/internal/accessgate"
	"github.com/quiroferreira/clinic-scheduler/internal/audit"
	"github.com/quiroferreira/clinic-scheduler/internal/clock"
	domain "github.com/quiroferreira/clinic-scheduler/internal/domain/appointment"
	"github.com/quiroferreira/clinic-scheduler/internal/httperr"
	"github.com/quiroferreira/clinic-scheduler/internal/models"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type CreateRecurringInput struct {
	CreateAppointmentInput
	Rule domain.RecurrenceRule
}

type CreateRecurringOutput struct {
	GroupID      uuid.UUID             `json:"group_id"`
	Count        int                   `json:"count"`
	Appointments []*models.Appointment `json:"appointments"`
}

// ======================================================
// USE CASE
// ======================================================

type CreateRecurringAppointments struct {
	repo  domain.Repository
	gate  *accessgate.Gate
	clock *clock.Service
	audit *audit.Dispatcher

	defaultSlotMinutes int
	maxOccurrences     int
	txMaxRetries       int
}

func NewCreateRecurringAppointments(
	repo domain.Repository,
	gate *accessgate.Gate,
	clk *clock.Service,
	auditd *audit.Dispatcher,
	defaultSlotMinutes int,
	maxOccurrences int,
	txMaxRetries int,
) *CreateRecurringAppointments {
	return &CreateRecurringAppointments{
		repo:               repo,
		gate:               gate,
		clock:              clk,
		audit:              auditd,
		defaultSlotMinutes: defaultSlotMinutes,
		maxOccurrences:     maxOccurrences,
		txMaxRetries:       txMaxRetries,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute expands the rule into local dates, converts every occurrence to
// UTC, and books the whole batch atomically: one conflict means nothing is
// inserted and every collision is reported.
func (uc *CreateRecurringAppointments) Execute(
	ctx context.Context,
	in CreateRecurringInput,
) (*CreateRecurringOutput, error) {

	if _, err := uc.gate.Check(ctx, in.ProfessionalID); err != nil {
		return nil, err
	}

	dates, err := domain.ExpandRecurrence(in.Date, in.Rule, uc.maxOccurrences)
	if err != nil {
		return nil, err
	}

	starts := make([]domain.Candidate, 0, len(dates))
	for _, date := range dates {
		start, err := uc.clock.ToUTC(date, in.Time)
		if err != nil {
			return nil, err
		}
		starts = append(starts, domain.Candidate{Start: start})
	}

	groupID := uuid.New()
	var batch []*models.Appointment

	err = withRetry(uc.txMaxRetries, func() error {
		batch = nil

		return uc.repo.WithTx(ctx, func(tx domain.Repository) error {
			// first occurrence resolves catalog and defaults for the batch
			first, err := buildAppointment(ctx, tx, in.CreateAppointmentInput, starts[0].Start, uc.defaultSlotMinutes)
			if err != nil {
				return err
			}

			candidates := make([]domain.Candidate, len(starts))
			for i, c := range starts {
				candidates[i] = domain.Candidate{
					Start: c.Start,
					End:   c.Start.Add(first.EndAt().Sub(first.StartAt)),
				}
			}

			window := unionWindow(candidates)
			existing, err := tx.ListOverlapping(ctx, in.ProfessionalID, window.Start, window.End)
			if err != nil {
				return err
			}

			conflicts := domain.DetectConflicts(candidates, existing)
			if len(conflicts) > 0 {
				return httperr.ErrBusinessWithDetails(
					httperr.CodeConflict,
					buildConflictDetails(uc.clock, conflicts),
				)
			}

			for _, cand := range candidates {
				ap := *first
				ap.StartAt = cand.Start
				gid := groupID
				ap.RecurrenceGroupID = &gid
				batch = append(batch, &ap)
			}

			return tx.InsertBatch(ctx, batch)
		})
	})

	if err != nil {
		if httperr.IsBusiness(err, httperr.CodeConflict) {
			uc.audit.Dispatch(audit.Event{
				ProfessionalID: &in.ProfessionalID,
				Action:         "appointment_recurrence_conflict",
				Entity:         "appointment",
				Metadata:       map[string]any{"group_id": groupID, "count": len(starts)},
			})
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ProfessionalID: &in.ProfessionalID,
		Action:         "appointment_recurrence_created",
		Entity:         "appointment",
		Metadata:       map[string]any{"group_id": groupID, "count": len(batch)},
	})

	return &CreateRecurringOutput{
		GroupID:      groupID,
		Count:        len(batch),
		Appointments: batch,
	}, nil
}

func unionWindow(candidates []domain.Candidate) domain.Candidate {
	w := candidates[0]
	for _, c := range candidates[1:] {
		if c.Start.Before(w.Start) {
			w.Start = c.Start
		}
		if c.End.After(w.End) {
			w.End = c.End
		}
	}
	return w
}
