package appointment

import (
	"context"

	"github.com/quiroferreira/clinic-scheduler/internal/accessgate"
	"github.com/quiroferreira/clinic-scheduler/internal/audit"
	"github.com/quiroferreira/clinic-scheduler/internal/clock"
	"github.com/quiroferreira/clinic-scheduler/internal/domain/appointment"
	domain "github.com/quiroferreira/clinic-scheduler/internal/domain/appointment"
	"github.com/quiroferreira/clinic-scheduler/internal/models"
)

type CancelAppointmentInput struct {
	ProfessionalID uint
	AppointmentID  uint
	ByUserID       uint
	Reason         string
}

type CancelAppointment struct {
	repo  domain.Repository
	gate  *accessgate.Gate
	clock *clock.Service
	audit *audit.Dispatcher
}

func NewCancelAppointment(
	repo domain.Repository,
	gate *accessgate.Gate,
	clk *clock.Service,
	auditd *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		gate:  gate,
		clock: clk,
		audit: auditd,
	}
}

// Execute transitions scheduled → cancelled and records who cancelled,
// when, and why. The slot is bookable again on commit.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	in CancelAppointmentInput,
) (*models.Appointment, error) {

	if _, err := uc.gate.Check(ctx, in.ProfessionalID); err != nil {
		return nil, err
	}

	var ap *models.Appointment

	// status check and write share one transaction so two racing cancels
	// cannot both pass the transition guard
	err := uc.repo.WithTx(ctx, func(tx domain.Repository) error {
		var err error
		ap, err = tx.GetAppointmentForProfessional(ctx, in.AppointmentID, in.ProfessionalID)
		if err != nil {
			return err
		}

		if err := appointment.Cancel(ap, in.ByUserID, in.Reason, uc.clock.Now()); err != nil {
			return err
		}

		return tx.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ProfessionalID: &in.ProfessionalID,
		Action:         "appointment_cancelled",
		Entity:         "appointment",
		EntityID:       &ap.ID,
		Metadata:       map[string]any{"reason": in.Reason},
	})

	return ap, nil
}
