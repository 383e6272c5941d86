package appointment

import (
	"context"

	"github.com/quiroferreira/clinic-scheduler/internal/accessgate"
	"github.com/quiroferreira/clinic-scheduler/internal/audit"
	"github.com/quiroferreira/clinic-scheduler/internal/domain/appointment"
	domain "github.com/quiroferreira/clinic-scheduler/internal/domain/appointment"
	"github.com/quiroferreira/clinic-scheduler/internal/models"
)

type CompleteAppointment struct {
	repo  domain.Repository
	gate  *accessgate.Gate
	audit *audit.Dispatcher
}

func NewCompleteAppointment(
	repo domain.Repository,
	gate *accessgate.Gate,
	auditd *audit.Dispatcher,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:  repo,
		gate:  gate,
		audit: auditd,
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	professionalID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	if _, err := uc.gate.Check(ctx, professionalID); err != nil {
		return nil, err
	}

	var ap *models.Appointment

	err := uc.repo.WithTx(ctx, func(tx domain.Repository) error {
		var err error
		ap, err = tx.GetAppointmentForProfessional(ctx, appointmentID, professionalID)
		if err != nil {
			return err
		}

		if err := appointment.Complete(ap); err != nil {
			return err
		}

		return tx.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ProfessionalID: &professionalID,
		Action:         "appointment_completed",
		Entity:         "appointment",
		EntityID:       &ap.ID,
	})

	return ap, nil
}
