package appointment

import (
	"context"
	"time"

	"github.com/quiroferreira/clinic-scheduler/internal/models"
)

type Repository interface {
	// WithTx runs fn inside one SERIALIZABLE transaction. The Repository
	// handed to fn is bound to that transaction, so a conflict snapshot and
	// the batch insert that follows it are indivisible. Serialization
	// failures surface as the transient business code.
	WithTx(ctx context.Context, fn func(Repository) error) error

	// -------- Catalog --------
	GetService(
		ctx context.Context,
		id uint,
	) (*models.Service, error)

	GetLocation(
		ctx context.Context,
		professionalID uint,
		id uint,
	) (*models.Location, error)

	// -------- Patients --------
	ResolvePatientName(
		ctx context.Context,
		professionalID uint,
		ref PatientRef,
	) (string, error)

	// -------- Appointment (create / conflict) --------

	// ListOverlapping returns the non-cancelled appointments of the
	// professional whose slot intersects [from, to), with patient
	// associations loaded.
	ListOverlapping(
		ctx context.Context,
		professionalID uint,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)

	InsertBatch(
		ctx context.Context,
		aps []*models.Appointment,
	) error

	// -------- Appointment (state change) --------
	GetAppointmentForProfessional(
		ctx context.Context,
		appointmentID uint,
		professionalID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Agenda --------

	// ListRange returns appointments with start_at in [from, to), ordered
	// by start_at then id.
	ListRange(
		ctx context.Context,
		professionalID uint,
		from time.Time,
		to time.Time,
		includeCancelled bool,
	) ([]models.Appointment, error)
}
