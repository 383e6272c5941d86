package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/quiroferreira/clinic-scheduler/internal/domain/appointment"
	"github.com/quiroferreira/clinic-scheduler/internal/httperr"
	"github.com/quiroferreira/clinic-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Transaction scope
// --------------------------------------------------

func (r *AppointmentGormRepository) WithTx(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	if isSerializationFailure(err) {
		return httperr.ErrBusiness(httperr.CodeTransient)
	}
	return err
}

// isSerializationFailure recognizes the SQLSTATEs Postgres raises when two
// serializable transactions race: 40001 (serialization_failure) and 40P01
// (deadlock_detected).
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil, err
	}
	return &svc, nil
}

func (r *AppointmentGormRepository) GetLocation(
	ctx context.Context,
	professionalID uint,
	id uint,
) (*models.Location, error) {

	var loc models.Location
	if err := r.db.WithContext(ctx).
		Where("id = ? AND professional_id = ?", id, professionalID).
		First(&loc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil, err
	}
	return &loc, nil
}

// --------------------------------------------------
// Patients
// --------------------------------------------------

func (r *AppointmentGormRepository) ResolvePatientName(
	ctx context.Context,
	professionalID uint,
	ref domain.PatientRef,
) (string, error) {

	var name string
	var err error

	switch ref.Kind {
	case domain.PatientMember:
		var m models.Member
		err = r.db.WithContext(ctx).First(&m, ref.ID).Error
		name = m.Name
	case domain.PatientDependent:
		var d models.Dependent
		err = r.db.WithContext(ctx).First(&d, ref.ID).Error
		name = d.Name
	case domain.PatientPrivate:
		var p models.PrivatePatient
		err = r.db.WithContext(ctx).
			Where("id = ? AND professional_id = ?", ref.ID, professionalID).
			First(&p).Error
		name = p.Name
	default:
		return "", httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return "", err
	}
	return name, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func (r *AppointmentGormRepository) ListOverlapping(
	ctx context.Context,
	professionalID uint,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Member").
		Preload("Dependent").
		Preload("PrivatePatient").
		Where(
			"professional_id = ? AND status <> ? AND start_at < ? AND start_at + make_interval(mins => duration_minutes) > ?",
			professionalID,
			string(domain.StatusCancelled),
			to,
			from,
		).
		Order("start_at ASC, id ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

func (r *AppointmentGormRepository) InsertBatch(
	ctx context.Context,
	aps []*models.Appointment,
) error {
	// gorm batches slice creates into one multi-row INSERT
	return r.db.WithContext(ctx).Create(&aps).Error
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointmentForProfessional(
	ctx context.Context,
	appointmentID uint,
	professionalID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Member").
		Preload("Dependent").
		Preload("PrivatePatient").
		Where("id = ? AND professional_id = ?", appointmentID, professionalID).
		First(&ap).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

// --------------------------------------------------
// Agenda
// --------------------------------------------------

func (r *AppointmentGormRepository) ListRange(
	ctx context.Context,
	professionalID uint,
	from time.Time,
	to time.Time,
	includeCancelled bool,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Member").
		Preload("Dependent").
		Preload("PrivatePatient").
		Preload("Service").
		Preload("Location").
		Where(
			"professional_id = ? AND start_at >= ? AND start_at < ?",
			professionalID, from, to,
		)

	if !includeCancelled {
		q = q.Where("status <> ?", string(domain.StatusCancelled))
	}

	var aps []models.Appointment
	if err := q.Order("start_at ASC, id ASC").Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
