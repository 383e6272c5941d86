package appointment

import (
	"context"
	"time"

	"github.com/quiroferreira/clinic-scheduler/internal/accessgate"
	"github.com/quiroferreira/clinic-scheduler/internal/clock"
	domain "github.com/quiroferreira/clinic-scheduler/internal/domain/appointment"
	"github.com/quiroferreira/clinic-scheduler/internal/dto"
	"github.com/quiroferreira/clinic-scheduler/internal/httperr"
	"github.com/quiroferreira/clinic-scheduler/internal/models"
)

type ListAgendaInput struct {
	ProfessionalID   uint
	FromDate         string
	ToDate           string
	IncludeCancelled bool
}

type ListAgenda struct {
	repo  domain.Repository
	gate  *accessgate.Gate
	clock *clock.Service
}

func NewListAgenda(
	repo domain.Repository,
	gate *accessgate.Gate,
	clk *clock.Service,
) *ListAgenda {
	return &ListAgenda{
		repo:  repo,
		gate:  gate,
		clock: clk,
	}
}

// Execute lists the agenda for the local date range [from, to], both ends
// inclusive: the UTC window is [from 00:00, to+1d 00:00) in the clinic
// zone.
func (uc *ListAgenda) Execute(
	ctx context.Context,
	in ListAgendaInput,
) ([]dto.AppointmentListDTO, error) {

	if _, err := uc.gate.Check(ctx, in.ProfessionalID); err != nil {
		return nil, err
	}

	from, err := uc.clock.StartOfLocalDay(in.FromDate)
	if err != nil {
		return nil, err
	}

	toDate, err := time.Parse(clock.DateLayout, in.ToDate)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}
	to, err := uc.clock.StartOfLocalDay(toDate.AddDate(0, 0, 1).Format(clock.DateLayout))
	if err != nil {
		return nil, err
	}

	appointments, err := uc.repo.ListRange(ctx, in.ProfessionalID, from, to, in.IncludeCancelled)
	if err != nil {
		return nil, err
	}

	return uc.toDTO(appointments), nil
}

// ExecuteMonth lists one whole local month of the agenda.
func (uc *ListAgenda) ExecuteMonth(
	ctx context.Context,
	professionalID uint,
	year int,
	month int,
	includeCancelled bool,
) ([]dto.AppointmentListDTO, error) {

	if year < 2000 || year > 2100 || month < 1 || month > 12 {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	return uc.Execute(ctx, ListAgendaInput{
		ProfessionalID:   professionalID,
		FromDate:         first.Format(clock.DateLayout),
		ToDate:           last.Format(clock.DateLayout),
		IncludeCancelled: includeCancelled,
	})
}

func (uc *ListAgenda) toDTO(appointments []models.Appointment) []dto.AppointmentListDTO {
	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for i := range appointments {
		ap := &appointments[i]
		date, timeStr := uc.clock.ToLocal(ap.StartAt)

		var location string
		if ap.Location != nil {
			location = ap.Location.Name
		}

		out = append(out, dto.AppointmentListDTO{
			ID:              ap.ID,
			Date:            date,
			Time:            timeStr,
			StartAtUTC:      ap.StartAt.UTC(),
			DurationMinutes: ap.DurationMinutes,
			Status:          ap.Status,
			PatientName:     ap.PatientName(),
			ServiceName:     ap.Service.Name,
			LocationName:    location,
			Value:           ap.Value,
			Notes:           ap.Notes,
		})
	}
	return out
}
