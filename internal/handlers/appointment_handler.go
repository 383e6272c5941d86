package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domain "github.com/quiroferreira/clinic-scheduler/internal/domain/appointment"
	"github.com/quiroferreira/clinic-scheduler/internal/httperr"
	"github.com/quiroferreira/clinic-scheduler/internal/httpresp"
	"github.com/quiroferreira/clinic-scheduler/internal/middleware"
	ucAppointment "github.com/quiroferreira/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	createUC          *ucAppointment.CreateAppointment
	createRecurringUC *ucAppointment.CreateRecurringAppointments
	cancelUC          *ucAppointment.CancelAppointment
	completeUC        *ucAppointment.CompleteAppointment
	listAgendaUC      *ucAppointment.ListAgenda
}

func NewAppointmentHandler(
	createUC *ucAppointment.CreateAppointment,
	createRecurringUC *ucAppointment.CreateRecurringAppointments,
	cancelUC *ucAppointment.CancelAppointment,
	completeUC *ucAppointment.CompleteAppointment,
	listAgendaUC *ucAppointment.ListAgenda,
) *AppointmentHandler {
	return &AppointmentHandler{
		createUC:          createUC,
		createRecurringUC: createRecurringUC,
		cancelUC:          cancelUC,
		completeUC:        completeUC,
		listAgendaUC:      listAgendaUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	MemberID         *uint `json:"member_id"`
	DependentID      *uint `json:"dependent_id"`
	PrivatePatientID *uint `json:"private_patient_id"`

	ServiceID  uint  `json:"service_id" binding:"required"`
	LocationID *uint `json:"location_id"`

	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`

	Value           *decimal.Decimal `json:"value"`
	DurationMinutes *int             `json:"duration_minutes"`
	Notes           string           `json:"notes"`
}

type CreateRecurringRequest struct {
	CreateAppointmentRequest

	RecurrenceType     string `json:"recurrence_type" binding:"required"`
	Occurrences        int    `json:"occurrences"`
	WeeklyCount        int    `json:"weekly_count"`
	SelectedWeekdays   []int  `json:"selected_weekdays"`
	RecurrenceInterval int    `json:"recurrence_interval"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

func (r *CreateAppointmentRequest) toInput(professionalID uint) (ucAppointment.CreateAppointmentInput, error) {
	ref, err := domain.NewPatientRef(r.MemberID, r.DependentID, r.PrivatePatientID)
	if err != nil {
		return ucAppointment.CreateAppointmentInput{}, err
	}

	return ucAppointment.CreateAppointmentInput{
		ProfessionalID:  professionalID,
		PatientRef:      ref,
		ServiceID:       r.ServiceID,
		LocationID:      r.LocationID,
		Date:            r.Date,
		Time:            r.Time,
		Value:           r.Value,
		DurationMinutes: r.DurationMinutes,
		Notes:           r.Notes,
	}, nil
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "Dados inválidos.")
		return
	}

	in, err := req.toInput(professionalID)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.Created(c, gin.H{
		"id":           ap.ID,
		"start_at_utc": ap.StartAt.UTC(),
	})
}

// ======================================================
// CREATE RECURRING
// ======================================================

func (h *AppointmentHandler) CreateRecurring(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)

	var req CreateRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "Dados inválidos.")
		return
	}

	base, err := req.toInput(professionalID)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	out, err := h.createRecurringUC.Execute(c.Request.Context(), ucAppointment.CreateRecurringInput{
		CreateAppointmentInput: base,
		Rule: domain.RecurrenceRule{
			Type:             domain.RecurrenceType(req.RecurrenceType),
			Occurrences:      req.Occurrences,
			WeeklyCount:      req.WeeklyCount,
			SelectedWeekdays: req.SelectedWeekdays,
			IntervalMonths:   req.RecurrenceInterval,
		},
	})
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.Created(c, gin.H{
		"group_id": out.GroupID,
		"count":    out.Count,
	})
}

// ======================================================
// CANCEL
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)

	id, err := paramID(c)
	if err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "ID inválido.")
		return
	}

	var req CancelAppointmentRequest
	_ = c.ShouldBindJSON(&req) // reason is optional

	ap, err := h.cancelUC.Execute(c.Request.Context(), ucAppointment.CancelAppointmentInput{
		ProfessionalID: professionalID,
		AppointmentID:  id,
		ByUserID:       professionalID,
		Reason:         req.Reason,
	})
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// COMPLETE
// ======================================================

func (h *AppointmentHandler) Complete(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)

	id, err := paramID(c)
	if err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "ID inválido.")
		return
	}

	ap, err := h.completeUC.Execute(c.Request.Context(), professionalID, id)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// AGENDA
// ======================================================

func (h *AppointmentHandler) ListAgenda(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)

	fromDate := c.Query("from")
	toDate := c.Query("to")
	if fromDate == "" || toDate == "" {
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "Período obrigatório.")
		return
	}

	includeCancelled := c.Query("include_cancelled") == "true"

	out, err := h.listAgendaUC.Execute(c.Request.Context(), ucAppointment.ListAgendaInput{
		ProfessionalID:   professionalID,
		FromDate:         fromDate,
		ToDate:           toDate,
		IncludeCancelled: includeCancelled,
	})
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.List(c, out)
}

func (h *AppointmentHandler) ListAgendaByMonth(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)

	year, err1 := strconv.Atoi(c.Query("year"))
	month, err2 := strconv.Atoi(c.Query("month"))
	if err1 != nil || err2 != nil {
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "Ano e mês são obrigatórios.")
		return
	}

	includeCancelled := c.Query("include_cancelled") == "true"

	out, err := h.listAgendaUC.ExecuteMonth(c.Request.Context(), professionalID, year, month, includeCancelled)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.List(c, out)
}

// ======================================================
// HELPERS
// ======================================================

func paramID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}
