package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/quiroferreira/clinic-scheduler/internal/accessgate"
	"github.com/quiroferreira/clinic-scheduler/internal/audit"
	"github.com/quiroferreira/clinic-scheduler/internal/clock"
	"github.com/quiroferreira/clinic-scheduler/internal/config"
	"github.com/quiroferreira/clinic-scheduler/internal/handlers"
	infraRepo "github.com/quiroferreira/clinic-scheduler/internal/infra/repository"
	"github.com/quiroferreira/clinic-scheduler/internal/middleware"
	ucAppointment "github.com/quiroferreira/clinic-scheduler/internal/usecase/appointment"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	clk *clock.Service,
	gate *accessgate.Gate,
) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ======================================================
	// USE CASES — APPOINTMENTS
	// ======================================================
	createUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		gate,
		clk,
		auditDispatcher,
		cfg.DefaultSlotMinutes,
		cfg.TxMaxRetries,
	)

	createRecurringUC := ucAppointment.NewCreateRecurringAppointments(
		appointmentRepo,
		gate,
		clk,
		auditDispatcher,
		cfg.DefaultSlotMinutes,
		cfg.MaxOccurrences,
		cfg.TxMaxRetries,
	)

	cancelUC := ucAppointment.NewCancelAppointment(
		appointmentRepo,
		gate,
		clk,
		auditDispatcher,
	)

	completeUC := ucAppointment.NewCompleteAppointment(
		appointmentRepo,
		gate,
		auditDispatcher,
	)

	listAgendaUC := ucAppointment.NewListAgenda(
		appointmentRepo,
		gate,
		clk,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	accessHandler := handlers.NewAccessHandler(gate)

	appointmentHandler := handlers.NewAppointmentHandler(
		createUC,
		createRecurringUC,
		cancelUC,
		completeUC,
		listAgendaUC,
	)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/access", accessHandler.Me)

			protected.POST("/appointments", appointmentHandler.Create)
			protected.POST("/appointments/recurring", appointmentHandler.CreateRecurring)
			protected.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			protected.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
			protected.GET("/appointments", appointmentHandler.ListAgenda)
			protected.GET("/appointments/month", appointmentHandler.ListAgendaByMonth)
		}
	}
}
