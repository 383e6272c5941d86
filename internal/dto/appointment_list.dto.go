package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type AppointmentListDTO struct {
	ID              uint            `json:"id"`
	Date            string          `json:"date"`
	Time            string          `json:"time"`
	StartAtUTC      time.Time       `json:"start_at_utc"`
	DurationMinutes int             `json:"duration_minutes"`
	Status          string          `json:"status"`
	PatientName     string          `json:"patient_name"`
	ServiceName     string          `json:"service_name"`
	LocationName    string          `json:"location_name,omitempty"`
	Value           decimal.Decimal `json:"value"`
	Notes           string          `json:"notes,omitempty"`
}
