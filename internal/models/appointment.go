package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ProfessionalID uint         `gorm:"index:idx_appointments_prof_start,priority:1" json:"professional_id"`
	Professional   Professional `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	// Exactly one of the three patient references is set.
	MemberID *uint   `json:"member_id"`
	Member   *Member `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"member,omitempty"`

	DependentID *uint      `json:"dependent_id"`
	Dependent   *Dependent `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"dependent,omitempty"`

	PrivatePatientID *uint           `json:"private_patient_id"`
	PrivatePatient   *PrivatePatient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"private_patient,omitempty"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	LocationID *uint     `json:"location_id"`
	Location   *Location `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"location,omitempty"`

	StartAt         time.Time       `gorm:"index:idx_appointments_prof_start,priority:2;not null" json:"start_at"`
	DurationMinutes int             `gorm:"not null" json:"duration_minutes"`
	Value           decimal.Decimal `gorm:"type:numeric(10,2)" json:"value"`

	Status string `gorm:"size:20;default:'scheduled'" json:"status"`
	Notes  string `gorm:"size:255" json:"notes"`

	RecurrenceGroupID *uuid.UUID `gorm:"type:uuid;index" json:"recurrence_group_id"`

	CancelledAt        *time.Time `json:"cancelled_at"`
	CancelledBy        *uint      `json:"cancelled_by"`
	CancellationReason *string    `gorm:"size:255" json:"cancellation_reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EndAt is the exclusive end of the occupied slot.
func (a *Appointment) EndAt() time.Time {
	return a.StartAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// PatientName resolves the display name of whichever patient reference is
// set. Associations must be preloaded.
func (a *Appointment) PatientName() string {
	switch {
	case a.Member != nil:
		return a.Member.Name
	case a.Dependent != nil:
		return a.Dependent.Name
	case a.PrivatePatient != nil:
		return a.PrivatePatient.Name
	}
	return ""
}
