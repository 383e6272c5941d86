package models

import "time"

// SchedulingAccess is a time-bounded grant allowing a professional to use
// the scheduling core. Rows are appended by the billing collaborator; the
// core only reads them.
type SchedulingAccess struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ProfessionalID uint         `gorm:"index:idx_sched_access_prof_created,priority:1" json:"professional_id"`
	Professional   Professional `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	GrantedAt time.Time `json:"granted_at"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Reason    string    `gorm:"size:100" json:"reason"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"index:idx_sched_access_prof_created,priority:2,sort:desc" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
