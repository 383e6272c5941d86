package models

import "time"

// Location is an attendance address of one professional. At most one
// location per professional carries IsDefault.
type Location struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ProfessionalID uint         `gorm:"index" json:"professional_id"`
	Professional   Professional `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Name      string `gorm:"size:100;not null" json:"name"`
	Address   string `gorm:"size:255" json:"address"`
	IsDefault bool   `gorm:"default:false" json:"is_default"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
