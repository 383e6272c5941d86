package models

import "time"

// Subscription status values mirrored from the billing collaborator. The
// scheduling core only reads these; the daily sweep flips active → expired.
const (
	SubscriptionActive  = "active"
	SubscriptionExpired = "expired"
)

type Member struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20" json:"phone"`
	Email string `gorm:"size:100" json:"email"`

	SubscriptionStatus string     `gorm:"size:20;default:'active'" json:"subscription_status"`
	SubscriptionExpiry *time.Time `json:"subscription_expiry"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Dependent struct {
	ID uint `gorm:"primaryKey" json:"id"`

	MemberID uint   `json:"member_id"`
	Member   Member `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"member"`

	Name      string     `gorm:"size:100;not null" json:"name"`
	BirthDate *time.Time `json:"birth_date"`

	SubscriptionStatus string     `gorm:"size:20;default:'active'" json:"subscription_status"`
	SubscriptionExpiry *time.Time `json:"subscription_expiry"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PrivatePatient struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ProfessionalID uint         `gorm:"index" json:"professional_id"`
	Professional   Professional `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20" json:"phone"`
	Email string `gorm:"size:100" json:"email"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
