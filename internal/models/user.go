package models

import "time"

// User is a staff member or customer account. PasswordHash is never
// serialized.
type User struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	SalonID uint   `gorm:"index;not null" json:"salonId"`
	Salon   *Salon `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Name           string  `gorm:"size:100;not null" json:"name"`
	Email          string  `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone          *string `gorm:"size:20;uniqueIndex" json:"phone"`
	Role           string  `gorm:"size:20;not null" json:"role"`
	PasswordHash   string  `gorm:"size:255;not null" json:"-"`
	CommissionRate float64 `gorm:"default:0" json:"commissionRate"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
