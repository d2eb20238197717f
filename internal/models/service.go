package models

import "time"

type Service struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	SalonID uint   `gorm:"index;not null" json:"salonId"`
	Salon   *Salon `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Name        string  `gorm:"size:100;not null" json:"name"`
	Description *string `gorm:"size:255" json:"description"`
	Price       float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	DurationMin int     `gorm:"not null" json:"durationMin"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
