package models

import "time"

type Payment struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	AppointmentID uint         `gorm:"index;not null" json:"appointmentId"`
	Appointment   *Appointment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Amount float64 `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method string  `gorm:"size:30;not null" json:"method"`
	Status string  `gorm:"size:20;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
