package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SalonID uint   `gorm:"index;not null" json:"salonId"`
	Salon   *Salon `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	StaffID *uint `gorm:"index" json:"staffId"`
	Staff   *User `gorm:"foreignKey:StaffID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	ServiceID *uint    `gorm:"index" json:"serviceId"`
	Service   *Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	CustomerName    string     `gorm:"size:100;not null" json:"customerName"`
	CustomerPhone   *string    `gorm:"size:20" json:"customerPhone"`
	AppointmentTime *time.Time `gorm:"index" json:"appointmentTime"`

	Status        string `gorm:"size:20;default:'scheduled'" json:"status"`
	PaymentStatus string `gorm:"size:20;default:'unpaid'" json:"paymentStatus"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
