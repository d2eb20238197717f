package models

import "time"

type Salon struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Name     string  `gorm:"size:100;not null" json:"name"`
	Location *string `gorm:"size:255" json:"location"`
	Phone    *string `gorm:"size:20" json:"phone"`
	Timezone string  `gorm:"size:64;default:'UTC'" json:"timezone"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
