package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Appointment struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	PetID  uuid.UUID `gorm:"type:uuid;index;not null" json:"petId"`

	Title    string `gorm:"not null" json:"title"`
	VetName  string `json:"vetName"`
	Location string `json:"location"`
	Date     string `gorm:"type:varchar(10);index;not null" json:"date"`
	Time     string `gorm:"type:varchar(5)" json:"time"`
	Status   string `gorm:"type:varchar(20);default:'scheduled'" json:"status"` // scheduled, completed, cancelled
	Notes    string `gorm:"type:text" json:"notes"`

	ReminderIntervalDays int `gorm:"not null;default:0" json:"reminderIntervalDays"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
