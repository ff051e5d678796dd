package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationLog records every push attempt made by the dispatcher.
type NotificationLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	PetID        uuid.UUID `gorm:"type:uuid;index" json:"petId"`
	EntityType   string    `gorm:"type:varchar(20)" json:"entityType"` // reminder, care_log
	EntityID     uuid.UUID `gorm:"type:uuid;index" json:"entityId"`
	Kind         string    `gorm:"type:varchar(20)" json:"kind"` // reminder, care_alert
	Title        string    `json:"title"`
	Body         string    `gorm:"type:text" json:"body"`
	Status       string    `gorm:"type:varchar(20)" json:"status"` // sent, failed
	ErrorMessage string    `gorm:"type:text" json:"errorMessage"`
	Channel      string    `gorm:"type:varchar(20)" json:"channel"` // whatsapp, sms
	SentAt       time.Time `json:"sentAt"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (n *NotificationLog) BeforeCreate(tx *gorm.DB) (err error) {
	n.ID = uuid.New()
	return
}
