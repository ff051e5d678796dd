package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CareLogType string

const (
	CareLogTypeVaccination CareLogType = "vaccination"
	CareLogTypeMedication  CareLogType = "medication"
	CareLogTypeVetVisit    CareLogType = "vet_visit"
	CareLogTypeGrooming    CareLogType = "grooming"
	CareLogTypeWeight      CareLogType = "weight"
	CareLogTypeFeeding     CareLogType = "feeding"
	CareLogTypeExercise    CareLogType = "exercise"
	CareLogTypeOther       CareLogType = "other"
)

func (t CareLogType) Valid() bool {
	switch t {
	case CareLogTypeVaccination, CareLogTypeMedication, CareLogTypeVetVisit, CareLogTypeGrooming,
		CareLogTypeWeight, CareLogTypeFeeding, CareLogTypeExercise, CareLogTypeOther:
		return true
	}
	return false
}

func (t CareLogType) Value() (driver.Value, error) { return string(t), nil }

func (t *CareLogType) Scan(value interface{}) error {
	s, err := scanString(value)
	*t = CareLogType(s)
	return err
}

type CareLogStatus string

const (
	CareLogStatusCompleted CareLogStatus = "completed"
	CareLogStatusUpcoming  CareLogStatus = "upcoming"
	CareLogStatusOverdue   CareLogStatus = "overdue"
)

func (s CareLogStatus) Valid() bool {
	switch s {
	case CareLogStatusCompleted, CareLogStatusUpcoming, CareLogStatusOverdue:
		return true
	}
	return false
}

func (s CareLogStatus) Value() (driver.Value, error) { return string(s), nil }

func (s *CareLogStatus) Scan(value interface{}) error {
	v, err := scanString(value)
	*s = CareLogStatus(v)
	return err
}

// CareLog records a care action for a pet and optionally when it is next due.
type CareLog struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	PetID  uuid.UUID `gorm:"type:uuid;index;not null" json:"petId"`

	Type        CareLogType   `gorm:"type:varchar(20);not null" json:"type"`
	Title       string        `json:"title"`
	Date        string        `gorm:"type:varchar(10)" json:"date"`
	NextDueDate string        `gorm:"type:varchar(10);index" json:"nextDueDate"`
	Status      CareLogStatus `gorm:"type:varchar(20);index;not null" json:"status"`
	Notes       string        `gorm:"type:text" json:"notes"`

	ReminderIntervalDays int `gorm:"not null;default:0" json:"reminderIntervalDays"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (l *CareLog) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}

// ReminderType maps the care category onto the reminder category it spawns.
func (t CareLogType) ReminderType() ReminderType {
	switch t {
	case CareLogTypeVaccination:
		return ReminderTypeVaccination
	case CareLogTypeMedication:
		return ReminderTypeMedication
	case CareLogTypeVetVisit:
		return ReminderTypeCheckup
	case CareLogTypeGrooming:
		return ReminderTypeGrooming
	case CareLogTypeWeight, CareLogTypeFeeding, CareLogTypeExercise, CareLogTypeOther:
		return ReminderTypeOther
	}
	return ReminderTypeOther
}
