package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReminderType is the kind of care a reminder is about.
type ReminderType string

const (
	ReminderTypeVaccination ReminderType = "vaccination"
	ReminderTypeMedication  ReminderType = "medication"
	ReminderTypeCheckup     ReminderType = "checkup"
	ReminderTypeGrooming    ReminderType = "grooming"
	ReminderTypeTreatment   ReminderType = "treatment"
	ReminderTypeAppointment ReminderType = "appointment"
	ReminderTypeBirthday    ReminderType = "birthday"
	ReminderTypeOther       ReminderType = "other"
)

func (t ReminderType) Valid() bool {
	switch t {
	case ReminderTypeVaccination, ReminderTypeMedication, ReminderTypeCheckup, ReminderTypeGrooming,
		ReminderTypeTreatment, ReminderTypeAppointment, ReminderTypeBirthday, ReminderTypeOther:
		return true
	}
	return false
}

func (t ReminderType) Value() (driver.Value, error) { return string(t), nil }

func (t *ReminderType) Scan(value interface{}) error {
	s, err := scanString(value)
	*t = ReminderType(s)
	return err
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func (p Priority) Value() (driver.Value, error) { return string(p), nil }

func (p *Priority) Scan(value interface{}) error {
	s, err := scanString(value)
	*p = Priority(s)
	return err
}

// ReminderStatus moves pending -> acknowledged -> completed, or pending -> completed.
type ReminderStatus string

const (
	ReminderStatusPending      ReminderStatus = "pending"
	ReminderStatusAcknowledged ReminderStatus = "acknowledged"
	ReminderStatusCompleted    ReminderStatus = "completed"
)

func (s ReminderStatus) Valid() bool {
	switch s {
	case ReminderStatusPending, ReminderStatusAcknowledged, ReminderStatusCompleted:
		return true
	}
	return false
}

func (s ReminderStatus) Value() (driver.Value, error) { return string(s), nil }

func (s *ReminderStatus) Scan(value interface{}) error {
	v, err := scanString(value)
	*s = ReminderStatus(v)
	return err
}

type Recurrence string

const (
	RecurrenceNone       Recurrence = "none"
	RecurrenceDaily      Recurrence = "daily"
	RecurrenceTwiceDaily Recurrence = "2x-daily"
	RecurrenceWeekly     Recurrence = "weekly"
	RecurrenceMonthly    Recurrence = "monthly"
	RecurrenceQuarterly  Recurrence = "quarterly"
	RecurrenceSemiAnnual Recurrence = "semi-annual"
	RecurrenceAnnual     Recurrence = "annual"
	RecurrenceCustom     Recurrence = "custom"
)

func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceTwiceDaily, RecurrenceWeekly, RecurrenceMonthly,
		RecurrenceQuarterly, RecurrenceSemiAnnual, RecurrenceAnnual, RecurrenceCustom:
		return true
	}
	return false
}

func (r Recurrence) Value() (driver.Value, error) { return string(r), nil }

func (r *Recurrence) Scan(value interface{}) error {
	s, err := scanString(value)
	*r = Recurrence(s)
	return err
}

type RecurrenceUnit string

const (
	RecurrenceUnitDays   RecurrenceUnit = "days"
	RecurrenceUnitWeeks  RecurrenceUnit = "weeks"
	RecurrenceUnitMonths RecurrenceUnit = "months"
)

func (u RecurrenceUnit) Valid() bool {
	switch u {
	case RecurrenceUnitDays, RecurrenceUnitWeeks, RecurrenceUnitMonths:
		return true
	}
	return false
}

func (u RecurrenceUnit) Value() (driver.Value, error) { return string(u), nil }

func (u *RecurrenceUnit) Scan(value interface{}) error {
	s, err := scanString(value)
	*u = RecurrenceUnit(s)
	return err
}

// EntityType names the source of an auto-created reminder.
type EntityType string

const (
	EntityTypeAppointment EntityType = "appointment"
	EntityTypeCareLog     EntityType = "care_log"
)

func (e EntityType) Valid() bool {
	switch e {
	case EntityTypeAppointment, EntityTypeCareLog:
		return true
	}
	return false
}

func (e EntityType) Value() (driver.Value, error) { return string(e), nil }

func (e *EntityType) Scan(value interface{}) error {
	s, err := scanString(value)
	*e = EntityType(s)
	return err
}

type Reminder struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	PetID  uuid.UUID `gorm:"type:uuid;index;not null" json:"petId"`

	Type        ReminderType   `gorm:"type:varchar(20);not null" json:"type"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	DueDate     string         `gorm:"type:varchar(10);index;not null" json:"dueDate"` // YYYY-MM-DD, local wall date
	Priority    Priority       `gorm:"type:varchar(10);not null" json:"priority"`
	Status      ReminderStatus `gorm:"type:varchar(20);index;not null" json:"status"`

	Recurrence               Recurrence      `gorm:"type:varchar(20);not null" json:"recurrence"`
	CustomRecurrenceInterval *int            `json:"customRecurrenceInterval,omitempty"`
	CustomRecurrenceUnit     *RecurrenceUnit `gorm:"type:varchar(10)" json:"customRecurrenceUnit,omitempty"`

	// ReminderIntervalDays holds minutes before each dose for daily medication
	// reminders and days before the due date for everything else. Read it through
	// DoseOffsetMinutes / ReminderOffsetDays.
	ReminderIntervalDays int        `gorm:"not null;default:0" json:"reminderIntervalDays"`
	MedicationTimes      StringList `gorm:"type:text" json:"medicationTimes"`
	ReminderTimesUTC     StringList `gorm:"type:text" json:"reminderTimesUtc"`

	NotificationSent bool `gorm:"not null;default:false" json:"notificationSent"`

	RelatedEntityType *EntityType `gorm:"type:varchar(20);uniqueIndex:idx_reminder_back_reference" json:"relatedEntityType,omitempty"`
	RelatedEntityID   *uuid.UUID  `gorm:"type:uuid;uniqueIndex:idx_reminder_back_reference" json:"relatedEntityId,omitempty"`

	FileURLs StringList `gorm:"type:text" json:"fileUrls"`

	RecurrenceLabel  string `gorm:"-" json:"recurrenceLabel"`
	DoseOffsetMins   int    `gorm:"-" json:"doseOffsetMinutes"`
	RemindDaysBefore int    `gorm:"-" json:"reminderOffsetDays"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *Reminder) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

// UsesDoseOffset reports whether ReminderIntervalDays is a per-dose minute offset.
func (r *Reminder) UsesDoseOffset() bool {
	return r.Type == ReminderTypeMedication &&
		(r.Recurrence == RecurrenceDaily || r.Recurrence == RecurrenceTwiceDaily)
}

// DoseOffsetMinutes returns the minutes before each dose, or 0 when the
// reminder is not a daily medication reminder.
func (r *Reminder) DoseOffsetMinutes() int {
	if !r.UsesDoseOffset() {
		return 0
	}
	return r.ReminderIntervalDays
}

// ReminderOffsetDays returns the days before the due date, or 0 for daily
// medication reminders.
func (r *Reminder) ReminderOffsetDays() int {
	if r.UsesDoseOffset() {
		return 0
	}
	return r.ReminderIntervalDays
}

// IsSourceOwned reports whether an appointment or care log owns this reminder.
func (r *Reminder) IsSourceOwned() bool {
	return r.RelatedEntityType != nil && r.RelatedEntityID != nil
}
