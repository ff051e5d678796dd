package services

import "petcare-backend/models"

// DueState is where a due date sits relative to today.
type DueState string

const (
	DueUpcoming DueState = "upcoming"
	DueToday    DueState = "due_today"
	DueOverdue  DueState = "overdue"
)

// Classify compares zero-padded YYYY-MM-DD strings directly, so the result
// never depends on the process time zone.
func Classify(dueDate, today string) DueState {
	switch {
	case dueDate == today:
		return DueToday
	case dueDate < today:
		return DueOverdue
	default:
		return DueUpcoming
	}
}

// QualifiesForSweep reports whether the login sweep should notify about r.
func QualifiesForSweep(r *models.Reminder, today string) bool {
	switch r.Status {
	case models.ReminderStatusCompleted, models.ReminderStatusAcknowledged:
		return false
	case models.ReminderStatusPending:
		return r.DueDate != "" && r.DueDate <= today
	}
	return false
}

// CareLogOverdue is strict: a care log due today is not yet overdue.
func CareLogOverdue(l *models.CareLog, today string) bool {
	return l.NextDueDate != "" && l.NextDueDate < today && l.Status != models.CareLogStatusCompleted
}
