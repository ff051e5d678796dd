package utils

import (
	"fmt"

	"petcare-backend/models"
)

// DescribeRecurrence returns the display label for a recurrence policy.
// customInterval and customUnit are only read for custom recurrence.
// Unknown values are returned unchanged.
func DescribeRecurrence(recurrence models.Recurrence, customInterval int, customUnit models.RecurrenceUnit) string {
	switch recurrence {
	case models.RecurrenceNone:
		return "One-time"
	case models.RecurrenceDaily:
		return "Daily"
	case models.RecurrenceTwiceDaily:
		return "2x Daily"
	case models.RecurrenceWeekly:
		return "Weekly"
	case models.RecurrenceMonthly:
		return "Monthly"
	case models.RecurrenceQuarterly:
		return "Every 3 months"
	case models.RecurrenceSemiAnnual:
		return "Every 6 months"
	case models.RecurrenceAnnual:
		return "Yearly"
	case models.RecurrenceCustom:
		return fmt.Sprintf("Every %d %s", customInterval, customUnit)
	}
	return string(recurrence)
}

// ReminderRecurrenceLabel is DescribeRecurrence applied to a stored reminder.
func ReminderRecurrenceLabel(r *models.Reminder) string {
	interval := 0
	var unit models.RecurrenceUnit
	if r.CustomRecurrenceInterval != nil {
		interval = *r.CustomRecurrenceInterval
	}
	if r.CustomRecurrenceUnit != nil {
		unit = *r.CustomRecurrenceUnit
	}
	return DescribeRecurrence(r.Recurrence, interval, unit)
}

// NextDueDate returns the occurrence after dueDate. ok is false for one-time
// reminders and for custom recurrence without a usable interval.
func NextDueDate(dueDate string, recurrence models.Recurrence, customInterval int, customUnit models.RecurrenceUnit) (next string, ok bool, err error) {
	due, err := ParseDate(dueDate)
	if err != nil {
		return "", false, err
	}

	switch recurrence {
	case models.RecurrenceNone:
		return "", false, nil
	case models.RecurrenceDaily, models.RecurrenceTwiceDaily:
		due = due.AddDate(0, 0, 1)
	case models.RecurrenceWeekly:
		due = due.AddDate(0, 0, 7)
	case models.RecurrenceMonthly:
		due = AddMonths(due, 1)
	case models.RecurrenceQuarterly:
		due = AddMonths(due, 3)
	case models.RecurrenceSemiAnnual:
		due = AddMonths(due, 6)
	case models.RecurrenceAnnual:
		due = AddMonths(due, 12)
	case models.RecurrenceCustom:
		if customInterval <= 0 {
			return "", false, nil
		}
		switch customUnit {
		case models.RecurrenceUnitDays:
			due = due.AddDate(0, 0, customInterval)
		case models.RecurrenceUnitWeeks:
			due = due.AddDate(0, 0, 7*customInterval)
		case models.RecurrenceUnitMonths:
			due = AddMonths(due, customInterval)
		default:
			return "", false, nil
		}
	default:
		return "", false, nil
	}
	return due.Format(DateFormat), true, nil
}

// NextDueDateAfter advances dueDate occurrence by occurrence until it is
// strictly after today.
func NextDueDateAfter(dueDate, today string, recurrence models.Recurrence, customInterval int, customUnit models.RecurrenceUnit) (string, bool, error) {
	next, ok, err := NextDueDate(dueDate, recurrence, customInterval, customUnit)
	for ok && err == nil && next <= today {
		next, ok, err = NextDueDate(next, recurrence, customInterval, customUnit)
	}
	return next, ok, err
}
