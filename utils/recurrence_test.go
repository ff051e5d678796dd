package utils

import (
	"testing"

	"petcare-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeRecurrence(t *testing.T) {
	tests := []struct {
		rec  models.Recurrence
		want string
	}{
		{models.RecurrenceNone, "One-time"},
		{models.RecurrenceDaily, "Daily"},
		{models.RecurrenceTwiceDaily, "2x Daily"},
		{models.RecurrenceWeekly, "Weekly"},
		{models.RecurrenceMonthly, "Monthly"},
		{models.RecurrenceQuarterly, "Every 3 months"},
		{models.RecurrenceSemiAnnual, "Every 6 months"},
		{models.RecurrenceAnnual, "Yearly"},
		{models.Recurrence("fortnightly"), "fortnightly"},
	}
	for _, tt := range tests {
		t.Run(string(tt.rec), func(t *testing.T) {
			assert.Equal(t, tt.want, DescribeRecurrence(tt.rec, 0, ""))
		})
	}

	assert.Equal(t, "Every 3 weeks", DescribeRecurrence(models.RecurrenceCustom, 3, models.RecurrenceUnitWeeks))
	assert.Equal(t, "Daily", DescribeRecurrence(models.RecurrenceDaily, 3, models.RecurrenceUnitWeeks),
		"custom fields are ignored for named policies")
}

func TestReminderRecurrenceLabel(t *testing.T) {
	interval := 10
	unit := models.RecurrenceUnitDays
	r := &models.Reminder{
		Recurrence:               models.RecurrenceCustom,
		CustomRecurrenceInterval: &interval,
		CustomRecurrenceUnit:     &unit,
	}
	assert.Equal(t, "Every 10 days", ReminderRecurrenceLabel(r))

	assert.Equal(t, "Weekly", ReminderRecurrenceLabel(&models.Reminder{Recurrence: models.RecurrenceWeekly}))
}

func TestNextDueDate(t *testing.T) {
	tests := []struct {
		name     string
		due      string
		rec      models.Recurrence
		interval int
		unit     models.RecurrenceUnit
		want     string
		ok       bool
	}{
		{"one-time", "2024-03-01", models.RecurrenceNone, 0, "", "", false},
		{"daily", "2024-02-28", models.RecurrenceDaily, 0, "", "2024-02-29", true},
		{"twice daily advances a day", "2024-12-31", models.RecurrenceTwiceDaily, 0, "", "2025-01-01", true},
		{"weekly", "2024-03-01", models.RecurrenceWeekly, 0, "", "2024-03-08", true},
		{"monthly clamps to month end", "2024-01-31", models.RecurrenceMonthly, 0, "", "2024-02-29", true},
		{"quarterly", "2024-11-30", models.RecurrenceQuarterly, 0, "", "2025-02-28", true},
		{"semi-annual", "2024-08-31", models.RecurrenceSemiAnnual, 0, "", "2025-02-28", true},
		{"annual from leap day", "2024-02-29", models.RecurrenceAnnual, 0, "", "2025-02-28", true},
		{"custom days", "2024-03-01", models.RecurrenceCustom, 10, models.RecurrenceUnitDays, "2024-03-11", true},
		{"custom weeks", "2024-01-01", models.RecurrenceCustom, 2, models.RecurrenceUnitWeeks, "2024-01-15", true},
		{"custom months", "2024-01-15", models.RecurrenceCustom, 18, models.RecurrenceUnitMonths, "2025-07-15", true},
		{"custom without interval", "2024-01-15", models.RecurrenceCustom, 0, models.RecurrenceUnitDays, "", false},
		{"custom without unit", "2024-01-15", models.RecurrenceCustom, 3, "", "", false},
		{"unknown policy", "2024-01-15", models.Recurrence("hourly"), 0, "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := NextDueDate(tt.due, tt.rec, tt.interval, tt.unit)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, _, err := NextDueDate("03/01/2024", models.RecurrenceDaily, 0, "")
	assert.Error(t, err)
}

func TestNextDueDateAfter(t *testing.T) {
	next, ok, err := NextDueDateAfter("2024-01-01", "2024-01-10", models.RecurrenceWeekly, 0, "")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2024-01-15", next)

	next, ok, err = NextDueDateAfter("2024-01-10", "2024-01-10", models.RecurrenceDaily, 0, "")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2024-01-11", next, "an occurrence due today is not in the future")

	next, ok, err = NextDueDateAfter("2024-05-01", "2024-01-10", models.RecurrenceMonthly, 0, "")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2024-06-01", next, "a future due date still advances one step")

	_, ok, err = NextDueDateAfter("2024-01-01", "2024-01-10", models.RecurrenceNone, 0, "")
	require.NoError(t, err)
	assert.False(t, ok)
}
