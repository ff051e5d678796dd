package utils

import (
	"fmt"
	"time"
)

const (
	ClockFormat  = "15:04"
	DefaultClock = "00:00"

	minutesPerDay = 24 * 60
)

// ClockToMinutes parses an HH:MM clock into minutes after midnight.
func ClockToMinutes(clock string) (int, error) {
	t, err := time.Parse(ClockFormat, clock)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", clock, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func minutesToClock(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// LocalToUTCClock reads clock as a wall time on now's date in now's location
// and returns the UTC wall clock for that instant. The date is dropped.
func LocalToUTCClock(clock string, now time.Time) string {
	if clock == "" {
		return DefaultClock
	}
	minutes, err := ClockToMinutes(clock)
	if err != nil {
		return DefaultClock
	}
	y, m, d := now.Date()
	local := time.Date(y, m, d, minutes/60, minutes%60, 0, 0, now.Location())
	return local.UTC().Format(ClockFormat)
}

// ComputeReminderOffsetTime returns the clock offsetMinutes before dose,
// wrapping past midnight into the previous day's clock.
func ComputeReminderOffsetTime(dose string, offsetMinutes int) string {
	if dose == "" {
		return DefaultClock
	}
	minutes, err := ClockToMinutes(dose)
	if err != nil {
		return DefaultClock
	}
	return minutesToClock(minutes - offsetMinutes)
}

// ReminderTimesUTC computes the UTC clock at which each dose's reminder fires.
func ReminderTimesUTC(doses []string, offsetMinutes int, now time.Time) []string {
	out := make([]string, 0, len(doses))
	for _, dose := range doses {
		out = append(out, LocalToUTCClock(ComputeReminderOffsetTime(dose, offsetMinutes), now))
	}
	return out
}
