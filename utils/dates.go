// utils/dates.go
package utils

import (
	"fmt"
	"time"
)

// DateFormat is the stored shape of every calendar date (YYYY-MM-DD).
const DateFormat = "2006-01-02"

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func DaysBetween(start, end time.Time) int {
	start = BeginningOfDay(start)
	end = BeginningOfDay(end)
	return int(end.Sub(start).Hours() / 24)
}

// Today returns now's calendar date in now's own location.
func Today(now time.Time) string {
	return now.Format(DateFormat)
}

// LoadLocation resolves an IANA zone name; "" and "Local" mean the host zone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}

// ParseDate reads a YYYY-MM-DD string as midnight UTC. UTC is used only as a
// neutral frame for day arithmetic; the result never feeds a zone conversion.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateFormat, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// DaysBetweenDates counts calendar days from start to end.
func DaysBetweenDates(start, end string) (int, error) {
	s, err := ParseDate(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return 0, err
	}
	return DaysBetween(s, e), nil
}

// AddMonths adds months to t, clamping the day to the target month's length
// so Jan 31 + 1 month is Feb 28/29 rather than early March.
func AddMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}
