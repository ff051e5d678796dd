package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToday(t *testing.T) {
	instant := time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-10", Today(instant))
	assert.Equal(t, "2024-03-11", Today(instant.In(time.FixedZone("UTC+3", 3*60*60))))
	assert.Equal(t, "2024-03-10", Today(instant.In(time.FixedZone("UTC-8", -8*60*60))))
}

func TestDaysBetweenDates(t *testing.T) {
	days, err := DaysBetweenDates("2024-02-27", "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, 3, days)

	days, err = DaysBetweenDates("2024-03-01", "2024-02-27")
	require.NoError(t, err)
	assert.Equal(t, -3, days)

	_, err = DaysBetweenDates("2024-02-30", "2024-03-01")
	assert.Error(t, err)
}

func TestAddMonths(t *testing.T) {
	d := func(s string) time.Time {
		v, err := ParseDate(s)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "2024-02-29", AddMonths(d("2024-01-31"), 1).Format(DateFormat))
	assert.Equal(t, "2023-02-28", AddMonths(d("2023-01-31"), 1).Format(DateFormat))
	assert.Equal(t, "2025-01-15", AddMonths(d("2024-12-15"), 1).Format(DateFormat))
	assert.Equal(t, "2024-04-30", AddMonths(d("2024-03-31"), 1).Format(DateFormat))
}

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	loc, err = LoadLocation("UTC")
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	_, err = LoadLocation("Mars/Olympus_Mons")
	assert.Error(t, err)
}

func TestValidators(t *testing.T) {
	assert.True(t, ValidateDate("2024-02-29"))
	assert.False(t, ValidateDate("2023-02-29"))
	assert.False(t, ValidateDate("2024-2-9"))

	assert.True(t, ValidateClock("23:59"))
	assert.False(t, ValidateClock("24:00"))

	assert.True(t, ValidatePhone("+1 (555) 123-4567"))
	assert.False(t, ValidatePhone("call me"))
}
