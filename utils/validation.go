// utils/validation.go
package utils

import (
	"regexp"
	"strings"
	"time"
)

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
	return phonePattern.MatchString(cleaned)
}

// ValidateDate checks for a real calendar date in YYYY-MM-DD form.
func ValidateDate(date string) bool {
	_, err := time.Parse(DateFormat, date)
	return err == nil
}

// ValidateClock checks for an HH:MM wall clock.
func ValidateClock(clock string) bool {
	_, err := ClockToMinutes(clock)
	return err == nil
}
