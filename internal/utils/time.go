package utils

import (
	"fmt"
	"time"

	"github.com/wanhsuan/healthstash/internal/constants"
)

// ParseTime parses a time-of-day string in the standard format (HH:MM).
func ParseTime(timeStr string) (hour, minute int, err error) {
	t, err := time.Parse(constants.TimeFormat, timeStr)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}

// FormatTime renders an hour and minute as zero-padded HH:MM.
func FormatTime(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// ValidTimeFormat checks if the string matches the standard time format.
func ValidTimeFormat(timeStr string) bool {
	_, _, err := ParseTime(timeStr)
	return err == nil
}

// NextOccurrence returns the next instant the given time of day occurs
// strictly after now: today if the time has not yet passed, otherwise
// tomorrow. Seconds and below are zeroed.
func NextOccurrence(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
