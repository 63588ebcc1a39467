package validation

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/wanhsuan/healthstash/internal/constants"
)

var (
	ErrEmptyName      = errors.New("name cannot be empty")
	ErrNameTooLong    = errors.New("name must be 10 characters or fewer")
	ErrDuplicateName  = errors.New("a medication with this name already exists")
	ErrNotANumber     = errors.New("quantity must be a number")
	ErrOutOfRange     = errors.New("quantity must be between 1 and 500")
	ErrIncompleteTime = errors.New("time requires all four digits")
	ErrInvalidHour    = errors.New("hour must be 00-23")
	ErrInvalidMinute  = errors.New("minute must be 00-59")
)

// Name validates a medication name: non-blank and at most 10 characters.
// Uniqueness is checked separately against the store (see NameChecker).
func Name(s string) error {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(trimmed) > constants.NameMaxLen {
		return ErrNameTooLong
	}
	return nil
}

// Quantity validates a total-quantity input string. Empty input is valid
// (not yet specified); anything else must parse to an integer in [1,500].
func Quantity(s string) error {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return ErrNotANumber
	}
	if n < constants.QuantityMin || n > constants.QuantityMax {
		return ErrOutOfRange
	}
	return nil
}

// TimeInput captures a time of day digit by digit, H1 H2 : M1 M2. Each
// field holds zero or one decimal digit.
type TimeInput struct {
	H1, H2, M1, M2 string
}

// Filled reports whether the user has entered anything at all. An unfilled
// time is valid and simply excluded from the schedule.
func (t TimeInput) Filled() bool {
	return t.H1 != "" || t.H2 != "" || t.M1 != "" || t.M2 != ""
}

func (t TimeInput) digits() []string {
	return []string{t.H1, t.H2, t.M1, t.M2}
}

func (t TimeInput) complete() bool {
	for _, d := range t.digits() {
		if len(d) != 1 || d[0] < '0' || d[0] > '9' {
			return false
		}
	}
	return true
}

// Validate checks a filled time for completeness and range. Unfilled times
// pass.
func (t TimeInput) Validate() error {
	if !t.Filled() {
		return nil
	}
	if !t.complete() {
		return ErrIncompleteTime
	}
	hour, _ := strconv.Atoi(t.H1 + t.H2)
	minute, _ := strconv.Atoi(t.M1 + t.M2)
	if hour > 23 {
		return ErrInvalidHour
	}
	if minute > 59 {
		return ErrInvalidMinute
	}
	return nil
}

// TimeString renders the input as HH:MM. ok is false when the input is
// unfilled or invalid.
func (t TimeInput) TimeString() (string, bool) {
	if !t.complete() || t.Validate() != nil {
		return "", false
	}
	return t.H1 + t.H2 + ":" + t.M1 + t.M2, true
}

// TimeInputFromString splits an HH:MM string back into digit fields, for
// pre-populating the edit form.
func TimeInputFromString(s string) (TimeInput, bool) {
	if len(s) != 5 || s[2] != ':' {
		return TimeInput{}, false
	}
	t := TimeInput{
		H1: string(s[0]), H2: string(s[1]),
		M1: string(s[3]), M2: string(s[4]),
	}
	if !t.complete() {
		return TimeInput{}, false
	}
	return t, true
}
