package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

// DateLayout is the calendar date format used in query strings and payloads.
const DateLayout = "2006-01-02"

// Day truncates t to its calendar date, expressed as UTC midnight so that
// dates compare equal regardless of the zone they were produced in.
func Day(t time.Time) time.Time {
	b := now.With(t).BeginningOfDay()
	return time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date.
func Today() time.Time {
	return Day(time.Now())
}

// AddDays moves a calendar date by n days.
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// ParseDateOr parses s, falling back to def when s is empty.
func ParseDateOr(s string, def time.Time) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return Day(def), nil
	}
	return ParseDate(s)
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return Day(t).Format(DateLayout)
}
