// Package dateutil provides date parsing, validation and calendar arithmetic.
//
// Calendar days are civil dates carried as time.Time at midnight UTC, the same
// value time.Parse("2006-01-02", s) returns. Instants that belong to a zone keep
// their own Location; functions that derive a local boundary (StartOf, EndOf)
// evaluate the wall clock in that Location so DST offsets are respected.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO day layout used for day keys.
const DateLayout = "2006-01-02"

// Validation errors.
var (
	ErrInvalidDateFormat = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidDateTime   = errors.New("invalid date-time")
	ErrInvalidClock      = errors.New("time must be in HH:MM or HH:MM:SS format")
	ErrEpochOutOfRange   = errors.New("epoch value out of range")
	ErrInvalidWeekStart  = errors.New("week start must be a weekday between 1 (Monday) and 7 (Sunday)")
	ErrInvalidWeekday    = errors.New("invalid weekday name")
)

// weekdayMap maps weekday names to ISO weekday numbers (1=Monday, 7=Sunday).
var weekdayMap = map[string]int{
	"monday":    1,
	"tuesday":   2,
	"wednesday": 3,
	"thursday":  4,
	"friday":    5,
	"saturday":  6,
	"sunday":    7,
}

// ParseWeekday parses a weekday name ("monday", "Sun", ...) into an ISO weekday number.
func ParseWeekday(s string) (int, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if n, ok := weekdayMap[name]; ok {
		return n, nil
	}
	if len(name) >= 3 {
		for full, n := range weekdayMap {
			if strings.HasPrefix(full, name) {
				return n, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
}

// WeekdayName returns the lowercase English name of an ISO weekday.
func WeekdayName(isoDay int) string {
	for name, n := range weekdayMap {
		if n == isoDay {
			return name
		}
	}
	return ""
}

// ValidateWeekStart returns ErrInvalidWeekStart unless ws is within 1..7.
func ValidateWeekStart(ws int) error {
	if ws < 1 || ws > 7 {
		return fmt.Errorf("%w: got %d", ErrInvalidWeekStart, ws)
	}
	return nil
}

// ParseDate parses a date string in YYYY-MM-DD format into a civil date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	return t, nil
}

// DayKey returns the YYYY-MM-DD key of t's wall-clock date.
func DayKey(t time.Time) string {
	return t.Format(DateLayout)
}

// TruncateToDay returns t with time set to midnight in t's location.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CivilDate returns the wall-clock date of t as a civil date (midnight UTC).
func CivilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the civil date of now in loc. A nil loc means time.Local.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return CivilDate(now.In(loc))
}

// SameDay reports whether a and b fall on the same wall-clock date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ParseRelativeDate parses a date string that can be:
//   - Empty string or "today": returns relativeTo date
//   - Absolute date: "2025-01-15" (YYYY-MM-DD)
//   - Keywords: "tomorrow", "yesterday"
//   - Weekday names: "monday" through "sunday" (next occurrence, always future)
//   - Prefixed: "next-monday", "last-friday", "next-week", "last-week"
//
// All inputs are case-insensitive. Results are civil dates.
// Returns ErrInvalidDateFormat for unrecognized input.
func ParseRelativeDate(s string, relativeTo time.Time) (time.Time, error) {
	today := CivilDate(relativeTo)
	input := strings.ToLower(strings.TrimSpace(s))

	switch input {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "next-week":
		return today.AddDate(0, 0, 7), nil
	case "last-week":
		return today.AddDate(0, 0, -7), nil
	}

	if name, ok := strings.CutPrefix(input, "next-"); ok {
		if target, ok := weekdayMap[name]; ok {
			return nextWeekday(today, target), nil
		}
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	if name, ok := strings.CutPrefix(input, "last-"); ok {
		if target, ok := weekdayMap[name]; ok {
			return previousWeekday(today, target), nil
		}
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}

	if target, ok := weekdayMap[input]; ok {
		return nextWeekday(today, target), nil
	}

	return ParseDate(input)
}

// nextWeekday returns the next occurrence of the given ISO weekday after today.
// If today is the target weekday, returns one week from today.
func nextWeekday(today time.Time, target int) time.Time {
	daysUntil := target - ISOWeekday(today)
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return today.AddDate(0, 0, daysUntil)
}

// previousWeekday returns the last occurrence of the given ISO weekday before today.
func previousWeekday(today time.Time, target int) time.Time {
	daysSince := ISOWeekday(today) - target
	if daysSince <= 0 {
		daysSince += 7
	}
	return today.AddDate(0, 0, -daysSince)
}
