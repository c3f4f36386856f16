package dateutil

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnsupportedUnit is returned by StartOf and EndOf for units they cannot bound.
var ErrUnsupportedUnit = errors.New("unsupported time unit")

// Unit is a calendar span that StartOf and EndOf can bound.
type Unit string

const (
	UnitDay      Unit = "day"
	UnitWeek     Unit = "week"
	UnitWorkWeek Unit = "workWeek"
	UnitMonth    Unit = "month"
	UnitYear     Unit = "year"
	UnitDecade   Unit = "decade"
)

// lastNanosecond is the final wall-clock instant of a day.
const lastNanosecond = 999_999_999

// ISOWeekday returns the ISO weekday of t: 1 for Monday through 7 for Sunday.
func ISOWeekday(t time.Time) int {
	return (int(t.Weekday())+6)%7 + 1
}

// FirstDayOfMonth returns midnight of the 1st of t's month in t's location.
func FirstDayOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// LastDayOfMonth returns midnight of the last day of t's month in t's location.
func LastDayOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
}

// FirstDayOfWeek returns midnight of the first day of the week containing t,
// where weekStart is the ISO weekday that opens a week.
func FirstDayOfWeek(t time.Time, weekStart int) time.Time {
	offset := (ISOWeekday(t) - weekStart + 7) % 7
	return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, t.Location())
}

// WeekRange returns the first and last day of the week containing t.
func WeekRange(t time.Time, weekStart int) (first, last time.Time) {
	first = FirstDayOfWeek(t, weekStart)
	last = first.AddDate(0, 0, 6)
	return first, last
}

// StartOf returns the first instant of the unit containing t, in t's location.
// A workWeek always opens on Monday regardless of weekStart.
func StartOf(t time.Time, unit Unit, weekStart int) (time.Time, error) {
	switch unit {
	case UnitDay:
		return TruncateToDay(t), nil
	case UnitWeek:
		if err := ValidateWeekStart(weekStart); err != nil {
			return time.Time{}, err
		}
		return FirstDayOfWeek(t, weekStart), nil
	case UnitWorkWeek:
		return FirstDayOfWeek(t, 1), nil
	case UnitMonth:
		return FirstDayOfMonth(t), nil
	case UnitYear:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location()), nil
	case UnitDecade:
		return time.Date(t.Year()-mod(t.Year(), 10), time.January, 1, 0, 0, 0, 0, t.Location()), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnsupportedUnit, unit)
	}
}

// EndOf returns the last instant (23:59:59.999999999 local) of the unit
// containing t. For UnitMonth with viewValue > 1 the span covers viewValue
// months and is padded forward to the end of the week containing the last
// day of the final month. A workWeek ends on Friday.
func EndOf(t time.Time, unit Unit, viewValue, weekStart int) (time.Time, error) {
	switch unit {
	case UnitDay:
		return endOfDay(t), nil
	case UnitWeek:
		if err := ValidateWeekStart(weekStart); err != nil {
			return time.Time{}, err
		}
		return endOfDay(FirstDayOfWeek(t, weekStart).AddDate(0, 0, 6)), nil
	case UnitWorkWeek:
		return endOfDay(FirstDayOfWeek(t, 1).AddDate(0, 0, 4)), nil
	case UnitMonth:
		if viewValue <= 1 {
			return endOfDay(LastDayOfMonth(t)), nil
		}
		if err := ValidateWeekStart(weekStart); err != nil {
			return time.Time{}, err
		}
		last := LastDayOfMonth(FirstDayOfMonth(t).AddDate(0, viewValue-1, 0))
		return endOfDay(FirstDayOfWeek(last, weekStart).AddDate(0, 0, 6)), nil
	case UnitYear:
		return time.Date(t.Year(), time.December, 31, 23, 59, 59, lastNanosecond, t.Location()), nil
	case UnitDecade:
		end := t.Year() - mod(t.Year(), 10) + 9
		return time.Date(end, time.December, 31, 23, 59, 59, lastNanosecond, t.Location()), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnsupportedUnit, unit)
	}
}

// DaysBetween returns the number of calendar days from a to b by wall-clock date.
// It is negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(CivilDate(b).Sub(CivilDate(a)).Hours() / 24)
}

// DateRange returns every civil date from start to end inclusive, ascending.
// It returns an empty slice when start is after end.
func DateRange(start, end time.Time) []time.Time {
	n := DaysBetween(start, end)
	if n < 0 {
		return []time.Time{}
	}
	first := CivilDate(start)
	days := make([]time.Time, 0, n+1)
	for i := 0; i <= n; i++ {
		days = append(days, first.AddDate(0, 0, i))
	}
	return days
}

// GenerateDateRange validates two YYYY-MM-DD strings and returns the inclusive
// range between them. A start after end yields an empty range, not an error.
func GenerateDateRange(start, end string) ([]time.Time, error) {
	s, err := ParseDate(start)
	if err != nil {
		return nil, fmt.Errorf("range start: %w", err)
	}
	e, err := ParseDate(end)
	if err != nil {
		return nil, fmt.Errorf("range end: %w", err)
	}
	return DateRange(s, e), nil
}

// WeekOfYear returns the week number of t for a calendar whose weeks open on
// weekStart and whose first week of the year holds at least minimalDays days
// of January. ISO 8601 is weekStart=1, minimalDays=4.
func WeekOfYear(t time.Time, weekStart, minimalDays int) (year, week int) {
	date := CivilDate(t)
	year = date.Year()

	firstWeek := func(y int) time.Time {
		jan1 := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
		start := FirstDayOfWeek(jan1, weekStart)
		// Days of the containing week that fall in the new year.
		if 7-DaysBetween(start, jan1) < minimalDays {
			start = start.AddDate(0, 0, 7)
		}
		return start
	}

	start := firstWeek(year)
	if date.Before(start) {
		year--
		start = firstWeek(year)
	} else if next := firstWeek(year + 1); !date.Before(next) {
		year++
		start = next
	}
	return year, DaysBetween(start, date)/7 + 1
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, lastNanosecond, t.Location())
}

func mod(a, b int) int {
	return (a%b + b) % b
}
