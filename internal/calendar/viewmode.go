// Package calendar builds calendar views: the days a period shows, the events
// on each day, the geometry of timed events, row grouping and period navigation.
package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/javiermolinar/almanac/internal/dateutil"
)

// ErrInvalidViewMode is returned for view modes with a bad unit or value.
var ErrInvalidViewMode = errors.New("invalid view mode")

// ViewMode is the granularity a calendar renders and navigates by.
// Value is how many units one view spans; it is always at least 1.
type ViewMode struct {
	Value int
	Unit  dateutil.Unit
}

// Common view modes.
var (
	MonthView = ViewMode{Value: 1, Unit: dateutil.UnitMonth}
	WeekView  = ViewMode{Value: 1, Unit: dateutil.UnitWeek}
	DayView   = ViewMode{Value: 1, Unit: dateutil.UnitDay}
)

// NewViewMode creates a validated ViewMode.
func NewViewMode(value int, unit dateutil.Unit) (ViewMode, error) {
	m := ViewMode{Value: value, Unit: unit}
	if err := m.Validate(); err != nil {
		return ViewMode{}, err
	}
	return m, nil
}

// Validate checks that the unit is month, week or day and the value is positive.
func (m ViewMode) Validate() error {
	switch m.Unit {
	case dateutil.UnitMonth, dateutil.UnitWeek, dateutil.UnitDay:
	default:
		return fmt.Errorf("%w: unit %q", ErrInvalidViewMode, m.Unit)
	}
	if m.Value < 1 {
		return fmt.Errorf("%w: value must be at least 1, got %d", ErrInvalidViewMode, m.Value)
	}
	return nil
}

// IsTimeline reports whether the mode renders a timed day/week timeline.
func (m ViewMode) IsTimeline() bool {
	return m.Unit == dateutil.UnitWeek || m.Unit == dateutil.UnitDay
}

// String formats the mode the way ParseViewMode reads it: "month", "2week", "3day".
func (m ViewMode) String() string {
	if m.Value == 1 {
		return string(m.Unit)
	}
	return strconv.Itoa(m.Value) + string(m.Unit)
}

var unitAliases = map[string]dateutil.Unit{
	"":       dateutil.UnitDay,
	"d":      dateutil.UnitDay,
	"day":    dateutil.UnitDay,
	"days":   dateutil.UnitDay,
	"w":      dateutil.UnitWeek,
	"week":   dateutil.UnitWeek,
	"weeks":  dateutil.UnitWeek,
	"m":      dateutil.UnitMonth,
	"month":  dateutil.UnitMonth,
	"months": dateutil.UnitMonth,
}

// ParseViewMode reads a view mode literal. A bare unit means one of it
// ("month", "week", "day"); a bare number means that many days ("3");
// a number with a unit suffix scales the unit ("2week", "3 days", "4d").
func ParseViewMode(s string) (ViewMode, error) {
	input := strings.ToLower(strings.TrimSpace(s))
	if input == "" {
		return ViewMode{}, fmt.Errorf("%w: empty", ErrInvalidViewMode)
	}

	digits := strings.IndexFunc(input, func(r rune) bool { return !unicode.IsDigit(r) })
	if digits == -1 {
		digits = len(input)
	}

	value := 1
	if digits > 0 {
		n, err := strconv.Atoi(input[:digits])
		if err != nil {
			return ViewMode{}, fmt.Errorf("%w: %q", ErrInvalidViewMode, s)
		}
		value = n
	}

	suffix := strings.TrimSpace(input[digits:])
	if digits == 0 && suffix == "" {
		return ViewMode{}, fmt.Errorf("%w: %q", ErrInvalidViewMode, s)
	}
	unit, ok := unitAliases[suffix]
	if !ok {
		return ViewMode{}, fmt.Errorf("%w: %q", ErrInvalidViewMode, s)
	}

	m := ViewMode{Value: value, Unit: unit}
	if err := m.Validate(); err != nil {
		return ViewMode{}, fmt.Errorf("%w (from %q)", err, s)
	}
	return m, nil
}
