// Package picker implements date-picker selection: single, multiple or range
// selection within optional inclusive bounds.
package picker

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/javiermolinar/almanac/internal/dateutil"
)

// Errors returned by the picker.
var (
	ErrInvalidBounds = errors.New("min date is after max date")
	ErrInvalidMode   = errors.New("invalid selection mode")
)

// Mode is how a selection reacts to a newly selected date.
type Mode string

const (
	// Single replaces the selection with the new date.
	Single Mode = "single"
	// Multiple toggles the date in and out of the selection.
	Multiple Mode = "multiple"
	// Range sets a start on the first pick and fills start..end on the second.
	// A third pick starts a new range.
	Range Mode = "range"
)

// ParseMode parses a selection mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case Single, Multiple, Range:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Options configures a Picker. Zero Min or Max leaves that side unbounded.
type Options struct {
	Mode     Mode
	Min, Max time.Time
	// OnChange is called with the new selection after each accepted change.
	OnChange func(selected []time.Time)
}

// Picker holds the selected dates, ordered and unique, as civil dates.
type Picker struct {
	mode     Mode
	min, max time.Time
	onChange func([]time.Time)

	selected   []time.Time
	rangeStart time.Time
	rangeOpen  bool
}

// New creates a Picker. It fails when both bounds are set and Min > Max.
func New(opts Options) (*Picker, error) {
	mode := opts.Mode
	if mode == "" {
		mode = Single
	}
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}

	p := &Picker{mode: mode, onChange: opts.OnChange}
	if !opts.Min.IsZero() {
		p.min = dateutil.CivilDate(opts.Min)
	}
	if !opts.Max.IsZero() {
		p.max = dateutil.CivilDate(opts.Max)
	}
	if !p.min.IsZero() && !p.max.IsZero() && p.min.After(p.max) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidBounds, dateutil.DayKey(p.min), dateutil.DayKey(p.max))
	}
	return p, nil
}

// Mode returns the selection mode.
func (p *Picker) Mode() Mode {
	return p.mode
}

// IsDisabled reports whether date lies outside the bounds.
func (p *Picker) IsDisabled(date time.Time) bool {
	d := dateutil.CivilDate(date)
	return (!p.min.IsZero() && d.Before(p.min)) || (!p.max.IsZero() && d.After(p.max))
}

// IsSelected reports whether date is in the selection.
func (p *Picker) IsSelected(date time.Time) bool {
	_, found := p.search(dateutil.CivilDate(date))
	return found
}

// Selected returns a copy of the selection in ascending order.
func (p *Picker) Selected() []time.Time {
	return slices.Clone(p.selected)
}

// Keys returns the selection as YYYY-MM-DD strings.
func (p *Picker) Keys() []string {
	keys := make([]string, len(p.selected))
	for i, d := range p.selected {
		keys[i] = dateutil.DayKey(d)
	}
	return keys
}

// Select applies date to the selection according to the mode. Dates outside
// the bounds are ignored; Select then reports false and OnChange is not called.
func (p *Picker) Select(date time.Time) bool {
	if p.IsDisabled(date) {
		return false
	}
	d := dateutil.CivilDate(date)

	switch p.mode {
	case Multiple:
		if i, found := p.search(d); found {
			p.selected = slices.Delete(p.selected, i, i+1)
		} else {
			p.selected = slices.Insert(p.selected, i, d)
		}
	case Range:
		if !p.rangeOpen {
			p.rangeStart, p.rangeOpen = d, true
			p.selected = []time.Time{d}
			break
		}
		start, end := p.rangeStart, d
		if end.Before(start) {
			start, end = end, start
		}
		p.selected = dateutil.DateRange(start, end)
		p.rangeOpen = false
	default:
		p.selected = []time.Time{d}
	}

	p.notify()
	return true
}

// Clear empties the selection.
func (p *Picker) Clear() {
	p.selected = nil
	p.rangeOpen = false
	p.notify()
}

func (p *Picker) search(d time.Time) (int, bool) {
	return slices.BinarySearchFunc(p.selected, d, func(a, b time.Time) int {
		return a.Compare(b)
	})
}

func (p *Picker) notify() {
	if p.onChange != nil {
		p.onChange(p.Selected())
	}
}
