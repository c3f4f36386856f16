package calendar

import (
	"time"

	"github.com/javiermolinar/almanac/internal/dateutil"
)

// PeriodState is the navigation state of a calendar view.
type PeriodState struct {
	// CurrentPeriod is the anchor date: the month, week or first day shown.
	CurrentPeriod time.Time
	ViewMode      ViewMode
	// CurrentTime drives the current-time marker.
	CurrentTime time.Time
}

// NewPeriodState anchors a state at today in loc.
func NewPeriodState(mode ViewMode, now time.Time, loc *time.Location) PeriodState {
	return PeriodState{
		CurrentPeriod: dateutil.Today(now, loc),
		ViewMode:      mode,
		CurrentTime:   now,
	}
}

// Transition maps one period state to the next.
type Transition func(PeriodState) PeriodState

// Next moves the anchor forward by one view.
func Next(s PeriodState) PeriodState {
	s.CurrentPeriod = shift(s.CurrentPeriod, s.ViewMode, 1)
	return s
}

// Previous moves the anchor back by one view.
func Previous(s PeriodState) PeriodState {
	s.CurrentPeriod = shift(s.CurrentPeriod, s.ViewMode, -1)
	return s
}

// Current returns a transition that anchors the view at today in loc.
func Current(now time.Time, loc *time.Location) Transition {
	return func(s PeriodState) PeriodState {
		s.CurrentPeriod = dateutil.Today(now, loc)
		return s
	}
}

// Specific returns a transition that anchors the view at date.
func Specific(date time.Time) Transition {
	return func(s PeriodState) PeriodState {
		s.CurrentPeriod = dateutil.CivilDate(date)
		return s
	}
}

// WithViewMode returns a transition that switches the view mode, keeping the anchor.
func WithViewMode(mode ViewMode) Transition {
	return func(s PeriodState) PeriodState {
		s.ViewMode = mode
		return s
	}
}

// WithCurrentTime returns a transition that refreshes the current time.
func WithCurrentTime(now time.Time) Transition {
	return func(s PeriodState) PeriodState {
		s.CurrentTime = now
		return s
	}
}

// Shift applies Next n times, or Previous -n times when n is negative.
func Shift(s PeriodState, n int) PeriodState {
	for ; n > 0; n-- {
		s = Next(s)
	}
	for ; n < 0; n++ {
		s = Previous(s)
	}
	return s
}

// Months move from the 1st so day-of-month never overflows into the next month.
func shift(period time.Time, mode ViewMode, dir int) time.Time {
	value := max(mode.Value, 1) * dir
	switch mode.Unit {
	case dateutil.UnitMonth:
		return dateutil.FirstDayOfMonth(period).AddDate(0, value, 0)
	case dateutil.UnitWeek:
		return period.AddDate(0, 0, 7*value)
	default:
		return period.AddDate(0, 0, value)
	}
}
