package calendar

import (
	"fmt"
	"time"

	"github.com/javiermolinar/almanac/internal/dateutil"
	"github.com/javiermolinar/almanac/internal/event"
)

// Day is one cell of a calendar view.
type Day struct {
	// Date is a civil date (midnight UTC).
	Date   time.Time
	Events []event.Ref
	// IsToday is true for the civil date of "now" in the view's zone.
	IsToday bool
	// IsInCurrentPeriod is true when Date's month lies in the view's month window.
	IsInCurrentPeriod bool
	// Filler marks synthetic days added by Group to complete a row.
	Filler bool
}

// Key returns the YYYY-MM-DD key of the day.
func (d *Day) Key() string {
	return dateutil.DayKey(d.Date)
}

// BuildOptions carries everything Build needs besides the period and mode.
type BuildOptions struct {
	// WeekStart is the ISO weekday (1..7) that opens a week.
	WeekStart int
	// Now is read once for every IsToday flag of a build.
	Now time.Time
	// Location is the zone "today" is computed in. Nil means time.Local.
	Location *time.Location
	// Index supplies events per day. Nil leaves every day empty.
	Index *event.Index
	// Trim drops month-view days outside the month window.
	Trim bool
}

// Range returns the first and last civil date a view of mode anchored at
// period covers.
//
//	month: the week containing the 1st of period's month through the week
//	       containing the last day of the month Value-1 months later
//	week:  the week containing period, Value weeks long
//	day:   period through period + Value-1 days
func Range(period time.Time, mode ViewMode, weekStart int) (start, end time.Time, err error) {
	if err := mode.Validate(); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if err := dateutil.ValidateWeekStart(weekStart); err != nil {
		return time.Time{}, time.Time{}, err
	}

	anchor := dateutil.CivilDate(period)
	switch mode.Unit {
	case dateutil.UnitMonth:
		first := dateutil.FirstDayOfMonth(anchor)
		last := dateutil.LastDayOfMonth(first.AddDate(0, mode.Value-1, 0))
		start = dateutil.FirstDayOfWeek(first, weekStart)
		end = dateutil.FirstDayOfWeek(last, weekStart).AddDate(0, 0, 6)
	case dateutil.UnitWeek:
		start = dateutil.FirstDayOfWeek(anchor, weekStart)
		end = start.AddDate(0, 0, 7*mode.Value-1)
	case dateutil.UnitDay:
		start = anchor
		end = anchor.AddDate(0, 0, mode.Value-1)
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", dateutil.ErrUnsupportedUnit, mode.Unit)
	}
	return start, end, nil
}

// Build returns the days a view of mode anchored at period renders, with
// events attached from opts.Index and the today/current-period flags set.
func Build(period time.Time, mode ViewMode, opts BuildOptions) ([]*Day, error) {
	start, end, err := Range(period, mode, opts.WeekStart)
	if err != nil {
		return nil, err
	}

	today := dateutil.Today(opts.Now, opts.Location)
	window := newMonthWindow(dateutil.CivilDate(period), mode.Value)
	trim := opts.Trim && mode.Unit == dateutil.UnitMonth

	dates := dateutil.DateRange(start, end)
	days := make([]*Day, 0, len(dates))
	for _, date := range dates {
		inPeriod := window.contains(date)
		if trim && !inPeriod {
			continue
		}
		day := &Day{
			Date:              date,
			Events:            []event.Ref{},
			IsToday:           date.Equal(today),
			IsInCurrentPeriod: inPeriod,
		}
		if opts.Index != nil {
			if refs := opts.Index.Day(dateutil.DayKey(date)); len(refs) > 0 {
				day.Events = refs
			}
		}
		days = append(days, day)
	}
	return days, nil
}

// monthWindow is an inclusive span of months counted as y*12+m.
type monthWindow struct {
	first, last int
}

func newMonthWindow(anchor time.Time, months int) monthWindow {
	first := monthNumber(anchor)
	return monthWindow{first: first, last: first + months - 1}
}

func (w monthWindow) contains(date time.Time) bool {
	n := monthNumber(date)
	return n >= w.first && n <= w.last
}

func monthNumber(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}
