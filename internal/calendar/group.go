package calendar

import (
	"fmt"
	"time"

	"github.com/javiermolinar/almanac/internal/dateutil"
	"github.com/javiermolinar/almanac/internal/event"
)

// Group splits days into rendering rows by unit:
//
//	month:    contiguous runs of the same month
//	week:     chunks of 7 starting on weekStart
//	workWeek: chunks of Monday..Friday, weekends dropped
//
// For week and workWeek, partial leading and trailing chunks are completed
// with filler days when fill is true, or with nil entries otherwise. Nil
// entries at the edges of the input are replaced; nil entries inside it are
// kept as they are.
func Group(days []*Day, unit dateutil.Unit, weekStart int, fill bool) ([][]*Day, error) {
	switch unit {
	case dateutil.UnitMonth:
		return groupByMonth(days), nil
	case dateutil.UnitWeek:
		if err := dateutil.ValidateWeekStart(weekStart); err != nil {
			return nil, err
		}
		return chunk(pad(days, weekStart, 7, fill), 7), nil
	case dateutil.UnitWorkWeek:
		weekdays := make([]*Day, 0, len(days))
		for _, d := range days {
			if d != nil && dateutil.ISOWeekday(d.Date) > 5 {
				continue
			}
			weekdays = append(weekdays, d)
		}
		return chunk(pad(weekdays, 1, 5, fill), 5), nil
	default:
		return nil, fmt.Errorf("%w: cannot group by %q", dateutil.ErrUnsupportedUnit, unit)
	}
}

func groupByMonth(days []*Day) [][]*Day {
	groups := [][]*Day{}
	var current []*Day
	var anchor *Day
	for _, d := range days {
		if d != nil && anchor != nil && !sameMonth(d.Date, anchor.Date) {
			groups = append(groups, current)
			current, anchor = nil, nil
		}
		if d != nil && anchor == nil {
			anchor = d
		}
		current = append(current, d)
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}

// pad completes the leading and trailing chunk of size days aligned to
// firstDay. Leading fillers count backward from the first real day; trailing
// fillers count forward from the last one.
func pad(days []*Day, firstDay, size int, fill bool) []*Day {
	lo, hi := 0, len(days)
	for lo < hi && days[lo] == nil {
		lo++
	}
	for hi > lo && days[hi-1] == nil {
		hi--
	}
	if lo == hi {
		return []*Day{}
	}
	body := days[lo:hi]
	first, last := body[0].Date, body[len(body)-1].Date

	lead := (dateutil.ISOWeekday(first) - firstDay + 7) % 7
	out := make([]*Day, 0, lead+len(body)+size)
	for i := lead; i > 0; i-- {
		out = append(out, filler(first.AddDate(0, 0, -i), fill))
	}
	out = append(out, body...)

	if rem := len(out) % size; rem != 0 {
		for i := 1; i <= size-rem; i++ {
			out = append(out, filler(last.AddDate(0, 0, i), fill))
		}
	}
	return out
}

func chunk(days []*Day, size int) [][]*Day {
	rows := make([][]*Day, 0, (len(days)+size-1)/size)
	for i := 0; i < len(days); i += size {
		end := min(i+size, len(days))
		rows = append(rows, days[i:end:end])
	}
	return rows
}

func filler(date time.Time, fill bool) *Day {
	if !fill {
		return nil
	}
	return &Day{Date: date, Events: []event.Ref{}, Filler: true}
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
