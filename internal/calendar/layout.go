package calendar

import (
	"time"

	"github.com/javiermolinar/almanac/internal/event"
)

const minutesPerDay = 24 * 60

// LayoutOptions are the padding and height ceiling of the timeline, in percent.
type LayoutOptions struct {
	SidePadding  float64
	InnerPadding float64
	MaxHeight    float64
}

// DefaultLayoutOptions returns 2% side and inner padding and a 20% height cap.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{SidePadding: 2, InnerPadding: 2, MaxHeight: 20}
}

// Layout is the position of an event in a day column, in percent of the column.
type Layout struct {
	Top    float64
	Left   float64
	Width  float64
	Height float64
	// Column is the event's position among Columns overlapping events.
	Column  int
	Columns int
}

// EventLayout computes the geometry of the event with id in a week or day
// timeline. It reports false when the mode has no timeline or the id is not
// in the index.
func EventLayout(id string, ix *event.Index, mode ViewMode, opts LayoutOptions) (Layout, bool) {
	if ix == nil || !mode.IsTimeline() {
		return Layout{}, false
	}
	self, ok := ix.Find(id)
	if !ok {
		return Layout{}, false
	}

	loc := ix.Location()
	top, height := verticalPlacement(self, loc)

	column, columns := columnOf(self, ix.Values())
	var width, left float64
	if columns == 1 {
		width = 100 - 2*opts.SidePadding
		left = opts.SidePadding
	} else {
		n := float64(columns)
		width = (100 - opts.SidePadding - (n-1)*opts.InnerPadding) / n
		left = opts.SidePadding + float64(column)*(width+opts.InnerPadding)
	}

	return Layout{
		Top:     top,
		Left:    left,
		Width:   width,
		Height:  min(height/minutesPerDay*100, opts.MaxHeight),
		Column:  column,
		Columns: columns,
	}, true
}

// verticalPlacement returns the top percent and the height in minutes.
// Start fragments run to the end of the day; continuation fragments start at 0.
func verticalPlacement(ref event.Ref, loc *time.Location) (top, heightMinutes float64) {
	start := ref.Start.In(loc)
	end := ref.End.In(loc)
	startMin := minuteOfDay(start)
	endMin := minuteOfDay(end)

	split := ref.SpansDays(loc) || event.StartsAtMidnight(start) || event.EndsAtDayEnd(end)
	switch {
	case !split:
		return startMin / minutesPerDay * 100, endMin - startMin
	case event.StartsAtMidnight(start):
		return 0, endMin
	default:
		return startMin / minutesPerDay * 100, minutesPerDay - startMin
	}
}

// columnOf counts the distinct other events overlapping self. self's column is
// the number of them that come before it in values order.
func columnOf(self event.Ref, values []event.Ref) (column, columns int) {
	seen := map[string]bool{self.ID: true}
	passedSelf := false
	columns = 1
	for _, r := range values {
		if r.ID == self.ID {
			passedSelf = true
			continue
		}
		if seen[r.ID] || !event.Overlaps(self.Event, r.Event) {
			continue
		}
		seen[r.ID] = true
		columns++
		if !passedSelf {
			column++
		}
	}
	return column, columns
}

func minuteOfDay(t time.Time) float64 {
	h, m, s := t.Clock()
	return float64(h*60+m) + float64(s)/60 + float64(t.Nanosecond())/float64(time.Minute)
}
