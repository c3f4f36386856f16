package event

import (
	"time"
)

// fragmentDayEnd is the wall-clock end of a clipped day: 23:59:59.999.
const fragmentDayEnd = 999 * time.Millisecond

// Split cuts ev into one event per calendar day it touches in loc, in
// chronological order. Each piece is clipped to [00:00:00.000, 23:59:59.999]
// local, except that the first keeps the true start and the last keeps the
// true end. An event that starts and ends on the same day is returned as-is.
// An event ending exactly at midnight produces no piece for that day.
// A nil loc means ev.Start's location.
func Split(ev Event, loc *time.Location) []Event {
	if loc == nil {
		loc = ev.Start.Location()
	}
	start, end := ev.Start.In(loc), ev.End.In(loc)
	if !ev.SpansDays(loc) || !end.After(start) {
		return []Event{ev}
	}

	var out []Event
	for day := midnight(start); day.Before(end); day = nextMidnight(day) {
		piece := ev
		piece.Start = day
		if start.After(day) {
			piece.Start = start
		}
		piece.End = lastInstant(day)
		if end.Before(piece.End) {
			piece.End = end
		}
		out = append(out, piece)
	}
	return out
}

// Fragments splits ev like Split and tags the results. A single-day event
// yields one KindWhole Ref; otherwise every piece is a KindFragment whose
// Source points at ev.
func Fragments(ev Event, loc *time.Location) []Ref {
	pieces := Split(ev, loc)
	if len(pieces) == 1 && pieces[0].Start.Equal(ev.Start) && pieces[0].End.Equal(ev.End) {
		return []Ref{{Event: ev, Kind: KindWhole}}
	}

	src := ev
	refs := make([]Ref, len(pieces))
	for i, p := range pieces {
		refs[i] = Ref{Event: p, Kind: KindFragment, Source: &src, Part: i + 1, Parts: len(pieces)}
	}
	return refs
}

// StartsAtMidnight reports whether t is 00:00:00.000 on its wall clock.
func StartsAtMidnight(t time.Time) bool {
	h, m, s := t.Clock()
	return h == 0 && m == 0 && s == 0 && t.Nanosecond() < int(time.Millisecond)
}

// EndsAtDayEnd reports whether t is the clipped end of day, 23:59:59.999 or later.
func EndsAtDayEnd(t time.Time) bool {
	h, m, s := t.Clock()
	return h == 23 && m == 59 && s == 59 && t.Nanosecond() >= int(fragmentDayEnd)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func nextMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, t.Location())
}

func lastInstant(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, int(fragmentDayEnd), day.Location())
}
