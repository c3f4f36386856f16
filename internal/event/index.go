package event

import (
	"time"

	"github.com/javiermolinar/almanac/internal/dateutil"
)

// Policy decides what happens when a second piece lands on an occupied day.
type Policy int

const (
	// FirstPerDay keeps only the first piece indexed under a day key; later
	// pieces for that day are dropped. Input order decides precedence.
	FirstPerDay Policy = iota
	// AllPerDay appends every piece to its day, in input order.
	AllPerDay
)

// Index maps YYYY-MM-DD day keys to the events placed on that day.
// Keys iterate in insertion order so lookups by id are deterministic.
type Index struct {
	loc    *time.Location
	policy Policy
	keys   []string
	days   map[string][]Ref
}

// NewIndex splits every event at local midnight in loc and files each piece
// under the day of its (clipped) start. A nil loc means UTC.
func NewIndex(events []Event, loc *time.Location, policy Policy) *Index {
	if loc == nil {
		loc = time.UTC
	}
	ix := &Index{
		loc:    loc,
		policy: policy,
		days:   make(map[string][]Ref),
	}
	for _, ev := range events {
		for _, ref := range Fragments(ev, loc) {
			ix.add(ref)
		}
	}
	return ix
}

func (ix *Index) add(ref Ref) {
	key := dateutil.DayKey(ref.Start.In(ix.loc))
	existing, ok := ix.days[key]
	if !ok {
		ix.keys = append(ix.keys, key)
		ix.days[key] = []Ref{ref}
		return
	}
	if ix.policy == AllPerDay {
		ix.days[key] = append(existing, ref)
	}
}

// Location returns the zone the index was built in.
func (ix *Index) Location() *time.Location {
	return ix.loc
}

// Policy returns the insertion policy the index was built with.
func (ix *Index) Policy() Policy {
	return ix.policy
}

// Keys returns the day keys in insertion order.
func (ix *Index) Keys() []string {
	result := make([]string, len(ix.keys))
	copy(result, ix.keys)
	return result
}

// Day returns the events filed under a YYYY-MM-DD key.
func (ix *Index) Day(key string) []Ref {
	return ix.days[key]
}

// On returns the events filed under date's wall-clock day.
func (ix *Index) On(date time.Time) []Ref {
	return ix.days[dateutil.DayKey(date)]
}

// Len returns the number of indexed pieces.
func (ix *Index) Len() int {
	n := 0
	for _, refs := range ix.days {
		n += len(refs)
	}
	return n
}

// Values returns every indexed piece, flattened in key insertion order.
func (ix *Index) Values() []Ref {
	result := make([]Ref, 0, len(ix.keys))
	for _, key := range ix.keys {
		result = append(result, ix.days[key]...)
	}
	return result
}

// Find returns the first piece in Values order whose ID matches.
// For multi-day events this is whichever fragment was indexed first.
func (ix *Index) Find(id string) (Ref, bool) {
	for _, key := range ix.keys {
		for _, ref := range ix.days[key] {
			if ref.ID == id {
				return ref, true
			}
		}
	}
	return Ref{}, false
}
