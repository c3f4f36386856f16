// Package event defines calendar events and the logic that places them on days:
// splitting events at local midnight and indexing the pieces by day.
package event

import (
	"errors"
	"fmt"
	"time"
)

// Validation errors.
var (
	ErrEmptyID        = errors.New("event id cannot be empty")
	ErrEndBeforeStart = errors.New("event end must not be before its start")
)

// Event is a caller-owned, time-stamped calendar entry.
type Event struct {
	ID        string
	Title     string
	Start     time.Time
	End       time.Time
	Resources []string
}

// New creates an Event with validation.
func New(id, title string, start, end time.Time, resources ...string) (Event, error) {
	ev := Event{ID: id, Title: title, Start: start, End: end, Resources: resources}
	if err := ev.Validate(); err != nil {
		return Event{}, err
	}
	return ev, nil
}

// Validate checks the id and the start <= end ordering.
func (e Event) Validate() error {
	if e.ID == "" {
		return ErrEmptyID
	}
	if e.End.Before(e.Start) {
		return fmt.Errorf("%w: %q ends %s, starts %s", ErrEndBeforeStart, e.ID,
			e.End.Format(time.RFC3339), e.Start.Format(time.RFC3339))
	}
	return nil
}

// Duration returns End - Start.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// SpansDays reports whether the event starts and ends on different dates in loc.
func (e Event) SpansDays(loc *time.Location) bool {
	s, en := e.Start.In(loc), e.End.In(loc)
	sy, sm, sd := s.Date()
	ey, em, ed := en.Date()
	return sy != ey || sm != em || sd != ed
}

// Kind tags what a Ref points at.
type Kind int

const (
	// KindWhole is an event placed on a single day as-is.
	KindWhole Kind = iota
	// KindFragment is a day-clipped slice of a multi-day event.
	KindFragment
)

func (k Kind) String() string {
	if k == KindFragment {
		return "fragment"
	}
	return "whole"
}

// Ref is an event placed on a calendar day. Fragments keep the ID of the
// event they were cut from, so several Refs may share one ID.
type Ref struct {
	Event
	Kind Kind
	// Source is the uncut event for fragments and nil for whole events.
	Source *Event
	// Part is the 1-based position of a fragment among Parts fragments.
	Part, Parts int
}

// IsFragment reports whether r is a slice of a multi-day event.
func (r Ref) IsFragment() bool {
	return r.Kind == KindFragment
}

// Original returns the uncut event r was derived from.
func (r Ref) Original() Event {
	if r.Source != nil {
		return *r.Source
	}
	return r.Event
}

// IsFirstPart reports whether r carries the true start of its source event.
func (r Ref) IsFirstPart() bool {
	return r.Kind == KindWhole || r.Part == 1
}

// IsLastPart reports whether r carries the true end of its source event.
func (r Ref) IsLastPart() bool {
	return r.Kind == KindWhole || r.Part == r.Parts
}

// Overlaps reports whether a and b share at least one instant. Endpoints are
// inclusive, so a.End == b.Start counts as an overlap. The test is symmetric.
func Overlaps(a, b Event) bool {
	return within(b.Start, a) || within(b.End, a) || within(a.Start, b) || within(a.End, b)
}

func within(t time.Time, e Event) bool {
	return !t.Before(e.Start) && !t.After(e.End)
}
