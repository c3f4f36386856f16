package calendar

import (
	"sync"
	"time"

	"github.com/javiermolinar/almanac/internal/event"
)

// State is everything a calendar view is built from.
type State struct {
	Period    PeriodState
	WeekStart int
	Location  *time.Location
	Policy    event.Policy
	Events    []event.Event
}

// View is a built calendar view.
type View struct {
	Days  []*Day
	Index *event.Index
}

// Build indexes the state's events and builds its days. Now comes from
// Period.CurrentTime so a single build never reads the clock twice.
func (s State) Build(trim bool) (View, error) {
	ix := event.NewIndex(s.Events, s.Location, s.Policy)
	days, err := Build(s.Period.CurrentPeriod, s.Period.ViewMode, BuildOptions{
		WeekStart: s.WeekStart,
		Now:       s.Period.CurrentTime,
		Location:  s.Location,
		Index:     ix,
		Trim:      trim,
	})
	if err != nil {
		return View{}, err
	}
	return View{Days: days, Index: ix}, nil
}

// Listener is called with the new state after every change.
type Listener func(State)

// Store holds a State and notifies subscribers when it is replaced.
// Changes are whole-state replacements; listeners run in subscription order
// after the lock is released.
type Store struct {
	mu        sync.RWMutex
	state     State
	nextID    int
	listeners []subscription
}

type subscription struct {
	id int
	fn Listener
}

// NewStore creates a Store holding initial.
func NewStore(initial State) *Store {
	return &Store{state: initial}
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn and returns a func that removes it. Calling the
// returned func more than once is a no-op.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Dispatch applies a period transition.
func (s *Store) Dispatch(t Transition) {
	s.Update(func(st State) State {
		st.Period = t(st.Period)
		return st
	})
}

// SetEvents replaces the event set.
func (s *Store) SetEvents(events []event.Event) {
	s.Update(func(st State) State {
		st.Events = events
		return st
	})
}

// SetCurrentTime refreshes the current time without moving the anchor.
func (s *Store) SetCurrentTime(now time.Time) {
	s.Dispatch(WithCurrentTime(now))
}

// Update replaces the state with fn's result and notifies listeners.
func (s *Store) Update(fn func(State) State) {
	s.mu.Lock()
	s.state = fn(s.state)
	next := s.state
	listeners := make([]subscription, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, sub := range listeners {
		sub.fn(next)
	}
}
