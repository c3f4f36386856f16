// Package clock provides the current time to the calendar and a repeating
// task that refreshes time-dependent state.
package clock

import (
	"sync"
	"time"
)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// System is the wall clock.
type System struct{}

// Now returns time.Now().
func (System) Now() time.Time {
	return time.Now()
}

// Func adapts a function to Clock.
type Func func() time.Time

// Now calls f.
func (f Func) Now() time.Time {
	return f()
}

// Manual is a Clock that only moves when told to.
type Manual struct {
	mu      sync.Mutex
	current time.Time
}

// NewManual returns a Manual clock set to start.
func NewManual(start time.Time) *Manual {
	return &Manual{current: start}
}

// Now returns the clock's time.
func (c *Manual) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Set moves the clock to t.
func (c *Manual) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d and returns the new time.
func (c *Manual) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
	return c.current
}

// DayPercent returns how far through its local day now is, from 0 to 100.
// It positions the current-time marker on a day timeline.
func DayPercent(now time.Time) float64 {
	h, m, s := now.Clock()
	minutes := float64(h*60+m) + float64(s)/60 + float64(now.Nanosecond())/float64(time.Minute)
	return minutes / (24 * 60) * 100
}
