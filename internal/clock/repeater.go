package clock

import (
	"sync"
	"time"
)

// Repeater calls a function at a fixed interval until stopped. Start and
// Stop are idempotent, and a stopped Repeater can be started again.
type Repeater struct {
	interval time.Duration
	fn       func(time.Time)

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewRepeater creates a stopped Repeater that calls fn every interval with
// the tick time. A non-positive interval is treated as one second.
func NewRepeater(interval time.Duration, fn func(time.Time)) *Repeater {
	if interval <= 0 {
		interval = time.Second
	}
	return &Repeater{interval: interval, fn: fn}
}

// Interval returns the tick interval.
func (r *Repeater) Interval() time.Duration {
	return r.interval
}

// Start begins ticking. It does nothing if the Repeater is already running.
func (r *Repeater) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stop != nil {
		return
	}
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	go r.loop(r.stop, r.done)
}

// Stop halts ticking and waits for an in-flight call to return. It does
// nothing if the Repeater is not running.
func (r *Repeater) Stop() {
	r.mu.Lock()
	stop, done := r.stop, r.done
	r.stop, r.done = nil, nil
	r.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// Running reports whether the Repeater is ticking.
func (r *Repeater) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stop != nil
}

func (r *Repeater) loop(stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case t := <-ticker.C:
			r.fn(t)
		}
	}
}
