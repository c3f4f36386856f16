// Package timer tracks elapsed and remaining time of a countdown against a clock.
package timer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/javiermolinar/almanac/internal/clock"
)

// ErrInvalidDuration is returned for countdowns that are not positive.
var ErrInvalidDuration = errors.New("timer duration must be positive")

// State is the lifecycle stage of a Timer.
type State string

const (
	Idle    State = "idle"
	Running State = "running"
	Paused  State = "paused"
	Done    State = "done"
)

// Snapshot is a consistent reading of a Timer.
type Snapshot struct {
	State     State
	Elapsed   time.Duration
	Remaining time.Duration
}

// Options configures a Timer.
type Options struct {
	// Clock defaults to the system clock.
	Clock  clock.Clock
	Logger *slog.Logger
}

// Timer is a pausable countdown. Elapsed time only accumulates while running.
type Timer struct {
	duration time.Duration
	clock    clock.Clock
	logger   *slog.Logger

	mu        sync.Mutex
	state     State
	startedAt time.Time
	banked    time.Duration
}

// New creates an idle Timer for duration.
func New(duration time.Duration, opts Options) (*Timer, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidDuration, duration)
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Timer{duration: duration, clock: opts.Clock, logger: opts.Logger, state: Idle}, nil
}

// Duration returns the countdown length.
func (t *Timer) Duration() time.Duration {
	return t.duration
}

// Start begins the countdown from zero. It does nothing unless the Timer is idle.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Idle {
		return
	}
	t.state = Running
	t.banked = 0
	t.startedAt = t.clock.Now()
}

// Pause freezes elapsed time. It does nothing unless the Timer is running.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stateLocked() != Running {
		return
	}
	t.banked += t.clock.Now().Sub(t.startedAt)
	t.state = Paused
}

// Resume continues a paused countdown.
func (t *Timer) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Paused {
		return
	}
	t.state = Running
	t.startedAt = t.clock.Now()
}

// Reset returns the Timer to idle with nothing elapsed.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = Idle
	t.banked = 0
	t.startedAt = time.Time{}
}

// Elapsed returns the time counted so far, at most the duration.
func (t *Timer) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsedLocked()
}

// Remaining returns the duration minus Elapsed.
func (t *Timer) Remaining() time.Duration {
	return t.duration - t.Elapsed()
}

// Done reports whether the countdown has run out.
func (t *Timer) Done() bool {
	return t.Elapsed() >= t.duration
}

// Snapshot returns the state, elapsed and remaining time read together.
func (t *Timer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	elapsed := t.elapsedLocked()
	return Snapshot{State: t.stateLocked(), Elapsed: elapsed, Remaining: t.duration - elapsed}
}

// Run starts the Timer and calls onTick every interval until the countdown is
// done or ctx is cancelled. Cancelling pauses the Timer and returns ctx.Err().
func (t *Timer) Run(ctx context.Context, interval time.Duration, onTick func(Snapshot)) error {
	t.Start()
	t.Resume()
	t.logger.Debug("timer started", "duration", t.duration, "interval", interval)

	finished := make(chan struct{})
	var once sync.Once
	repeater := clock.NewRepeater(interval, func(time.Time) {
		select {
		case <-finished:
			return
		default:
		}
		snap := t.Snapshot()
		if onTick != nil {
			onTick(snap)
		}
		if t.Done() {
			once.Do(func() { close(finished) })
		}
	})
	repeater.Start()
	defer repeater.Stop()

	select {
	case <-ctx.Done():
		t.Pause()
		t.logger.Info("timer interrupted", "elapsed", t.Elapsed())
		return ctx.Err()
	case <-finished:
		t.logger.Info("timer finished", "duration", t.duration)
		return nil
	}
}

func (t *Timer) elapsedLocked() time.Duration {
	elapsed := t.banked
	if t.state == Running {
		elapsed += t.clock.Now().Sub(t.startedAt)
	}
	return min(max(elapsed, 0), t.duration)
}

func (t *Timer) stateLocked() State {
	if t.state != Idle && t.elapsedLocked() >= t.duration {
		return Done
	}
	return t.state
}
