// Package refresh runs the recurring token refresh timer.
package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultInterval is the refresh cadence of a logged-in session.
const DefaultInterval = time.Hour

// Task is invoked once per tick. Its context is cancelled when the handle stops.
type Task func(ctx context.Context)

// Scheduler starts recurring timers on a shared clock.
type Scheduler struct {
	clock    clockwork.Clock
	interval time.Duration

	mu     sync.Mutex
	active int
}

// NewScheduler returns a scheduler ticking every interval. A nil clock uses
// the real clock; a non-positive interval uses DefaultInterval.
func NewScheduler(clock clockwork.Clock, interval time.Duration) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{clock: clock, interval: interval}
}

// Interval returns the tick period.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Active returns how many timers are currently running.
func (s *Scheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Start launches a recurring timer that calls task every interval until the
// returned handle is stopped or ctx is cancelled. The first call happens one
// full interval after Start; a failed task is not retried before the next tick.
func (s *Scheduler) Start(ctx context.Context, task Task) *Handle {
	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}
	ticker := s.clock.NewTicker(s.interval)

	s.mu.Lock()
	s.active++
	s.mu.Unlock()

	go func() {
		defer func() {
			ticker.Stop()
			s.mu.Lock()
			s.active--
			s.mu.Unlock()
			close(h.done)
		}()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.Chan():
				if task != nil {
					task(runCtx)
				}
			}
		}
	}()
	return h
}

// Handle owns one running timer.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Stop cancels the timer and waits for its goroutine to exit. It is safe to
// call on a nil handle and more than once.
func (h *Handle) Stop() {
	if h == nil {
		return
	}
	h.once.Do(h.cancel)
	<-h.done
}

// Done is closed once the timer goroutine has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}
