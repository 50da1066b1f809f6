package replay

import (
	"context"
	"time"

	"github.com/colonyops/toast/internal/core/toast"
)

// Waiter blocks until a script offset is reached.
type Waiter interface {
	WaitUntil(ctx context.Context, offset time.Duration) error
	// Elapsed returns the current script offset.
	Elapsed() time.Duration
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep waits on the wall clock.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NoSleep returns immediately, running a script as fast as it applies.
func NoSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// PacedWaiter moves a virtual clock forward in step with sleep. The same
// clock must drive the manager's timers: steps and expiries then share one
// timeline, and a timer due at a step's offset always fires before that
// step runs.
type PacedWaiter struct {
	clock *toast.VirtualScheduler
	sleep SleepFunc
}

// NewPacedWaiter returns a waiter over clock. A nil sleep uses Sleep.
func NewPacedWaiter(clock *toast.VirtualScheduler, sleep SleepFunc) *PacedWaiter {
	if sleep == nil {
		sleep = Sleep
	}
	return &PacedWaiter{clock: clock, sleep: sleep}
}

// WaitUntil implements Waiter. It stops at every pending timer deadline
// before offset so expiries happen at their own time.
func (w *PacedWaiter) WaitUntil(ctx context.Context, offset time.Duration) error {
	for {
		now := w.clock.Now()

		target := offset
		if next, ok := w.clock.NextDeadline(); ok && next < target {
			target = next
		}

		if err := w.sleep(ctx, target-now); err != nil {
			return err
		}
		w.clock.Advance(max(target-now, 0))

		if target >= offset {
			return ctx.Err()
		}
	}
}

// Elapsed implements Waiter.
func (w *PacedWaiter) Elapsed() time.Duration {
	return w.clock.Now()
}
