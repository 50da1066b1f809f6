package toast

import (
	"sync"
	"time"
)

// Scheduler runs a callback once after a delay.
type Scheduler interface {
	Schedule(after time.Duration, fn func()) Handle
}

// Handle is a pending delayed callback.
type Handle interface {
	// Cancel stops the callback. It returns true when the callback is
	// guaranteed never to run, and false when it already ran, is running,
	// or was cancelled before.
	Cancel() bool
}

// TimerScheduler schedules callbacks on runtime timers.
type TimerScheduler struct{}

// Schedule implements Scheduler.
func (TimerScheduler) Schedule(after time.Duration, fn func()) Handle {
	h := &timerHandle{fn: fn}
	h.mu.Lock()
	h.timer = time.AfterFunc(after, h.fire)
	h.mu.Unlock()
	return h
}

type handleState uint8

const (
	statePending handleState = iota
	stateFired
	stateCancelled
)

type timerHandle struct {
	mu    sync.Mutex
	state handleState
	timer *time.Timer
	fn    func()
}

// fire flips the handle to fired under the lock, then runs fn without it.
// A Cancel that wins the lock first leaves the state cancelled, so a timer
// goroutine that was already started becomes a no-op.
func (h *timerHandle) fire() {
	h.mu.Lock()
	if h.state != statePending {
		h.mu.Unlock()
		return
	}
	h.state = stateFired
	fn := h.fn
	h.fn = nil
	h.mu.Unlock()

	fn()
}

func (h *timerHandle) Cancel() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != statePending {
		return false
	}
	h.state = stateCancelled
	h.fn = nil
	if h.timer != nil {
		h.timer.Stop()
	}
	return true
}
