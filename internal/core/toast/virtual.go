package toast

import (
	"sort"
	"sync"
	"time"
)

// VirtualScheduler is a Scheduler driven by Advance instead of real time.
// Callbacks run synchronously on the goroutine calling Advance, in
// deadline order, with ties broken by scheduling order. Replays share one
// VirtualScheduler between the script steps and the toast timers so that
// both sides agree on what happens at a given offset.
type VirtualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     uint64
	pending []*virtualHandle
}

// NewVirtualScheduler returns a scheduler whose clock starts at zero.
func NewVirtualScheduler() *VirtualScheduler {
	return &VirtualScheduler{}
}

// Schedule implements Scheduler.
func (s *VirtualScheduler) Schedule(after time.Duration, fn func()) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	h := &virtualHandle{
		owner: s,
		at:    s.now + after,
		seq:   s.seq,
		fn:    fn,
	}
	s.pending = append(s.pending, h)
	return h
}

// Now returns the elapsed virtual time. Inside a callback it is the
// callback's deadline.
func (s *VirtualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending returns the number of callbacks that have neither fired nor
// been cancelled.
func (s *VirtualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// NextDeadline returns the earliest pending deadline.
func (s *VirtualScheduler) NextDeadline() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		return 0, false
	}
	s.sortLocked()
	return s.pending[0].at, true
}

// Advance moves the clock forward by d and runs every callback that comes
// due, including ones scheduled by callbacks that fire along the way.
func (s *VirtualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		h := s.popDue(target)
		if h == nil {
			break
		}
		h.fn()
	}

	s.mu.Lock()
	s.now = target
	s.mu.Unlock()
}

// AdvanceTo moves the clock to the absolute virtual time t. Times in the
// past are ignored.
func (s *VirtualScheduler) AdvanceTo(t time.Duration) {
	now := s.Now()
	if t > now {
		s.Advance(t - now)
	}
}

func (s *VirtualScheduler) popDue(target time.Duration) *virtualHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		return nil
	}
	s.sortLocked()

	h := s.pending[0]
	if h.at > target {
		return nil
	}

	s.pending = s.pending[1:]
	s.now = h.at
	h.fired = true
	return h
}

func (s *VirtualScheduler) sortLocked() {
	sort.Slice(s.pending, func(i, j int) bool {
		a, b := s.pending[i], s.pending[j]
		if a.at != b.at {
			return a.at < b.at
		}
		return a.seq < b.seq
	})
}

type virtualHandle struct {
	owner     *VirtualScheduler
	at        time.Duration
	seq       uint64
	fn        func()
	fired     bool
	cancelled bool
}

func (h *virtualHandle) Cancel() bool {
	s := h.owner
	s.mu.Lock()
	defer s.mu.Unlock()

	if h.fired || h.cancelled {
		return false
	}
	h.cancelled = true

	for i, p := range s.pending {
		if p == h {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			break
		}
	}
	return true
}
