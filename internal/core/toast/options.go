package toast

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Option configures a Manager.
type Option func(*Manager)

// WithScheduler replaces the runtime timer scheduler, typically with a
// manual clock in tests.
func WithScheduler(s Scheduler) Option {
	return func(m *Manager) {
		if s != nil {
			m.scheduler = s
		}
	}
}

// WithLogger sets the logger used for lifecycle debug events.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithAnchor sets the initial anchor.
func WithAnchor(a Anchor) Option {
	return func(m *Manager) {
		m.anchor.Store(a)
	}
}

// WithMaxVisible caps the number of active toasts. When a Show pushes the
// list past n the oldest toasts are dismissed. Zero or less means no cap.
func WithMaxVisible(n int) Option {
	return func(m *Manager) {
		m.maxVisible = max(n, 0)
	}
}

// WithDefaultDuration sets the lifetime used by the Success, Error,
// Warning, Info and Neutral helpers. Zero makes them persistent.
func WithDefaultDuration(d time.Duration) Option {
	return func(m *Manager) {
		m.defaultDuration = d
	}
}

// WithIDGenerator sets the function used to fill in empty record ids.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

func defaultIDGenerator() string {
	return uuid.NewString()
}
