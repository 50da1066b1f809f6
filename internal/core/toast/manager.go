package toast

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/toast/internal/core/logging"
)

type entry struct {
	record Record
	gen    uint64
	handle Handle // nil when the record does not auto-dismiss
}

// Manager owns the ordered list of active toasts and one dismiss timer
// per auto-dismissing toast.
//
// Every change to the list, including timer expiry, happens under a single
// mutex. Each entry carries a generation number; a timer only removes the
// entry it was created for, so a timer that loses a race with Cancel can
// never dismiss a newer toast that reuses the same id.
type Manager struct {
	mu      sync.Mutex
	active  []*entry
	index   map[string]*entry
	nextGen uint64
	version uint64
	subs    map[*Subscription]struct{}
	obs     map[*observer]struct{}
	closed  bool

	anchor atomic.Value // Anchor

	scheduler       Scheduler
	logger          zerolog.Logger
	newID           func() string
	maxVisible      int
	defaultDuration time.Duration
}

// NewManager returns an empty manager using runtime timers.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		index:           make(map[string]*entry),
		subs:            make(map[*Subscription]struct{}),
		obs:             make(map[*observer]struct{}),
		scheduler:       TimerScheduler{},
		logger:          logging.Component("toast"),
		newID:           defaultIDGenerator,
		defaultDuration: DefaultDuration,
	}
	m.anchor.Store(AnchorBottom)

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Show adds r to the end of the active list and returns its id. An empty
// id is replaced with a generated one. If a toast with the same id is
// already active it is dismissed first, so the new record becomes the
// newest rather than taking the old one's place.
func (m *Manager) Show(r Record) string {
	if r.ID == "" {
		r.ID = m.newID()
	}
	if r.Title == "" {
		m.logger.Debug().Str("toast_id", r.ID).Msg("showing toast without title")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return r.ID
	}

	replaced := m.removeLocked(r.ID)

	m.nextGen++
	e := &entry{record: r, gen: m.nextGen}
	if r.AutoDismiss() {
		id, gen := r.ID, e.gen
		e.handle = m.scheduler.Schedule(r.Duration, func() { m.expire(id, gen) })
	}
	m.active = append(m.active, e)
	m.index[r.ID] = e

	m.logger.Debug().
		Str("toast_id", r.ID).
		Str("variant", string(r.Variant)).
		Dur("duration", r.Duration).
		Bool("replaced", replaced).
		Msg("toast shown")

	m.evictLocked()
	m.publishLocked()

	return r.ID
}

// Dismiss removes the toast with the given id and cancels its timer.
// Unknown ids are ignored.
func (m *Manager) Dismiss(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.removeLocked(id) {
		return
	}

	m.logger.Debug().Str("toast_id", id).Msg("toast dismissed")
	m.publishLocked()
}

// DismissNewest removes the most recently shown toast, if any.
func (m *Manager) DismissNewest() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.active) == 0 {
		return
	}

	id := m.active[len(m.active)-1].record.ID
	m.removeLocked(id)

	m.logger.Debug().Str("toast_id", id).Msg("newest toast dismissed")
	m.publishLocked()
}

// DismissAll cancels every timer and empties the active list.
func (m *Manager) DismissAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.active) == 0 {
		return
	}

	n := m.clearLocked()

	m.logger.Debug().Int("count", n).Msg("all toasts dismissed")
	m.publishLocked()
}

// RunAction runs the action attached to the toast with the given id and
// then dismisses that toast. The action runs without the manager lock
// held, so it may call back into the manager. If the toast was replaced
// while the action ran, the replacement is left alone. RunAction reports
// whether an action ran.
func (m *Manager) RunAction(id string) bool {
	m.mu.Lock()
	e, ok := m.index[id]
	if !ok || m.closed || !e.record.HasAction() {
		m.mu.Unlock()
		return false
	}
	run, gen := e.record.Action.Run, e.gen
	m.mu.Unlock()

	run()

	m.mu.Lock()
	defer m.mu.Unlock()

	if cur, ok := m.index[id]; ok && cur.gen == gen {
		m.removeLocked(id)
		m.publishLocked()
	}

	m.logger.Debug().Str("toast_id", id).Msg("toast action ran")
	return true
}

// Success shows a success toast with the manager's default duration.
func (m *Manager) Success(title, message string) string {
	return m.showVariant(VariantSuccess, title, message)
}

// Error shows an error toast with the manager's default duration.
func (m *Manager) Error(title, message string) string {
	return m.showVariant(VariantError, title, message)
}

// Warning shows a warning toast with the manager's default duration.
func (m *Manager) Warning(title, message string) string {
	return m.showVariant(VariantWarning, title, message)
}

// Info shows an info toast with the manager's default duration.
func (m *Manager) Info(title, message string) string {
	return m.showVariant(VariantInfo, title, message)
}

// Neutral shows a neutral toast with the manager's default duration.
func (m *Manager) Neutral(title, message string) string {
	return m.showVariant(VariantNeutral, title, message)
}

func (m *Manager) showVariant(v Variant, title, message string) string {
	return m.Show(New(v, title, message).WithDuration(m.defaultDuration))
}

// DefaultDuration returns the lifetime used by the variant helpers.
func (m *Manager) DefaultDuration() time.Duration {
	return m.defaultDuration
}

// Records returns a copy of the active toasts, oldest first.
func (m *Manager) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recordsLocked()
}

// Snapshot returns the current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Len returns the number of active toasts.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

// Has reports whether a toast with the given id is active.
func (m *Manager) Has(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.index[id]
	return ok
}

// Anchor returns the current anchor.
func (m *Manager) Anchor() Anchor {
	return m.anchor.Load().(Anchor)
}

// SetAnchor changes the anchor and notifies subscribers. The snapshot
// version is unchanged since the active list did not change.
func (m *Manager) SetAnchor(a Anchor) {
	m.anchor.Store(a)

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.notifyLocked()
	}
}

// Subscribe returns a subscription that immediately holds the current
// snapshot and then receives every later one, newest wins.
func (m *Manager) Subscribe() *Subscription {
	sub := newSubscription(m.unsubscribe)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		sub.close()
		return sub
	}

	m.subs[sub] = struct{}{}
	sub.offer(m.snapshotLocked())
	return sub
}

// Observe calls fn with every snapshot the manager publishes, in order and
// without skipping any. fn runs with the manager lock held and must not
// call back into the manager. The returned function stops delivery.
func (m *Manager) Observe(fn func(Snapshot)) (stop func()) {
	o := &observer{fn: fn}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return func() {}
	}
	m.obs[o] = struct{}{}

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.obs, o)
	}
}

type observer struct {
	fn func(Snapshot)
}

func (m *Manager) unsubscribe(sub *Subscription) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.subs, sub)
	sub.close()
}

// Close cancels all timers, drops all toasts and closes every
// subscription. Later calls to Show and the dismiss methods do nothing.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	m.clearLocked()

	for sub := range m.subs {
		sub.close()
	}
	clear(m.subs)
	clear(m.obs)
}

// expire is the timer callback. It is a no-op unless the entry for id is
// still the one the timer was started for.
func (m *Manager) expire(id string, gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.index[id]
	if !ok || e.gen != gen {
		m.logger.Debug().Str("toast_id", id).Uint64("gen", gen).Msg("ignoring stale toast timer")
		return
	}

	// The handle already fired; dropping it keeps removeLocked from
	// cancelling a spent timer.
	e.handle = nil
	m.removeLocked(id)

	m.logger.Debug().Str("toast_id", id).Msg("toast expired")
	m.publishLocked()
}

func (m *Manager) removeLocked(id string) bool {
	e, ok := m.index[id]
	if !ok {
		return false
	}

	if e.handle != nil {
		e.handle.Cancel()
	}
	delete(m.index, id)

	for i, a := range m.active {
		if a == e {
			m.active = append(m.active[:i], m.active[i+1:]...)
			break
		}
	}
	return true
}

func (m *Manager) clearLocked() int {
	n := len(m.active)
	for _, e := range m.active {
		if e.handle != nil {
			e.handle.Cancel()
		}
	}
	m.active = nil
	clear(m.index)
	return n
}

func (m *Manager) evictLocked() {
	if m.maxVisible <= 0 {
		return
	}
	for len(m.active) > m.maxVisible {
		id := m.active[0].record.ID
		m.removeLocked(id)
		m.logger.Debug().Str("toast_id", id).Int("max_visible", m.maxVisible).Msg("toast evicted")
	}
}

// publishLocked records a change to the active list and notifies
// subscribers.
func (m *Manager) publishLocked() {
	m.version++
	m.notifyLocked()
}

func (m *Manager) notifyLocked() {
	snap := m.snapshotLocked()
	for sub := range m.subs {
		sub.offer(snap)
	}
	for o := range m.obs {
		o.fn(snap)
	}
}

func (m *Manager) recordsLocked() []Record {
	out := make([]Record, len(m.active))
	for i, e := range m.active {
		out[i] = e.record
	}
	return out
}

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		Version: m.version,
		Records: m.recordsLocked(),
		Anchor:  m.Anchor(),
	}
}
