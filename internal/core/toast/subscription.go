package toast

import "sync"

// Snapshot is a point-in-time copy of the manager state. Version grows by
// one with every change to the active list, so a reader can tell two
// snapshots apart and order them.
type Snapshot struct {
	Version uint64
	Records []Record
	Anchor  Anchor
}

// IDs returns the ids of the snapshot's records in display order.
func (s Snapshot) IDs() []string {
	ids := make([]string, len(s.Records))
	for i, r := range s.Records {
		ids[i] = r.ID
	}
	return ids
}

// Subscription receives snapshots from a Manager. Only the newest unread
// snapshot is kept: a slow reader skips intermediate states but never
// blocks the manager and never sees them out of order.
type Subscription struct {
	ch     chan Snapshot
	once   sync.Once
	cancel func(*Subscription)
}

func newSubscription(cancel func(*Subscription)) *Subscription {
	return &Subscription{
		ch:     make(chan Snapshot, 1),
		cancel: cancel,
	}
}

// C returns the delivery channel. It is closed when the subscription or
// the manager is closed.
func (s *Subscription) C() <-chan Snapshot {
	return s.ch
}

// Close detaches the subscription from its manager.
func (s *Subscription) Close() {
	s.cancel(s)
}

// offer replaces any unread snapshot with snap. Callers hold the manager
// lock, which makes them the only sender.
func (s *Subscription) offer(snap Snapshot) {
	select {
	case <-s.ch:
	default:
	}
	s.ch <- snap
}

func (s *Subscription) close() {
	s.once.Do(func() { close(s.ch) })
}
