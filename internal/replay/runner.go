package replay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/toast/internal/core/logging"
	"github.com/colonyops/toast/internal/core/toast"
)

// OpExpire marks frames produced by a toast timer rather than a step. It
// never appears in scripts.
const OpExpire Op = "expire"

// Frame is the manager state observed after a step or a timer expiry.
// Step is -1 for expiry frames.
type Frame struct {
	At      string         `json:"at"`
	Step    int            `json:"step"`
	Op      Op             `json:"op,omitempty"`
	Version uint64         `json:"version"`
	Anchor  toast.Anchor   `json:"anchor"`
	Active  []ActiveRecord `json:"active"`
}

// ActiveRecord is the JSON form of a toast.Record.
type ActiveRecord struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Message  string `json:"message,omitempty"`
	Variant  string `json:"variant"`
	Duration string `json:"duration"`
}

// IDs returns the active ids in display order.
func (f Frame) IDs() []string {
	ids := make([]string, len(f.Active))
	for i, a := range f.Active {
		ids[i] = a.ID
	}
	return ids
}

// NewFrame converts a snapshot taken at the given offset.
func NewFrame(at time.Duration, step int, op Op, snap toast.Snapshot) Frame {
	return Frame{
		At:      at.String(),
		Step:    step,
		Op:      op,
		Version: snap.Version,
		Anchor:  snap.Anchor,
		Active:  ActiveRecords(snap),
	}
}

// ActiveRecords converts the snapshot's records to their JSON form.
func ActiveRecords(snap toast.Snapshot) []ActiveRecord {
	active := make([]ActiveRecord, len(snap.Records))
	for i, r := range snap.Records {
		active[i] = ActiveRecord{
			ID:       r.ID,
			Title:    r.Title,
			Message:  r.Message,
			Variant:  string(r.Variant),
			Duration: r.Duration.String(),
		}
	}
	return active
}

// Runner applies scripts to a manager.
type Runner struct {
	manager         *toast.Manager
	waiter          Waiter
	logger          zerolog.Logger
	defaultDuration time.Duration
}

// NewRunner returns a runner logging to logger under the "replay"
// component. Show steps without a duration use defaultDuration.
func NewRunner(m *toast.Manager, w Waiter, logger zerolog.Logger, defaultDuration time.Duration) *Runner {
	return &Runner{
		manager:         m,
		waiter:          w,
		logger:          logging.ComponentFrom(logger, "replay").Hook(logging.ContextHook{}),
		defaultDuration: defaultDuration,
	}
}

// Run validates the script, applies each step at its offset and calls
// emit with the state after each step. Changes made by toast timers
// between steps are emitted as OpExpire frames at the offset they
// happened. When the script sets Until past the last step, one more frame
// is emitted at that offset with Step equal to len(s.Steps).
func (r *Runner) Run(ctx context.Context, s Script, emit func(Frame) error) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid script: %w", err)
	}

	ctx = logging.WithScript(ctx, s.Name)

	rec := newRecorder(r.waiter)
	stop := r.manager.Observe(rec.record)
	defer stop()

	sess := &session{Runner: r, rec: rec, emit: emit}
	sess.mark(r.manager.Snapshot())

	var last time.Duration
	for i, step := range s.Steps {
		at := step.At.Std()
		if err := sess.wait(ctx, at); err != nil {
			return err
		}
		last = at

		stepCtx := logging.WithStep(ctx, i)
		r.apply(stepCtx, step)

		snap := r.manager.Snapshot()
		rec.discardThrough(snap.Version)
		if err := sess.send(NewFrame(at, i, step.Op, snap)); err != nil {
			return fmt.Errorf("emit frame %d: %w", i, err)
		}
	}

	if until := s.Until.Std(); until > last {
		if err := sess.wait(ctx, until); err != nil {
			return err
		}
		if err := sess.send(NewFrame(until, len(s.Steps), "", r.manager.Snapshot())); err != nil {
			return fmt.Errorf("emit final frame: %w", err)
		}
	}

	return nil
}

// session holds the per-Run emit state. Only the goroutine calling Run
// touches it.
type session struct {
	*Runner
	rec  *recorder
	emit func(Frame) error

	version uint64
	anchor  toast.Anchor
}

func (r *session) mark(snap toast.Snapshot) {
	r.version = snap.Version
	r.anchor = snap.Anchor
}

func (r *session) send(f Frame) error {
	r.version = f.Version
	r.anchor = f.Anchor
	return r.emit(f)
}

// wait blocks until offset while emitting expiry frames as they are
// recorded.
func (r *session) wait(ctx context.Context, offset time.Duration) error {
	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- r.waiter.WaitUntil(waitCtx, offset) }()

	for {
		select {
		case err := <-done:
			if err != nil {
				return err
			}
			return r.flush()
		case <-r.rec.wake:
			if err := r.flush(); err != nil {
				cancel()
				<-done
				return err
			}
		}
	}
}

func (r *session) flush() error {
	for _, o := range r.rec.take() {
		if o.snap.Version == r.version && o.snap.Anchor == r.anchor {
			continue
		}

		r.logger.Debug().
			Dur("at", o.at).
			Uint64("version", o.snap.Version).
			Msg("replay timer change")

		if err := r.send(NewFrame(o.at, -1, OpExpire, o.snap)); err != nil {
			return fmt.Errorf("emit expiry frame: %w", err)
		}
	}
	return nil
}

type observed struct {
	at   time.Duration
	snap toast.Snapshot
}

// recorder queues every snapshot the manager publishes, tagged with the
// script offset it was published at.
type recorder struct {
	waiter Waiter
	wake   chan struct{}

	mu    sync.Mutex
	queue []observed
}

func newRecorder(w Waiter) *recorder {
	return &recorder{waiter: w, wake: make(chan struct{}, 1)}
}

// record runs under the manager lock.
func (c *recorder) record(snap toast.Snapshot) {
	at := c.waiter.Elapsed()

	c.mu.Lock()
	c.queue = append(c.queue, observed{at: at, snap: snap})
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *recorder) take() []observed {
	c.mu.Lock()
	defer c.mu.Unlock()

	q := c.queue
	c.queue = nil
	return q
}

// discardThrough drops queued snapshots up to and including version v;
// they are covered by the step frame that follows.
func (c *recorder) discardThrough(v uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.queue[:0]
	for _, o := range c.queue {
		if o.snap.Version > v {
			kept = append(kept, o)
		}
	}
	c.queue = kept
}

func (r *Runner) apply(ctx context.Context, step Step) {
	r.logger.Debug().Ctx(ctx).
		Str("op", string(step.Op)).
		Str("toast_id", step.ID).
		Dur("at", step.At.Std()).
		Msg("replay step")

	switch step.Op {
	case OpShow:
		r.manager.Show(step.Record(r.defaultDuration))
	case OpDismiss:
		r.manager.Dismiss(step.ID)
	case OpDismissAll:
		r.manager.DismissAll()
	case OpAnchor:
		a, _ := toast.ParseAnchor(step.Anchor)
		r.manager.SetAnchor(a)
	case OpSnapshot:
	}
}
