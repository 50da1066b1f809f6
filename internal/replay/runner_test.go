package replay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/toast/internal/core/toast"
)

func newTestRunner(t *testing.T) (*Runner, *toast.Manager) {
	t.Helper()

	clock := toast.NewVirtualScheduler()
	m := toast.NewManager(toast.WithScheduler(clock), toast.WithLogger(zerolog.Nop()))
	t.Cleanup(m.Close)

	return NewRunner(m, NewPacedWaiter(clock, NoSleep), zerolog.Nop(), toast.DefaultDuration), m
}

func collect(frames *[]Frame) func(Frame) error {
	return func(f Frame) error {
		*frames = append(*frames, f)
		return nil
	}
}

func dur(d time.Duration) *Duration {
	v := Duration(d)
	return &v
}

func TestRunner_replacement_scenario(t *testing.T) {
	r, _ := newTestRunner(t)

	script := Script{
		Name:  "replace",
		Until: Duration(11 * time.Second),
		Steps: []Step{
			{At: 0, Op: OpShow, ID: "a", Title: "first", Duration: dur(4 * time.Second)},
			{At: Duration(time.Second), Op: OpShow, ID: "a", Title: "second", Duration: dur(10 * time.Second)},
			{At: Duration(4 * time.Second), Op: OpSnapshot},
			{At: Duration(11*time.Second - time.Millisecond), Op: OpSnapshot},
		},
	}

	var frames []Frame
	require.NoError(t, r.Run(context.Background(), script, collect(&frames)))
	require.Len(t, frames, 6)

	assert.Equal(t, []string{"a"}, frames[0].IDs())
	assert.Equal(t, "first", frames[0].Active[0].Title)

	assert.Equal(t, []string{"a"}, frames[2].IDs(), "active at t=4")
	assert.Equal(t, "second", frames[2].Active[0].Title)
	assert.Equal(t, "4s", frames[2].At)

	assert.Equal(t, []string{"a"}, frames[3].IDs(), "still active just before t=11")

	expired := frames[4]
	assert.Equal(t, OpExpire, expired.Op)
	assert.Equal(t, -1, expired.Step)
	assert.Equal(t, "11s", expired.At)
	assert.Empty(t, expired.IDs())

	final := frames[5]
	assert.Equal(t, 4, final.Step)
	assert.Equal(t, "11s", final.At)
	assert.Empty(t, final.IDs(), "absent at t=11")
}

func TestRunner_dismiss_scenario(t *testing.T) {
	r, _ := newTestRunner(t)

	script := Script{Steps: []Step{
		{Op: OpShow, ID: "x", Title: "x"},
		{Op: OpShow, ID: "y", Title: "y"},
		{Op: OpDismiss, ID: "x"},
	}}

	var frames []Frame
	require.NoError(t, r.Run(context.Background(), script, collect(&frames)))

	require.Len(t, frames, 3)
	assert.Equal(t, []string{"x", "y"}, frames[1].IDs())
	assert.Equal(t, []string{"y"}, frames[2].IDs())
	assert.Equal(t, OpDismiss, frames[2].Op)
}

func TestRunner_anchor_and_dismiss_all(t *testing.T) {
	r, m := newTestRunner(t)

	script := Script{Steps: []Step{
		{Op: OpShow, ID: "a", Title: "a", Duration: dur(0)},
		{Op: OpShow, ID: "b", Title: "b"},
		{At: Duration(time.Second), Op: OpAnchor, Anchor: "top"},
		{At: Duration(2 * time.Second), Op: OpDismissAll},
	}}

	var frames []Frame
	require.NoError(t, r.Run(context.Background(), script, collect(&frames)))

	require.Len(t, frames, 4)
	assert.Equal(t, toast.AnchorTop, frames[2].Anchor)
	assert.Equal(t, frames[1].Version, frames[2].Version)
	assert.Empty(t, frames[3].Active)
	assert.Equal(t, toast.AnchorTop, m.Anchor())
}

func TestRunner_default_duration_expires(t *testing.T) {
	r, _ := newTestRunner(t)

	script := Script{
		Until: Duration(toast.DefaultDuration),
		Steps: []Step{{Op: OpShow, ID: "a", Title: "a"}},
	}

	var frames []Frame
	require.NoError(t, r.Run(context.Background(), script, collect(&frames)))

	require.Len(t, frames, 3)
	assert.Equal(t, toast.DefaultDuration.String(), frames[0].Active[0].Duration)
	assert.Equal(t, OpExpire, frames[1].Op)
	assert.Equal(t, toast.DefaultDuration.String(), frames[1].At)
	assert.Empty(t, frames[1].Active)
	assert.Empty(t, frames[2].Active)
}

func TestRunner_expiry_between_steps_gets_own_frame(t *testing.T) {
	r, _ := newTestRunner(t)

	script := Script{
		Until: Duration(3 * time.Second),
		Steps: []Step{{Op: OpShow, ID: "a", Title: "a", Duration: dur(time.Second)}},
	}

	var frames []Frame
	require.NoError(t, r.Run(context.Background(), script, collect(&frames)))
	require.Len(t, frames, 3)

	assert.Equal(t, "0s", frames[0].At)
	assert.Equal(t, []string{"a"}, frames[0].IDs())

	assert.Equal(t, "1s", frames[1].At)
	assert.Equal(t, OpExpire, frames[1].Op)
	assert.Empty(t, frames[1].IDs())
	assert.Greater(t, frames[1].Version, frames[0].Version)

	assert.Equal(t, "3s", frames[2].At)
	assert.Equal(t, 1, frames[2].Step)
}

func TestRunner_expiries_are_reported_in_order(t *testing.T) {
	r, _ := newTestRunner(t)

	script := Script{
		Until: Duration(5 * time.Second),
		Steps: []Step{
			{Op: OpShow, ID: "slow", Title: "slow", Duration: dur(3 * time.Second)},
			{Op: OpShow, ID: "fast", Title: "fast", Duration: dur(time.Second)},
			{At: Duration(2 * time.Second), Op: OpSnapshot},
		},
	}

	var frames []Frame
	require.NoError(t, r.Run(context.Background(), script, collect(&frames)))
	require.Len(t, frames, 6)

	assert.Equal(t, "1s", frames[2].At)
	assert.Equal(t, []string{"slow"}, frames[2].IDs())
	assert.Equal(t, OpSnapshot, frames[3].Op)
	assert.Equal(t, "3s", frames[4].At)
	assert.Empty(t, frames[4].IDs())
	assert.Equal(t, "5s", frames[5].At)
}

func TestRunner_expiry_at_step_offset_fires_first(t *testing.T) {
	r, _ := newTestRunner(t)

	script := Script{Steps: []Step{
		{Op: OpShow, ID: "a", Title: "a", Duration: dur(4 * time.Second)},
		{At: Duration(4 * time.Second), Op: OpSnapshot},
	}}

	var frames []Frame
	require.NoError(t, r.Run(context.Background(), script, collect(&frames)))
	require.Len(t, frames, 3)

	assert.Equal(t, OpExpire, frames[1].Op)
	assert.Equal(t, "4s", frames[1].At)
	assert.Equal(t, OpSnapshot, frames[2].Op)
	assert.Empty(t, frames[2].IDs(), "absent at exactly its duration")
}

func TestRunner_step_changes_are_not_repeated_as_expiries(t *testing.T) {
	r, _ := newTestRunner(t)

	script := Script{Steps: []Step{
		{Op: OpShow, ID: "a", Title: "a", Duration: dur(0)},
		{At: Duration(time.Second), Op: OpAnchor, Anchor: "top"},
		{At: Duration(2 * time.Second), Op: OpDismiss, ID: "a"},
	}}

	var frames []Frame
	require.NoError(t, r.Run(context.Background(), script, collect(&frames)))
	require.Len(t, frames, 3)
	for _, f := range frames {
		assert.NotEqual(t, OpExpire, f.Op)
	}
}

func TestRunner_logs_steps_as_replay_component(t *testing.T) {
	clock := toast.NewVirtualScheduler()
	m := toast.NewManager(toast.WithScheduler(clock), toast.WithLogger(zerolog.Nop()))
	t.Cleanup(m.Close)

	var buf bytes.Buffer
	r := NewRunner(m, NewPacedWaiter(clock, NoSleep), zerolog.New(&buf).Level(zerolog.DebugLevel), time.Second)

	script := Script{Name: "boot", Steps: []Step{{Op: OpShow, ID: "a", Title: "a"}}}
	require.NoError(t, r.Run(context.Background(), script, collect(new([]Frame))))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.SplitN(buf.Bytes(), []byte("\n"), 2)[0], &entry))
	assert.Equal(t, "replay", entry["cmp"])
	assert.Equal(t, "boot", entry["script"])
	assert.EqualValues(t, 0, entry["step"])
	assert.Equal(t, "a", entry["toast_id"])
}

func TestRunner_invalid_script(t *testing.T) {
	r, _ := newTestRunner(t)

	err := r.Run(context.Background(), Script{}, collect(new([]Frame)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid script")
}

func TestRunner_emit_error_stops_run(t *testing.T) {
	r, m := newTestRunner(t)

	script := Script{Steps: []Step{
		{Op: OpShow, ID: "a", Title: "a"},
		{Op: OpShow, ID: "b", Title: "b"},
	}}

	boom := errors.New("boom")
	err := r.Run(context.Background(), script, func(Frame) error { return boom })

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, m.Len(), "second step never ran")
}

func TestRunner_context_cancelled(t *testing.T) {
	m := toast.NewManager(toast.WithLogger(zerolog.Nop()))
	t.Cleanup(m.Close)

	r := NewRunner(m, NewPacedWaiter(toast.NewVirtualScheduler(), nil), zerolog.Nop(), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	script := Script{Steps: []Step{{At: Duration(time.Hour), Op: OpSnapshot}}}
	err := r.Run(ctx, script, collect(new([]Frame)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPacedWaiter_sleeps_to_each_deadline(t *testing.T) {
	clock := toast.NewVirtualScheduler()

	var fired []time.Duration
	clock.Schedule(time.Second, func() { fired = append(fired, clock.Now()) })
	clock.Schedule(3*time.Second, func() { fired = append(fired, clock.Now()) })

	var slept []time.Duration
	w := NewPacedWaiter(clock, func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return ctx.Err()
	})

	require.NoError(t, w.WaitUntil(context.Background(), 4*time.Second))

	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, time.Second}, slept)
	assert.Equal(t, []time.Duration{time.Second, 3 * time.Second}, fired)
	assert.Equal(t, 4*time.Second, w.Elapsed())
}

func TestSleep(t *testing.T) {
	start := time.Now()
	require.NoError(t, Sleep(context.Background(), 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)

	// Non-positive durations return immediately.
	require.NoError(t, Sleep(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
}
