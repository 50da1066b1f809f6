package toast

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerScheduler_fires_once(t *testing.T) {
	done := make(chan struct{})
	var calls atomic.Int32

	TimerScheduler{}.Schedule(5*time.Millisecond, func() {
		calls.Add(1)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback did not fire")
	}

	assert.Equal(t, int32(1), calls.Load())
}

func TestTimerScheduler_Cancel_before_fire(t *testing.T) {
	var calls atomic.Int32

	h := TimerScheduler{}.Schedule(20*time.Millisecond, func() { calls.Add(1) })

	assert.True(t, h.Cancel())
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, int32(0), calls.Load())
	assert.False(t, h.Cancel(), "second cancel is a no-op")
}

func TestTimerScheduler_Cancel_after_fire(t *testing.T) {
	done := make(chan struct{})

	h := TimerScheduler{}.Schedule(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback did not fire")
	}

	assert.False(t, h.Cancel())
}

// A runtime timer can fire concurrently with Cancel. Once Cancel wins the
// handle lock, the already started fire must not run the callback.
func TestTimerHandle_fire_after_Cancel_is_noop(t *testing.T) {
	var calls atomic.Int32

	h, ok := TimerScheduler{}.Schedule(time.Hour, func() { calls.Add(1) }).(*timerHandle)
	require.True(t, ok)

	require.True(t, h.Cancel())
	h.fire()

	assert.Equal(t, int32(0), calls.Load())
}

func TestTimerHandle_fire_runs_at_most_once(t *testing.T) {
	var calls atomic.Int32

	h, ok := TimerScheduler{}.Schedule(time.Hour, func() { calls.Add(1) }).(*timerHandle)
	require.True(t, ok)
	t.Cleanup(func() { h.timer.Stop() })

	h.fire()
	h.fire()

	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, h.Cancel())
}
