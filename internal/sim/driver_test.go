package sim

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tetrion/internal/core"
)

func TestTicksDue(t *testing.T) {
	tests := []struct {
		elapsed time.Duration
		want    uint64
	}{
		{0, 0},
		{-time.Second, 0},
		{1, 0},
		{TickDuration - 1, 0},
		{TickDuration, 1},
		{TickDuration + 1, 1},
		{time.Second - 1, 59},
		{time.Second, 60},
		{time.Second + 1, 60},
		{10 * time.Second, 600},
	}
	for _, tt := range tests {
		if got := TicksDue(tt.elapsed); got != tt.want {
			t.Errorf("TicksDue(%v) = %d, want %d", tt.elapsed, got, tt.want)
		}
	}
}

func TestTickTimeRoundTrip(t *testing.T) {
	for n := uint64(1); n < 10000; n++ {
		if got := TicksDue(TickTime(n)); got != n {
			t.Fatalf("TicksDue(TickTime(%d)) = %d", n, got)
		}
		if got := TicksDue(TickTime(n) - 1); got != n-1 {
			t.Fatalf("TicksDue(TickTime(%d)-1) = %d", n, got)
		}
	}
}

func newTestDriver(h Handle, clock Clock, input *Synchronized[core.Input], onTick func()) (*Driver, *sync.Mutex) {
	lock := &sync.Mutex{}
	return NewDriver(DriverConfig{
		Handle:       h,
		Lock:         lock,
		Input:        input,
		Clock:        clock,
		Start:        testStart,
		IdleInterval: -1,
		OnTick:       onTick,
	}), lock
}

func TestDriverRunsToTargetAndStops(t *testing.T) {
	h := newFakeHandle()
	clock := newManualClock()
	input := NewSynchronized(core.Input{HardDrop: true})

	var ticks int
	d, lock := newTestDriver(h, clock, input, func() { ticks++ })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	clock.SetTicks(7)
	require.Eventually(t, func() bool { return h.ticks() == 7 }, waitFor, pollAt)

	cancel()
	require.NoError(t, <-done)

	lock.Lock()
	assert.Equal(t, 7, ticks)
	lock.Unlock()
	for _, in := range h.appliedInputs() {
		assert.Equal(t, core.Input{HardDrop: true}, in)
	}
}

func TestDriverNeverSkipsBackwards(t *testing.T) {
	h := newFakeHandle()
	clock := newManualClock()
	d, _ := newTestDriver(h, clock, NewSynchronized(core.Input{}), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	var last uint64
	for n := uint64(1); n <= 120; n += 7 {
		clock.SetTicks(n)
		require.Eventually(t, func() bool { return h.ticks() == n }, waitFor, pollAt)
		cur := h.ticks()
		assert.GreaterOrEqual(t, cur, last)
		last = cur
	}

	// Moving the clock backwards never rewinds the engine.
	clock.SetTicks(10)
	time.Sleep(settle)
	assert.Equal(t, last, h.ticks())

	cancel()
	require.NoError(t, <-done)
}

func TestDriverReturnsEngineError(t *testing.T) {
	h := newFakeHandle()
	h.failAt = 1
	clock := newManualClock()
	d, _ := newTestDriver(h, clock, NewSynchronized(core.Input{}), nil)

	clock.SetTicks(3)
	err := d.Run(context.Background())
	require.ErrorIs(t, err, errEngine)
	assert.Contains(t, err.Error(), "simulate tick 1")
}

func TestDriverCancelledBeforeStart(t *testing.T) {
	h := newFakeHandle()
	clock := newManualClock()
	clock.SetTicks(100)
	d, _ := newTestDriver(h, clock, NewSynchronized(core.Input{}), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, d.Run(ctx))
	assert.Zero(t, h.ticks())
}
