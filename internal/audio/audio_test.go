package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tetrion/internal/core"
)

func TestForAction(t *testing.T) {
	tests := []struct {
		action core.Action
		sound  Sound
		ok     bool
	}{
		{core.ActionHardDrop, SoundSwiff, true},
		{core.ActionTouch, SoundClick, true},
		{core.ActionClear1, SoundClear1, true},
		{core.ActionClear4, SoundClear4, true},
		{core.ActionRotateCW, 0, false},
		{core.ActionRotateCCW, 0, false},
		{core.ActionAllClear, 0, false},
	}
	for _, tt := range tests {
		s, ok := ForAction(tt.action)
		assert.Equal(t, tt.ok, ok, tt.action.String())
		if tt.ok {
			assert.Equal(t, tt.sound, s, tt.action.String())
		}
	}
}

func TestPoolNeverRepeats(t *testing.T) {
	p := NewPool(3)
	last := -1
	for i := 0; i < 200; i++ {
		n := p.Next()
		require.GreaterOrEqual(t, n, 0)
		require.Less(t, n, 3)
		require.NotEqual(t, last, n, "variant repeated at draw %d", i)
		last = n
	}
}

func TestPoolSingleAndEmpty(t *testing.T) {
	assert.Equal(t, 0, NewPool(1).Next())
	assert.Equal(t, 0, NewPool(1).Next())
	assert.Equal(t, -1, NewPool(0).Next())
}

func TestPoolRetriesOnRepeat(t *testing.T) {
	draws := []int{1, 1, 1, 0}
	p := NewPool(2)
	p.rand = func(int) int {
		v := draws[0]
		draws = draws[1:]
		return v
	}
	assert.Equal(t, 1, p.Next())
	assert.Equal(t, 0, p.Next())
	assert.Empty(t, draws)
}

func TestOscillatorDuration(t *testing.T) {
	rate := beep.SampleRate(44100)
	osc := NewOscillator(440, 0, 10*time.Millisecond, WaveSquare, rate)

	buf := make([][2]float64, 1000)
	n, ok := osc.Stream(buf)
	assert.True(t, ok)
	assert.Equal(t, rate.N(10*time.Millisecond), n)
	for i := 0; i < n; i++ {
		assert.Contains(t, []float64{-1, 1}, buf[i][0])
	}

	n, ok = osc.Stream(buf)
	assert.False(t, ok)
	assert.Zero(t, n)
}

func TestEnvelopeFades(t *testing.T) {
	rate := beep.SampleRate(1000)
	osc := NewOscillator(0, 0, 100*time.Millisecond, WaveSaw, rate)
	env := NewEnvelope(osc, 100*time.Millisecond, 10*time.Millisecond, 10*time.Millisecond, rate)

	buf := make([][2]float64, 100)
	n, _ := env.Stream(buf)
	require.Equal(t, 100, n)

	// A zero-frequency saw is a constant -1, so the envelope is visible directly.
	assert.InDelta(t, 0, buf[0][0], 1e-9)
	assert.InDelta(t, -1, buf[50][0], 1e-9)
	assert.Greater(t, buf[99][0], -0.2)
}

func TestSynthesizeEveryVariant(t *testing.T) {
	rate := beep.SampleRate(8000)
	for s := Sound(0); s < soundCount; s++ {
		for v := 0; v < VariantCount(s); v++ {
			st := Synthesize(s, v, 0.5, rate)
			total := 0
			buf := make([][2]float64, 512)
			for {
				n, ok := st.Stream(buf)
				total += n
				for i := 0; i < n; i++ {
					require.LessOrEqual(t, buf[i][0], 1.0)
					require.GreaterOrEqual(t, buf[i][0], -1.0)
				}
				if !ok {
					break
				}
				require.Less(t, total, rate.N(2*time.Second), "%s variant %d never ends", s, v)
			}
			assert.Positive(t, total, "%s variant %d", s, v)
		}
	}
}

func TestManagerDropsWhenQueueFull(t *testing.T) {
	m := NewManager(1, nil)
	for i := 0; i < queueSize*2; i++ {
		m.HandleAction(core.ActionTouch)
	}
	assert.Len(t, m.queue, queueSize)

	m.HandleAction(core.ActionRotateCW)
	assert.Len(t, m.queue, queueSize)

	// Close without Initialize leaves the speaker untouched.
	m.Close()
}

func TestManagerSingleUse(t *testing.T) {
	m := NewManager(1, nil)
	m.Close()
	m.Close()

	// Initialize must refuse before it reaches the speaker.
	assert.ErrorIs(t, m.Initialize(), ErrClosed)
}
