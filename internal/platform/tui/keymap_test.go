package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/tetrion/internal/config"
	"github.com/vovakirdan/tetrion/internal/core"
)

func TestKeyLatchHoldWindow(t *testing.T) {
	l := NewKeyLatch(config.DefaultControls(), 100*time.Millisecond)
	t0 := time.Unix(1000, 0)

	assert.True(t, l.Press("a", t0))
	assert.Equal(t, core.Input{Left: true}, l.Input(t0))
	assert.Equal(t, core.Input{Left: true}, l.Input(t0.Add(99*time.Millisecond)))
	assert.True(t, l.Input(t0.Add(100*time.Millisecond)).IsZero(), "released once the window has passed")
}

func TestKeyLatchRepeatKeepsControlHeld(t *testing.T) {
	l := NewKeyLatch(config.DefaultControls(), 100*time.Millisecond)
	t0 := time.Unix(1000, 0)

	l.Press("d", t0)
	l.Press("d", t0.Add(80*time.Millisecond))
	assert.True(t, l.Input(t0.Add(150*time.Millisecond)).Right)
}

func TestKeyLatchCombinesControls(t *testing.T) {
	l := NewKeyLatch(config.DefaultControls(), 100*time.Millisecond)
	t0 := time.Unix(1000, 0)

	l.Press("a", t0)
	l.Press("e", t0)
	l.Press("right", t0)
	assert.Equal(t, core.Input{Left: true, Hold: true, RotateCW: true}, l.Input(t0))
}

func TestKeyLatchIgnoresUnboundKeys(t *testing.T) {
	l := NewKeyLatch(config.DefaultControls(), 100*time.Millisecond)
	t0 := time.Unix(1000, 0)

	assert.False(t, l.Press("z", t0))
	assert.True(t, l.Input(t0).IsZero())
}

func TestKeyLatchReset(t *testing.T) {
	l := NewKeyLatch(config.DefaultControls(), time.Second)
	t0 := time.Unix(1000, 0)

	l.Press("w", t0)
	l.Reset()
	assert.True(t, l.Input(t0).IsZero())
}

func TestKeyName(t *testing.T) {
	assert.Equal(t, "space", keyName(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}))
	assert.Equal(t, "a", keyName(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}))
	assert.Equal(t, "left", keyName(tea.KeyMsg{Type: tea.KeyLeft}))
}
