package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tetrion/internal/config"
	"github.com/vovakirdan/tetrion/internal/core"
)

// keyName returns the name a key message is bound by in the controls file.
func keyName(msg tea.KeyMsg) string {
	switch s := msg.String(); s {
	case " ":
		return "space"
	default:
		return s
	}
}

// KeyLatch turns key presses into held controls.
//
// Terminals report presses and auto-repeats but never releases, so a control
// counts as held while its latest press is younger than the hold window.
// Holding a key keeps it held through the auto-repeat.
type KeyLatch struct {
	controls config.Controls
	window   time.Duration
	pressed  [len(core.Controls)]time.Time
}

// NewKeyLatch creates a latch for the given bindings.
func NewKeyLatch(controls config.Controls, window time.Duration) *KeyLatch {
	return &KeyLatch{controls: controls, window: window}
}

// Press records a key press at now. It reports whether the key is bound.
func (l *KeyLatch) Press(name string, now time.Time) bool {
	c, ok := l.controls.Lookup(name)
	if !ok {
		return false
	}
	l.pressed[c] = now
	return true
}

// Input returns the controls held at now.
func (l *KeyLatch) Input(now time.Time) core.Input {
	var in core.Input
	for _, c := range core.Controls {
		t := l.pressed[c]
		if !t.IsZero() && now.Sub(t) < l.window {
			in = in.With(c, true)
		}
	}
	return in
}

// Reset releases every control.
func (l *KeyLatch) Reset() {
	l.pressed = [len(core.Controls)]time.Time{}
}

// GlobalKeyMap holds the keys every scene understands.
type GlobalKeyMap struct {
	Quit key.Binding
	Back key.Binding
}

// DefaultGlobalKeyMap returns default key bindings.
func DefaultGlobalKeyMap() GlobalKeyMap {
	return GlobalKeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

// MenuKeyMap defines the key bindings for list navigation.
type MenuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k MenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k MenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Select}, {k.Quit}}
}

// DefaultMenuKeyMap returns default key bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}
