// Package audio plays short synthesized effects for engine actions.
package audio

import "github.com/vovakirdan/tetrion/internal/core"

// Sound identifies one effect.
type Sound int

const (
	SoundSwiff Sound = iota // hard drop
	SoundClick              // piece locks
	SoundClear1
	SoundClear2
	SoundClear3
	SoundClear4
	soundCount
)

func (s Sound) String() string {
	switch s {
	case SoundSwiff:
		return "swiff"
	case SoundClick:
		return "click"
	case SoundClear1:
		return "clear1"
	case SoundClear2:
		return "clear2"
	case SoundClear3:
		return "clear3"
	case SoundClear4:
		return "clear4"
	default:
		return "unknown"
	}
}

// ForAction returns the effect an action plays. Rotations and all clears are
// silent; the all clear is shown, not heard.
func ForAction(a core.Action) (Sound, bool) {
	switch a {
	case core.ActionHardDrop:
		return SoundSwiff, true
	case core.ActionTouch:
		return SoundClick, true
	case core.ActionClear1:
		return SoundClear1, true
	case core.ActionClear2:
		return SoundClear2, true
	case core.ActionClear3:
		return SoundClear3, true
	case core.ActionClear4:
		return SoundClear4, true
	default:
		return 0, false
	}
}
