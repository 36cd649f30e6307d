package core

// PreviewCount is the number of upcoming pieces the engine exposes.
const PreviewCount = 6

// Stats holds the scoring counters of one tetrion.
type Stats struct {
	Score        uint64
	LinesCleared uint32
	Level        uint32
}

// LineClearState describes a pending line-clear animation.
type LineClearState struct {
	Lines     []int  // Affected rows in matrix coordinates
	Countdown uint64 // Frames left until the rows are removed
	Delay     uint64 // Total delay in frames
}

// Active reports whether the animation is still running.
func (s LineClearState) Active() bool {
	return s.Countdown > 0 && s.Delay > 0
}

// Visibility returns the remaining fraction of the animation in [0, 1].
func (s LineClearState) Visibility() float64 {
	if !s.Active() {
		return 0
	}
	v := float64(s.Countdown) / float64(s.Delay)
	if v > 1 {
		return 1
	}
	return v
}

// GarbageEvent is one pending batch of garbage lines (multiplayer only).
type GarbageEvent struct {
	Lines           int
	RemainingFrames uint64
}
