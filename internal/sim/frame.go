package sim

import (
	"time"

	"github.com/vovakirdan/tetrion/internal/core"
)

// AllClearDuration is how many ticks the all-clear flash lasts.
const AllClearDuration = 15

// ObserverFrame is the read-only state of one peer board.
type ObserverFrame struct {
	Matrix    core.Matrix
	GameOver  bool
	Connected bool
}

// Frame is a copy of everything the renderer draws, taken at one instant.
// It shares no memory with the engine and is never touched by the driver.
type Frame struct {
	Tick     uint64
	Geometry core.Geometry
	Matrix   core.Matrix

	Active    core.Piece
	HasActive bool
	Ghost     core.Piece
	HasGhost  bool

	// Hold.Type is core.Empty when nothing is held.
	Hold     core.Piece
	Previews [core.PreviewCount]core.Piece

	Stats            core.Stats
	GameOver         bool
	FramesUntilStart uint64
	LineClear        core.LineClearState

	Garbage      []core.GarbageEvent
	GarbageDelay uint64

	// AllClear counts down the remaining ticks of the all-clear flash.
	AllClear int

	Multiplayer bool
	Connected   bool
	Observers   []ObserverFrame
}

// Elapsed returns the simulated time.
func (f Frame) Elapsed() time.Duration {
	return TickTime(f.Tick)
}

// AllClearRatio returns the remaining fraction of the all-clear flash.
func (f Frame) AllClearRatio() float64 {
	if f.AllClear <= 0 {
		return 0
	}
	return float64(f.AllClear) / AllClearDuration
}

// Starting reports whether the countdown before the game start is running.
func (f Frame) Starting() bool {
	return f.FramesUntilStart > 0
}

// PendingGarbage returns the total number of queued garbage lines.
func (f Frame) PendingGarbage() int {
	n := 0
	for _, e := range f.Garbage {
		n += e.Lines
	}
	return n
}

// readFrame copies the state of h. The caller must hold the handle lock.
func readFrame(h Handle, g core.Geometry) Frame {
	f := Frame{
		Tick:             h.NextTick(),
		Geometry:         g,
		Matrix:           readMatrix(h, g),
		Stats:            h.Stats(),
		GameOver:         h.IsGameOver(),
		FramesUntilStart: h.FramesUntilGameStart(),
		LineClear:        h.LineClearDelay(),
		Garbage:          h.GarbageQueue(),
		GarbageDelay:     h.GarbageDelayFrames(),
		Connected:        h.IsConnected(),
	}

	f.Active, f.HasActive = h.ActivePiece()
	if f.HasActive {
		f.Ghost, f.HasGhost = h.GhostPiece()
	}

	f.Hold.Type = h.HoldPiece()
	for i, t := range h.PreviewPieces() {
		f.Previews[i].Type = t
	}

	for _, o := range h.Observers() {
		f.Observers = append(f.Observers, ObserverFrame{
			Matrix:    readMatrix(o, g),
			GameOver:  o.IsGameOver(),
			Connected: o.IsConnected(),
		})
	}
	return f
}

type cellReader interface {
	Cell(x, y int) core.TetrominoType
}

func readMatrix(r cellReader, g core.Geometry) core.Matrix {
	m := core.NewMatrix(g.Width, g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			m.Set(x, y, r.Cell(x, y))
		}
	}
	return m
}

// fillShapes resolves the mino positions of the hold and preview pieces.
// Shapes are static engine data, so this runs without the handle lock.
func fillShapes(f *Frame, e Engine) {
	if f.Hold.Type != core.Empty {
		f.Hold.Minos = e.MinoPositions(f.Hold.Type, core.North)
	}
	for i := range f.Previews {
		if f.Previews[i].Type != core.Empty {
			f.Previews[i].Minos = e.MinoPositions(f.Previews[i].Type, core.North)
		}
	}
}
