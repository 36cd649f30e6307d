package tui

import (
	"errors"
	"sync/atomic"

	"github.com/vovakirdan/tetrion/internal/core"
	"github.com/vovakirdan/tetrion/internal/sim"
)

// stubEngine hands out stubHandles. A handle reports game over once overAt
// ticks have been simulated; zero means never.
type stubEngine struct {
	overAt  uint64
	newErr  error
	created atomic.Int32
	last    atomic.Pointer[stubHandle]
}

func (e *stubEngine) NewTetrion(seed uint64) (sim.Handle, error) {
	return e.create()
}

func (e *stubEngine) NewMultiplayerTetrion(host string, port uint16) (sim.Handle, error) {
	return e.create()
}

func (e *stubEngine) create() (sim.Handle, error) {
	if e.newErr != nil {
		return nil, e.newErr
	}
	h := &stubHandle{overAt: e.overAt}
	e.created.Add(1)
	e.last.Store(h)
	return h, nil
}

func (e *stubEngine) MinoPositions(t core.TetrominoType, r core.Rotation) [core.MinoCount]core.Vec2 {
	return [core.MinoCount]core.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}
}

var errStub = errors.New("stub: no engine")

// stubHandle is only touched under the session lock, except for destroyed.
type stubHandle struct {
	tick      uint64
	overAt    uint64
	lastInput core.Input
	destroyed atomic.Bool
}

func (h *stubHandle) Geometry() core.Geometry {
	return core.Geometry{Width: 10, Height: 22, InvisibleRows: 2}
}

func (h *stubHandle) NextTick() uint64 { return h.tick }

func (h *stubHandle) SimulateNextTick(in core.Input) error {
	h.lastInput = in
	h.tick++
	return nil
}

func (h *stubHandle) over() bool { return h.overAt > 0 && h.tick >= h.overAt }

func (h *stubHandle) Cell(x, y int) core.TetrominoType {
	if y == 21 && x == 0 {
		return core.Garbage
	}
	return core.Empty
}

func (h *stubHandle) ActivePiece() (core.Piece, bool) {
	if h.over() {
		return core.Piece{}, false
	}
	return core.Piece{Type: core.T, Minos: [4]core.Vec2{{X: 4, Y: 2}, {X: 5, Y: 2}, {X: 6, Y: 2}, {X: 5, Y: 3}}}, true
}

func (h *stubHandle) GhostPiece() (core.Piece, bool) { return core.Piece{}, false }

func (h *stubHandle) HoldPiece() core.TetrominoType { return core.Empty }

func (h *stubHandle) PreviewPieces() [core.PreviewCount]core.TetrominoType {
	return [core.PreviewCount]core.TetrominoType{core.I, core.O}
}

func (h *stubHandle) Stats() core.Stats {
	ticks := h.tick
	if h.over() {
		ticks = h.overAt
	}
	return core.Stats{Score: ticks * 10, LinesCleared: 2, Level: 1}
}

func (h *stubHandle) IsGameOver() bool                    { return h.over() }
func (h *stubHandle) LineClearDelay() core.LineClearState { return core.LineClearState{} }
func (h *stubHandle) FramesUntilGameStart() uint64        { return 0 }
func (h *stubHandle) GarbageQueue() []core.GarbageEvent   { return nil }
func (h *stubHandle) GarbageDelayFrames() uint64          { return 0 }
func (h *stubHandle) IsConnected() bool                   { return true }
func (h *stubHandle) Observers() []sim.Observer           { return nil }
func (h *stubHandle) SetActionHandler(func(core.Action))  {}
func (h *stubHandle) Destroy()                            { h.destroyed.Store(true) }
