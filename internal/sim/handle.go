// Package sim runs an external tetrion simulation on a background goroutine at a
// fixed tick rate while the render loop reads consistent snapshots of it.
//
// The engine itself is opaque: everything this package knows about it is the
// Engine and Handle interfaces below. The obpf package implements them on top
// of the native simulator; tests implement them with in-memory doubles.
package sim

import "github.com/vovakirdan/tetrion/internal/core"

// Engine creates simulation handles and answers static piece-shape queries.
type Engine interface {
	// NewTetrion creates a single-player simulation seeded with seed.
	NewTetrion(seed uint64) (Handle, error)

	// NewMultiplayerTetrion creates a simulation connected to a game server.
	NewMultiplayerTetrion(host string, port uint16) (Handle, error)

	// MinoPositions returns the cells of a piece of type t in rotation r,
	// relative to the piece origin. It touches no handle and needs no lock.
	MinoPositions(t core.TetrominoType, r core.Rotation) [core.MinoCount]core.Vec2
}

// Observer is the read-only view of a peer simulation in a multiplayer game.
type Observer interface {
	Cell(x, y int) core.TetrominoType
	IsGameOver() bool
	IsConnected() bool
}

// Handle is one live simulation instance.
//
// None of its methods are safe for concurrent use, and the engine does not
// promise that any single call is atomic with respect to SimulateNextTick.
// Callers serialize every call, reads included, behind one lock.
type Handle interface {
	// Geometry returns the fixed board dimensions.
	Geometry() core.Geometry

	// NextTick returns the number of the next tick that has not been simulated.
	NextTick() uint64

	// SimulateNextTick advances the simulation by exactly one tick.
	// Action notifications fire synchronously from inside this call.
	SimulateNextTick(in core.Input) error

	Cell(x, y int) core.TetrominoType
	ActivePiece() (core.Piece, bool)
	GhostPiece() (core.Piece, bool)
	HoldPiece() core.TetrominoType
	PreviewPieces() [core.PreviewCount]core.TetrominoType
	Stats() core.Stats
	IsGameOver() bool
	LineClearDelay() core.LineClearState
	FramesUntilGameStart() uint64
	GarbageQueue() []core.GarbageEvent
	GarbageDelayFrames() uint64
	IsConnected() bool
	Observers() []Observer

	// SetActionHandler registers fn for action notifications; nil removes it.
	SetActionHandler(fn func(core.Action))

	// Destroy releases the native instance. Calling it twice is a no-op.
	Destroy()
}

// Endpoint is the address of a multiplayer game server.
type Endpoint struct {
	Host string
	Port uint16
}
