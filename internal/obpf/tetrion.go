package obpf

import (
	"unsafe"

	"github.com/vovakirdan/tetrion/internal/core"
	"github.com/vovakirdan/tetrion/internal/sim"
)

// Tetrion is one native simulation instance. It implements sim.Handle and
// sim.Observer and is not safe for concurrent use.
//
// Any call after Destroy panics: the native pointer is dangling by then and
// continuing would corrupt memory.
type Tetrion struct {
	lib         *Library
	ptr         uintptr
	multiplayer bool
	observed    bool
	destroyed   bool
	handlerID   uintptr

	observerList observerList
	observers    []*Tetrion
}

func newTetrion(lib *Library, ptr uintptr, multiplayer bool) *Tetrion {
	t := &Tetrion{lib: lib, ptr: ptr, multiplayer: multiplayer}
	t.observerList = lib.structs.callObservers(lib, ptr)
	if n := int(t.observerList.count); n > 0 && t.observerList.observers != nil {
		ptrs := unsafe.Slice((*uintptr)(t.observerList.observers), n)
		for _, p := range ptrs {
			t.observers = append(t.observers, &Tetrion{lib: lib, ptr: p, multiplayer: true, observed: true})
		}
	}
	return t
}

func (t *Tetrion) live() uintptr {
	if t.destroyed {
		panic("obpf: tetrion used after destroy")
	}
	return t.ptr
}

// Geometry returns the board dimensions.
func (t *Tetrion) Geometry() core.Geometry {
	t.live()
	return t.lib.Geometry()
}

// NextTick returns the next frame the tetrion will simulate.
func (t *Tetrion) NextTick() uint64 {
	return t.lib.nextFrame(t.live())
}

// SimulateNextTick advances by one frame. Action handlers run before it returns.
func (t *Tetrion) SimulateNextTick(in core.Input) error {
	t.lib.simulateNextFrame(t.live(), t.lib.keyState(in))
	return nil
}

// Cell returns the contents of the matrix at (x, y).
func (t *Tetrion) Cell(x, y int) core.TetrominoType {
	return core.TetrominoType(t.lib.matrixGet(t.live(), packVec2(x, y)))
}

// ActivePiece returns the falling piece, if any.
func (t *Tetrion) ActivePiece() (core.Piece, bool) {
	var out tetromino
	if !t.lib.tryGetActive(t.live(), &out) {
		return core.Piece{}, false
	}
	return out.piece(), true
}

// GhostPiece returns the landing preview of the falling piece, if any.
func (t *Tetrion) GhostPiece() (core.Piece, bool) {
	var out tetromino
	if !t.lib.tryGetGhost(t.live(), &out) {
		return core.Piece{}, false
	}
	return out.piece(), true
}

func (t *Tetrion) HoldPiece() core.TetrominoType {
	return core.TetrominoType(t.lib.holdPiece(t.live()))
}

func (t *Tetrion) PreviewPieces() [core.PreviewCount]core.TetrominoType {
	raw := t.lib.structs.callPreviewPieces(t.lib, t.live())
	var out [core.PreviewCount]core.TetrominoType
	for i, v := range raw.types {
		out[i] = core.TetrominoType(v)
	}
	return out
}

func (t *Tetrion) Stats() core.Stats {
	s := t.lib.structs.callStats(t.lib, t.live())
	return core.Stats{Score: s.score, LinesCleared: s.linesCleared, Level: s.level}
}

func (t *Tetrion) IsGameOver() bool {
	return t.lib.isGameOver(t.live())
}

func (t *Tetrion) LineClearDelay() core.LineClearState {
	return t.lib.structs.callLineClearDelay(t.lib, t.live()).state()
}

// FramesUntilGameStart returns the countdown before a multiplayer game starts.
func (t *Tetrion) FramesUntilGameStart() uint64 {
	ptr := t.live()
	if t.lib.framesUntilStart == nil {
		return 0
	}
	return t.lib.framesUntilStart(ptr)
}

// GarbageQueue returns the pending garbage, oldest first.
func (t *Tetrion) GarbageQueue() []core.GarbageEvent {
	ptr := t.live()
	if t.lib.garbageQueueLength == nil || t.lib.garbageQueueEventSym == 0 {
		return nil
	}
	n := t.lib.garbageQueueLength(ptr)
	if n == 0 {
		return nil
	}
	events := make([]core.GarbageEvent, 0, n)
	for i := uintptr(0); i < n; i++ {
		e := t.lib.structs.callGarbageQueueEvent(t.lib, ptr, i)
		events = append(events, core.GarbageEvent{Lines: int(e.numLines), RemainingFrames: e.remainingFrames})
	}
	return events
}

// GarbageDelayFrames returns how long garbage waits before it is inserted.
func (t *Tetrion) GarbageDelayFrames() uint64 {
	t.live()
	if t.lib.garbageDelayFrames == nil {
		return 0
	}
	return t.lib.garbageDelayFrames()
}

// IsConnected reports whether a multiplayer tetrion still reaches its server.
// Single-player tetrions are always connected.
func (t *Tetrion) IsConnected() bool {
	ptr := t.live()
	if t.lib.isConnected == nil {
		return true
	}
	return t.lib.isConnected(ptr)
}

// Observers returns the peer boards of a multiplayer game. They are owned by
// t and become invalid when t is destroyed.
func (t *Tetrion) Observers() []sim.Observer {
	t.live()
	out := make([]sim.Observer, len(t.observers))
	for i, o := range t.observers {
		out[i] = o
	}
	return out
}

// SetActionHandler routes the tetrion's action events to fn.
func (t *Tetrion) SetActionHandler(fn func(core.Action)) {
	ptr := t.live()
	unregisterHandler(t.handlerID)
	t.handlerID = 0

	if fn == nil {
		t.lib.setActionHandler(ptr, 0, 0)
		return
	}
	t.handlerID = registerHandler(fn)
	t.lib.setActionHandler(ptr, trampolinePtr(), t.handlerID)
}

// Destroy frees the native tetrion and its observers. It is a no-op the
// second time.
func (t *Tetrion) Destroy() {
	if t.destroyed || t.observed {
		return
	}
	t.destroyed = true

	t.lib.destroyTetrion(t.ptr)
	unregisterHandler(t.handlerID)
	t.handlerID = 0

	for _, o := range t.observers {
		o.destroyed = true
	}
	t.observers = nil
	if t.observerList.count > 0 {
		t.lib.destroyObservers(t.observerList.count, t.observerList.observers)
	}
	t.observerList = observerList{}
}

var (
	_ sim.Engine   = (*Library)(nil)
	_ sim.Handle   = (*Tetrion)(nil)
	_ sim.Observer = (*Tetrion)(nil)
)
