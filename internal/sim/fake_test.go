package sim

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vovakirdan/tetrion/internal/core"
)

var errEngine = errors.New("engine failure")

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// manualClock only moves when the test moves it.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: testStart}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// SetTicks moves the clock to the instant tick n falls due.
func (c *manualClock) SetTicks(n uint64) {
	c.mu.Lock()
	c.now = testStart.Add(TickTime(n))
	c.mu.Unlock()
}

var testGeometry = core.Geometry{Width: 10, Height: 22, InvisibleRows: 2}

// fakeHandle is an in-memory simulation. Its score is tick*10 and cell (0,0)
// encodes the tick, written in two separate phases of SimulateNextTick so
// that an unsynchronized reader would see them disagree.
type fakeHandle struct {
	mu sync.Mutex

	tick    uint64
	score   uint64
	corner  core.TetrominoType
	inputs  []core.Input
	handler func(core.Action)

	actions  map[uint64]core.Action
	failAt   uint64
	panicAt  uint64
	stallAt  uint64
	delay    time.Duration
	noActive bool
	over     bool

	observers []Observer

	busy             atomic.Int32
	concurrent       atomic.Bool
	destroyed        atomic.Int32
	usedAfterDestroy atomic.Bool
}

func newFakeHandle() *fakeHandle {
	return &fakeHandle{corner: cornerFor(0), actions: map[uint64]core.Action{}}
}

func cornerFor(tick uint64) core.TetrominoType {
	return core.TetrominoType(tick%7 + 1)
}

// enter flags calls that overlap another call or follow Destroy.
func (h *fakeHandle) enter() func() {
	if h.busy.Add(1) != 1 {
		h.concurrent.Store(true)
	}
	if h.destroyed.Load() > 0 {
		h.usedAfterDestroy.Store(true)
	}
	return func() { h.busy.Add(-1) }
}

func (h *fakeHandle) Geometry() core.Geometry {
	defer h.enter()()
	return testGeometry
}

func (h *fakeHandle) NextTick() uint64 {
	defer h.enter()()
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.tick
}

func (h *fakeHandle) SimulateNextTick(in core.Input) error {
	defer h.enter()()

	h.mu.Lock()
	tick := h.tick
	if h.panicAt > 0 && tick == h.panicAt {
		h.mu.Unlock()
		panic("boom")
	}
	if h.failAt > 0 && tick == h.failAt {
		h.mu.Unlock()
		return errEngine
	}
	if h.stallAt > 0 && tick == h.stallAt {
		h.mu.Unlock()
		return nil
	}
	h.score = (tick + 1) * 10
	action, hasAction := h.actions[tick]
	handler := h.handler
	delay := h.delay
	h.mu.Unlock()

	runtime.Gosched()
	if delay > 0 {
		time.Sleep(delay)
	}
	if hasAction && handler != nil {
		handler(action)
	}

	h.mu.Lock()
	h.corner = cornerFor(tick + 1)
	h.inputs = append(h.inputs, in)
	h.tick = tick + 1
	h.mu.Unlock()
	return nil
}

func (h *fakeHandle) Cell(x, y int) core.TetrominoType {
	defer h.enter()()
	h.mu.Lock()
	defer h.mu.Unlock()
	if x == 0 && y == 0 {
		return h.corner
	}
	return core.Empty
}

func (h *fakeHandle) ActivePiece() (core.Piece, bool) {
	defer h.enter()()
	if h.noActive {
		return core.Piece{}, false
	}
	return core.Piece{Type: core.T, Minos: [4]core.Vec2{{X: 4, Y: 2}, {X: 5, Y: 2}, {X: 6, Y: 2}, {X: 5, Y: 1}}}, true
}

func (h *fakeHandle) GhostPiece() (core.Piece, bool) {
	defer h.enter()()
	return core.Piece{Type: core.T, Minos: [4]core.Vec2{{X: 4, Y: 21}, {X: 5, Y: 21}, {X: 6, Y: 21}, {X: 5, Y: 20}}}, true
}

func (h *fakeHandle) HoldPiece() core.TetrominoType {
	defer h.enter()()
	return core.I
}

func (h *fakeHandle) PreviewPieces() [core.PreviewCount]core.TetrominoType {
	defer h.enter()()
	return [core.PreviewCount]core.TetrominoType{core.O, core.S, core.Z, core.J, core.L, core.Empty}
}

func (h *fakeHandle) Stats() core.Stats {
	defer h.enter()()
	h.mu.Lock()
	defer h.mu.Unlock()
	return core.Stats{Score: h.score, Level: 1}
}

func (h *fakeHandle) IsGameOver() bool {
	defer h.enter()()
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.over
}

func (h *fakeHandle) LineClearDelay() core.LineClearState {
	defer h.enter()()
	return core.LineClearState{}
}

func (h *fakeHandle) FramesUntilGameStart() uint64 {
	defer h.enter()()
	return 0
}

func (h *fakeHandle) GarbageQueue() []core.GarbageEvent {
	defer h.enter()()
	return []core.GarbageEvent{{Lines: 2, RemainingFrames: 30}, {Lines: 1, RemainingFrames: 60}}
}

func (h *fakeHandle) GarbageDelayFrames() uint64 {
	defer h.enter()()
	return 60
}

func (h *fakeHandle) IsConnected() bool {
	defer h.enter()()
	return true
}

func (h *fakeHandle) Observers() []Observer {
	defer h.enter()()
	return h.observers
}

func (h *fakeHandle) SetActionHandler(fn func(core.Action)) {
	defer h.enter()()
	h.mu.Lock()
	h.handler = fn
	h.mu.Unlock()
}

func (h *fakeHandle) Destroy() {
	defer h.enter()()
	h.destroyed.Add(1)
}

// ticks returns the tick count without counting as an engine call.
func (h *fakeHandle) ticks() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.tick
}

// appliedInputs returns the inputs applied so far, one per tick.
func (h *fakeHandle) appliedInputs() []core.Input {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]core.Input(nil), h.inputs...)
}

type fakeObserver struct {
	over bool
}

func (o fakeObserver) Cell(x, y int) core.TetrominoType {
	if y == testGeometry.Height-1 {
		return core.Garbage
	}
	return core.Empty
}

func (o fakeObserver) IsGameOver() bool  { return o.over }
func (o fakeObserver) IsConnected() bool { return true }

type fakeEngine struct {
	mu        sync.Mutex
	handles   []*fakeHandle
	newErr    error
	seed      uint64
	host      string
	port      uint16
	configure func(h *fakeHandle)
}

func (e *fakeEngine) newHandle() *fakeHandle {
	h := newFakeHandle()
	if e.configure != nil {
		e.configure(h)
	}
	e.handles = append(e.handles, h)
	return h
}

func (e *fakeEngine) NewTetrion(seed uint64) (Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.newErr != nil {
		return nil, e.newErr
	}
	e.seed = seed
	return e.newHandle(), nil
}

func (e *fakeEngine) NewMultiplayerTetrion(host string, port uint16) (Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.newErr != nil {
		return nil, e.newErr
	}
	e.host, e.port = host, port
	h := e.newHandle()
	h.observers = []Observer{fakeObserver{}, fakeObserver{over: true}}
	return h, nil
}

func (e *fakeEngine) MinoPositions(t core.TetrominoType, r core.Rotation) [core.MinoCount]core.Vec2 {
	return [core.MinoCount]core.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: int(t), Y: int(r)}}
}

func (e *fakeEngine) handle() *fakeHandle {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.handles) == 0 {
		return nil
	}
	return e.handles[len(e.handles)-1]
}
