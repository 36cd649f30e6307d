// Package obpf binds the native obpf tetrion simulator.
//
// The shared library is loaded at run time with purego, so building the
// client needs neither cgo nor the library itself.
package obpf

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/vovakirdan/tetrion/internal/core"
	"github.com/vovakirdan/tetrion/internal/sim"
)

var (
	// ErrUnsupported is returned by Open where the library cannot be loaded
	// or its struct results cannot be received.
	ErrUnsupported = errors.New("obpf: dynamic loading is not supported on this platform")

	// ErrCreate is returned when the engine refuses to create a tetrion.
	ErrCreate = errors.New("obpf: engine returned no tetrion")
)

// Library is a loaded obpf shared library. It implements sim.Engine.
type Library struct {
	path   string
	handle uintptr

	createTetrion            func(seed uint64) uintptr
	createMultiplayerTetrion func(host string, port uint16) uintptr
	destroyTetrion           func(t uintptr)
	keyStateCreate           func(left, right, down, drop, cw, ccw, hold bool) uint8
	simulateNextFrame        func(t uintptr, keys uint8)
	nextFrame                func(t uintptr) uint64
	matrixGet                func(t uintptr, pos uint16) int32
	tryGetActive             func(t uintptr, out *tetromino) bool
	tryGetGhost              func(t uintptr, out *tetromino) bool
	holdPiece                func(t uintptr) int32
	isGameOver               func(t uintptr) bool
	setActionHandler         func(t uintptr, handler uintptr, userData uintptr)
	destroyObservers         func(count uintptr, observers unsafe.Pointer)
	width                    func() uint8
	height                   func() uint8
	invisibleLines           func() uint8
	minoPositions            func(kind int32, rotation int32) uint64

	// Missing from older builds of the library.
	framesUntilStart   func(t uintptr) uint64
	isConnected        func(t uintptr) bool
	garbageQueueLength func(t uintptr) uintptr
	garbageDelayFrames func() uint64

	// Functions returning structs by value. How they are called depends on
	// the platform ABI, see structCalls.
	previewPiecesSym     uintptr
	statsSym             uintptr
	lineClearDelaySym    uintptr
	observersSym         uintptr
	garbageQueueEventSym uintptr
	structs              structCalls
}

// symbol is either bound to a Go func through fn or recorded raw in addr.
type symbol struct {
	name     string
	fn       any
	addr     *uintptr
	optional bool
}

func (l *Library) symbols() []symbol {
	return []symbol{
		{name: "obpf_create_tetrion", fn: &l.createTetrion},
		{name: "obpf_create_multiplayer_tetrion", fn: &l.createMultiplayerTetrion},
		{name: "obpf_destroy_tetrion", fn: &l.destroyTetrion},
		{name: "obpf_key_state_create", fn: &l.keyStateCreate, optional: true},
		{name: "obpf_tetrion_simulate_next_frame", fn: &l.simulateNextFrame},
		{name: "obpf_tetrion_get_next_frame", fn: &l.nextFrame},
		{name: "obpf_tetrion_matrix_get", fn: &l.matrixGet},
		{name: "obpf_tetrion_try_get_active_tetromino", fn: &l.tryGetActive},
		{name: "obpf_tetrion_try_get_ghost_tetromino", fn: &l.tryGetGhost},
		{name: "obpf_tetrion_get_hold_piece", fn: &l.holdPiece},
		{name: "obpf_tetrion_get_preview_pieces", addr: &l.previewPiecesSym},
		{name: "obpf_tetrion_get_stats", addr: &l.statsSym},
		{name: "obpf_tetrion_is_game_over", fn: &l.isGameOver},
		{name: "obpf_tetrion_get_line_clear_delay_state", addr: &l.lineClearDelaySym},
		{name: "obpf_tetrion_set_action_handler", fn: &l.setActionHandler},
		{name: "obpf_tetrion_get_observers", addr: &l.observersSym},
		{name: "obpf_destroy_observers", fn: &l.destroyObservers},
		{name: "obpf_tetrion_width", fn: &l.width},
		{name: "obpf_tetrion_height", fn: &l.height},
		{name: "obpf_tetrion_num_invisible_lines", fn: &l.invisibleLines},
		{name: "obpf_tetromino_get_mino_positions", fn: &l.minoPositions},
		{name: "obpf_tetrion_frames_until_game_start", fn: &l.framesUntilStart, optional: true},
		{name: "obpf_tetrion_is_connected", fn: &l.isConnected, optional: true},
		{name: "obpf_tetrion_get_garbage_queue_length", fn: &l.garbageQueueLength, optional: true},
		{name: "obpf_tetrion_get_garbage_queue_event", addr: &l.garbageQueueEventSym, optional: true},
		{name: "obpf_garbage_delay_frames", fn: &l.garbageDelayFrames, optional: true},
	}
}

// Open loads the library at path and resolves its symbols. It returns
// ErrUnsupported where the engine's struct-returning functions cannot be
// called safely.
func Open(path string) (*Library, error) {
	if !nativeStructReturns {
		return nil, fmt.Errorf("obpf: load %s: %w", path, ErrUnsupported)
	}
	handle, err := load(path)
	if err != nil {
		return nil, fmt.Errorf("obpf: load %s: %w", path, err)
	}

	l := &Library{path: path, handle: handle}
	if err := l.resolve(func(name string) (uintptr, error) { return lookup(handle, name) }); err != nil {
		_ = unload(handle)
		return nil, err
	}
	return l, nil
}

func (l *Library) resolve(find func(name string) (uintptr, error)) error {
	for _, s := range l.symbols() {
		ptr, err := find(s.name)
		if err != nil {
			if s.optional {
				continue
			}
			return fmt.Errorf("obpf: resolve %s: %w", s.name, err)
		}
		if s.addr != nil {
			*s.addr = ptr
			continue
		}
		bind(s.fn, ptr)
	}
	return l.structs.bind(l)
}

// Path returns the file the library was loaded from.
func (l *Library) Path() string { return l.path }

// Close unloads the library. Every tetrion must be destroyed first.
func (l *Library) Close() error {
	if l.handle == 0 {
		return nil
	}
	err := unload(l.handle)
	l.handle = 0
	return err
}

// Geometry returns the board dimensions, which are fixed for the library.
func (l *Library) Geometry() core.Geometry {
	return core.Geometry{
		Width:         int(l.width()),
		Height:        int(l.height()),
		InvisibleRows: int(l.invisibleLines()),
	}
}

// NewTetrion creates a single-player tetrion.
func (l *Library) NewTetrion(seed uint64) (sim.Handle, error) {
	ptr := l.createTetrion(seed)
	if ptr == 0 {
		return nil, ErrCreate
	}
	return newTetrion(l, ptr, false), nil
}

// NewMultiplayerTetrion connects to a game server and creates a tetrion for
// the local player.
func (l *Library) NewMultiplayerTetrion(host string, port uint16) (sim.Handle, error) {
	ptr := l.createMultiplayerTetrion(host, port)
	if ptr == 0 {
		return nil, ErrCreate
	}
	return newTetrion(l, ptr, true), nil
}

// MinoPositions returns the shape of a piece.
func (l *Library) MinoPositions(t core.TetrominoType, r core.Rotation) [core.MinoCount]core.Vec2 {
	return unpackMinos(l.minoPositions(int32(t), int32(r)))
}

func (l *Library) keyState(in core.Input) uint8 {
	if l.keyStateCreate == nil {
		return keyBits(in)
	}
	return l.keyStateCreate(in.Left, in.Right, in.SoftDrop, in.HardDrop, in.RotateCW, in.RotateCCW, in.Hold)
}
