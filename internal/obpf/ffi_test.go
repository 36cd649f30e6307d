package obpf

import (
	"errors"
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tetrion/internal/core"
)

func TestStructLayouts(t *testing.T) {
	if unsafe.Sizeof(uintptr(0)) != 8 {
		t.Skip("layouts are checked on 64-bit platforms")
	}

	assert.Equal(t, uintptr(2), unsafe.Sizeof(vec2{}))
	assert.Equal(t, uintptr(12), unsafe.Sizeof(tetromino{}))
	assert.Equal(t, uintptr(8), unsafe.Offsetof(tetromino{}.kind))
	assert.Equal(t, uintptr(16), unsafe.Sizeof(stats{}))
	assert.Equal(t, uintptr(24), unsafe.Sizeof(lineClearDelayState{}))
	assert.Equal(t, uintptr(8), unsafe.Offsetof(lineClearDelayState{}.countdown))
	assert.Equal(t, uintptr(24), unsafe.Sizeof(previewPieces{}))
	assert.Equal(t, uintptr(16), unsafe.Sizeof(garbageEvent{}))
	assert.Equal(t, uintptr(16), unsafe.Sizeof(observerList{}))
}

func TestPackVec2(t *testing.T) {
	assert.Equal(t, uint16(0x0000), packVec2(0, 0))
	assert.Equal(t, uint16(0x1503), packVec2(3, 21))
	assert.Equal(t, uint16(0x00ff), packVec2(255, 0))
}

func TestUnpackMinos(t *testing.T) {
	// T piece facing north: (1,0) (0,1) (1,1) (2,1)
	raw := uint64(0x01_02_01_01_01_00_00_01)
	got := unpackMinos(raw)
	want := [core.MinoCount]core.Vec2{{X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}}
	assert.Equal(t, want, got)
}

func TestTetrominoPiece(t *testing.T) {
	raw := tetromino{
		minos: [core.MinoCount]vec2{{x: 3, y: 0}, {x: 4, y: 0}, {x: 5, y: 0}, {x: 6, y: 0}},
		kind:  int32(core.I),
	}
	p := raw.piece()
	assert.Equal(t, core.I, p.Type)
	assert.Equal(t, core.Vec2{X: 6, Y: 0}, p.Minos[3])
}

func TestLineClearDelayState(t *testing.T) {
	raw := lineClearDelayState{count: 2, lines: [4]uint8{20, 21}, countdown: 10, delay: 40}
	s := raw.state()
	assert.Equal(t, []int{20, 21}, s.Lines)
	assert.True(t, s.Active())
	assert.InDelta(t, 0.25, s.Visibility(), 1e-9)

	// A corrupt count never reads past the array.
	raw.count = 9
	assert.Len(t, raw.state().Lines, 4)
}

func TestKeyBits(t *testing.T) {
	assert.Equal(t, uint8(0), keyBits(core.Input{}))
	assert.Equal(t, uint8(1), keyBits(core.Input{Left: true}))
	assert.Equal(t, uint8(1<<6|1<<3), keyBits(core.Input{HardDrop: true, Hold: true}))
}

func TestActionTrampolineDispatch(t *testing.T) {
	var got []core.Action
	id := registerHandler(func(a core.Action) { got = append(got, a) })

	// Only the low 32 bits of the enum register are defined.
	high := ^uintptr(0) &^ 0xffff_ffff
	actionTrampoline(uintptr(core.ActionClear4), id)
	actionTrampoline(uintptr(core.ActionAllClear)|high, id)
	actionTrampoline(uintptr(core.ActionTouch), id+1000)

	unregisterHandler(id)
	actionTrampoline(uintptr(core.ActionTouch), id)

	require.Len(t, got, 2)
	assert.Equal(t, core.ActionClear4, got[0])
	assert.Equal(t, core.ActionAllClear, got[1])
}

func TestTetrionUseAfterDestroyPanics(t *testing.T) {
	tet := &Tetrion{destroyed: true}

	assert.NotPanics(t, tet.Destroy)
	assert.Panics(t, func() { tet.NextTick() })
	assert.Panics(t, func() { _ = tet.SimulateNextTick(core.Input{}) })
	assert.Panics(t, func() { tet.Cell(0, 0) })
}

func TestOpenMissingLibrary(t *testing.T) {
	var err error
	require.NotPanics(t, func() { _, err = Open("/nonexistent/libobpf-missing.so") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "obpf: load")
	if !nativeStructReturns {
		assert.ErrorIs(t, err, ErrUnsupported)
	}
}

// Binding never calls the native function, so any non-zero address will do.
func fakeSymbols(missing func(name string) bool) func(string) (uintptr, error) {
	return func(name string) (uintptr, error) {
		if missing != nil && missing(name) {
			return 0, errors.New("undefined symbol")
		}
		return 1, nil
	}
}

func TestResolveBindsEverySymbol(t *testing.T) {
	l := &Library{}
	var err error
	require.NotPanics(t, func() { err = l.resolve(fakeSymbols(nil)) })
	if !nativeStructReturns {
		require.ErrorIs(t, err, ErrUnsupported)
		return
	}
	require.NoError(t, err)

	assert.NotNil(t, l.createTetrion)
	assert.NotNil(t, l.createMultiplayerTetrion)
	assert.NotNil(t, l.tryGetActive)
	assert.NotNil(t, l.destroyObservers)
	assert.NotNil(t, l.garbageQueueLength)
	assert.NotZero(t, l.previewPiecesSym)
	assert.NotZero(t, l.statsSym)
	assert.NotZero(t, l.lineClearDelaySym)
	assert.NotZero(t, l.observersSym)
	assert.NotZero(t, l.garbageQueueEventSym)
}

func TestResolveOptionalSymbols(t *testing.T) {
	if !nativeStructReturns {
		t.Skip("struct-returning calls are unsupported here")
	}

	l := &Library{}
	err := l.resolve(fakeSymbols(func(name string) bool {
		return strings.Contains(name, "garbage") || name == "obpf_tetrion_is_connected"
	}))
	require.NoError(t, err)
	assert.Nil(t, l.garbageQueueLength)
	assert.Zero(t, l.garbageQueueEventSym)
	assert.Nil(t, l.garbageDelayFrames)
	assert.Nil(t, l.isConnected)

	// Without the queue symbols GarbageQueue reports nothing instead of
	// calling through a nil address.
	tet := &Tetrion{lib: l, ptr: 1}
	assert.Nil(t, tet.GarbageQueue())
	assert.Zero(t, tet.GarbageDelayFrames())
	assert.True(t, tet.IsConnected())
}

func TestResolveMissingRequiredSymbol(t *testing.T) {
	l := &Library{}
	err := l.resolve(fakeSymbols(func(name string) bool { return name == "obpf_tetrion_get_stats" }))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "obpf_tetrion_get_stats")
}

func TestFromRegisters(t *testing.T) {
	if unsafe.Sizeof(uintptr(0)) != 8 {
		t.Skip("register returns are decoded on 64-bit platforms")
	}

	s := fromRegisters[stats](1234, uintptr(7)|uintptr(3)<<32)
	assert.Equal(t, stats{score: 1234, linesCleared: 7, level: 3}, s)

	// Padding bits above the first byte are undefined in RAX.
	g := fromRegisters[garbageEvent](0xdead_be00|4, 90)
	assert.Equal(t, uint8(4), g.numLines)
	assert.Equal(t, uint64(90), g.remainingFrames)

	ptrs := []uintptr{11, 22, 33}
	o := fromRegisters[observerList](3, uintptr(unsafe.Pointer(&ptrs[0])))
	assert.Equal(t, uintptr(3), o.count)
	assert.Equal(t, ptrs, unsafe.Slice((*uintptr)(o.observers), int(o.count)))

	assert.Panics(t, func() { fromRegisters[lineClearDelayState](0, 0) })
}
