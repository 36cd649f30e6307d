package obpf

import (
	"unsafe"

	"github.com/vovakirdan/tetrion/internal/core"
)

// The types below mirror the C structs of the obpf API byte for byte.

// vec2 is ObpfVec2.
type vec2 struct {
	x uint8
	y uint8
}

// tetromino is struct ObpfTetromino.
type tetromino struct {
	minos [core.MinoCount]vec2
	kind  int32
}

// stats is ObpfStats.
type stats struct {
	score        uint64
	linesCleared uint32
	level        uint32
}

// lineClearDelayState is ObpfLineClearDelayState.
type lineClearDelayState struct {
	count     uint8
	lines     [4]uint8
	countdown uint64
	delay     uint64
}

// previewPieces is ObpfPreviewPieces.
type previewPieces struct {
	types [core.PreviewCount]int32
}

// garbageEvent is struct ObpfGarbageEvent.
type garbageEvent struct {
	numLines        uint8
	remainingFrames uint64
}

// observerList is struct ObpfObserverList.
type observerList struct {
	count     uintptr
	observers unsafe.Pointer
}

// fromRegisters rebuilds a struct of at most 16 bytes that the System V
// amd64 ABI returned in RAX and RDX. The registers hold the struct's memory
// image, low eightbyte first.
func fromRegisters[T any](r1, r2 uintptr) T {
	var zero T
	if unsafe.Sizeof(zero) > 2*unsafe.Sizeof(r1) {
		panic("obpf: struct too large for register return")
	}
	raw := [2]uintptr{r1, r2}
	return *(*T)(unsafe.Pointer(&raw))
}

// packVec2 returns the in-register representation of an ObpfVec2 argument.
func packVec2(x, y int) uint16 {
	return uint16(uint8(x)) | uint16(uint8(y))<<8
}

// unpackMinos decodes an ObpfMinoPositions returned in a single register.
func unpackMinos(raw uint64) [core.MinoCount]core.Vec2 {
	var out [core.MinoCount]core.Vec2
	for i := range out {
		out[i] = core.Vec2{
			X: int(uint8(raw >> (16 * i))),
			Y: int(uint8(raw >> (16*i + 8))),
		}
	}
	return out
}

func (t tetromino) piece() core.Piece {
	p := core.Piece{Type: core.TetrominoType(t.kind)}
	for i, m := range t.minos {
		p.Minos[i] = core.Vec2{X: int(m.x), Y: int(m.y)}
	}
	return p
}

func (s lineClearDelayState) state() core.LineClearState {
	n := int(s.count)
	if n > len(s.lines) {
		n = len(s.lines)
	}
	lines := make([]int, n)
	for i := range lines {
		lines[i] = int(s.lines[i])
	}
	return core.LineClearState{Lines: lines, Countdown: s.countdown, Delay: s.delay}
}

// keyBits packs an input the way obpf_key_state_create does when the native
// constructor is unavailable.
func keyBits(in core.Input) uint8 {
	var b uint8
	for i, c := range core.Controls {
		if in.Has(c) {
			b |= 1 << i
		}
	}
	return b
}
