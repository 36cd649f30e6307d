//go:build (linux || freebsd) && amd64

package obpf

import (
	"unsafe"

	"github.com/ebitengine/purego"
)

// purego.RegisterFunc rejects struct results outside darwin, so these are
// called through SyscallN following the System V amd64 rules: up to 16 bytes
// come back in RAX:RDX, larger structs are written through a hidden pointer
// passed as the first argument.
const nativeStructReturns = true

type structCalls struct{}

func (*structCalls) bind(*Library) error { return nil }

func (*structCalls) callPreviewPieces(l *Library, t uintptr) previewPieces {
	var out previewPieces
	purego.SyscallN(l.previewPiecesSym, uintptr(unsafe.Pointer(&out)), t)
	return out
}

func (*structCalls) callStats(l *Library, t uintptr) stats {
	r1, r2, _ := purego.SyscallN(l.statsSym, t)
	return fromRegisters[stats](r1, r2)
}

func (*structCalls) callLineClearDelay(l *Library, t uintptr) lineClearDelayState {
	var out lineClearDelayState
	purego.SyscallN(l.lineClearDelaySym, uintptr(unsafe.Pointer(&out)), t)
	return out
}

func (*structCalls) callObservers(l *Library, t uintptr) observerList {
	r1, r2, _ := purego.SyscallN(l.observersSym, t)
	return fromRegisters[observerList](r1, r2)
}

func (*structCalls) callGarbageQueueEvent(l *Library, t uintptr, index uintptr) garbageEvent {
	r1, r2, _ := purego.SyscallN(l.garbageQueueEventSym, t, index)
	return fromRegisters[garbageEvent](r1, r2)
}
