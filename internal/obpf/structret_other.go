//go:build !darwin && !((linux || freebsd) && amd64)

package obpf

// No safe way to receive C structs by value here: purego only returns them
// on darwin, and SyscallN cannot pass the result pointer that arm64 expects
// in x8.
const nativeStructReturns = false

type structCalls struct{}

func (*structCalls) bind(*Library) error { return ErrUnsupported }

func (*structCalls) callPreviewPieces(*Library, uintptr) previewPieces { panic(ErrUnsupported) }

func (*structCalls) callStats(*Library, uintptr) stats { panic(ErrUnsupported) }

func (*structCalls) callLineClearDelay(*Library, uintptr) lineClearDelayState {
	panic(ErrUnsupported)
}

func (*structCalls) callObservers(*Library, uintptr) observerList { panic(ErrUnsupported) }

func (*structCalls) callGarbageQueueEvent(*Library, uintptr, uintptr) garbageEvent {
	panic(ErrUnsupported)
}
