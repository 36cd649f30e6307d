package obpf

import (
	"sync"
	"sync/atomic"

	"github.com/vovakirdan/tetrion/internal/core"
)

// Native callbacks are a limited resource that is never released, so a
// single trampoline serves every tetrion. The user-data pointer handed to the
// engine is not a pointer at all but the key of the handler below.
var (
	trampolineOnce sync.Once
	trampoline     uintptr
	handlers       sync.Map // uintptr -> func(core.Action)
	lastHandlerID  atomic.Uintptr
)

func actionTrampoline(action uintptr, userData uintptr) {
	fn, ok := handlers.Load(userData)
	if !ok {
		return
	}
	fn.(func(core.Action))(core.Action(int32(action)))
}

func trampolinePtr() uintptr {
	trampolineOnce.Do(func() {
		trampoline = newCallback(actionTrampoline)
	})
	return trampoline
}

func registerHandler(fn func(core.Action)) uintptr {
	id := lastHandlerID.Add(1)
	handlers.Store(id, fn)
	return id
}

func unregisterHandler(id uintptr) {
	if id != 0 {
		handlers.Delete(id)
	}
}
