//go:build darwin

package obpf

import "github.com/ebitengine/purego"

// purego returns structs by value natively on darwin.
const nativeStructReturns = true

type structCalls struct {
	previewPieces     func(t uintptr) previewPieces
	stats             func(t uintptr) stats
	lineClearDelay    func(t uintptr) lineClearDelayState
	observers         func(t uintptr) observerList
	garbageQueueEvent func(t uintptr, index uintptr) garbageEvent
}

func (c *structCalls) bind(l *Library) error {
	purego.RegisterFunc(&c.previewPieces, l.previewPiecesSym)
	purego.RegisterFunc(&c.stats, l.statsSym)
	purego.RegisterFunc(&c.lineClearDelay, l.lineClearDelaySym)
	purego.RegisterFunc(&c.observers, l.observersSym)
	if l.garbageQueueEventSym != 0 {
		purego.RegisterFunc(&c.garbageQueueEvent, l.garbageQueueEventSym)
	}
	return nil
}

func (c *structCalls) callPreviewPieces(_ *Library, t uintptr) previewPieces {
	return c.previewPieces(t)
}

func (c *structCalls) callStats(_ *Library, t uintptr) stats {
	return c.stats(t)
}

func (c *structCalls) callLineClearDelay(_ *Library, t uintptr) lineClearDelayState {
	return c.lineClearDelay(t)
}

func (c *structCalls) callObservers(_ *Library, t uintptr) observerList {
	return c.observers(t)
}

func (c *structCalls) callGarbageQueueEvent(_ *Library, t uintptr, index uintptr) garbageEvent {
	return c.garbageQueueEvent(t, index)
}
