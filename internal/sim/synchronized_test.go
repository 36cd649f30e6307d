package sim

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/tetrion/internal/core"
)

func TestSynchronizedNoTornValues(t *testing.T) {
	all := core.Input{Left: true, Right: true, SoftDrop: true, HardDrop: true, RotateCW: true, RotateCCW: true, Hold: true}
	s := NewSynchronized(core.Input{})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 10000; i++ {
			if i%2 == 0 {
				s.Store(all)
			} else {
				s.Store(core.Input{})
			}
		}
	}()

	torn := 0
	go func() {
		defer wg.Done()
		for i := 0; i < 10000; i++ {
			if v := s.Load(); v != all && !v.IsZero() {
				torn++
			}
		}
	}()
	wg.Wait()

	assert.Zero(t, torn)
}

func TestSynchronizedAccess(t *testing.T) {
	s := NewSynchronized(0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				s.Access(func(v *int) { *v++ })
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 8000, s.Load())
}
