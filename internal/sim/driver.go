package sim

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tetrion/internal/core"
)

// DefaultIdleInterval is how long the driver sleeps between catch-up passes.
// It is well below one tick, so input reaches the engine within the tick it
// was sampled for, and short enough for cancellation to be noticed promptly.
const DefaultIdleInterval = 500 * time.Microsecond

// hitchTicks is the burst size above which a catch-up is logged as a hitch.
const hitchTicks = TicksPerSecond / 4

// DriverConfig wires a Driver to the state it shares with the render loop.
type DriverConfig struct {
	// Handle is the simulation to advance.
	Handle Handle

	// Lock guards Handle. The render loop must hold the same lock while reading.
	Lock sync.Locker

	// Input is the latest input published by the render loop.
	Input *Synchronized[core.Input]

	// Clock defaults to SystemClock.
	Clock Clock

	// Start is the instant tick 0 began. Zero means the first clock reading in Run.
	Start time.Time

	// IdleInterval is the pause between passes. Zero or less yields the
	// processor instead of sleeping (busy-poll).
	IdleInterval time.Duration

	// OnTick runs after every simulated tick while Lock is held.
	OnTick func()

	// Logger defaults to a discarding logger.
	Logger *log.Logger
}

// Driver keeps a Handle's tick count in step with wall-clock time.
type Driver struct {
	handle Handle
	lock   sync.Locker
	input  *Synchronized[core.Input]
	clock  Clock
	start  time.Time
	idle   time.Duration
	onTick func()
	logger *log.Logger
}

// NewDriver creates a driver. Handle, Lock and Input are required.
func NewDriver(cfg DriverConfig) *Driver {
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	return &Driver{
		handle: cfg.Handle,
		lock:   cfg.Lock,
		input:  cfg.Input,
		clock:  cfg.Clock,
		start:  cfg.Start,
		idle:   cfg.IdleInterval,
		onTick: cfg.OnTick,
		logger: cfg.Logger,
	}
}

// Run advances the simulation until ctx is cancelled or the engine fails.
//
// Each pass computes the tick that is due from the clock. When the engine is
// behind, the latest input is copied once and applied to every tick of the
// burst that closes the gap. Ticks are never driven by the render rate, so a
// slow frame produces a longer burst, not slower gameplay.
//
// Run returns nil on cancellation. A game over does not stop it.
func (d *Driver) Run(ctx context.Context) error {
	start := d.start
	if start.IsZero() {
		start = d.clock.Now()
	}

	var next uint64
	for {
		if ctx.Err() != nil {
			return nil
		}

		target := TicksDue(d.clock.Now().Sub(start))
		if next < target {
			if behind := target - next; behind > hitchTicks {
				d.logger.Warn("catching up", "ticks", behind, "from", next)
			}

			in := d.input.Load()
			reached, err := d.catchUp(target, in)
			if err != nil {
				return err
			}
			if reached < next {
				return fmt.Errorf("sim: engine tick went backwards from %d to %d", next, reached)
			}
			next = reached
		}

		d.pause()
	}
}

// catchUp simulates ticks until the engine's next tick reaches target.
// It holds the handle lock for the whole burst and for nothing else.
func (d *Driver) catchUp(target uint64, in core.Input) (reached uint64, err error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sim: engine panic at tick %d: %v", reached, r)
		}
	}()

	reached = d.handle.NextTick()
	for reached < target {
		if err := d.handle.SimulateNextTick(in); err != nil {
			return reached, fmt.Errorf("sim: simulate tick %d: %w", reached, err)
		}
		if d.onTick != nil {
			d.onTick()
		}

		after := d.handle.NextTick()
		if after == reached {
			// The engine stopped counting ticks; treat the pass as caught up
			// so the next attempt waits for a new tick to fall due.
			d.logger.Debug("engine did not advance", "tick", reached)
			return target, nil
		}
		reached = after
	}
	return reached, nil
}

func (d *Driver) pause() {
	if d.idle <= 0 {
		runtime.Gosched()
		return
	}
	time.Sleep(d.idle)
}
