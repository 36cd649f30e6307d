package sim

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tetrion/internal/core"
)

const (
	stateNew int32 = iota
	stateRunning
	stateClosed
)

// Options configures a Session.
type Options struct {
	// Seed seeds a single-player game. Ignored when Remote is set.
	Seed uint64

	// Remote selects a multiplayer game against the given server.
	Remote *Endpoint

	// Clock defaults to SystemClock.
	Clock Clock

	// IdleInterval is the driver pause between passes. Zero selects
	// DefaultIdleInterval, a negative value busy-yields.
	IdleInterval time.Duration

	// Logger defaults to a discarding logger.
	Logger *log.Logger

	// OnAction receives every action the engine reports. It runs on the
	// driver goroutine with the handle lock held and must not block.
	OnAction func(core.Action)
}

// Session owns one simulation handle and the goroutine that drives it.
//
// The render loop publishes input with SubmitInput and reads state with
// PollFrame. Every call into the handle, from either side, happens under one
// lock, so a Frame always reflects a single completed tick.
type Session struct {
	id       string
	engine   Engine
	opts     Options
	clock    Clock
	logger   *log.Logger
	input    *Synchronized[core.Input]
	fault    *Synchronized[error]
	state    atomic.Int32
	done     chan struct{}
	lifetime sync.Mutex // serializes Initialize and Shutdown

	// lock guards handle, geometry and allClear.
	lock     sync.Mutex
	handle   Handle
	geometry core.Geometry
	allClear int

	cancel context.CancelFunc
	group  *errgroup.Group
}

// New creates a session. Nothing is allocated in the engine until Initialize.
func New(engine Engine, opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.IdleInterval == 0 {
		opts.IdleInterval = DefaultIdleInterval
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	id := uuid.NewString()
	return &Session{
		id:     id,
		engine: engine,
		opts:   opts,
		clock:  opts.Clock,
		logger: opts.Logger.With("session", id[:8]),
		input:  NewSynchronized(core.Input{}),
		fault:  NewSynchronized[error](nil),
		done:   make(chan struct{}),
	}
}

// ID returns the unique session id.
func (s *Session) ID() string { return s.id }

// Seed returns the seed the session was created with.
func (s *Session) Seed() uint64 { return s.opts.Seed }

// Remote returns the server endpoint, or nil for a single-player session.
func (s *Session) Remote() *Endpoint { return s.opts.Remote }

// Multiplayer reports whether the session plays against a server.
func (s *Session) Multiplayer() bool { return s.opts.Remote != nil }

// Initialize creates the handle and starts the driver. Tick 0 falls due at
// the moment Initialize returns. ctx bounds the lifetime of the driver in
// addition to Shutdown.
func (s *Session) Initialize(ctx context.Context) error {
	s.lifetime.Lock()
	defer s.lifetime.Unlock()

	switch s.state.Load() {
	case stateRunning:
		return ErrAlreadyInitialized
	case stateClosed:
		return ErrClosed
	}

	h, err := s.create()
	if err != nil {
		return err
	}
	h.SetActionHandler(s.onAction)

	s.lock.Lock()
	s.handle = h
	s.geometry = h.Geometry()
	s.lock.Unlock()

	driver := NewDriver(DriverConfig{
		Handle:       h,
		Lock:         &s.lock,
		Input:        s.input,
		Clock:        s.clock,
		Start:        s.clock.Now(),
		IdleInterval: s.opts.IdleInterval,
		OnTick:       s.onTick,
		Logger:       s.logger,
	})

	ctx, s.cancel = context.WithCancel(ctx)
	s.group, ctx = errgroup.WithContext(ctx)
	s.group.Go(func() error {
		defer close(s.done)
		if err := driver.Run(ctx); err != nil {
			s.fault.Store(err)
			s.logger.Error("driver stopped", "err", err)
			return err
		}
		return nil
	})

	s.state.Store(stateRunning)
	s.logger.Debug("session started", "multiplayer", s.Multiplayer(), "seed", s.opts.Seed)
	return nil
}

func (s *Session) create() (Handle, error) {
	if r := s.opts.Remote; r != nil {
		h, err := s.engine.NewMultiplayerTetrion(r.Host, r.Port)
		if err != nil {
			return nil, fmt.Errorf("sim: connect to %s:%d: %w", r.Host, r.Port, err)
		}
		return h, nil
	}
	h, err := s.engine.NewTetrion(s.opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("sim: create tetrion: %w", err)
	}
	return h, nil
}

// onAction runs inside SimulateNextTick with the handle lock held.
func (s *Session) onAction(a core.Action) {
	if a == core.ActionAllClear {
		s.allClear = AllClearDuration
	}
	if s.opts.OnAction != nil {
		s.opts.OnAction(a)
	}
}

// onTick runs after every tick with the handle lock held.
func (s *Session) onTick() {
	if s.allClear > 0 {
		s.allClear--
	}
}

// SubmitInput replaces the input applied to upcoming ticks. The value stays
// in effect until the next call.
func (s *Session) SubmitInput(in core.Input) {
	s.input.Store(in)
}

// Input returns the input currently in effect.
func (s *Session) Input() core.Input {
	return s.input.Load()
}

// PollFrame returns a consistent copy of the simulation state.
// If the driver has failed, its error is returned instead.
func (s *Session) PollFrame() (Frame, error) {
	switch s.state.Load() {
	case stateNew:
		return Frame{}, ErrNotInitialized
	case stateClosed:
		return Frame{}, ErrClosed
	}
	if err := s.fault.Load(); err != nil {
		return Frame{}, err
	}

	s.lock.Lock()
	if s.handle == nil {
		s.lock.Unlock()
		return Frame{}, ErrClosed
	}
	f := readFrame(s.handle, s.geometry)
	f.AllClear = s.allClear
	s.lock.Unlock()

	f.Multiplayer = s.Multiplayer()
	fillShapes(&f, s.engine)
	return f, nil
}

// IsFinished reports whether the driver goroutine has exited.
func (s *Session) IsFinished() bool {
	if s.state.Load() == stateNew {
		return false
	}
	select {
	case <-s.done:
		return true
	default:
		return s.state.Load() == stateClosed && s.group == nil
	}
}

// Err returns the error that stopped the driver, if any.
func (s *Session) Err() error {
	return s.fault.Load()
}

// Shutdown stops the driver, waits for it to exit and destroys the handle.
// It returns the driver's error, if any. Later calls do nothing and return nil.
func (s *Session) Shutdown() error {
	s.lifetime.Lock()
	defer s.lifetime.Unlock()

	prev := s.state.Swap(stateClosed)
	if prev != stateRunning {
		return nil
	}

	s.cancel()
	err := s.group.Wait()

	s.lock.Lock()
	s.handle.Destroy()
	s.handle = nil
	s.lock.Unlock()

	s.logger.Debug("session closed")
	return err
}
