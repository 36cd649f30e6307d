package audio

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/tetrion/internal/core"
)

// ErrClosed is returned by Initialize once the manager has been closed. The
// speaker cannot be opened twice in one process, so a Manager is single-use.
var ErrClosed = errors.New("audio: manager closed")

const (
	sampleRate = beep.SampleRate(48000)
	queueSize  = 16
)

// Player reacts to engine actions.
type Player interface {
	// HandleAction must return immediately; it is called from inside a tick.
	HandleAction(a core.Action)
	Close()
}

// Nop is a silent Player.
type Nop struct{}

func (Nop) HandleAction(core.Action) {}
func (Nop) Close()                   {}

// Manager plays action sounds through the system speaker.
//
// HandleAction only queues the sound; a worker goroutine synthesizes it and
// hands it to the mixer. When the queue is full the sound is dropped.
type Manager struct {
	mu          sync.Mutex
	volume      float64
	mixer       *beep.Mixer
	pools       [soundCount]*Pool
	queue       chan Sound
	done        chan struct{}
	initialized bool
	closed      bool
	logger      *log.Logger
}

// NewManager creates a manager. Volume is linear in [0, 1].
func NewManager(volume float64, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := &Manager{
		volume: volume,
		mixer:  &beep.Mixer{},
		queue:  make(chan Sound, queueSize),
		done:   make(chan struct{}),
		logger: logger,
	}
	for s := range m.pools {
		m.pools[s] = NewPool(VariantCount(Sound(s)))
	}
	return m
}

// Initialize opens the speaker and starts the worker.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if m.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(m.mixer)

	go m.run(m.done)
	m.initialized = true
	return nil
}

func (m *Manager) run(done <-chan struct{}) {
	for {
		select {
		case s := <-m.queue:
			m.play(s)
		case <-done:
			return
		}
	}
}

func (m *Manager) play(s Sound) {
	m.mu.Lock()
	variant := m.pools[s].Next()
	volume := m.volume
	m.mu.Unlock()

	streamer := Synthesize(s, variant, volume, sampleRate)
	speaker.Lock()
	m.mixer.Add(streamer)
	speaker.Unlock()
}

// HandleAction queues the sound for a.
func (m *Manager) HandleAction(a core.Action) {
	s, ok := ForAction(a)
	if !ok {
		return
	}
	select {
	case m.queue <- s:
	default:
		m.logger.Debug("sound dropped", "sound", s)
	}
}

// SetVolume changes the volume of sounds played from now on.
func (m *Manager) SetVolume(volume float64) {
	m.mu.Lock()
	m.volume = volume
	m.mu.Unlock()
}

// Close stops the worker and closes the speaker. The manager cannot be
// initialized again afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	if !m.initialized {
		return
	}
	close(m.done)
	speaker.Lock()
	m.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	m.initialized = false
}
