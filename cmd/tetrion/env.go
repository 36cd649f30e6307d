package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tetrion/internal/audio"
	"github.com/vovakirdan/tetrion/internal/config"
	"github.com/vovakirdan/tetrion/internal/obpf"
	"github.com/vovakirdan/tetrion/internal/platform/tui"
	"github.com/vovakirdan/tetrion/internal/sim"
	"github.com/vovakirdan/tetrion/internal/storage"
)

// loadConfig loads the configuration and applies the global flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagLibrary != "" {
		cfg.Engine.Library = flagLibrary
	}
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}
	if flagFPS > 0 {
		cfg.Render.FPS = flagFPS
	}
	return cfg, cfg.Validate()
}

func newLogger(w io.Writer, cfg config.LogConfig, prefix string) *log.Logger {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
}

func openLogFile(path string) (*os.File, error) {
	path = config.ExpandPath(path)
	if err := config.EnsureDir(path); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return f, nil
}

// env holds everything a command needs to run games.
type env struct {
	cfg      config.Config
	controls config.Controls
	logger   *log.Logger
	logFile  *os.File
	store    *storage.Store
	engine   *obpf.Library
	audio    audio.Player
}

type envOptions struct {
	logTo     io.Writer // Nil logs to the configured log file
	prefix    string
	withAudio bool
}

// setup loads the configuration and opens the simulator, the result store
// and the audio device. A missing store or audio device only disables the
// feature; a missing simulator is an error.
func setup(opts envOptions) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, audio: audio.Nop{}}

	w := opts.logTo
	if w == nil {
		f, err := openLogFile(cfg.Log.Path)
		if err != nil {
			return nil, err
		}
		e.logFile = f
		w = f
	}
	e.logger = newLogger(w, cfg.Log, opts.prefix)

	e.controls, err = config.LoadOrCreateControls(cfg.Input.Controls)
	if err != nil {
		e.close()
		return nil, err
	}

	libPath := cfg.Engine.Library
	if libPath == "" {
		libPath = obpf.DefaultLibraryName()
	}
	e.engine, err = obpf.Open(libPath)
	if err != nil {
		e.close()
		return nil, fmt.Errorf("failed to load simulator: %w", err)
	}
	e.logger.Info("simulator loaded", "path", e.engine.Path())

	if e.store, err = storage.Open(cfg.Storage.Path); err != nil {
		e.logger.Warn("could not open results database", "error", err)
		e.store = nil
	}

	if opts.withAudio && cfg.Audio.Enabled {
		m := audio.NewManager(cfg.Audio.Volume, e.logger.WithPrefix("audio"))
		if err := m.Initialize(); err != nil {
			e.logger.Warn("audio disabled", "error", err)
		} else {
			e.audio = m
		}
	}
	return e, nil
}

// deps returns the scene dependencies for this environment.
func (e *env) deps(registry *sim.Registry) tui.Deps {
	return tui.Deps{
		Engine:   e.engine,
		Config:   e.cfg,
		Controls: e.controls,
		Store:    e.store,
		Audio:    e.audio,
		Registry: registry,
		Logger:   e.logger,
		Seed:     flagSeed,
	}
}

func (e *env) close() error {
	var errs []error
	if e.audio != nil {
		e.audio.Close()
	}
	if e.store != nil {
		errs = append(errs, e.store.Close())
	}
	if e.engine != nil {
		errs = append(errs, e.engine.Close())
	}
	if e.logFile != nil {
		errs = append(errs, e.logFile.Close())
	}
	return errors.Join(errs...)
}
