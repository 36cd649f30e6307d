// Package config loads the YAML client configuration and the key bindings.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config is the client configuration.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Server  ServerConfig  `yaml:"server"`
	SSH     SSHConfig     `yaml:"ssh"`
	Render  RenderConfig  `yaml:"render"`
	Input   InputConfig   `yaml:"input"`
	Audio   AudioConfig   `yaml:"audio"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// EngineConfig locates the simulator library and tunes the tick driver.
type EngineConfig struct {
	Library      string        `yaml:"library"`
	IdleInterval time.Duration `yaml:"idle_interval"`
}

// ServerConfig is the default multiplayer game server.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port uint16 `yaml:"port"`
}

// Enabled reports whether a server is configured.
func (s ServerConfig) Enabled() bool {
	return s.Host != "" && s.Port != 0
}

// SSHConfig configures the `serve` command.
type SSHConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	HostKey string `yaml:"host_key"`
}

// RenderConfig tunes the render loop.
type RenderConfig struct {
	FPS int `yaml:"fps"`
}

// InputConfig tunes keyboard handling.
type InputConfig struct {
	HoldWindow time.Duration `yaml:"hold_window"`
	Controls   string        `yaml:"controls"` // Path of the key bindings file
}

// AudioConfig controls action sounds.
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"` // Linear, 0.0 - 1.0
}

// StorageConfig locates the result database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn or error
	Path  string `yaml:"path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Engine: EngineConfig{IdleInterval: 500 * time.Microsecond},
		Server: ServerConfig{Port: 12345},
		SSH:    SSHConfig{Host: "0.0.0.0", Port: 2222, HostKey: "~/.tetrion/ssh_host_ed25519"},
		Render: RenderConfig{FPS: 60},
		Input:  InputConfig{HoldWindow: 120 * time.Millisecond, Controls: "~/.tetrion/controls.yaml"},
		Audio:  AudioConfig{Enabled: true, Volume: 0.6},
		Storage: StorageConfig{
			Path: "~/.tetrion/results.db",
		},
		Log: LogConfig{Level: "info", Path: "~/.tetrion/tetrion.log"},
	}
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.Engine.IdleInterval < 0 || c.Engine.IdleInterval >= time.Second/60 {
		errs = append(errs, fmt.Errorf("engine.idle_interval %v must be in [0, 16ms)", c.Engine.IdleInterval))
	}
	if c.Render.FPS < 1 || c.Render.FPS > 240 {
		errs = append(errs, fmt.Errorf("render.fps %d must be in [1, 240]", c.Render.FPS))
	}
	if c.Input.HoldWindow <= 0 {
		errs = append(errs, fmt.Errorf("input.hold_window %v must be positive", c.Input.HoldWindow))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("audio.volume %v must be in [0, 1]", c.Audio.Volume))
	}
	if c.SSH.Port < 0 || c.SSH.Port > 65535 {
		errs = append(errs, fmt.Errorf("ssh.port %d out of range", c.SSH.Port))
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	return errors.Join(errs...)
}
