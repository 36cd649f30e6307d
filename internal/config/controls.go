package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tetrion/internal/core"
)

//go:embed defaults/controls.yaml
var defaultControlsYAML []byte

// Controls maps each control to the key names that trigger it.
type Controls map[core.Control][]string

// DefaultControls returns the built-in bindings.
func DefaultControls() Controls {
	c, err := ParseControls(defaultControlsYAML)
	if err != nil {
		panic(fmt.Sprintf("config: embedded controls: %v", err))
	}
	return c
}

// LoadOrCreateControls reads the bindings at path. A missing file is created
// with the default bindings first.
func LoadOrCreateControls(path string) (Controls, error) {
	path = ExpandPath(path)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := EnsureDir(path); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, defaultControlsYAML, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write controls %s: %w", path, err)
		}
		data = defaultControlsYAML
	} else if err != nil {
		return nil, fmt.Errorf("failed to read controls %s: %w", path, err)
	}

	c, err := ParseControls(data)
	if err != nil {
		return nil, fmt.Errorf("controls %s: %w", path, err)
	}
	return c, nil
}

// ParseControls decodes and validates a bindings document.
func ParseControls(data []byte) (Controls, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse controls: %w", err)
	}

	byName := make(map[string]core.Control, len(core.Controls))
	for _, c := range core.Controls {
		byName[c.String()] = c
	}

	controls := make(Controls, len(raw))
	var errs []error
	for name, keys := range raw {
		c, ok := byName[name]
		if !ok {
			errs = append(errs, fmt.Errorf("unknown control %q", name))
			continue
		}
		normalized := make([]string, 0, len(keys))
		for _, k := range keys {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				normalized = append(normalized, k)
			}
		}
		controls[c] = normalized
	}
	if err := controls.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return controls, nil
}

// Validate checks that every control has a key and no key is bound twice.
func (c Controls) Validate() error {
	var errs []error
	owner := make(map[string]core.Control)
	for _, ctrl := range core.Controls {
		keys := c[ctrl]
		if len(keys) == 0 {
			errs = append(errs, fmt.Errorf("control %q has no key", ctrl))
			continue
		}
		for _, k := range keys {
			if prev, dup := owner[k]; dup {
				errs = append(errs, fmt.Errorf("key %q is bound to both %q and %q", k, prev, ctrl))
				continue
			}
			owner[k] = ctrl
		}
	}
	return errors.Join(errs...)
}

// Lookup returns the control bound to key.
func (c Controls) Lookup(key string) (core.Control, bool) {
	for ctrl, keys := range c {
		for _, k := range keys {
			if k == key {
				return ctrl, true
			}
		}
	}
	return 0, false
}

// Lines returns "control: keys" lines in control order, for display.
func (c Controls) Lines() []string {
	lines := make([]string, 0, len(core.Controls))
	for _, ctrl := range core.Controls {
		keys := append([]string(nil), c[ctrl]...)
		sort.Strings(keys)
		lines = append(lines, fmt.Sprintf("%-10s %s", ctrl.String()+":", strings.Join(keys, ", ")))
	}
	return lines
}
