package core

import "strings"

// Control is one recognized game input.
type Control int

const (
	ControlLeft Control = iota
	ControlRight
	ControlSoftDrop
	ControlHardDrop
	ControlRotateCW
	ControlRotateCCW
	ControlHold
)

// Controls lists every control in engine argument order.
var Controls = [...]Control{
	ControlLeft,
	ControlRight,
	ControlSoftDrop,
	ControlHardDrop,
	ControlRotateCW,
	ControlRotateCCW,
	ControlHold,
}

// String returns the configuration name of the control.
func (c Control) String() string {
	switch c {
	case ControlLeft:
		return "left"
	case ControlRight:
		return "right"
	case ControlSoftDrop:
		return "soft_drop"
	case ControlHardDrop:
		return "hard_drop"
	case ControlRotateCW:
		return "rotate_cw"
	case ControlRotateCCW:
		return "rotate_ccw"
	case ControlHold:
		return "hold"
	default:
		return "unknown"
	}
}

// Input is the state of every control at one polling instant.
// It is a plain value: copies never alias, so handing one between goroutines
// under a lock can never produce a mix of two snapshots.
type Input struct {
	Left      bool
	Right     bool
	SoftDrop  bool
	HardDrop  bool
	RotateCW  bool
	RotateCCW bool
	Hold      bool
}

// With returns a copy of the input with control c set to pressed.
func (in Input) With(c Control, pressed bool) Input {
	switch c {
	case ControlLeft:
		in.Left = pressed
	case ControlRight:
		in.Right = pressed
	case ControlSoftDrop:
		in.SoftDrop = pressed
	case ControlHardDrop:
		in.HardDrop = pressed
	case ControlRotateCW:
		in.RotateCW = pressed
	case ControlRotateCCW:
		in.RotateCCW = pressed
	case ControlHold:
		in.Hold = pressed
	}
	return in
}

// Has reports whether control c is pressed.
func (in Input) Has(c Control) bool {
	switch c {
	case ControlLeft:
		return in.Left
	case ControlRight:
		return in.Right
	case ControlSoftDrop:
		return in.SoftDrop
	case ControlHardDrop:
		return in.HardDrop
	case ControlRotateCW:
		return in.RotateCW
	case ControlRotateCCW:
		return in.RotateCCW
	case ControlHold:
		return in.Hold
	default:
		return false
	}
}

// IsZero reports whether no control is pressed.
func (in Input) IsZero() bool {
	return in == Input{}
}

// String lists the pressed controls, e.g. "left+hold".
func (in Input) String() string {
	var pressed []string
	for _, c := range Controls {
		if in.Has(c) {
			pressed = append(pressed, c.String())
		}
	}
	if len(pressed) == 0 {
		return "none"
	}
	return strings.Join(pressed, "+")
}
