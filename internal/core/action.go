package core

// Action is a discrete event the engine reports while simulating a tick.
type Action int

const (
	ActionRotateCW Action = iota
	ActionRotateCCW
	ActionHardDrop
	ActionTouch
	ActionClear1
	ActionClear2
	ActionClear3
	ActionClear4
	ActionAllClear
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionRotateCW:
		return "RotateCW"
	case ActionRotateCCW:
		return "RotateCCW"
	case ActionHardDrop:
		return "HardDrop"
	case ActionTouch:
		return "Touch"
	case ActionClear1:
		return "Clear1"
	case ActionClear2:
		return "Clear2"
	case ActionClear3:
		return "Clear3"
	case ActionClear4:
		return "Clear4"
	case ActionAllClear:
		return "AllClear"
	default:
		return "Unknown"
	}
}

// LinesCleared returns the number of lines a clear action stands for, or 0.
func (a Action) LinesCleared() int {
	switch a {
	case ActionClear1:
		return 1
	case ActionClear2:
		return 2
	case ActionClear3:
		return 3
	case ActionClear4:
		return 4
	default:
		return 0
	}
}
