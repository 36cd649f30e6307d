package sim

import "errors"

var (
	// ErrNotInitialized is returned when a session is used before Initialize.
	ErrNotInitialized = errors.New("sim: session not initialized")

	// ErrClosed is returned when a session is used after Shutdown.
	ErrClosed = errors.New("sim: session closed")

	// ErrAlreadyInitialized is returned by a second Initialize call.
	ErrAlreadyInitialized = errors.New("sim: session already initialized")
)
