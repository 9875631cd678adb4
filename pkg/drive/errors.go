package drive

import (
	"errors"
	"fmt"
)

// ErrClosed is returned when a command is sent after Close.
var ErrClosed = errors.New("drive: actuator closed")

// PortError wraps a serial failure with the port and operation.
type PortError struct {
	Port string
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *PortError) Error() string {
	return fmt.Sprintf("drive [%s]: %s: %v", e.Port, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *PortError) Unwrap() error {
	return e.Err
}
