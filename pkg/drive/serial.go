package drive

import (
	"fmt"
	"sync"

	"github.com/teslashibe/go-follow/internal/log"
	"go.bug.st/serial"
)

// SerialActuator sends wheel commands to a motor controller over a serial
// line protocol:
//
//	D <left_duty> <right_duty>\n   drive both wheels forward
//	S\n                            stop both wheels
type SerialActuator struct {
	port    Port
	name    string
	maxDuty int

	mu     sync.Mutex
	closed bool
}

// OpenSerial opens the configured serial device (8N1).
func OpenSerial(cfg Config) (*SerialActuator, error) {
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(cfg.Port, mode)
	if err != nil {
		return nil, &PortError{Port: cfg.Port, Op: "open", Err: err}
	}

	a := NewSerialActuator(port, cfg)
	if err := a.Stop(); err != nil {
		port.Close()
		return nil, err
	}
	return a, nil
}

// NewSerialActuator wraps an already open port.
func NewSerialActuator(port Port, cfg Config) *SerialActuator {
	maxDuty := cfg.MaxDuty
	if maxDuty <= 0 {
		maxDuty = DefaultConfig().MaxDuty
	}
	return &SerialActuator{port: port, name: cfg.Port, maxDuty: maxDuty}
}

// Drive sets both wheels forward at the given normalized speeds.
func (a *SerialActuator) Drive(left, right float64) error {
	l, r := Duty(left, a.maxDuty), Duty(right, a.maxDuty)
	log.Debug("motor drive", "left", left, "right", right, "left_duty", l, "right_duty", r)
	return a.write("drive", fmt.Sprintf("D %d %d\n", l, r))
}

// Stop halts both wheels.
func (a *SerialActuator) Stop() error {
	return a.write("stop", "S\n")
}

// Close stops the motors, then releases the port. The stop error, if any,
// takes precedence. Closing twice is a no-op.
func (a *SerialActuator) Close() error {
	stopErr := a.Stop()

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	if err := a.port.Close(); err != nil && stopErr == nil {
		return &PortError{Port: a.name, Op: "close", Err: err}
	}
	return stopErr
}

func (a *SerialActuator) write(op, line string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrClosed
	}
	if _, err := a.port.Write([]byte(line)); err != nil {
		return &PortError{Port: a.name, Op: op, Err: err}
	}
	return nil
}
