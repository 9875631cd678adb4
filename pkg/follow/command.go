package follow

import (
	"fmt"

	"github.com/teslashibe/go-follow/pkg/detection"
)

// State classifies a cycle's command. It is recomputed every cycle.
type State int

const (
	StateStopped State = iota
	StateRotating
	StateSteering
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRotating:
		return "rotating"
	case StateSteering:
		return "steering"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText encodes the state by name for telemetry.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name.
func (s *State) UnmarshalText(b []byte) error {
	for v := StateStopped; v <= StateSteering; v++ {
		if v.String() == string(b) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("follow: unknown state %q", b)
}

// Cause records why a command was produced.
type Cause int

const (
	// CauseTracking means the command was computed from a valid target.
	CauseTracking Cause = iota
	CauseNoTarget
	CauseTargetTooSmall
	CauseTooClose
	CauseInvalidGeometry
	CauseInvalidFrame
	CausePerceptionUnavailable
	CauseShutdown
)

func (c Cause) String() string {
	switch c {
	case CauseTracking:
		return "tracking"
	case CauseNoTarget:
		return "no_target"
	case CauseTargetTooSmall:
		return "target_too_small"
	case CauseTooClose:
		return "too_close"
	case CauseInvalidGeometry:
		return "invalid_geometry"
	case CauseInvalidFrame:
		return "invalid_frame"
	case CausePerceptionUnavailable:
		return "perception_unavailable"
	case CauseShutdown:
		return "shutdown"
	default:
		return fmt.Sprintf("Cause(%d)", int(c))
	}
}

// MarshalText encodes the cause by name for telemetry.
func (c Cause) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses a cause name.
func (c *Cause) UnmarshalText(b []byte) error {
	for v := CauseTracking; v <= CauseShutdown; v++ {
		if v.String() == string(b) {
			*c = v
			return nil
		}
	}
	return fmt.Errorf("follow: unknown cause %q", b)
}

// ErrorSignals are the normalized control errors for one target.
//
// Conventions:
//   - X in [-1, +1], positive when the target is left of the frame center.
//   - D in [0, 1], 0 when the target fills the frame height, 1 when it is tiny.
type ErrorSignals struct {
	X float64 `json:"x"`
	D float64 `json:"d"`
}

// Command is the controller output for one cycle.
type Command struct {
	State State   `json:"state"`
	Left  float64 `json:"left"`  // [0, 1], forward only
	Right float64 `json:"right"` // [0, 1], forward only
	Cause Cause   `json:"cause"`

	// Errors is set whenever a target was selected.
	Errors *ErrorSignals `json:"errors,omitempty"`
	// Target is the detection the command was computed from.
	Target *detection.Detection `json:"-"`
}

// Stop returns a zero-speed command tagged with cause.
func Stop(cause Cause) Command {
	return Command{State: StateStopped, Cause: cause}
}

// IsStop reports whether the command halts both wheels.
func (c Command) IsStop() bool {
	return c.State == StateStopped
}

func (c Command) String() string {
	if c.IsStop() {
		return fmt.Sprintf("stop(%s)", c.Cause)
	}
	return fmt.Sprintf("%s L=%.2f R=%.2f", c.State, c.Left, c.Right)
}
