package follow

import "errors"

// Sentinel errors for common conditions.
var (
	// ErrPerceptionUnavailable wraps a frame source failure recorded on a cycle.
	ErrPerceptionUnavailable = errors.New("follow: perception unavailable")

	// ErrActuation wraps an actuator failure recorded on a cycle.
	ErrActuation = errors.New("follow: actuation failed")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("follow: invalid config")
)
