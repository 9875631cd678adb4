// Package follow turns per-frame person detections into differential-drive
// wheel commands for a robot that follows a single target.
package follow

import "fmt"

// MinScore is the lowest detection confidence considered a candidate. It is
// a fixed policy constant, not part of Config.
const MinScore = 0.5

// Config holds the thresholds, gains and speed bounds of the follow policy.
type Config struct {
	// Candidate selection
	MinBoxWidth  int `json:"min_box_width"`  // Reject chosen boxes narrower than this (px)
	MinBoxHeight int `json:"min_box_height"` // Reject chosen boxes shorter than this (px)

	// Stop and regime thresholds
	StopDistance    float64 `json:"stop_distance"`    // Stop when error_d is strictly below this
	RotateThreshold float64 `json:"rotate_threshold"` // Rotate in place when |error_x| is strictly above this

	// Proportional steering
	SteeringGain  float64 `json:"steering_gain"`  // error_x multiplier
	SteeringLimit float64 `json:"steering_limit"` // Symmetric clamp on the steering term
	ForwardGain   float64 `json:"forward_gain"`   // error_d multiplier

	// Wheel speed bounds (normalized duty)
	MinSpeed float64 `json:"min_speed"` // Lowest duty that still moves the drivetrain
	MaxSpeed float64 `json:"max_speed"`
}

// DefaultConfig returns the tuning used on the reference robot.
func DefaultConfig() Config {
	return Config{
		MinBoxWidth:  20,
		MinBoxHeight: 40,

		StopDistance:    0.05,
		RotateThreshold: 0.7,

		SteeringGain:  1.2,
		SteeringLimit: 0.6,
		ForwardGain:   0.6,

		MinSpeed: 0.55,
		MaxSpeed: 1.0,
	}
}

// Validate reports the first out-of-range field.
func (c Config) Validate() error {
	switch {
	case c.MinBoxWidth < 0 || c.MinBoxHeight < 0:
		return fmt.Errorf("%w: minimum box size must be non-negative", ErrInvalidConfig)
	case c.StopDistance < 0 || c.StopDistance >= 1:
		return fmt.Errorf("%w: stop_distance %.3f not in [0, 1)", ErrInvalidConfig, c.StopDistance)
	case c.RotateThreshold <= 0 || c.RotateThreshold > 1:
		return fmt.Errorf("%w: rotate_threshold %.3f not in (0, 1]", ErrInvalidConfig, c.RotateThreshold)
	case c.SteeringGain <= 0 || c.ForwardGain <= 0:
		return fmt.Errorf("%w: gains must be positive", ErrInvalidConfig)
	case c.SteeringLimit <= 0:
		return fmt.Errorf("%w: steering_limit must be positive", ErrInvalidConfig)
	case c.MaxSpeed <= 0 || c.MaxSpeed > 1:
		return fmt.Errorf("%w: max_speed %.3f not in (0, 1]", ErrInvalidConfig, c.MaxSpeed)
	case c.MinSpeed <= 0 || c.MinSpeed > c.MaxSpeed:
		return fmt.Errorf("%w: min_speed %.3f not in (0, max_speed]", ErrInvalidConfig, c.MinSpeed)
	}
	return nil
}
