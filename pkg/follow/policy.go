package follow

import "math"

// Policy maps error signals to wheel speeds. It holds no state between cycles.
type Policy struct {
	cfg Config
}

// NewPolicy creates a policy using the given tuning.
func NewPolicy(cfg Config) *Policy {
	return &Policy{cfg: cfg}
}

// Config returns the policy tuning.
func (p *Policy) Config() Config {
	return p.cfg
}

// Decide applies, in order: stop when too close, rotate in place when the
// target is far off-center, otherwise proportional steering.
func (p *Policy) Decide(e ErrorSignals) Command {
	errs := e

	if e.D < p.cfg.StopDistance {
		cmd := Stop(CauseTooClose)
		cmd.Errors = &errs
		return cmd
	}

	if math.Abs(e.X) > p.cfg.RotateThreshold {
		cmd := Command{State: StateRotating, Cause: CauseTracking, Errors: &errs}
		if e.X > 0 {
			cmd.Left, cmd.Right = p.cfg.MinSpeed, p.cfg.MaxSpeed
		} else {
			cmd.Left, cmd.Right = p.cfg.MaxSpeed, p.cfg.MinSpeed
		}
		return cmd
	}

	steering := clamp(e.X*p.cfg.SteeringGain, -p.cfg.SteeringLimit, p.cfg.SteeringLimit)
	forward := clamp(e.D*p.cfg.ForwardGain, 0.0, 1.0)

	return Command{
		State:  StateSteering,
		Left:   clamp(forward+steering, p.cfg.MinSpeed, p.cfg.MaxSpeed),
		Right:  clamp(forward-steering, p.cfg.MinSpeed, p.cfg.MaxSpeed),
		Cause:  CauseTracking,
		Errors: &errs,
	}
}

// clamp keeps value inside [lo, hi].
func clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
