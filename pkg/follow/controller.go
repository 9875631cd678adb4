package follow

import (
	"github.com/teslashibe/go-follow/pkg/detection"
)

// Decision is a command plus the selection bookkeeping that produced it.
type Decision struct {
	Command   Command
	Discarded int
}

// Controller runs selection, error computation and the policy for a frame.
// It is a pure function of its input and safe to share.
type Controller struct {
	selector *Selector
	policy   *Policy
}

// NewController creates a controller. labels may be nil for COCO.
func NewController(cfg Config, labels detection.Labels) *Controller {
	return &Controller{
		selector: NewSelector(cfg, labels),
		policy:   NewPolicy(cfg),
	}
}

// Config returns the active tuning.
func (c *Controller) Config() Config {
	return c.policy.Config()
}

// Step computes the command for one frame.
func (c *Controller) Step(frame detection.Frame) Decision {
	if !frame.Context.Valid() {
		return Decision{Command: Stop(CauseInvalidFrame)}
	}

	sel := c.selector.Select(frame)
	if sel.Target == nil {
		return Decision{Command: Stop(sel.Cause), Discarded: sel.Discarded}
	}

	errs, err := ComputeErrors(*sel.Target, frame.Context)
	if err != nil {
		return Decision{Command: Stop(CauseInvalidFrame), Discarded: sel.Discarded}
	}

	cmd := c.policy.Decide(errs)
	cmd.Target = sel.Target
	return Decision{Command: cmd, Discarded: sel.Discarded}
}
