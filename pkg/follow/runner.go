package follow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/teslashibe/go-follow/internal/log"
	"github.com/teslashibe/go-follow/pkg/detection"
)

// FrameSource produces one perception result per call. NextFrame blocks until
// a frame is available or ctx is done. io.EOF ends the run.
type FrameSource interface {
	NextFrame(ctx context.Context) (detection.Frame, error)
}

// Actuator receives wheel commands. Speeds are forward-only magnitudes in [0, 1].
type Actuator interface {
	Drive(left, right float64) error
	Stop() error
}

// Observer is notified after every cycle. Implementations must not block.
type Observer interface {
	OnCycle(c Cycle)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Cycle)

// OnCycle calls f(c).
func (f ObserverFunc) OnCycle(c Cycle) { f(c) }

// Cycle is the record of one control iteration.
type Cycle struct {
	Session    string        `json:"session"`
	Seq        uint64        `json:"seq"`
	FrameSeq   uint64        `json:"frame_seq"`
	At         time.Time     `json:"at"`
	Latency    time.Duration `json:"latency_ns"`
	Detections int           `json:"detections"`
	Discarded  int           `json:"discarded"`
	Command    Command       `json:"command"`
	Err        error         `json:"-"`
	ErrText    string        `json:"error,omitempty"`
}

// Stats are cumulative counters for a run. Safe for concurrent reads.
type Stats struct {
	Cycles           uint64 `json:"cycles"`
	Drives           uint64 `json:"drives"`
	Stops            uint64 `json:"stops"`
	PerceptionErrors uint64 `json:"perception_errors"`
	ActuationErrors  uint64 `json:"actuation_errors"`
	Discarded        uint64 `json:"discarded"`
}

// Runner drives the single-threaded capture, decide, actuate loop.
type Runner struct {
	controller *Controller
	source     FrameSource
	actuator   Actuator
	observers  []Observer
	session    string
	logger     *slog.Logger

	// Consecutive source failures back off from backoffMin up to backoffMax.
	backoffMin time.Duration
	backoffMax time.Duration
	failStreak int

	cycles           atomic.Uint64
	drives           atomic.Uint64
	stops            atomic.Uint64
	perceptionErrors atomic.Uint64
	actuationErrors  atomic.Uint64
	discarded        atomic.Uint64

	mu   sync.RWMutex
	last Cycle
}

// Option configures a Runner.
type Option func(*Runner)

// WithObserver registers an observer for cycle records.
func WithObserver(o Observer) Option {
	return func(r *Runner) { r.observers = append(r.observers, o) }
}

// WithSession overrides the generated session ID.
func WithSession(id string) Option {
	return func(r *Runner) { r.session = id }
}

// Default retry delays after a failed NextFrame.
const (
	DefaultBackoffMin = 20 * time.Millisecond
	DefaultBackoffMax = time.Second
)

// WithRetryBackoff sets the delay range used after consecutive source
// failures. A zero min disables the delay.
func WithRetryBackoff(lo, hi time.Duration) Option {
	return func(r *Runner) { r.backoffMin, r.backoffMax = lo, hi }
}

// NewRunner wires a controller between a frame source and an actuator.
func NewRunner(controller *Controller, source FrameSource, actuator Actuator, opts ...Option) *Runner {
	r := &Runner{
		controller: controller,
		source:     source,
		actuator:   actuator,
		session:    uuid.New().String(),
		backoffMin: DefaultBackoffMin,
		backoffMax: DefaultBackoffMax,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = log.Component("follow").With("session", r.session)
	return r
}

// Session returns the run's session ID.
func (r *Runner) Session() string {
	return r.session
}

// Stats returns a snapshot of the run counters.
func (r *Runner) Stats() Stats {
	return Stats{
		Cycles:           r.cycles.Load(),
		Drives:           r.drives.Load(),
		Stops:            r.stops.Load(),
		PerceptionErrors: r.perceptionErrors.Load(),
		ActuationErrors:  r.actuationErrors.Load(),
		Discarded:        r.discarded.Load(),
	}
}

// Last returns the most recent cycle record.
func (r *Runner) Last() (Cycle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last, r.last.Seq > 0
}

// Run loops until ctx is done or the source reports io.EOF. A final Stop is
// always issued before returning; its error, if any, is returned.
func (r *Runner) Run(ctx context.Context) (err error) {
	cfg := r.controller.Config()
	r.logger.Info("follow loop started",
		"min_speed", cfg.MinSpeed, "max_speed", cfg.MaxSpeed,
		"stop_distance", cfg.StopDistance, "rotate_threshold", cfg.RotateThreshold)

	defer func() {
		if stopErr := r.actuator.Stop(); stopErr != nil {
			r.logger.Error("final stop failed", "error", stopErr)
			err = errors.Join(err, fmt.Errorf("%w: final stop: %v", ErrActuation, stopErr))
		}
		r.logger.Info("follow loop stopped", "cycles", r.cycles.Load())
	}()

	var prev Command
	for {
		if ctx.Err() != nil {
			return nil
		}

		started := time.Now()
		frame, srcErr := r.source.NextFrame(ctx)
		if srcErr != nil && ctx.Err() != nil {
			return nil
		}
		if errors.Is(srcErr, io.EOF) {
			r.logger.Info("frame source exhausted")
			return nil
		}

		if srcErr != nil {
			r.failStreak++
		} else {
			r.failStreak = 0
		}

		c := r.step(frame, srcErr)
		c.Latency = time.Since(started)
		r.apply(&c)
		r.record(c, prev)
		prev = c.Command

		if srcErr != nil && !r.wait(ctx, r.backoff()) {
			return nil
		}
	}
}

// backoff doubles per consecutive failure, capped at backoffMax.
func (r *Runner) backoff() time.Duration {
	if r.backoffMin <= 0 || r.failStreak == 0 {
		return 0
	}
	d := r.backoffMin
	for i := 1; i < r.failStreak && d < r.backoffMax; i++ {
		d *= 2
	}
	return min(d, max(r.backoffMax, r.backoffMin))
}

// wait sleeps for d and reports false if ctx ended first.
func (r *Runner) wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// step computes the cycle's command without touching the actuator.
func (r *Runner) step(frame detection.Frame, srcErr error) Cycle {
	c := Cycle{
		Session:  r.session,
		Seq:      r.cycles.Add(1),
		FrameSeq: frame.Seq,
		At:       time.Now(),
	}

	if srcErr != nil {
		r.perceptionErrors.Add(1)
		c.Command = Stop(CausePerceptionUnavailable)
		c.Err = fmt.Errorf("%w: %w", ErrPerceptionUnavailable, srcErr)
		if n := r.failStreak; n <= 1 || n%50 == 0 {
			r.logger.Warn("perception unavailable", "error", srcErr, "consecutive", n)
		} else {
			r.logger.Debug("perception unavailable", "error", srcErr, "consecutive", n)
		}
		return c
	}

	d := r.controller.Step(frame)
	c.Command = d.Command
	c.Detections = len(frame.Detections)
	c.Discarded = d.Discarded
	if d.Discarded > 0 {
		r.discarded.Add(uint64(d.Discarded))
		r.logger.Debug("discarded detections with invalid geometry",
			"count", d.Discarded, "frame_w", frame.Context.Width, "frame_h", frame.Context.Height)
	}
	return c
}

// apply sends the command. A failed Drive is followed by a Stop attempt so a
// transport error never leaves the wheels on the previous command.
func (r *Runner) apply(c *Cycle) {
	cmd := c.Command
	if cmd.IsStop() {
		r.stops.Add(1)
		if err := r.actuator.Stop(); err != nil {
			r.actuationFailed(c, err)
		}
		return
	}

	r.drives.Add(1)
	if err := r.actuator.Drive(cmd.Left, cmd.Right); err != nil {
		r.actuationFailed(c, err)
		if stopErr := r.actuator.Stop(); stopErr != nil {
			r.logger.Error("fallback stop failed", "error", stopErr)
		}
	}
}

func (r *Runner) actuationFailed(c *Cycle, err error) {
	r.actuationErrors.Add(1)
	c.Err = errors.Join(c.Err, fmt.Errorf("%w: %w", ErrActuation, err))
	r.logger.Error("actuator rejected command", "command", c.Command.String(), "error", err)
}

// record publishes the cycle and logs regime changes.
func (r *Runner) record(c Cycle, prev Command) {
	if c.Err != nil {
		c.ErrText = c.Err.Error()
	}

	r.mu.Lock()
	r.last = c
	r.mu.Unlock()

	cmd := c.Command
	if cmd.State != prev.State || cmd.Cause != prev.Cause || c.Seq == 1 {
		if cmd.IsStop() {
			r.logger.Info("stop", "cause", cmd.Cause.String())
		} else {
			r.logger.Info("move", "state", cmd.State.String(), "left", cmd.Left, "right", cmd.Right)
		}
	} else {
		r.logger.Debug("cycle", "command", cmd.String(), "latency", c.Latency)
	}

	for _, o := range r.observers {
		o.OnCycle(c)
	}
}
