// Package app wires configuration, perception, control and actuation into
// the running follower.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/teslashibe/go-follow/internal/config"
	"github.com/teslashibe/go-follow/internal/log"
	"github.com/teslashibe/go-follow/pkg/camera"
	"github.com/teslashibe/go-follow/pkg/detection"
	"github.com/teslashibe/go-follow/pkg/drive"
	"github.com/teslashibe/go-follow/pkg/follow"
	"github.com/teslashibe/go-follow/pkg/perception"
	"github.com/teslashibe/go-follow/pkg/web"
)

// recorderLimit bounds the dry-run command history.
const recorderLimit = 1024

// actuator is what the app drives and closes at shutdown.
type actuator interface {
	follow.Actuator
	io.Closer
}

// App owns every hardware handle for one run.
type App struct {
	config config.AppConfig
	logger *slog.Logger

	labels   detection.Labels
	capture  *camera.Capture
	detector *detection.YOLODetector
	source   follow.FrameSource
	actuator actuator
	runner   *follow.Runner
	web      *web.Server

	// closers are released in reverse order by Shutdown.
	closers []io.Closer
}

// New validates cfg and creates an App. Nothing is opened yet.
func New(cfg config.AppConfig) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &App{
		config: cfg,
		logger: log.Component("app"),
	}, nil
}

// Init opens the perception source, the actuator and the dashboard.
// Call this after New() and before Run(). On error, Shutdown still
// releases whatever was opened.
func (a *App) Init() error {
	if err := a.initLabels(); err != nil {
		return fmt.Errorf("labels: %w", err)
	}
	if err := a.initSource(); err != nil {
		return fmt.Errorf("perception: %w", err)
	}
	if err := a.initActuator(); err != nil {
		return fmt.Errorf("motor: %w", err)
	}

	opts := []follow.Option{}
	if a.config.Web.Enabled {
		a.web = web.NewServer(a.config.Web, a.config.Controller)
		opts = append(opts, follow.WithObserver(a.web))
	}

	ctrl := follow.NewController(a.config.Controller, a.labels)
	a.runner = follow.NewRunner(ctrl, a.source, a.actuator, opts...)
	if a.web != nil {
		a.web.SetRunInfo(a.runner)
	}

	a.logger.Info("initialized",
		"session", a.runner.Session(),
		"source", a.sourceName(),
		"dry_run", a.config.Motor.DryRun,
		"dashboard", a.config.Web.Enabled)
	return nil
}

func (a *App) initLabels() error {
	a.labels = detection.COCOClasses
	if a.config.Detector.LabelsPath == "" {
		return nil
	}
	labels, err := detection.LoadLabels(a.config.Detector.LabelsPath)
	if err != nil {
		return err
	}
	a.labels = labels
	return nil
}

func (a *App) initSource() error {
	if path := a.config.Replay.Path; path != "" {
		src, err := perception.OpenReplay(path,
			perception.WithInterval(a.config.Replay.Interval()),
			perception.WithLabels(a.labels))
		if err != nil {
			return err
		}
		a.closers = append(a.closers, src)
		a.source = src
		return nil
	}

	det, err := detection.NewYOLO(a.config.Detector, a.labels)
	if err != nil {
		return err
	}
	a.detector = det
	a.closers = append(a.closers, det)

	capture, err := camera.Open(a.config.Camera)
	if err != nil {
		return err
	}
	a.capture = capture
	a.closers = append(a.closers, capture)

	src := perception.NewCameraSource(capture, det)
	a.closers = append(a.closers, src)
	a.source = src

	if path := a.config.Replay.RecordPath; path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("record: %w", err)
		}
		a.closers = append(a.closers, f)
		a.source = perception.NewTee(src, perception.NewWriter(f))
	}
	return nil
}

func (a *App) initActuator() error {
	if a.config.Motor.DryRun {
		a.actuator = drive.NewRecorder(recorderLimit)
	} else {
		act, err := drive.OpenSerial(a.config.Motor.Config)
		if err != nil {
			return err
		}
		a.actuator = act
	}
	a.closers = append(a.closers, a.actuator)
	return nil
}

func (a *App) sourceName() string {
	if a.config.Replay.Path != "" {
		return "replay:" + a.config.Replay.Path
	}
	return "camera:" + a.config.Camera.Device
}

// Run blocks in the control loop until ctx is done or a replay ends.
func (a *App) Run(ctx context.Context) error {
	if a.runner == nil {
		return errors.New("app: Run called before Init")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	webErr := make(chan error, 1)
	if a.web != nil {
		go func() { webErr <- a.web.Run(ctx) }()
	}

	err := a.runner.Run(ctx)
	cancel()

	if a.web != nil {
		if werr := <-webErr; werr != nil {
			err = errors.Join(err, werr)
		}
	}

	s := a.runner.Stats()
	a.logger.Info("run finished",
		"cycles", s.Cycles,
		"drives", s.Drives,
		"stops", s.Stops,
		"perception_errors", s.PerceptionErrors,
		"actuation_errors", s.ActuationErrors)
	return err
}

// Runner returns the control loop, nil before Init.
func (a *App) Runner() *follow.Runner {
	return a.runner
}

// Actuator returns the motor sink, nil before Init.
func (a *App) Actuator() follow.Actuator {
	if a.actuator == nil {
		return nil
	}
	return a.actuator
}

// Shutdown releases every handle opened by Init, newest first. The
// actuator's Close sends a final stop.
func (a *App) Shutdown() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if err := errors.Join(errs...); err != nil {
		a.logger.Warn("shutdown", "error", err)
		return err
	}
	return nil
}
