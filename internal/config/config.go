// Package config loads the follower's JSON configuration and applies
// environment overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/teslashibe/go-follow/pkg/camera"
	"github.com/teslashibe/go-follow/pkg/detection"
	"github.com/teslashibe/go-follow/pkg/drive"
	"github.com/teslashibe/go-follow/pkg/follow"
	"github.com/teslashibe/go-follow/pkg/web"
)

// MaxFileSize caps config files at 1MB.
const MaxFileSize = 1 << 20

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// MotorConfig selects and configures the actuator.
type MotorConfig struct {
	drive.Config
	DryRun bool `json:"dry_run"` // Log commands instead of opening the port
}

// ReplayConfig plays a recorded session instead of the camera.
type ReplayConfig struct {
	Path       string `json:"path"`        // JSON lines file, empty for live camera
	IntervalMS int    `json:"interval_ms"` // Pacing between frames, 0 for as fast as possible
	RecordPath string `json:"record_path"` // Optional file to record live frames into
}

// Interval returns the pacing as a duration.
func (r ReplayConfig) Interval() time.Duration {
	return time.Duration(r.IntervalMS) * time.Millisecond
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `json:"level"`
	JSON  bool   `json:"json"`
}

// AppConfig is the complete configuration for cmd/follow.
type AppConfig struct {
	Camera     camera.Config    `json:"camera"`
	Detector   detection.Config `json:"detector"`
	Controller follow.Config    `json:"controller"`
	Motor      MotorConfig      `json:"motor"`
	Replay     ReplayConfig     `json:"replay"`
	Web        web.Config       `json:"web"`
	Log        LogConfig        `json:"log"`
}

// Default returns the built-in configuration.
func Default() AppConfig {
	return AppConfig{
		Camera:     camera.DefaultConfig(),
		Detector:   detection.DefaultConfig(),
		Controller: follow.DefaultConfig(),
		Motor:      MotorConfig{Config: drive.DefaultConfig()},
		Web:        web.DefaultConfig(),
		Log:        LogConfig{Level: "info"},
	}
}

// Load reads path over Default. Fields missing from the file keep their
// defaults. The file is validated to have a .json extension and to be
// under MaxFileSize.
func Load(path string) (AppConfig, error) {
	cfg := Default()

	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return cfg, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > MaxFileSize {
		return cfg, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), MaxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	// A camera preset sets the base geometry; explicit camera fields in the
	// file still win because the full document is decoded over it.
	var peek struct {
		Camera struct {
			Preset string `json:"preset"`
		} `json:"camera"`
	}
	if err := json.Unmarshal(data, &peek); err != nil {
		return cfg, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if name := peek.Camera.Preset; name != "" {
		if cfg.Camera, err = cfg.Camera.WithPreset(name); err != nil {
			return cfg, err
		}
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return cfg, nil
}

// Validate checks every section.
func (c AppConfig) Validate() error {
	var errs []error

	if c.Replay.Path == "" {
		for _, msg := range c.Camera.Validate() {
			errs = append(errs, fmt.Errorf("%w: camera: %s", ErrInvalid, msg))
		}
		if c.Detector.ModelPath == "" {
			errs = append(errs, fmt.Errorf("%w: detector: model_path must be set", ErrInvalid))
		}
	}
	if c.Replay.IntervalMS < 0 {
		errs = append(errs, fmt.Errorf("%w: replay: interval_ms must be non-negative", ErrInvalid))
	}
	if err := c.Controller.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("controller: %w", err))
	}
	if !c.Motor.DryRun {
		if c.Motor.Port == "" {
			errs = append(errs, fmt.Errorf("%w: motor: port must be set unless dry_run", ErrInvalid))
		}
		if c.Motor.BaudRate <= 0 {
			errs = append(errs, fmt.Errorf("%w: motor: baud_rate must be positive", ErrInvalid))
		}
	}
	if c.Motor.MaxDuty <= 0 {
		errs = append(errs, fmt.Errorf("%w: motor: max_duty must be positive", ErrInvalid))
	}
	if c.Web.Enabled && c.Web.Port == "" {
		errs = append(errs, fmt.Errorf("%w: web: port must be set when enabled", ErrInvalid))
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: log: unknown level %q", ErrInvalid, c.Log.Level))
	}

	return errors.Join(errs...)
}
