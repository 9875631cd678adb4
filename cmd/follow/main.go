// follow drives a two-wheeled base toward the largest person in view.
//
// Usage:
//
//	follow -config follow.json
//	follow -replay session.jsonl -dry-run -web-port 8080
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/teslashibe/go-follow/internal/config"
	"github.com/teslashibe/go-follow/internal/log"
	"github.com/teslashibe/go-follow/pkg/app"
	"github.com/teslashibe/go-follow/pkg/camera"
)

func main() {
	cfg, printConfig, err := loadConfig(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration error: %v\n", err)
		os.Exit(2)
	}

	if printConfig {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}
		return
	}

	log.InitWriter(os.Stdout, cfg.Log.Level, cfg.Log.JSON || os.Getenv("GO_ENV") == "production")

	if err := run(cfg); err != nil {
		log.Error("follow failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.AppConfig) error {
	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	defer a.Shutdown()

	if err := a.Init(); err != nil {
		return fmt.Errorf("initialization: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return a.Run(ctx)
}

// loadConfig resolves defaults, then the config file, then environment,
// then flags.
func loadConfig(args []string) (config.AppConfig, bool, error) {
	fs := flag.NewFlagSet("follow", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a JSON config file")
	model := fs.String("model", "", "ONNX detector model (overrides FOLLOW_MODEL)")
	labels := fs.String("labels", "", "Label file, one class per line (overrides FOLLOW_LABELS)")
	cameraDev := fs.String("camera", "", "Camera index or URL (overrides FOLLOW_CAMERA)")
	cameraPreset := fs.String("camera-preset", "", "Capture geometry preset: "+strings.Join(camera.PresetNames(), ", "))
	motorPort := fs.String("motor-port", "", "Motor controller serial port (overrides FOLLOW_MOTOR_PORT)")
	dryRun := fs.Bool("dry-run", false, "Log motor commands instead of opening the port")
	replay := fs.String("replay", "", "Play a recorded JSON lines session instead of the camera")
	record := fs.String("record", "", "Record live frames to a JSON lines file")
	webPort := fs.String("web-port", "", "Serve the dashboard on this port")
	logLevel := fs.String("log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	printConfig := fs.Bool("print-config", false, "Print the resolved configuration and exit")

	cfg := config.Default()
	if err := fs.Parse(args); err != nil {
		return cfg, false, err
	}

	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return cfg, false, err
		}
		cfg = loaded
	}
	config.ApplyEnv(&cfg)

	if *model != "" {
		cfg.Detector.ModelPath = *model
	}
	if *labels != "" {
		cfg.Detector.LabelsPath = *labels
	}
	if *cameraPreset != "" {
		var err error
		if cfg.Camera, err = cfg.Camera.WithPreset(*cameraPreset); err != nil {
			return cfg, false, err
		}
	}
	if *cameraDev != "" {
		cfg.Camera.Device = *cameraDev
	}
	if *motorPort != "" {
		cfg.Motor.Port = *motorPort
	}
	if *dryRun {
		cfg.Motor.DryRun = true
	}
	if *replay != "" {
		cfg.Replay.Path = *replay
	}
	if *record != "" {
		cfg.Replay.RecordPath = *record
	}
	if *webPort != "" {
		cfg.Web.Enabled = true
		cfg.Web.Port = *webPort
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	return cfg, *printConfig, cfg.Validate()
}
