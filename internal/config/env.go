package config

import "os"

// Environment variables read by ApplyEnv.
const (
	EnvMotorPort = "FOLLOW_MOTOR_PORT"
	EnvCamera    = "FOLLOW_CAMERA"
	EnvModel     = "FOLLOW_MODEL"
	EnvLabels    = "FOLLOW_LABELS"
	EnvLogLevel  = "LOG_LEVEL"
)

// ApplyEnv overrides cfg with any set environment variables.
func ApplyEnv(cfg *AppConfig) {
	cfg.Motor.Port = envOr(EnvMotorPort, cfg.Motor.Port)
	cfg.Camera.Device = envOr(EnvCamera, cfg.Camera.Device)
	cfg.Detector.ModelPath = envOr(EnvModel, cfg.Detector.ModelPath)
	cfg.Detector.LabelsPath = envOr(EnvLabels, cfg.Detector.LabelsPath)
	cfg.Log.Level = envOr(EnvLogLevel, cfg.Log.Level)
}

// envOr returns the value of key, or fallback if it is unset or empty.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
