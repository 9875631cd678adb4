// Package drive implements motor actuators for a two-wheel differential drive.
//
// Speeds are normalized forward magnitudes in [0, 1]. Converting them to PWM
// duty and holding the direction pins is the motor controller's job; this
// package only frames the commands.
package drive

import (
	"io"
	"math"
)

// Port is the minimal interface needed for a serial link.
type Port interface {
	io.ReadWriter
	io.Closer
}

// Config holds motor link configuration.
type Config struct {
	Port     string `json:"port"`      // Serial device, e.g. /dev/ttyACM0
	BaudRate int    `json:"baud_rate"` // Link speed
	MaxDuty  int    `json:"max_duty"`  // Duty value sent for speed 1.0
}

// DefaultConfig returns defaults for a USB motor controller board.
func DefaultConfig() Config {
	return Config{
		Port:     "/dev/ttyACM0",
		BaudRate: 115200,
		MaxDuty:  255,
	}
}

// Duty converts a normalized speed to an integer duty in [0, maxDuty].
func Duty(speed float64, maxDuty int) int {
	if math.IsNaN(speed) || speed <= 0 {
		return 0
	}
	if speed >= 1 {
		return maxDuty
	}
	return int(math.Round(speed * float64(maxDuty)))
}
