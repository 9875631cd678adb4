package camera

import (
	"fmt"
	"slices"
	"strings"
)

// Preset names for common configurations
const (
	PresetDefault = "default"
	PresetQVGA    = "qvga"
	Preset720p    = "720p"
)

// Presets returns all available preset configurations.
func Presets() map[string]Config {
	return map[string]Config{
		PresetDefault: DefaultConfig(),
		PresetQVGA:    QVGAConfig(),
		Preset720p:    HD720Config(),
	}
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, 3)
	for name := range Presets() {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// GetPreset returns a preset by name, or nil if not found.
func GetPreset(name string) *Config {
	if cfg, ok := Presets()[name]; ok {
		return &cfg
	}
	return nil
}

// WithPreset returns c with the preset's capture geometry. The device is
// kept so a preset can be picked independently of which camera is used.
func (c Config) WithPreset(name string) (Config, error) {
	p := GetPreset(name)
	if p == nil {
		return c, fmt.Errorf("camera: unknown preset %q (have %s)", name, strings.Join(PresetNames(), ", "))
	}
	c.Width, c.Height, c.FPS, c.BufferSize = p.Width, p.Height, p.FPS, p.BufferSize
	c.Preset = name
	return c, nil
}

// QVGAConfig trades range for inference rate on slow boards.
func QVGAConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 320
	cfg.Height = 240
	return cfg
}

// HD720Config returns 1280x720 at 30fps.
func HD720Config() Config {
	cfg := DefaultConfig()
	cfg.Width = 1280
	cfg.Height = 720
	return cfg
}
