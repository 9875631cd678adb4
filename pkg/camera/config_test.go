package camera

import "testing"

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if errs := cfg.Validate(); len(errs) > 0 {
		t.Errorf("DefaultConfig should validate, got %v", errs)
	}
	if cfg.Width != 640 || cfg.Height != 480 {
		t.Errorf("DefaultConfig size: got %dx%d, want 640x480", cfg.Width, cfg.Height)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errs   int
	}{
		{"empty device", func(c *Config) { c.Device = "" }, 1},
		{"tiny width", func(c *Config) { c.Width = 10 }, 1},
		{"huge height", func(c *Config) { c.Height = 5000 }, 1},
		{"zero fps", func(c *Config) { c.FPS = 0 }, 1},
		{"negative buffer", func(c *Config) { c.BufferSize = -1 }, 1},
		{"everything wrong", func(c *Config) { *c = Config{BufferSize: -1} }, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if got := cfg.Validate(); len(got) != tc.errs {
				t.Errorf("Validate: got %d errors %v, want %d", len(got), got, tc.errs)
			}
		})
	}
}

func TestPresets(t *testing.T) {
	for name, cfg := range Presets() {
		if errs := cfg.Validate(); len(errs) > 0 {
			t.Errorf("preset %s invalid: %v", name, errs)
		}
	}
	if GetPreset("missing") != nil {
		t.Error("GetPreset should return nil for unknown names")
	}
	if p := GetPreset(PresetQVGA); p == nil || p.Width != 320 {
		t.Errorf("GetPreset(qvga): got %+v", p)
	}
}

func TestConfig_WithPreset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Device = "/dev/video2"

	got, err := cfg.WithPreset(Preset720p)
	if err != nil {
		t.Fatalf("WithPreset: %v", err)
	}
	if got.Width != 1280 || got.Height != 720 {
		t.Errorf("WithPreset size: got %dx%d, want 1280x720", got.Width, got.Height)
	}
	if got.Device != "/dev/video2" {
		t.Errorf("WithPreset must keep the device, got %q", got.Device)
	}
	if got.Preset != Preset720p {
		t.Errorf("WithPreset name: got %q", got.Preset)
	}

	if _, err := cfg.WithPreset("8k"); err == nil {
		t.Error("WithPreset should reject unknown names")
	}
}

func TestPresetNames(t *testing.T) {
	want := []string{Preset720p, PresetDefault, PresetQVGA}
	got := PresetNames()
	if len(got) != len(want) {
		t.Fatalf("PresetNames: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PresetNames[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestOpen_RejectsInvalidConfig(t *testing.T) {
	if _, err := Open(Config{}); err == nil {
		t.Error("Open should reject an empty config")
	}
}
