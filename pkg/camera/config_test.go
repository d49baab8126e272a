package camera

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DeviceID != FirstAvailable {
		t.Errorf("expected first-available selector, got %d", cfg.DeviceID)
	}
	if cfg.Width != 1024 || cfg.Height != 576 {
		t.Errorf("expected 1024x576, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.FPS != 30 {
		t.Errorf("expected 30 FPS, got %d", cfg.FPS)
	}
	if cfg.FourCC != "MJPG" {
		t.Errorf("expected MJPG fourcc, got %s", cfg.FourCC)
	}
	if !cfg.ShiftColors {
		t.Error("expected color shift enabled by default")
	}
	if cfg.MirrorImage {
		t.Error("expected mirror disabled by default")
	}
	if problems := cfg.Validate(); len(problems) > 0 {
		t.Errorf("default config should validate, got %v", problems)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"explicit device", func(c *Config) { c.DeviceID = 2 }, false},
		{"selector below sentinel", func(c *Config) { c.DeviceID = -2 }, true},
		{"zero width", func(c *Config) { c.Width = 0 }, true},
		{"zero height", func(c *Config) { c.Height = 0 }, true},
		{"fps too high", func(c *Config) { c.FPS = 500 }, true},
		{"short fourcc", func(c *Config) { c.FourCC = "MJ" }, true},
		{"negative cooldown", func(c *Config) { c.RecoverCooldown = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			problems := cfg.Validate()
			if tt.wantErr && len(problems) == 0 {
				t.Error("expected validation problems, got none")
			}
			if !tt.wantErr && len(problems) > 0 {
				t.Errorf("expected no problems, got %v", problems)
			}
		})
	}
}
