package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default config should validate: %v", err)
	}
}

func TestValidateRejectsBrokenConfigs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Video.Width = 0 }},
		{"negative fps", func(c *Config) { c.Video.FPS = -30 }},
		{"reveal fraction above 1", func(c *Config) { c.Animation.MaxRevealFraction = 1.5 }},
		{"zero chars per second", func(c *Config) { c.Animation.MaxCharsPerSecond = 0 }},
		{"negative fade", func(c *Config) { c.Animation.FadeOutDuration = -0.1 }},
		{"zoom below 1", func(c *Config) { c.Animation.MaxZoom = 0.5 }},
		{"nan padding", func(c *Config) { c.Animation.PaddingSeconds = nan() }},
		{"zero font size", func(c *Config) { c.Text.FontSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "video:\n  width: 720\n  height: 1280\nanimation:\n  max_chars_per_second: 15\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Video.Width != 720 || cfg.Video.Height != 1280 {
		t.Errorf("Expected 720x1280, got %dx%d", cfg.Video.Width, cfg.Video.Height)
	}
	if cfg.Animation.MaxCharsPerSecond != 15 {
		t.Errorf("Expected max_chars_per_second 15, got %f", cfg.Animation.MaxCharsPerSecond)
	}
	// untouched values keep their defaults
	if cfg.Video.FPS != 30 {
		t.Errorf("Expected default fps 30, got %d", cfg.Video.FPS)
	}
	if cfg.Voice.SpeakerID != 3 {
		t.Errorf("Expected default speaker 3, got %d", cfg.Voice.SpeakerID)
	}
}

func nan() float64 {
	f := 0.0
	return f / f
}
