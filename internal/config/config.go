package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full tool configuration, loaded from YAML with the
// defaults applied for anything left unset.
type Config struct {
	Video     VideoConfig     `yaml:"video"`
	Text      TextConfig      `yaml:"text"`
	Animation AnimationConfig `yaml:"animation"`
	Voice     VoiceConfig     `yaml:"voice"`
	Images    ImagesConfig    `yaml:"images"`
	Output    OutputConfig    `yaml:"output"`
	Upload    UploadConfig    `yaml:"upload"`
}

type VideoConfig struct {
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	FPS     int    `yaml:"fps"`
	Encoder string `yaml:"encoder"` // libx264, h264_nvenc, h264_videotoolbox
	Quality int    `yaml:"quality"`
	Workers int    `yaml:"workers"` // page prep parallelism, 0 = auto
}

type TextConfig struct {
	FontFamily       string  `yaml:"font_family"`
	FontSize         float64 `yaml:"font_size"`    // pixels
	LineSpacing      float64 `yaml:"line_spacing"` // multiple of the face height
	Color            string  `yaml:"color"`
	BackgroundColor  string  `yaml:"background_color"`
	HighlightColor   string  `yaml:"highlight_color"`
	HighlightPadding int     `yaml:"highlight_padding"` // pixels around the glyph bounds
	FontDir          string  `yaml:"font_dir"`          // where weight-named ttf files live
}

type AnimationConfig struct {
	MaxRevealFraction float64 `yaml:"max_reveal_fraction"` // reveal must finish within this share of the page
	MaxCharsPerSecond float64 `yaml:"max_chars_per_second"`
	FadeInDuration    float64 `yaml:"fade_in_duration"`  // seconds
	FadeOutDuration   float64 `yaml:"fade_out_duration"` // seconds
	PaddingSeconds    float64 `yaml:"padding_seconds"`   // silence before and after narration
	MaxZoom           float64 `yaml:"max_zoom"`          // upscale cap before pan degrades to static
}

type VoiceConfig struct {
	Host            string  `yaml:"host"`
	Port            int     `yaml:"port"`
	SpeakerID       int     `yaml:"speaker_id"`
	SpeedScale      float64 `yaml:"speed_scale"`
	PitchScale      float64 `yaml:"pitch_scale"`
	VolumeScale     float64 `yaml:"volume_scale"`
	IntonationScale float64 `yaml:"intonation_scale"`
}

type ImagesConfig struct {
	Provider string `yaml:"provider"` // generate, dir, pdf
	Path     string `yaml:"path"`     // dir or pdf path for file providers
	BaseURL  string `yaml:"base_url"` // generator endpoint
	DPI      int    `yaml:"dpi"`      // raster density for the pdf provider
}

type OutputConfig struct {
	Directory     string `yaml:"directory"`
	TempDirectory string `yaml:"temp_directory"`
	KeepTempFiles bool   `yaml:"keep_temp_files"`
}

type UploadConfig struct {
	CredentialsFile string   `yaml:"credentials_file"`
	TokenFile       string   `yaml:"token_file"`
	Privacy         string   `yaml:"privacy"`
	CategoryID      string   `yaml:"category_id"`
	Tags            []string `yaml:"tags"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Video: VideoConfig{
			Width:   1080,
			Height:  1920,
			FPS:     30,
			Encoder: "libx264",
			Quality: 23,
		},
		Text: TextConfig{
			FontFamily:       "NotoSansJP",
			FontSize:         64,
			LineSpacing:      1.25,
			Color:            "#000000",
			BackgroundColor:  "#FFFFFF",
			HighlightColor:   "#FF0000",
			HighlightPadding: 12,
		},
		Animation: AnimationConfig{
			MaxRevealFraction: 0.6,
			MaxCharsPerSecond: 20,
			FadeInDuration:    0.667, // 20 frames at 30fps
			FadeOutDuration:   0.667,
			PaddingSeconds:    0.5,
			MaxZoom:           1.5,
		},
		Voice: VoiceConfig{
			Host:            "127.0.0.1",
			Port:            50021,
			SpeakerID:       3,
			SpeedScale:      1.0,
			PitchScale:      1.0,
			VolumeScale:     1.0,
			IntonationScale: 1.0,
		},
		Images: ImagesConfig{
			Provider: "generate",
			BaseURL:  "https://image.pollinations.ai",
			DPI:      150,
		},
		Output: OutputConfig{
			Directory:     "output",
			TempDirectory: "temp",
		},
		Upload: UploadConfig{
			CredentialsFile: "client_secret.json",
			TokenFile:       "token.json",
			Privacy:         "private",
			CategoryID:      "22",
		},
	}
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects internally inconsistent configuration. Unlike per-page
// failures these abort the whole render.
func (c *Config) Validate() error {
	if c.Video.Width <= 0 || c.Video.Height <= 0 {
		return fmt.Errorf("canvas size %dx%d is invalid", c.Video.Width, c.Video.Height)
	}
	if c.Video.FPS <= 0 {
		return fmt.Errorf("frame rate %d is invalid", c.Video.FPS)
	}
	a := c.Animation
	for _, v := range []float64{a.MaxRevealFraction, a.MaxCharsPerSecond, a.FadeInDuration, a.FadeOutDuration, a.PaddingSeconds, a.MaxZoom} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("animation settings contain a non-finite value")
		}
	}
	if a.MaxRevealFraction <= 0 || a.MaxRevealFraction > 1 {
		return fmt.Errorf("max_reveal_fraction %.3f must be in (0, 1]", a.MaxRevealFraction)
	}
	if a.MaxCharsPerSecond <= 0 {
		return fmt.Errorf("max_chars_per_second %.3f must be positive", a.MaxCharsPerSecond)
	}
	if a.FadeInDuration < 0 || a.FadeOutDuration < 0 {
		return fmt.Errorf("fade durations must not be negative")
	}
	if a.PaddingSeconds < 0 {
		return fmt.Errorf("padding_seconds %.3f must not be negative", a.PaddingSeconds)
	}
	if a.MaxZoom < 1 {
		return fmt.Errorf("max_zoom %.3f must be at least 1", a.MaxZoom)
	}
	if c.Text.FontSize <= 0 {
		return fmt.Errorf("font_size %.1f must be positive", c.Text.FontSize)
	}
	return nil
}
