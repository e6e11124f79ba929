// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/user/scenecast/pkg/ports"
	"gopkg.in/yaml.v3"
)

// Config represents the full configuration for scenecast.
type Config struct {
	// Capture
	FPS           float64 `yaml:"fps"`
	SettleDelayMs int     `yaml:"settle_delay_ms"`

	// Encoding
	Quality    int      `yaml:"quality"`
	Bitrate    int      `yaml:"bitrate"`
	Codecs     []string `yaml:"codecs"`
	FFmpegPath string   `yaml:"ffmpeg_path"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		// Capture
		FPS:           5.0,
		SettleDelayMs: 200,

		// Encoding
		Quality: 28,

		// Debug
		DebugDir: "./debug",

		// Logging
		LogLevel: "info",
	}
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks the configuration for values no component can work with.
func (c Config) Validate() error {
	if c.FPS <= 0 || c.FPS > 60 {
		return fmt.Errorf("config: fps must be in (0, 60], got %v", c.FPS)
	}
	if c.SettleDelayMs < 0 {
		return fmt.Errorf("config: settle_delay_ms must not be negative, got %d", c.SettleDelayMs)
	}
	if c.Quality < 0 || c.Quality > 63 {
		return fmt.Errorf("config: quality must be in [0, 63], got %d", c.Quality)
	}
	if c.Bitrate < 0 {
		return fmt.Errorf("config: bitrate must not be negative, got %d", c.Bitrate)
	}
	if _, err := c.Preferences(); err != nil {
		return err
	}
	if !validLogLevel(c.LogLevel) {
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	return nil
}

// SettleDelay returns the post-paint settle delay as a duration.
func (c Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMs) * time.Millisecond
}

// Preferences converts the codecs list into typed codec identifiers.
// An empty list means the selector's default order.
func (c Config) Preferences() ([]ports.Codec, error) {
	if len(c.Codecs) == 0 {
		return nil, nil
	}
	prefer := make([]ports.Codec, 0, len(c.Codecs))
	for _, name := range c.Codecs {
		codec, err := ParseCodec(name)
		if err != nil {
			return nil, err
		}
		prefer = append(prefer, codec)
	}
	return prefer, nil
}

// ParseCodec maps a codec name from configuration to its identifier.
func ParseCodec(name string) (ports.Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "hevc", "h265", "h.265":
		return ports.CodecHEVC, nil
	case "h264", "h.264", "avc":
		return ports.CodecH264, nil
	case "mjpeg":
		return ports.CodecMJPEG, nil
	default:
		return "", fmt.Errorf("config: unknown codec %q", name)
	}
}

func validLogLevel(s string) bool {
	switch s {
	case "debug", "info", "warn", "error", "quiet":
		return true
	}
	return false
}
