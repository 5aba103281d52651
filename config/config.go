// Package config holds the settings of the capture tool, read from an
// optional YAML file on top of built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	yaml "github.com/goccy/go-yaml"
)

var (
	errImagesDirEmpty       = errors.New("images_dir cannot be empty")
	errCommandEmpty         = errors.New("command cannot be empty")
	errProbeLimitOutOfRange = errors.New("probe_limit must be between 1 and 64")
	errBadResolution        = errors.New("resolution must look like 1280x720")
	errNegativeDelay        = errors.New("delay cannot be negative")
	errTitleFormat          = errors.New("title_format must contain exactly one %s")
	errNativeSize           = errors.New("native width and height cannot be negative")
)

var resolutionRe = regexp.MustCompile(`^[1-9][0-9]*x[1-9][0-9]*$`)

// Config is the complete configuration.
type Config struct {
	ImagesDir   string        `yaml:"images_dir"`
	LogPath     string        `yaml:"log_path"` // Empty: a temporary log, removed after the run.
	ProbeLimit  int           `yaml:"probe_limit"`
	Command     string        `yaml:"command"`
	MetricsFile string        `yaml:"metrics_file"`
	Capture     CaptureConfig `yaml:"capture"`
	Native      NativeConfig  `yaml:"native"`
}

// CaptureConfig are the arguments given to the external capture command.
type CaptureConfig struct {
	Resolution      string `yaml:"resolution"`
	Delay           int    `yaml:"delay"` // Seconds before the frame is taken.
	BannerColour    string `yaml:"banner_colour"`
	Font            string `yaml:"font"`
	TimestampFormat string `yaml:"timestamp_format"` // Go time layout.
	TitleFormat     string `yaml:"title_format"`     // %s is replaced by the device path.
}

// NativeConfig describes the camera module.
type NativeConfig struct {
	Enabled bool   `yaml:"enabled"`
	Device  string `yaml:"device"`
	Card    string `yaml:"card"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Skip    int    `yaml:"skip"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ImagesDir:  "images",
		ProbeLimit: 10,
		Command:    "fswebcam",
		Capture: CaptureConfig{
			Resolution:      "1280x720",
			Delay:           1,
			BannerColour:    "#FF000000",
			Font:            "sans:24",
			TimestampFormat: "2006-01-02 15:04:05",
			TitleFormat:     "Camera %s",
		},
		Native: NativeConfig{
			Enabled: true,
			Card:    "mmal service",
			Width:   1920,
			Height:  1080,
			Skip:    2,
		},
	}
}

// Load reads the YAML file at path over the defaults and validates the
// result. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the tool cannot work with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ImagesDir) == "" {
		return errImagesDirEmpty
	}
	if strings.TrimSpace(c.Command) == "" {
		return errCommandEmpty
	}
	if c.ProbeLimit < 1 || c.ProbeLimit > 64 {
		return fmt.Errorf("%w, got %d", errProbeLimitOutOfRange, c.ProbeLimit)
	}
	if !resolutionRe.MatchString(c.Capture.Resolution) {
		return fmt.Errorf("%w, got %q", errBadResolution, c.Capture.Resolution)
	}
	if c.Capture.Delay < 0 {
		return errNegativeDelay
	}
	if strings.Count(c.Capture.TitleFormat, "%s") != 1 || strings.Count(c.Capture.TitleFormat, "%") != 1 {
		return fmt.Errorf("%w, got %q", errTitleFormat, c.Capture.TitleFormat)
	}
	if c.Native.Width < 0 || c.Native.Height < 0 {
		return errNativeSize
	}
	return nil
}
