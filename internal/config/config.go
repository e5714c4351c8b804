// Package config loads the labeling and rendering defaults shared by the
// MCP server and the blobs CLI from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/blob-tools-mcp/internal/blob"
)

// EnvPath names the environment variable that points at a config file
// when no --config flag is given.
const EnvPath = "IMAGE_MCP_CONFIG"

// Color modes for render.colorMode.
const (
	ColorBySize = string(blob.BySize)
	ColorRandom = string(blob.Random)
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Labeling parameters
	Labeling struct {
		// Threshold is the luminance (0-255) a pixel must exceed to be foreground
		Threshold float64 `yaml:"threshold"`

		// MinSize is the smallest component, in pixels, that survives filtering
		MinSize int `yaml:"minSize"`

		// Blur smooths the image with a 3x3 Gaussian before thresholding
		Blur bool `yaml:"blur"`

		// Invert labels dark shapes on a light background
		Invert bool `yaml:"invert"`

		// Strategy is the union strategy, "weighted" or "unweighted"
		Strategy string `yaml:"strategy"`
	} `yaml:"labeling"`

	// Render parameters
	Render struct {
		// ColorMode is "size" (hue ramp by component size) or "random"
		ColorMode string `yaml:"colorMode"`

		// Seed seeds random colouring; 0 picks a time based seed
		Seed int64 `yaml:"seed"`

		// DrawBoxes outlines every shown component
		DrawBoxes bool `yaml:"drawBoxes"`
	} `yaml:"render"`

	// OCR parameters
	OCR struct {
		// Language is the Tesseract language code
		Language string `yaml:"language"`
	} `yaml:"ocr"`

	// LogLevel enables debug logging when set to "debug"
	LogLevel string `yaml:"logLevel"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Labeling.Threshold = 128
	cfg.Labeling.MinSize = 6
	cfg.Labeling.Blur = true
	cfg.Labeling.Invert = false
	cfg.Labeling.Strategy = blob.Weighted.String()

	cfg.Render.ColorMode = ColorBySize
	cfg.Render.Seed = 0
	cfg.Render.DrawBoxes = false

	cfg.OCR.Language = "eng"

	return cfg
}

// Validate checks the values a YAML file may have set.
func (c *Config) Validate() error {
	if c.Labeling.Threshold < 0 || c.Labeling.Threshold > 255 {
		return fmt.Errorf("labeling.threshold %g not in [0,255]", c.Labeling.Threshold)
	}
	if c.Labeling.MinSize < 0 {
		return fmt.Errorf("labeling.minSize %d is negative", c.Labeling.MinSize)
	}
	if _, err := blob.ParseStrategy(c.Labeling.Strategy); err != nil {
		return fmt.Errorf("labeling.strategy: %w", err)
	}
	if _, err := blob.ParseColorMode(c.Render.ColorMode); err != nil {
		return fmt.Errorf("render.colorMode: %w", err)
	}
	return nil
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return c.LogLevel == "debug"
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath == "" {
		return cfg, nil
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// Resolve picks the config path: flagPath when set, otherwise the
// IMAGE_MCP_CONFIG environment variable.
func Resolve(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	return os.Getenv(EnvPath)
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
