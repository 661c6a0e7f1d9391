// Package config loads songbook rendering settings from YAML and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/sonido-chords/algorithms/chart"
	"github.com/RyanBlaney/sonido-chords/algorithms/pitch"
	"github.com/RyanBlaney/sonido-chords/algorithms/transpose"
	"github.com/RyanBlaney/sonido-chords/logging"
)

// EnvPrefix prefixes every environment override, e.g. CHORDS_SPELLING.
const EnvPrefix = "CHORDS_"

// Config controls how stored songs are transposed and displayed.
//
// Spelling is one of "sharp", "flat", "preserve" or "key". KeyPolicy is
// "pass-through" or "strict". Detection is "tokens" or "chord-lines".
type Config struct {
	Spelling        string    `json:"spelling" yaml:"spelling" env:"SPELLING"`
	KeyPolicy       string    `json:"key_policy" yaml:"key_policy" env:"KEY_POLICY"`
	Detection       string    `json:"detection" yaml:"detection" env:"DETECTION"`
	InferMissingKey bool      `json:"infer_missing_key" yaml:"infer_missing_key" env:"INFER_MISSING_KEY"`
	Database        string    `json:"database" yaml:"database" env:"DATABASE"`
	Log             LogConfig `json:"log" yaml:"log" envPrefix:"LOG_"`
}

// LogConfig selects the logger backend.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" env:"LEVEL"`
	Format string `json:"format" yaml:"format" env:"FORMAT"` // text or json
}

// Default returns the settings used when nothing is configured: sharp
// output, pass-through on unknown keys and token detection.
func Default() *Config {
	return &Config{
		Spelling:        pitch.Sharp.String(),
		KeyPolicy:       transpose.PassThrough.String(),
		Detection:       chart.Tokens.String(),
		InferMissingKey: true,
		Database:        "songs.db",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the YAML file at path over the defaults, applies CHORDS_*
// environment overrides and validates the result. An empty path skips the
// file.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read is Load without validation, for callers that apply further
// overrides and call Validate themselves.
func Read(path string) (*Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks every enumerated setting and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.SpellingValue(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.KeyPolicyValue(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.DetectionValue(); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Format)) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SpellingValue parses the spelling setting.
func (c *Config) SpellingValue() (pitch.Spelling, error) {
	return pitch.ParseSpelling(c.Spelling)
}

// KeyPolicyValue parses the key policy setting.
func (c *Config) KeyPolicyValue() (transpose.KeyPolicy, error) {
	return transpose.ParseKeyPolicy(c.KeyPolicy)
}

// DetectionValue parses the detection setting.
func (c *Config) DetectionValue() (chart.Detection, error) {
	return chart.ParseDetection(c.Detection)
}

// Logger builds the logger described by the log section.
func (c *Config) Logger() (logging.Logger, error) {
	return logging.New(c.Log.Format, c.Log.Level)
}
