package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/portscout/internal/model"
	"github.com/mmr-tortoise/portscout/internal/port"
)

// Config holds the runtime configuration for the portscout server and CLI.
type Config struct {
	// Listen is the address the HTTP API binds to.
	Listen string `yaml:"listen" json:"listen"`

	// Random configures the random free-port generator.
	Random RandomConfig `yaml:"random" json:"random"`
}

// RandomConfig bounds the random generator's sampling range and retry budget.
type RandomConfig struct {
	// RangeLow is the inclusive lower bound of the sampling range.
	RangeLow int `yaml:"rangeLow" json:"rangeLow"`

	// RangeHigh is the inclusive upper bound of the sampling range.
	RangeHigh int `yaml:"rangeHigh" json:"rangeHigh"`

	// MaxAttempts is the rejection-sampling retry budget.
	MaxAttempts int `yaml:"maxAttempts" json:"maxAttempts"`
}

// Default returns the configuration used when no file is supplied:
// listen on :7070, sample in the development-friendly 3000-9999 range,
// give up after 100 attempts.
func Default() Config {
	return Config{
		Listen: ":7070",
		Random: RandomConfig{
			RangeLow:    port.DefaultRangeLow,
			RangeHigh:   port.DefaultRangeHigh,
			MaxAttempts: port.DefaultMaxAttempts,
		},
	}
}

// Load reads a configuration file, fills unset fields from Default, and
// validates the result. An empty path returns Default unchanged.
//
// The format is chosen by extension: .yaml/.yml parse as YAML, .json/.jsonc
// parse as JSONC (comments allowed). Anything else is rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".json", ".jsonc":
		// jsonc.ToJSON strips comments and trailing commas, leaving
		// standard JSON for encoding/json.
		if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("config %s: unsupported extension (want .yaml, .yml, .json or .jsonc)", path)
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyDefaults fills zero-valued fields so a partial config file only
// overrides what it mentions.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Listen == "" {
		cfg.Listen = def.Listen
	}
	if cfg.Random.RangeLow == 0 {
		cfg.Random.RangeLow = def.Random.RangeLow
	}
	if cfg.Random.RangeHigh == 0 {
		cfg.Random.RangeHigh = def.Random.RangeHigh
	}
	if cfg.Random.MaxAttempts == 0 {
		cfg.Random.MaxAttempts = def.Random.MaxAttempts
	}
}

// Validate checks the configured range and budget. Violations are
// ValidationErrors, the same taxonomy the request path uses.
func (c Config) Validate() error {
	r := c.Random
	if r.RangeLow < port.MinPort || r.RangeLow > port.MaxPort ||
		r.RangeHigh < port.MinPort || r.RangeHigh > port.MaxPort {
		return &model.ValidationError{
			Field:  "range",
			Reason: fmt.Sprintf("bounds %d-%d must lie within %d-%d", r.RangeLow, r.RangeHigh, port.MinPort, port.MaxPort),
		}
	}
	if r.RangeLow > r.RangeHigh {
		return &model.ValidationError{
			Field:  "range",
			Reason: fmt.Sprintf("lower bound %d exceeds upper bound %d", r.RangeLow, r.RangeHigh),
		}
	}
	if r.MaxAttempts < 1 {
		return &model.ValidationError{
			Field:  "attempts",
			Reason: fmt.Sprintf("attempt budget %d must be at least 1", r.MaxAttempts),
		}
	}
	return nil
}
