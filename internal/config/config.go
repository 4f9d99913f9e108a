package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"lbphist/internal/lbp"
	"lbphist/internal/logger"
)

// Config is the on-disk form of the LBP histogram settings. Fields left out
// of the JSON file keep their defaults, so partial files are safe.
type Config struct {
	MaxTransitions *int     `json:"max_transitions,omitempty"`
	IgnoreRest     *bool    `json:"ignore_rest,omitempty"`
	Min            *float64 `json:"min,omitempty"` // accepted but unused
	BinKeying      *string  `json:"bin_keying,omitempty"`

	// Runtime settings
	Workers  *int    `json:"workers,omitempty"`
	LogLevel *string `json:"log_level,omitempty"`
}

const (
	defaultMaxTransitions = 2
	defaultIgnoreRest     = true
	defaultMin            = 0.0
	defaultBinKeying      = "pattern"
	defaultWorkers        = 4
	defaultLogLevel       = "info"

	maxFileSize = 1 * 1024 * 1024 // 1MB
)

func ptrInt(v int) *int             { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }

// DefaultConfig returns a Config with every field populated.
func DefaultConfig() *Config {
	return &Config{
		MaxTransitions: ptrInt(defaultMaxTransitions),
		IgnoreRest:     ptrBool(defaultIgnoreRest),
		Min:            ptrFloat64(defaultMin),
		BinKeying:      ptrString(defaultBinKeying),
		Workers:        ptrInt(defaultWorkers),
		LogLevel:       ptrString(defaultLogLevel),
	}
}

// LoadConfig reads a JSON config file. The path must have a .json extension
// and the file must be under 1MB.
func LoadConfig(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cleanPath, err)
	}
	return cfg, nil
}

// Validate rejects values that cannot build a transform.
func (c *Config) Validate() error {
	if _, err := c.ToParams(); err != nil {
		return err
	}
	if c.GetWorkers() < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.GetWorkers())
	}
	if _, err := logger.ParseLevel(c.GetLogLevel()); err != nil {
		return err
	}
	return nil
}

func (c *Config) GetMaxTransitions() int {
	if c.MaxTransitions == nil {
		return defaultMaxTransitions
	}
	return *c.MaxTransitions
}

func (c *Config) GetIgnoreRest() bool {
	if c.IgnoreRest == nil {
		return defaultIgnoreRest
	}
	return *c.IgnoreRest
}

func (c *Config) GetMin() float64 {
	if c.Min == nil {
		return defaultMin
	}
	return *c.Min
}

func (c *Config) GetBinKeying() string {
	if c.BinKeying == nil {
		return defaultBinKeying
	}
	return *c.BinKeying
}

func (c *Config) GetWorkers() int {
	if c.Workers == nil {
		return defaultWorkers
	}
	return *c.Workers
}

func (c *Config) GetLogLevel() string {
	if c.LogLevel == nil {
		return defaultLogLevel
	}
	return *c.LogLevel
}

// ToParams converts the config into validated transform parameters.
func (c *Config) ToParams() (lbp.Params, error) {
	keying, err := lbp.ParseBinKeying(c.GetBinKeying())
	if err != nil {
		return lbp.Params{}, err
	}

	params := lbp.Params{
		MaxTransitions: c.GetMaxTransitions(),
		IgnoreRest:     c.GetIgnoreRest(),
		Min:            c.GetMin(),
		Keying:         keying,
	}
	if err := params.Validate(); err != nil {
		return lbp.Params{}, err
	}
	return params, nil
}
