// Package config defines process configuration and how it is loaded.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Loading layers defaults, an optional YAML file and SIMRANK_ env vars.
// - Errors are wrapped with this package's sentinels.
package config

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/okian/simrank/internal/domain/model"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// WorkerCount sets the number of comparison workers. 1 or less runs
	// comparisons on the calling goroutine.
	WorkerCount int `koanf:"worker_count"`

	// DuplicatePolicy decides how repeated user IDs are treated: reject or last.
	DuplicatePolicy string `koanf:"duplicate_policy"`

	// MaxBodyBytes caps HTTP request bodies carrying rating tables.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// DataDir is the root used by the verify command.
	DataDir string `koanf:"data_dir"`

	// MaxRankingLimit caps ?limit on ranking endpoints.
	MaxRankingLimit int `koanf:"max_ranking_limit"`

	// MaxDatasets caps how many datasets the server keeps. Zero is unbounded.
	MaxDatasets int `koanf:"max_datasets"`
}

// New creates a Config with defaults. Context is accepted first to follow
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		WorkerCount:     runtime.NumCPU(),
		DuplicatePolicy: string(model.PolicyReject),
		MaxBodyBytes:    64 << 20,
		DataDir:         "data",
		MaxRankingLimit: 1000,
		MaxDatasets:     64,
	}
}

// Policy returns the parsed duplicate policy.
func (c *Config) Policy() (model.DuplicatePolicy, error) {
	p, err := model.ParsePolicy(c.DuplicatePolicy)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return p, nil
}

// Validate checks values that would make the process misbehave.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: max_body_bytes must be positive, got %d", ErrInvalidConfig, c.MaxBodyBytes)
	}
	if c.MaxRankingLimit <= 0 {
		return fmt.Errorf("%w: max_ranking_limit must be positive, got %d", ErrInvalidConfig, c.MaxRankingLimit)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}
