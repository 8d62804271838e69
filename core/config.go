package core

import (
	"encoding/json"
	"fmt"
)

// Config holds the controller parameters. Periods and delays are bridge timer
// ticks; FeedbackTimeout is in Clock units.
type Config struct {
	// DelayCompensation is subtracted from the half period to cover
	// gate-drive and feedback path latency.
	DelayCompensation uint16 `json:"delay_compensation"`

	// StartupPeriod is driven before any feedback lock.
	StartupPeriod uint16 `json:"startup_period"`

	// AllowedPeriodDeviation is the largest difference between the measured
	// and assumed period that still counts as locked.
	AllowedPeriodDeviation uint16 `json:"allowed_period_deviation"`

	PhaseLimitLow  float32 `json:"phase_limit_low"`
	PhaseLimitHigh float32 `json:"phase_limit_high"`

	// LegSwapCycles is the number of feedback cycles between leg swaps.
	// Zero disables swapping; otherwise it must be even.
	LegSwapCycles uint16 `json:"leg_swap_cycles"`

	// FeedbackTimeout stops a closed-loop run that has seen no feedback edge
	// for this long. Zero disables the check.
	FeedbackTimeout uint32 `json:"feedback_timeout"`

	// MinPeriod is the shortest feedback period accepted from the detector.
	MinPeriod uint16 `json:"min_period"`
}

// Defaults used when a field is left unset.
const (
	DefaultStartupPeriod          = 666
	DefaultAllowedPeriodDeviation = 100
	DefaultMinPeriod              = 4
)

// DefaultConfig returns a configuration with every field set.
func DefaultConfig() Config {
	return Config{
		DelayCompensation:      0,
		StartupPeriod:          DefaultStartupPeriod,
		AllowedPeriodDeviation: DefaultAllowedPeriodDeviation,
		PhaseLimitLow:          0,
		PhaseLimitHigh:         1,
		MinPeriod:              DefaultMinPeriod,
	}
}

// Validate checks the configuration for values the controller cannot run.
func (c *Config) Validate() error {
	if c.StartupPeriod < 2 {
		return fmt.Errorf("%w: startup_period %d below 2 ticks", ErrInvalidConfig, c.StartupPeriod)
	}
	if c.MinPeriod < 2 {
		return fmt.Errorf("%w: min_period %d below 2 ticks", ErrInvalidConfig, c.MinPeriod)
	}
	if c.StartupPeriod < c.MinPeriod {
		return fmt.Errorf("%w: startup_period %d below min_period %d", ErrInvalidConfig, c.StartupPeriod, c.MinPeriod)
	}
	if !validFraction(c.PhaseLimitLow) || !validFraction(c.PhaseLimitHigh) {
		return fmt.Errorf("%w: phase limits must lie in [0, 1]", ErrInvalidConfig)
	}
	if c.PhaseLimitLow > c.PhaseLimitHigh {
		return fmt.Errorf("%w: phase_limit_low above phase_limit_high", ErrInvalidConfig)
	}
	if c.LegSwapCycles%2 != 0 {
		return fmt.Errorf("%w: leg_swap_cycles %d is odd", ErrInvalidConfig, c.LegSwapCycles)
	}
	return nil
}

// LoadConfig parses a JSON configuration and fills missing values with
// defaults. The result is validated.
func LoadConfig(jsonData []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults treats zero as "not set" for fields where zero cannot be
// meant literally.
func applyDefaults(cfg *Config) {
	if cfg.StartupPeriod == 0 {
		cfg.StartupPeriod = DefaultStartupPeriod
	}
	if cfg.AllowedPeriodDeviation == 0 {
		cfg.AllowedPeriodDeviation = DefaultAllowedPeriodDeviation
	}
	if cfg.MinPeriod == 0 {
		cfg.MinPeriod = DefaultMinPeriod
	}
	// Both limits at zero would pin the phase to zero.
	if cfg.PhaseLimitLow == 0 && cfg.PhaseLimitHigh == 0 {
		cfg.PhaseLimitHigh = 1
	}
}
