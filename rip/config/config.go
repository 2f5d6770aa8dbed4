// Package config carries the free parameters of the respiratory analysis
// pipeline with their research-calibrated defaults.
package config

import "fmt"

// CycleConfig configures peak/trough detection (cycle segmentation)
type CycleConfig struct {
	// WinLen is the moving z-score normalization window in seconds
	WinLen float64 `json:"win_len"`

	// NoiseFloor is added to the window standard deviation to keep the
	// normalization defined on near-constant stretches
	NoiseFloor float64 `json:"noise_floor"`

	// Delta is the hysteresis prominence threshold on the normalized signal
	Delta float64 `json:"delta"`

	// Lookahead is how many samples ahead an extremum candidate must stay
	// unchallenged before it is confirmed
	Lookahead int `json:"lookahead"`
}

// DefaultCycleConfig returns the default cycle detection parameters
func DefaultCycleConfig() CycleConfig {
	return CycleConfig{
		WinLen:     10.0,
		NoiseFloor: 0.0,
		Delta:      1.0,
		Lookahead:  1,
	}
}

// Validate checks the configuration for contract violations
func (c CycleConfig) Validate() error {
	if c.WinLen <= 0 {
		return fmt.Errorf("normalization window must be positive, got %g", c.WinLen)
	}
	if c.Delta < 0 {
		return fmt.Errorf("delta must be non-negative, got %g", c.Delta)
	}
	if c.Lookahead < 1 {
		return fmt.Errorf("lookahead must be at least 1, got %d", c.Lookahead)
	}
	if c.NoiseFloor < 0 {
		return fmt.Errorf("noise floor must be non-negative, got %g", c.NoiseFloor)
	}
	return nil
}

// HoldConfig configures breath-hold detection
type HoldConfig struct {
	// MinHoldDur is the minimum hold duration in seconds
	MinHoldDur float64 `json:"min_hold_dur"`

	// MinHoldGap is the minimum gap between holds in seconds; holds closer
	// than this are coalesced
	MinHoldGap float64 `json:"min_hold_gap"`

	// PeakProminence is the minimum amplitude-histogram peak prominence for
	// a plateau to count as a hold candidate
	PeakProminence float64 `json:"peak_prominence"`

	// Bins is the number of histogram bins per interval
	Bins int `json:"bins"`
}

// DefaultHoldConfig returns the default hold detection parameters
func DefaultHoldConfig() HoldConfig {
	return HoldConfig{
		MinHoldDur:     0.25,
		MinHoldGap:     0.15,
		PeakProminence: 0.05,
		Bins:           100,
	}
}

// Validate checks the configuration for contract violations
func (c HoldConfig) Validate() error {
	if c.MinHoldDur < 0 {
		return fmt.Errorf("minimum hold duration must be non-negative, got %g", c.MinHoldDur)
	}
	if c.MinHoldGap < 0 {
		return fmt.Errorf("minimum hold gap must be non-negative, got %g", c.MinHoldGap)
	}
	if c.Bins < 1 {
		return fmt.Errorf("bins must be at least 1, got %d", c.Bins)
	}
	return nil
}

// RangeConfig configures respiratory range estimation
type RangeConfig struct {
	// Bot is the percentile applied to trough amplitudes
	Bot float64 `json:"bot"`

	// Top is the percentile applied to peak amplitudes
	Top float64 `json:"top"`
}

// DefaultRangeConfig returns the default range percentiles
func DefaultRangeConfig() RangeConfig {
	return RangeConfig{Bot: 5, Top: 95}
}

// Validate checks the configuration for contract violations
func (c RangeConfig) Validate() error {
	if c.Bot < 0 || c.Bot > 100 || c.Top < 0 || c.Top > 100 {
		return fmt.Errorf("percentiles must be between 0 and 100, got %g and %g", c.Bot, c.Top)
	}
	return nil
}

// RELConfig configures resting expiratory level estimation
type RELConfig struct {
	// Lookbehind is the trailing window in seconds over which prior troughs
	// contribute to the level estimate. There is no sensible default; it
	// must be supplied by the caller.
	Lookbehind float64 `json:"lookbehind"`

	// MinLen is the minimum number of prior troughs required inside the
	// lookbehind window for a defined (non-NaN) value
	MinLen int `json:"min_len"`
}

// DefaultRELConfig returns the default REL parameters with the given
// lookbehind window
func DefaultRELConfig(lookbehind float64) RELConfig {
	return RELConfig{Lookbehind: lookbehind, MinLen: 1}
}

// Validate checks the configuration for contract violations
func (c RELConfig) Validate() error {
	if c.Lookbehind <= 0 {
		return fmt.Errorf("lookbehind must be positive, got %g", c.Lookbehind)
	}
	if c.MinLen < 1 {
		return fmt.Errorf("min length must be at least 1, got %d", c.MinLen)
	}
	return nil
}
