package l3presence

import (
	"fmt"

	"github.com/banshee-data/pulse.report/internal/config"
)

// Gate weights. They sum to 1; without perfusion history the best score is
// 0.80, which stays below the default qualifying threshold.
const (
	WeightRange     = 0.20
	WeightRatio     = 0.25
	WeightTexture   = 0.15
	WeightStability = 0.20
	WeightPerfusion = 0.20
)

// Config holds the presence gates and hysteresis lengths.
type Config struct {
	MinConsecutiveOn  int // qualifying frames before presence turns on (default: 6)
	MaxConsecutiveOff int // disqualifying frames before it turns off (default: 4)

	RedMin, RedMax         float64 // plausible red intensity band (default: 40..250)
	RGRatioMin, RGRatioMax float64 // red/green ratio band (default: 1.2..4.5)
	TextureMin             float64 // minimum local texture (default: 0.05)

	StabilityWindow            int     // frames averaged (default: 10)
	StabilityMin, StabilityMax float64 // accepted mean stability (default: 0.3..0.95)

	PerfusionWindowMs          int64   // red history measured, at least one RR at the slowest rate (default: 2000)
	PerfusionMinSpanMs         int64   // history span before perfusion is judged (default: 600)
	PerfusionMin, PerfusionMax float64 // (max-min)/mean band (default: 0.002..0.25)

	// A trailing FlatWindowMs whose range is at most FlatFraction of the
	// perfusion window's range is a held signal, not a pulse.
	FlatWindowMs int64   // (default: 100)
	FlatFraction float64 // (default: 0.002)

	ConfidenceThreshold float64 // cumulative weight for a qualifying frame (default: 0.85)
}

// DefaultConfig returns a Config loaded from the canonical tuning defaults
// file. Panics if the file cannot be found.
func DefaultConfig() Config {
	return ConfigFromTuning(config.MustLoadDefaultConfig())
}

// ConfigFromTuning builds a Config from a loaded TuningConfig.
func ConfigFromTuning(cfg *config.TuningConfig) Config {
	return Config{
		MinConsecutiveOn:    cfg.GetMinConsecutiveOn(),
		MaxConsecutiveOff:   cfg.GetMaxConsecutiveOff(),
		RedMin:              cfg.GetRedMin(),
		RedMax:              cfg.GetRedMax(),
		RGRatioMin:          cfg.GetRGRatioMin(),
		RGRatioMax:          cfg.GetRGRatioMax(),
		TextureMin:          cfg.GetTextureMin(),
		StabilityWindow:     cfg.GetStabilityWindow(),
		StabilityMin:        cfg.GetStabilityMin(),
		StabilityMax:        cfg.GetStabilityMax(),
		PerfusionWindowMs:   cfg.GetPerfusionWindowMs(),
		PerfusionMinSpanMs:  cfg.GetPerfusionMinSpanMs(),
		PerfusionMin:        cfg.GetPerfusionMin(),
		PerfusionMax:        cfg.GetPerfusionMax(),
		FlatWindowMs:        cfg.GetFlatWindowMs(),
		FlatFraction:        cfg.GetFlatFraction(),
		ConfidenceThreshold: cfg.GetPresenceConfidenceThreshold(),
	}
}

// Validate checks hysteresis lengths and band ordering.
func (c Config) Validate() error {
	if c.MinConsecutiveOn < 1 || c.MaxConsecutiveOff < 1 {
		return fmt.Errorf("hysteresis lengths must be >= 1, got on=%d off=%d",
			c.MinConsecutiveOn, c.MaxConsecutiveOff)
	}
	if c.RedMin >= c.RedMax || c.RGRatioMin >= c.RGRatioMax ||
		c.StabilityMin >= c.StabilityMax || c.PerfusionMin >= c.PerfusionMax {
		return fmt.Errorf("presence bands must have min < max")
	}
	if c.StabilityWindow < 1 {
		return fmt.Errorf("StabilityWindow must be >= 1, got %d", c.StabilityWindow)
	}
	if c.PerfusionWindowMs <= 0 || c.PerfusionMinSpanMs > c.PerfusionWindowMs {
		return fmt.Errorf("PerfusionWindowMs must be positive and cover PerfusionMinSpanMs, got %d and %d",
			c.PerfusionWindowMs, c.PerfusionMinSpanMs)
	}
	if c.FlatWindowMs <= 0 || c.FlatFraction < 0 || c.FlatFraction >= 1 {
		return fmt.Errorf("flat gate needs FlatWindowMs > 0 and FlatFraction in [0, 1), got %d and %f",
			c.FlatWindowMs, c.FlatFraction)
	}
	if c.ConfidenceThreshold <= 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("ConfidenceThreshold must be in (0, 1], got %f", c.ConfidenceThreshold)
	}
	return nil
}

// maxFrameRate bounds the frames that fit in the perfusion window.
const maxFrameRate = 120

// minFlatFrames is the fewest frames the flat gate compares.
const minFlatFrames = 3

// historySize is the number of frames the detector must retain to cover
// PerfusionWindowMs at up to maxFrameRate.
func (c Config) historySize() int {
	return max(c.StabilityWindow, int(c.PerfusionWindowMs*maxFrameRate/1000)+1)
}
