package l2signal

import (
	"fmt"

	"github.com/banshee-data/pulse.report/internal/config"
)

// Config holds the conditioning chain parameters.
type Config struct {
	MedianWindow        int     // impulse-rejection median (default: 3)
	MovingAverageWindow int     // short smoothing window (default: 3)
	EMAAlpha            float64 // final smoothing factor (default: 0.65)

	BoostWindow       int     // raw samples inspected for range (default: 10)
	BoostLowWatermark float64 // range below which gain is applied (default: 2.0)
	BoostMaxGain      float64 // gain ceiling for near-flat signals (default: 4)

	BaselineAlpha float64 // slow baseline tracker per reference frame (default: 0.02)
	EnvelopeDecay float64 // envelope decay per reference frame (default: 0.995)
	EnvelopeFloor float64 // minimum envelope, in intensity units (default: 0.5)

	// ReferenceFPS fixes the frame interval at which BaselineAlpha,
	// EnvelopeDecay and the derivative scale are expressed. Other frame
	// rates are rescaled by the measured timestamp delta (default: 30).
	ReferenceFPS float64
}

// referenceStepMs is the frame interval the per-frame constants refer to.
func (c Config) referenceStepMs() float64 { return 1000 / c.ReferenceFPS }

// DefaultConfig returns a Config loaded from the canonical tuning defaults
// file. Panics if the file cannot be found.
func DefaultConfig() Config {
	return ConfigFromTuning(config.MustLoadDefaultConfig())
}

// ConfigFromTuning builds a Config from a loaded TuningConfig.
func ConfigFromTuning(cfg *config.TuningConfig) Config {
	return Config{
		MedianWindow:        cfg.GetMedianWindow(),
		MovingAverageWindow: cfg.GetMovingAverageWindow(),
		EMAAlpha:            cfg.GetEMAAlpha(),
		BoostWindow:         cfg.GetBoostWindow(),
		BoostLowWatermark:   cfg.GetBoostLowWatermark(),
		BoostMaxGain:        cfg.GetBoostMaxGain(),
		BaselineAlpha:       cfg.GetBaselineAlpha(),
		EnvelopeDecay:       cfg.GetEnvelopeDecay(),
		EnvelopeFloor:       cfg.GetEnvelopeFloor(),
		ReferenceFPS:        cfg.GetReferenceFPS(),
	}
}

// Validate checks that every window is usable and every factor in range.
func (c Config) Validate() error {
	if c.MedianWindow < 1 || c.MovingAverageWindow < 1 || c.BoostWindow < 1 {
		return fmt.Errorf("windows must be >= 1, got median=%d ma=%d boost=%d",
			c.MedianWindow, c.MovingAverageWindow, c.BoostWindow)
	}
	if c.EMAAlpha <= 0 || c.EMAAlpha > 1 {
		return fmt.Errorf("EMAAlpha must be in (0, 1], got %f", c.EMAAlpha)
	}
	if c.BaselineAlpha <= 0 || c.BaselineAlpha > 1 {
		return fmt.Errorf("BaselineAlpha must be in (0, 1], got %f", c.BaselineAlpha)
	}
	if c.EnvelopeDecay <= 0 || c.EnvelopeDecay > 1 {
		return fmt.Errorf("EnvelopeDecay must be in (0, 1], got %f", c.EnvelopeDecay)
	}
	if c.BoostMaxGain < 1 {
		return fmt.Errorf("BoostMaxGain must be >= 1, got %f", c.BoostMaxGain)
	}
	if c.ReferenceFPS <= 0 {
		return fmt.Errorf("ReferenceFPS must be positive, got %f", c.ReferenceFPS)
	}
	if c.EnvelopeFloor <= 0 {
		return fmt.Errorf("EnvelopeFloor must be positive, got %f", c.EnvelopeFloor)
	}
	return nil
}
