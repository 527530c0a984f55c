package l5rhythm

import (
	"fmt"

	"github.com/banshee-data/pulse.report/internal/config"
)

// Config holds the BPM estimator parameters.
type Config struct {
	MinBPM            float64 // lowest accepted rate (default: 30)
	MaxBPM            float64 // highest accepted rate (default: 200)
	HistorySize       int     // instantaneous BPM values kept (default: 12)
	EMAAlpha          float64 // smoothing over the history median (default: 0.3)
	FinalTrimFraction float64 // trimmed per tail for the final BPM (default: 0.2)
	RRHistorySize     int     // RR intervals kept (default: 20)
	PeakTimeoutMs     int64   // BPM drops to 0 after this long without a peak (default: 3000)

	// MaxDeviation rejects an interval whose relative distance from the
	// median RR exceeds it, once the history is seeded (default: 0.4).
	MaxDeviation float64
}

// DefaultConfig returns a Config loaded from the canonical tuning defaults
// file. Panics if the file cannot be found.
func DefaultConfig() Config {
	return ConfigFromTuning(config.MustLoadDefaultConfig())
}

// ConfigFromTuning builds a Config from a loaded TuningConfig.
func ConfigFromTuning(cfg *config.TuningConfig) Config {
	return Config{
		MinBPM:            cfg.GetMinBPM(),
		MaxBPM:            cfg.GetMaxBPM(),
		HistorySize:       cfg.GetBPMHistorySize(),
		EMAAlpha:          cfg.GetBPMEMAAlpha(),
		FinalTrimFraction: cfg.GetFinalTrimFraction(),
		RRHistorySize:     cfg.GetRRHistorySize(),
		PeakTimeoutMs:     cfg.GetPeakTimeoutMs(),
		MaxDeviation:      cfg.GetBPMMaxDeviation(),
	}
}

// Validate checks the BPM band and history sizes.
func (c Config) Validate() error {
	if c.MinBPM <= 0 || c.MinBPM >= c.MaxBPM {
		return fmt.Errorf("BPM band must satisfy 0 < min < max, got [%g, %g]", c.MinBPM, c.MaxBPM)
	}
	if c.HistorySize < 1 || c.RRHistorySize < 1 {
		return fmt.Errorf("history sizes must be >= 1, got bpm=%d rr=%d", c.HistorySize, c.RRHistorySize)
	}
	if c.EMAAlpha <= 0 || c.EMAAlpha > 1 {
		return fmt.Errorf("EMAAlpha must be in (0, 1], got %f", c.EMAAlpha)
	}
	if c.FinalTrimFraction < 0 || c.FinalTrimFraction >= 0.5 {
		return fmt.Errorf("FinalTrimFraction must be in [0, 0.5), got %f", c.FinalTrimFraction)
	}
	if c.MaxDeviation <= 0 {
		return fmt.Errorf("MaxDeviation must be positive, got %f", c.MaxDeviation)
	}
	return nil
}

// QualityConfig holds the signal quality scorer parameters.
type QualityConfig struct {
	MinSamples          int     // filtered samples required before scoring (default: 30)
	AmplitudeFullScale  float64 // peak-to-peak mapped to the full amplitude term (default: 8)
	RRWindow            int     // RR intervals inspected for regularity (default: 5)
	RRMaxAbsDeviationMs float64 // mean abs deviation that zeroes the RR term (default: 100)
	MinBPM, MaxBPM      float64 // band used to re-validate RR input
}

// DefaultQualityConfig returns a QualityConfig loaded from the canonical
// tuning defaults file. Panics if the file cannot be found.
func DefaultQualityConfig() QualityConfig {
	return QualityConfigFromTuning(config.MustLoadDefaultConfig())
}

// QualityConfigFromTuning builds a QualityConfig from a loaded TuningConfig.
func QualityConfigFromTuning(cfg *config.TuningConfig) QualityConfig {
	return QualityConfig{
		MinSamples:          cfg.GetQualityMinSamples(),
		AmplitudeFullScale:  cfg.GetAmplitudeFullScale(),
		RRWindow:            cfg.GetRRRegularityWindow(),
		RRMaxAbsDeviationMs: cfg.GetRRMaxAbsDeviationMs(),
		MinBPM:              cfg.GetMinBPM(),
		MaxBPM:              cfg.GetMaxBPM(),
	}
}
