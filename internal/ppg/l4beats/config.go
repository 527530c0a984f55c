package l4beats

import (
	"fmt"

	"github.com/banshee-data/pulse.report/internal/config"
)

// Hard bounds for the adaptive thresholds.
const (
	SignalThresholdMin     = 0.15
	SignalThresholdMax     = 0.45
	DerivativeThresholdMin = -0.2
	DerivativeThresholdMax = -0.005
	MinConfidenceFloor     = 0.5
	MinConfidenceCeiling   = 0.85
)

// MaxFrameRate bounds the samples that can fall inside the confirmation
// window and so sizes its buffer.
const MaxFrameRate = 120

// Config holds the detector parameters. Thresholds apply to the
// envelope-normalised waveform, so they are unitless; the derivative
// threshold is per reference frame interval, matching l2signal.
type Config struct {
	MinPeakDistanceMs int64 // refractory period between confirmed peaks (default: 300)
	PeakLockTimeoutMs int64 // lock after each confirmation (default: 250)

	SignalThreshold     float64 // initial value floor (default: 0.3)
	DerivativeThreshold float64 // initial downslope threshold (default: -0.03)
	MinConfidence       float64 // initial vote floor (default: 0.6)
	AmplitudeMultiple   float64 // amplitude voter multiple of SignalThreshold (default: 1.6)

	ConfirmWindowMs int64   // trailing span for the local-max check (default: 150)
	LearningRate    float64 // adaptive threshold EMA rate (default: 0.1)

	PeakWindowMs int64 // retention for the peak list (default: 2900)
	MaxPeaks     int   // capacity of the peak list (default: 25)
}

// DefaultConfig returns a Config loaded from the canonical tuning defaults
// file. Panics if the file cannot be found.
func DefaultConfig() Config {
	return ConfigFromTuning(config.MustLoadDefaultConfig())
}

// ConfigFromTuning builds a Config from a loaded TuningConfig.
func ConfigFromTuning(cfg *config.TuningConfig) Config {
	return Config{
		MinPeakDistanceMs:   cfg.GetMinPeakDistanceMs(),
		PeakLockTimeoutMs:   cfg.GetPeakLockTimeoutMs(),
		SignalThreshold:     cfg.GetSignalThreshold(),
		DerivativeThreshold: cfg.GetDerivativeThreshold(),
		MinConfidence:       cfg.GetMinConfidence(),
		AmplitudeMultiple:   cfg.GetAmplitudeMultiple(),
		ConfirmWindowMs:     cfg.GetConfirmWindowMs(),
		LearningRate:        cfg.GetAdaptiveLearningRate(),
		PeakWindowMs:        cfg.GetPeakWindowMs(),
		MaxPeaks:            cfg.GetMaxPeaks(),
	}
}

// Validate checks the timing and window parameters.
func (c Config) Validate() error {
	if c.MinPeakDistanceMs <= 0 {
		return fmt.Errorf("MinPeakDistanceMs must be positive, got %d", c.MinPeakDistanceMs)
	}
	if c.PeakLockTimeoutMs < 0 {
		return fmt.Errorf("PeakLockTimeoutMs must be non-negative, got %d", c.PeakLockTimeoutMs)
	}
	if c.ConfirmWindowMs <= 0 {
		return fmt.Errorf("ConfirmWindowMs must be positive, got %d", c.ConfirmWindowMs)
	}
	if c.LearningRate < 0 || c.LearningRate > 1 {
		return fmt.Errorf("LearningRate must be in [0, 1], got %f", c.LearningRate)
	}
	if c.MaxPeaks < 1 || c.PeakWindowMs <= 0 {
		return fmt.Errorf("peak list needs MaxPeaks >= 1 and PeakWindowMs > 0, got %d and %d",
			c.MaxPeaks, c.PeakWindowMs)
	}
	return nil
}

// bufferSize is the sample capacity needed to hold ConfirmWindowMs at
// MaxFrameRate, plus the minimum three-sample window.
func (c Config) bufferSize() int {
	return int(c.ConfirmWindowMs*MaxFrameRate/1000) + minWindow
}
