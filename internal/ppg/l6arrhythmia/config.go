package l6arrhythmia

import (
	"fmt"

	"github.com/banshee-data/pulse.report/internal/config"
)

// Config holds the learning, scoring and rate-limiting parameters.
type Config struct {
	// Learning
	LearningDurationMs   int64   // time-based end of learning (default: 6000)
	LearningSamples      int     // sample-based end of learning (default: 8)
	MinBaselineSamples   int     // samples required for a time-based end (default: 5)
	BaselineRRMinMs      float64 // learning band (default: 400)
	BaselineRRMaxMs      float64 // (default: 1500)
	BaselineTrimFraction float64 // trimmed per tail (default: 0.2)

	// Monitoring gates
	WindowSize           int     // RR intervals per evaluation (default: 8)
	MinSignalQuality     float64 // (default: 40)
	MaxBaselineDeviation float64 // |mean-MeanRR|/MeanRR limit (default: 0.2)

	// Criteria
	RMSSDThresholdMs     float64 // (default: 80)
	RRVariationThreshold float64 // (default: 0.12)
	CVThreshold          float64 // (default: 0.10)
	EntropyThresholdBits float64 // (default: 0.5)
	EntropyBinMs         float64 // (default: 50)

	// Confirmation
	ScoreThreshold      float64 // (default: 0.95)
	CooldownMs          int64   // (default: 10000)
	MaxPerMinute        int     // (default: 3)
	ConsistencyWindow   int     // recent evaluations inspected (default: 3)
	ConsistencyRequired int     // high-confidence evaluations required (default: 2)

	// Prevention
	PreventionIncrement float64 // added per confirmation (default: 0.3)
	PreventionDecay     float64 // multiplier after a normal run (default: 0.5)
	NormalBeatsForDecay int     // (default: 10)
	NormalBeatTolerance float64 // fraction of MeanRR (default: 0.1)

	// RR re-validation band
	MinBPM, MaxBPM float64
}

// MaxPrevention caps the prevention score.
const MaxPrevention = 0.9

// DefaultConfig returns a Config loaded from the canonical tuning defaults
// file. Panics if the file cannot be found.
func DefaultConfig() Config {
	return ConfigFromTuning(config.MustLoadDefaultConfig())
}

// ConfigFromTuning builds a Config from a loaded TuningConfig.
func ConfigFromTuning(cfg *config.TuningConfig) Config {
	return Config{
		LearningDurationMs:   cfg.GetArrhythmiaLearningDurationMs(),
		LearningSamples:      cfg.GetArrhythmiaLearningSamples(),
		MinBaselineSamples:   cfg.GetArrhythmiaMinBaselineSamples(),
		BaselineRRMinMs:      cfg.GetBaselineRRMinMs(),
		BaselineRRMaxMs:      cfg.GetBaselineRRMaxMs(),
		BaselineTrimFraction: cfg.GetBaselineTrimFraction(),
		WindowSize:           cfg.GetArrhythmiaWindowSize(),
		MinSignalQuality:     cfg.GetArrhythmiaMinSignalQuality(),
		MaxBaselineDeviation: cfg.GetMaxBaselineDeviation(),
		RMSSDThresholdMs:     cfg.GetRMSSDThresholdMs(),
		RRVariationThreshold: cfg.GetRRVariationThreshold(),
		CVThreshold:          cfg.GetCVThreshold(),
		EntropyThresholdBits: cfg.GetEntropyThresholdBits(),
		EntropyBinMs:         cfg.GetEntropyBinMs(),
		ScoreThreshold:       cfg.GetArrhythmiaScoreThreshold(),
		CooldownMs:           cfg.GetArrhythmiaCooldownMs(),
		MaxPerMinute:         cfg.GetMaxArrhythmiasPerMinute(),
		ConsistencyWindow:    cfg.GetConsistencyWindow(),
		ConsistencyRequired:  cfg.GetConsistencyRequired(),
		PreventionIncrement:  cfg.GetPreventionIncrement(),
		PreventionDecay:      cfg.GetPreventionDecay(),
		NormalBeatsForDecay:  cfg.GetNormalBeatsForDecay(),
		NormalBeatTolerance:  cfg.GetNormalBeatTolerance(),
		MinBPM:               cfg.GetMinBPM(),
		MaxBPM:               cfg.GetMaxBPM(),
	}
}

// Validate checks window sizes and criterion thresholds.
func (c Config) Validate() error {
	if c.LearningSamples < 1 || c.MinBaselineSamples < 1 || c.WindowSize < 2 {
		return fmt.Errorf("learning and window sizes too small: learning=%d min=%d window=%d",
			c.LearningSamples, c.MinBaselineSamples, c.WindowSize)
	}
	if c.BaselineRRMinMs >= c.BaselineRRMaxMs {
		return fmt.Errorf("baseline band must have min < max, got [%g, %g]", c.BaselineRRMinMs, c.BaselineRRMaxMs)
	}
	for name, v := range map[string]float64{
		"RMSSDThresholdMs":     c.RMSSDThresholdMs,
		"RRVariationThreshold": c.RRVariationThreshold,
		"CVThreshold":          c.CVThreshold,
		"EntropyThresholdBits": c.EntropyThresholdBits,
		"EntropyBinMs":         c.EntropyBinMs,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %g", name, v)
		}
	}
	if c.ConsistencyRequired < 1 || c.ConsistencyRequired > c.ConsistencyWindow {
		return fmt.Errorf("ConsistencyRequired must be in [1, %d], got %d", c.ConsistencyWindow, c.ConsistencyRequired)
	}
	if c.MaxPerMinute < 1 {
		return fmt.Errorf("MaxPerMinute must be >= 1, got %d", c.MaxPerMinute)
	}
	return nil
}
