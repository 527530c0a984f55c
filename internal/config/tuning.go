package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// The Get* fallbacks below mirror its contents; TestDefaultsFileMatchesGetters
// keeps the two in sync.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig represents the root configuration for every tunable constant of
// the PPG core. All fields are optional: a nil field falls back to the
// compiled default returned by its Get* method, so a host may override only
// the handful of values it cares about.
type TuningConfig struct {
	// Signal conditioning
	MedianWindow        *int     `json:"median_window,omitempty"`
	MovingAverageWindow *int     `json:"moving_average_window,omitempty"`
	EMAAlpha            *float64 `json:"ema_alpha,omitempty"`
	BoostWindow         *int     `json:"boost_window,omitempty"`
	BoostLowWatermark   *float64 `json:"boost_low_watermark,omitempty"`
	BoostMaxGain        *float64 `json:"boost_max_gain,omitempty"`
	BaselineAlpha       *float64 `json:"baseline_alpha,omitempty"`
	EnvelopeDecay       *float64 `json:"envelope_decay,omitempty"`
	EnvelopeFloor       *float64 `json:"envelope_floor,omitempty"`
	FilteredBufferSize  *int     `json:"filtered_buffer_size,omitempty"`
	ReferenceFPS        *float64 `json:"reference_fps,omitempty"`

	// Finger presence
	MinConsecutiveOn            *int     `json:"min_consecutive_on,omitempty"`
	MaxConsecutiveOff           *int     `json:"max_consecutive_off,omitempty"`
	RedMin                      *float64 `json:"red_min,omitempty"`
	RedMax                      *float64 `json:"red_max,omitempty"`
	RGRatioMin                  *float64 `json:"rg_ratio_min,omitempty"`
	RGRatioMax                  *float64 `json:"rg_ratio_max,omitempty"`
	TextureMin                  *float64 `json:"texture_min,omitempty"`
	StabilityWindow             *int     `json:"stability_window,omitempty"`
	StabilityMin                *float64 `json:"stability_min,omitempty"`
	StabilityMax                *float64 `json:"stability_max,omitempty"`
	PerfusionWindowMs           *int64   `json:"perfusion_window_ms,omitempty"`
	PerfusionMinSpanMs          *int64   `json:"perfusion_min_span_ms,omitempty"`
	FlatWindowMs                *int64   `json:"flat_window_ms,omitempty"`
	FlatFraction                *float64 `json:"flat_fraction,omitempty"`
	PerfusionMin                *float64 `json:"perfusion_min,omitempty"`
	PerfusionMax                *float64 `json:"perfusion_max,omitempty"`
	PresenceConfidenceThreshold *float64 `json:"presence_confidence_threshold,omitempty"`

	// Peak detection
	MinPeakDistanceMs    *int64   `json:"min_peak_distance_ms,omitempty"`
	PeakLockTimeoutMs    *int64   `json:"peak_lock_timeout_ms,omitempty"`
	SignalThreshold      *float64 `json:"signal_threshold,omitempty"`
	DerivativeThreshold  *float64 `json:"derivative_threshold,omitempty"`
	MinConfidence        *float64 `json:"min_confidence,omitempty"`
	AmplitudeMultiple    *float64 `json:"amplitude_multiple,omitempty"`
	ConfirmWindowMs      *int64   `json:"confirm_window_ms,omitempty"`
	AdaptiveLearningRate *float64 `json:"adaptive_learning_rate,omitempty"`
	PeakWindowMs         *int64   `json:"peak_window_ms,omitempty"`
	MaxPeaks             *int     `json:"max_peaks,omitempty"`

	// BPM estimation
	MinBPM            *float64 `json:"min_bpm,omitempty"`
	MaxBPM            *float64 `json:"max_bpm,omitempty"`
	BPMHistorySize    *int     `json:"bpm_history_size,omitempty"`
	BPMEMAAlpha       *float64 `json:"bpm_ema_alpha,omitempty"`
	BPMMaxDeviation   *float64 `json:"bpm_max_deviation,omitempty"`
	FinalTrimFraction *float64 `json:"final_trim_fraction,omitempty"`
	RRHistorySize     *int     `json:"rr_history_size,omitempty"`
	PeakTimeoutMs     *int64   `json:"peak_timeout_ms,omitempty"`

	// Signal quality
	QualityMinSamples   *int     `json:"quality_min_samples,omitempty"`
	AmplitudeFullScale  *float64 `json:"amplitude_full_scale,omitempty"`
	RRRegularityWindow  *int     `json:"rr_regularity_window,omitempty"`
	RRMaxAbsDeviationMs *float64 `json:"rr_max_abs_deviation_ms,omitempty"`

	// Arrhythmia detection
	ArrhythmiaLearningDurationMs *int64   `json:"arrhythmia_learning_duration_ms,omitempty"`
	ArrhythmiaLearningSamples    *int     `json:"arrhythmia_learning_samples,omitempty"`
	ArrhythmiaMinBaselineSamples *int     `json:"arrhythmia_min_baseline_samples,omitempty"`
	BaselineRRMinMs              *float64 `json:"baseline_rr_min_ms,omitempty"`
	BaselineRRMaxMs              *float64 `json:"baseline_rr_max_ms,omitempty"`
	BaselineTrimFraction         *float64 `json:"baseline_trim_fraction,omitempty"`
	ArrhythmiaWindowSize         *int     `json:"arrhythmia_window_size,omitempty"`
	ArrhythmiaMinSignalQuality   *float64 `json:"arrhythmia_min_signal_quality,omitempty"`
	MaxBaselineDeviation         *float64 `json:"max_baseline_deviation,omitempty"`
	RMSSDThresholdMs             *float64 `json:"rmssd_threshold_ms,omitempty"`
	RRVariationThreshold         *float64 `json:"rr_variation_threshold,omitempty"`
	CVThreshold                  *float64 `json:"cv_threshold,omitempty"`
	EntropyThresholdBits         *float64 `json:"entropy_threshold_bits,omitempty"`
	EntropyBinMs                 *float64 `json:"entropy_bin_ms,omitempty"`
	ArrhythmiaScoreThreshold     *float64 `json:"arrhythmia_score_threshold,omitempty"`
	ArrhythmiaCooldownMs         *int64   `json:"arrhythmia_cooldown_ms,omitempty"`
	MaxArrhythmiasPerMinute      *int     `json:"max_arrhythmias_per_minute,omitempty"`
	ConsistencyWindow            *int     `json:"consistency_window,omitempty"`
	ConsistencyRequired          *int     `json:"consistency_required,omitempty"`
	PreventionIncrement          *float64 `json:"prevention_increment,omitempty"`
	PreventionDecay              *float64 `json:"prevention_decay,omitempty"`
	NormalBeatsForDecay          *int     `json:"normal_beats_for_decay,omitempty"`
	NormalBeatTolerance          *float64 `json:"normal_beat_tolerance,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrInt64(v int64) *int64       { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Every Get* call on it yields the compiled default.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
// Fields omitted from the JSON file retain their default values, so
// partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // from internal/ppg/pipeline/
		"../../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid. Only set fields
// are checked individually; paired bounds are checked on their effective
// values so that overriding one side cannot silently invert a band.
func (c *TuningConfig) Validate() error {
	for name, v := range map[string]*float64{
		"ema_alpha":      c.EMAAlpha,
		"baseline_alpha": c.BaselineAlpha,
		"envelope_decay": c.EnvelopeDecay,
		"bpm_ema_alpha":  c.BPMEMAAlpha,
	} {
		if v != nil && (*v <= 0 || *v > 1) {
			return fmt.Errorf("%s must be in (0, 1], got %f", name, *v)
		}
	}

	for name, v := range map[string]*int{
		"median_window":               c.MedianWindow,
		"moving_average_window":       c.MovingAverageWindow,
		"boost_window":                c.BoostWindow,
		"filtered_buffer_size":        c.FilteredBufferSize,
		"min_consecutive_on":          c.MinConsecutiveOn,
		"max_consecutive_off":         c.MaxConsecutiveOff,
		"stability_window":            c.StabilityWindow,
		"max_peaks":                   c.MaxPeaks,
		"bpm_history_size":            c.BPMHistorySize,
		"rr_history_size":             c.RRHistorySize,
		"rr_regularity_window":        c.RRRegularityWindow,
		"arrhythmia_learning_samples": c.ArrhythmiaLearningSamples,
		"arrhythmia_window_size":      c.ArrhythmiaWindowSize,
		"max_arrhythmias_per_minute":  c.MaxArrhythmiasPerMinute,
		"consistency_window":          c.ConsistencyWindow,
		"consistency_required":        c.ConsistencyRequired,
		"normal_beats_for_decay":      c.NormalBeatsForDecay,
	} {
		if v != nil && *v < 1 {
			return fmt.Errorf("%s must be at least 1, got %d", name, *v)
		}
	}

	for name, v := range map[string]*int64{
		"min_peak_distance_ms":            c.MinPeakDistanceMs,
		"peak_lock_timeout_ms":            c.PeakLockTimeoutMs,
		"perfusion_min_span_ms":           c.PerfusionMinSpanMs,
		"peak_window_ms":                  c.PeakWindowMs,
		"peak_timeout_ms":                 c.PeakTimeoutMs,
		"arrhythmia_learning_duration_ms": c.ArrhythmiaLearningDurationMs,
		"arrhythmia_cooldown_ms":          c.ArrhythmiaCooldownMs,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%s must be non-negative, got %d", name, *v)
		}
	}

	if c.GetMinBPM() <= 0 {
		return fmt.Errorf("min_bpm must be positive, got %f", c.GetMinBPM())
	}
	if c.GetMinBPM() >= c.GetMaxBPM() {
		return fmt.Errorf("min_bpm (%f) must be below max_bpm (%f)", c.GetMinBPM(), c.GetMaxBPM())
	}
	if c.GetRedMin() >= c.GetRedMax() {
		return fmt.Errorf("red_min (%f) must be below red_max (%f)", c.GetRedMin(), c.GetRedMax())
	}
	if c.GetRGRatioMin() >= c.GetRGRatioMax() {
		return fmt.Errorf("rg_ratio_min (%f) must be below rg_ratio_max (%f)", c.GetRGRatioMin(), c.GetRGRatioMax())
	}
	if c.GetStabilityMin() >= c.GetStabilityMax() {
		return fmt.Errorf("stability_min (%f) must be below stability_max (%f)", c.GetStabilityMin(), c.GetStabilityMax())
	}
	if c.GetPerfusionMin() >= c.GetPerfusionMax() {
		return fmt.Errorf("perfusion_min (%f) must be below perfusion_max (%f)", c.GetPerfusionMin(), c.GetPerfusionMax())
	}
	if c.GetBaselineRRMinMs() >= c.GetBaselineRRMaxMs() {
		return fmt.Errorf("baseline_rr_min_ms (%f) must be below baseline_rr_max_ms (%f)", c.GetBaselineRRMinMs(), c.GetBaselineRRMaxMs())
	}
	if c.GetPerfusionMinSpanMs() > c.GetPerfusionWindowMs() {
		return fmt.Errorf("perfusion_min_span_ms (%d) exceeds perfusion_window_ms (%d)", c.GetPerfusionMinSpanMs(), c.GetPerfusionWindowMs())
	}
	if c.GetDerivativeThreshold() >= 0 {
		return fmt.Errorf("derivative_threshold must be negative, got %f", c.GetDerivativeThreshold())
	}
	if c.GetConsistencyRequired() > c.GetConsistencyWindow() {
		return fmt.Errorf("consistency_required (%d) exceeds consistency_window (%d)", c.GetConsistencyRequired(), c.GetConsistencyWindow())
	}

	for name, v := range map[string]float64{
		"final_trim_fraction":    c.GetFinalTrimFraction(),
		"baseline_trim_fraction": c.GetBaselineTrimFraction(),
	} {
		if v < 0 || v >= 0.5 {
			return fmt.Errorf("%s must be in [0, 0.5), got %f", name, v)
		}
	}

	for name, v := range map[string]float64{
		"reference_fps":     c.GetReferenceFPS(),
		"bpm_max_deviation": c.GetBPMMaxDeviation(),
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %f", name, v)
		}
	}
	for name, v := range map[string]int64{
		"perfusion_window_ms": c.GetPerfusionWindowMs(),
		"flat_window_ms":      c.GetFlatWindowMs(),
		"confirm_window_ms":   c.GetConfirmWindowMs(),
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, v)
		}
	}
	if v := c.GetFlatFraction(); v < 0 || v >= 1 {
		return fmt.Errorf("flat_fraction must be in [0, 1), got %f", v)
	}

	if v := c.GetPresenceConfidenceThreshold(); v <= 0 || v > 1 {
		return fmt.Errorf("presence_confidence_threshold must be in (0, 1], got %f", v)
	}
	if v := c.GetArrhythmiaScoreThreshold(); v <= 0 || v > 1 {
		return fmt.Errorf("arrhythmia_score_threshold must be in (0, 1], got %f", v)
	}

	return nil
}

// GetMedianWindow returns the median_window value or the default.
func (c *TuningConfig) GetMedianWindow() int {
	if c.MedianWindow == nil {
		return 3
	}
	return *c.MedianWindow
}

// GetMovingAverageWindow returns the moving_average_window value or the default.
func (c *TuningConfig) GetMovingAverageWindow() int {
	if c.MovingAverageWindow == nil {
		return 3
	}
	return *c.MovingAverageWindow
}

// GetEMAAlpha returns the ema_alpha value or the default.
func (c *TuningConfig) GetEMAAlpha() float64 {
	if c.EMAAlpha == nil {
		return 0.65
	}
	return *c.EMAAlpha
}

// GetBoostWindow returns the boost_window value or the default.
func (c *TuningConfig) GetBoostWindow() int {
	if c.BoostWindow == nil {
		return 10
	}
	return *c.BoostWindow
}

// GetBoostLowWatermark returns the boost_low_watermark value or the default.
func (c *TuningConfig) GetBoostLowWatermark() float64 {
	if c.BoostLowWatermark == nil {
		return 2.0
	}
	return *c.BoostLowWatermark
}

// GetBoostMaxGain returns the boost_max_gain value or the default.
func (c *TuningConfig) GetBoostMaxGain() float64 {
	if c.BoostMaxGain == nil {
		return 4.0
	}
	return *c.BoostMaxGain
}

// GetBaselineAlpha returns the baseline_alpha value or the default.
func (c *TuningConfig) GetBaselineAlpha() float64 {
	if c.BaselineAlpha == nil {
		return 0.02
	}
	return *c.BaselineAlpha
}

// GetEnvelopeDecay returns the envelope_decay value or the default.
func (c *TuningConfig) GetEnvelopeDecay() float64 {
	if c.EnvelopeDecay == nil {
		return 0.995
	}
	return *c.EnvelopeDecay
}

// GetEnvelopeFloor returns the envelope_floor value or the default.
func (c *TuningConfig) GetEnvelopeFloor() float64 {
	if c.EnvelopeFloor == nil {
		return 0.5
	}
	return *c.EnvelopeFloor
}

// GetFilteredBufferSize returns the filtered_buffer_size value or the default.
func (c *TuningConfig) GetFilteredBufferSize() int {
	if c.FilteredBufferSize == nil {
		return 600
	}
	return *c.FilteredBufferSize
}

// GetReferenceFPS returns the reference_fps value or the default. Per-frame
// constants (baseline_alpha, envelope_decay, derivative_threshold) are
// expressed at this frame rate and rescaled by the actual frame interval.
func (c *TuningConfig) GetReferenceFPS() float64 {
	if c.ReferenceFPS == nil {
		return 30
	}
	return *c.ReferenceFPS
}

// GetMinConsecutiveOn returns the min_consecutive_on value or the default.
func (c *TuningConfig) GetMinConsecutiveOn() int {
	if c.MinConsecutiveOn == nil {
		return 6
	}
	return *c.MinConsecutiveOn
}

// GetMaxConsecutiveOff returns the max_consecutive_off value or the default.
func (c *TuningConfig) GetMaxConsecutiveOff() int {
	if c.MaxConsecutiveOff == nil {
		return 4
	}
	return *c.MaxConsecutiveOff
}

// GetRedMin returns the red_min value or the default.
func (c *TuningConfig) GetRedMin() float64 {
	if c.RedMin == nil {
		return 40
	}
	return *c.RedMin
}

// GetRedMax returns the red_max value or the default.
func (c *TuningConfig) GetRedMax() float64 {
	if c.RedMax == nil {
		return 250
	}
	return *c.RedMax
}

// GetRGRatioMin returns the rg_ratio_min value or the default.
func (c *TuningConfig) GetRGRatioMin() float64 {
	if c.RGRatioMin == nil {
		return 1.2
	}
	return *c.RGRatioMin
}

// GetRGRatioMax returns the rg_ratio_max value or the default.
func (c *TuningConfig) GetRGRatioMax() float64 {
	if c.RGRatioMax == nil {
		return 4.5
	}
	return *c.RGRatioMax
}

// GetTextureMin returns the texture_min value or the default.
func (c *TuningConfig) GetTextureMin() float64 {
	if c.TextureMin == nil {
		return 0.05
	}
	return *c.TextureMin
}

// GetStabilityWindow returns the stability_window value or the default.
func (c *TuningConfig) GetStabilityWindow() int {
	if c.StabilityWindow == nil {
		return 10
	}
	return *c.StabilityWindow
}

// GetStabilityMin returns the stability_min value or the default.
func (c *TuningConfig) GetStabilityMin() float64 {
	if c.StabilityMin == nil {
		return 0.3
	}
	return *c.StabilityMin
}

// GetStabilityMax returns the stability_max value or the default.
func (c *TuningConfig) GetStabilityMax() float64 {
	if c.StabilityMax == nil {
		return 0.95
	}
	return *c.StabilityMax
}

// GetPerfusionWindowMs returns the perfusion_window_ms value or the default.
func (c *TuningConfig) GetPerfusionWindowMs() int64 {
	if c.PerfusionWindowMs == nil {
		return 2000
	}
	return *c.PerfusionWindowMs
}

// GetPerfusionMinSpanMs returns the perfusion_min_span_ms value or the default.
func (c *TuningConfig) GetPerfusionMinSpanMs() int64 {
	if c.PerfusionMinSpanMs == nil {
		return 600
	}
	return *c.PerfusionMinSpanMs
}

// GetFlatWindowMs returns the flat_window_ms value or the default.
func (c *TuningConfig) GetFlatWindowMs() int64 {
	if c.FlatWindowMs == nil {
		return 100
	}
	return *c.FlatWindowMs
}

// GetFlatFraction returns the flat_fraction value or the default.
func (c *TuningConfig) GetFlatFraction() float64 {
	if c.FlatFraction == nil {
		return 0.002
	}
	return *c.FlatFraction
}

// GetPerfusionMin returns the perfusion_min value or the default.
func (c *TuningConfig) GetPerfusionMin() float64 {
	if c.PerfusionMin == nil {
		return 0.002
	}
	return *c.PerfusionMin
}

// GetPerfusionMax returns the perfusion_max value or the default.
func (c *TuningConfig) GetPerfusionMax() float64 {
	if c.PerfusionMax == nil {
		return 0.25
	}
	return *c.PerfusionMax
}

// GetPresenceConfidenceThreshold returns the presence_confidence_threshold value or the default.
func (c *TuningConfig) GetPresenceConfidenceThreshold() float64 {
	if c.PresenceConfidenceThreshold == nil {
		return 0.85
	}
	return *c.PresenceConfidenceThreshold
}

// GetMinPeakDistanceMs returns the min_peak_distance_ms value or the default.
func (c *TuningConfig) GetMinPeakDistanceMs() int64 {
	if c.MinPeakDistanceMs == nil {
		return 300
	}
	return *c.MinPeakDistanceMs
}

// GetPeakLockTimeoutMs returns the peak_lock_timeout_ms value or the default.
func (c *TuningConfig) GetPeakLockTimeoutMs() int64 {
	if c.PeakLockTimeoutMs == nil {
		return 250
	}
	return *c.PeakLockTimeoutMs
}

// GetSignalThreshold returns the signal_threshold value or the default.
func (c *TuningConfig) GetSignalThreshold() float64 {
	if c.SignalThreshold == nil {
		return 0.3
	}
	return *c.SignalThreshold
}

// GetDerivativeThreshold returns the derivative_threshold value or the default.
func (c *TuningConfig) GetDerivativeThreshold() float64 {
	if c.DerivativeThreshold == nil {
		return -0.03
	}
	return *c.DerivativeThreshold
}

// GetMinConfidence returns the min_confidence value or the default.
func (c *TuningConfig) GetMinConfidence() float64 {
	if c.MinConfidence == nil {
		return 0.6
	}
	return *c.MinConfidence
}

// GetAmplitudeMultiple returns the amplitude_multiple value or the default.
func (c *TuningConfig) GetAmplitudeMultiple() float64 {
	if c.AmplitudeMultiple == nil {
		return 1.6
	}
	return *c.AmplitudeMultiple
}

// GetConfirmWindowMs returns the confirm_window_ms value or the default.
func (c *TuningConfig) GetConfirmWindowMs() int64 {
	if c.ConfirmWindowMs == nil {
		return 150
	}
	return *c.ConfirmWindowMs
}

// GetAdaptiveLearningRate returns the adaptive_learning_rate value or the default.
func (c *TuningConfig) GetAdaptiveLearningRate() float64 {
	if c.AdaptiveLearningRate == nil {
		return 0.1
	}
	return *c.AdaptiveLearningRate
}

// GetPeakWindowMs returns the peak_window_ms value or the default.
func (c *TuningConfig) GetPeakWindowMs() int64 {
	if c.PeakWindowMs == nil {
		return 2900
	}
	return *c.PeakWindowMs
}

// GetMaxPeaks returns the max_peaks value or the default.
func (c *TuningConfig) GetMaxPeaks() int {
	if c.MaxPeaks == nil {
		return 25
	}
	return *c.MaxPeaks
}

// GetMinBPM returns the min_bpm value or the default.
func (c *TuningConfig) GetMinBPM() float64 {
	if c.MinBPM == nil {
		return 30
	}
	return *c.MinBPM
}

// GetMaxBPM returns the max_bpm value or the default.
func (c *TuningConfig) GetMaxBPM() float64 {
	if c.MaxBPM == nil {
		return 200
	}
	return *c.MaxBPM
}

// GetBPMHistorySize returns the bpm_history_size value or the default.
func (c *TuningConfig) GetBPMHistorySize() int {
	if c.BPMHistorySize == nil {
		return 12
	}
	return *c.BPMHistorySize
}

// GetBPMEMAAlpha returns the bpm_ema_alpha value or the default.
func (c *TuningConfig) GetBPMEMAAlpha() float64 {
	if c.BPMEMAAlpha == nil {
		return 0.3
	}
	return *c.BPMEMAAlpha
}

// GetBPMMaxDeviation returns the bpm_max_deviation value or the default.
func (c *TuningConfig) GetBPMMaxDeviation() float64 {
	if c.BPMMaxDeviation == nil {
		return 0.4
	}
	return *c.BPMMaxDeviation
}

// GetFinalTrimFraction returns the final_trim_fraction value or the default.
func (c *TuningConfig) GetFinalTrimFraction() float64 {
	if c.FinalTrimFraction == nil {
		return 0.2
	}
	return *c.FinalTrimFraction
}

// GetRRHistorySize returns the rr_history_size value or the default.
func (c *TuningConfig) GetRRHistorySize() int {
	if c.RRHistorySize == nil {
		return 20
	}
	return *c.RRHistorySize
}

// GetPeakTimeoutMs returns the peak_timeout_ms value or the default.
func (c *TuningConfig) GetPeakTimeoutMs() int64 {
	if c.PeakTimeoutMs == nil {
		return 3000
	}
	return *c.PeakTimeoutMs
}

// GetQualityMinSamples returns the quality_min_samples value or the default.
func (c *TuningConfig) GetQualityMinSamples() int {
	if c.QualityMinSamples == nil {
		return 30
	}
	return *c.QualityMinSamples
}

// GetAmplitudeFullScale returns the amplitude_full_scale value or the default.
func (c *TuningConfig) GetAmplitudeFullScale() float64 {
	if c.AmplitudeFullScale == nil {
		return 8
	}
	return *c.AmplitudeFullScale
}

// GetRRRegularityWindow returns the rr_regularity_window value or the default.
func (c *TuningConfig) GetRRRegularityWindow() int {
	if c.RRRegularityWindow == nil {
		return 5
	}
	return *c.RRRegularityWindow
}

// GetRRMaxAbsDeviationMs returns the rr_max_abs_deviation_ms value or the default.
func (c *TuningConfig) GetRRMaxAbsDeviationMs() float64 {
	if c.RRMaxAbsDeviationMs == nil {
		return 100
	}
	return *c.RRMaxAbsDeviationMs
}

// GetArrhythmiaLearningDurationMs returns the arrhythmia_learning_duration_ms value or the default.
func (c *TuningConfig) GetArrhythmiaLearningDurationMs() int64 {
	if c.ArrhythmiaLearningDurationMs == nil {
		return 6000
	}
	return *c.ArrhythmiaLearningDurationMs
}

// GetArrhythmiaLearningSamples returns the arrhythmia_learning_samples value or the default.
func (c *TuningConfig) GetArrhythmiaLearningSamples() int {
	if c.ArrhythmiaLearningSamples == nil {
		return 8
	}
	return *c.ArrhythmiaLearningSamples
}

// GetArrhythmiaMinBaselineSamples returns the arrhythmia_min_baseline_samples value or the default.
func (c *TuningConfig) GetArrhythmiaMinBaselineSamples() int {
	if c.ArrhythmiaMinBaselineSamples == nil {
		return 5
	}
	return *c.ArrhythmiaMinBaselineSamples
}

// GetBaselineRRMinMs returns the baseline_rr_min_ms value or the default.
func (c *TuningConfig) GetBaselineRRMinMs() float64 {
	if c.BaselineRRMinMs == nil {
		return 400
	}
	return *c.BaselineRRMinMs
}

// GetBaselineRRMaxMs returns the baseline_rr_max_ms value or the default.
func (c *TuningConfig) GetBaselineRRMaxMs() float64 {
	if c.BaselineRRMaxMs == nil {
		return 1500
	}
	return *c.BaselineRRMaxMs
}

// GetBaselineTrimFraction returns the baseline_trim_fraction value or the default.
func (c *TuningConfig) GetBaselineTrimFraction() float64 {
	if c.BaselineTrimFraction == nil {
		return 0.2
	}
	return *c.BaselineTrimFraction
}

// GetArrhythmiaWindowSize returns the arrhythmia_window_size value or the default.
func (c *TuningConfig) GetArrhythmiaWindowSize() int {
	if c.ArrhythmiaWindowSize == nil {
		return 8
	}
	return *c.ArrhythmiaWindowSize
}

// GetArrhythmiaMinSignalQuality returns the arrhythmia_min_signal_quality value or the default.
func (c *TuningConfig) GetArrhythmiaMinSignalQuality() float64 {
	if c.ArrhythmiaMinSignalQuality == nil {
		return 40
	}
	return *c.ArrhythmiaMinSignalQuality
}

// GetMaxBaselineDeviation returns the max_baseline_deviation value or the default.
func (c *TuningConfig) GetMaxBaselineDeviation() float64 {
	if c.MaxBaselineDeviation == nil {
		return 0.2
	}
	return *c.MaxBaselineDeviation
}

// GetRMSSDThresholdMs returns the rmssd_threshold_ms value or the default.
func (c *TuningConfig) GetRMSSDThresholdMs() float64 {
	if c.RMSSDThresholdMs == nil {
		return 80
	}
	return *c.RMSSDThresholdMs
}

// GetRRVariationThreshold returns the rr_variation_threshold value or the default.
func (c *TuningConfig) GetRRVariationThreshold() float64 {
	if c.RRVariationThreshold == nil {
		return 0.12
	}
	return *c.RRVariationThreshold
}

// GetCVThreshold returns the cv_threshold value or the default.
func (c *TuningConfig) GetCVThreshold() float64 {
	if c.CVThreshold == nil {
		return 0.10
	}
	return *c.CVThreshold
}

// GetEntropyThresholdBits returns the entropy_threshold_bits value or the default.
func (c *TuningConfig) GetEntropyThresholdBits() float64 {
	if c.EntropyThresholdBits == nil {
		return 0.5
	}
	return *c.EntropyThresholdBits
}

// GetEntropyBinMs returns the entropy_bin_ms value or the default.
func (c *TuningConfig) GetEntropyBinMs() float64 {
	if c.EntropyBinMs == nil {
		return 50
	}
	return *c.EntropyBinMs
}

// GetArrhythmiaScoreThreshold returns the arrhythmia_score_threshold value or the default.
func (c *TuningConfig) GetArrhythmiaScoreThreshold() float64 {
	if c.ArrhythmiaScoreThreshold == nil {
		return 0.95
	}
	return *c.ArrhythmiaScoreThreshold
}

// GetArrhythmiaCooldownMs returns the arrhythmia_cooldown_ms value or the default.
func (c *TuningConfig) GetArrhythmiaCooldownMs() int64 {
	if c.ArrhythmiaCooldownMs == nil {
		return 10000
	}
	return *c.ArrhythmiaCooldownMs
}

// GetMaxArrhythmiasPerMinute returns the max_arrhythmias_per_minute value or the default.
func (c *TuningConfig) GetMaxArrhythmiasPerMinute() int {
	if c.MaxArrhythmiasPerMinute == nil {
		return 3
	}
	return *c.MaxArrhythmiasPerMinute
}

// GetConsistencyWindow returns the consistency_window value or the default.
func (c *TuningConfig) GetConsistencyWindow() int {
	if c.ConsistencyWindow == nil {
		return 3
	}
	return *c.ConsistencyWindow
}

// GetConsistencyRequired returns the consistency_required value or the default.
func (c *TuningConfig) GetConsistencyRequired() int {
	if c.ConsistencyRequired == nil {
		return 2
	}
	return *c.ConsistencyRequired
}

// GetPreventionIncrement returns the prevention_increment value or the default.
func (c *TuningConfig) GetPreventionIncrement() float64 {
	if c.PreventionIncrement == nil {
		return 0.3
	}
	return *c.PreventionIncrement
}

// GetPreventionDecay returns the prevention_decay value or the default.
func (c *TuningConfig) GetPreventionDecay() float64 {
	if c.PreventionDecay == nil {
		return 0.5
	}
	return *c.PreventionDecay
}

// GetNormalBeatsForDecay returns the normal_beats_for_decay value or the default.
func (c *TuningConfig) GetNormalBeatsForDecay() int {
	if c.NormalBeatsForDecay == nil {
		return 10
	}
	return *c.NormalBeatsForDecay
}

// GetNormalBeatTolerance returns the normal_beat_tolerance value or the default.
func (c *TuningConfig) GetNormalBeatTolerance() float64 {
	if c.NormalBeatTolerance == nil {
		return 0.1
	}
	return *c.NormalBeatTolerance
}
