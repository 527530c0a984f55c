package l3presence

import (
	"github.com/banshee-data/pulse.report/internal/ppg/hrv"
	"github.com/banshee-data/pulse.report/internal/ppg/l1frames"
)

// Reasons attached to an Evaluation. A frame carries the reason of the
// first gate it failed, or ReasonPerfusionPending while the perfusion
// history is still filling.
const (
	ReasonInvalidFrame     = "invalid_frame"
	ReasonRedOutOfRange    = "red_out_of_range"
	ReasonRatioOutOfRange  = "rg_ratio_out_of_range"
	ReasonLowTexture       = "low_texture"
	ReasonUnstable         = "unstable"
	ReasonTooStable        = "too_stable"
	ReasonLowPerfusion     = "low_perfusion"
	ReasonHighPerfusion    = "high_perfusion"
	ReasonFlatSignal       = "flat_signal"
	ReasonPerfusionPending = "perfusion_pending"
	ReasonBelowThreshold   = "below_threshold"
)

// Evaluation is the per-frame presence verdict.
type Evaluation struct {
	Present    bool     `json:"present"`
	Qualifying bool     `json:"qualifying"`
	Confidence float64  `json:"confidence"`
	Reasons    []string `json:"reasons,omitempty"`
	Perfusion  float64  `json:"perfusion"`
	State      State    `json:"state"`
	Changed    bool     `json:"changed"` // presence flipped on this frame
}

// Assess runs the staged gates on frame against history, which must
// already contain frame as its newest entry. It returns the cumulative
// confidence, the perfusion index (0 when not yet computed) and the
// reasons for any shortfall. Assess stops at the first failing gate.
func Assess(frame l1frames.FrameSample, history *l1frames.Window, cfg Config) (confidence, perfusion float64, reasons []string) {
	if err := frame.Validate(); err != nil {
		return 0, 0, []string{ReasonInvalidFrame}
	}

	if frame.RedMean < cfg.RedMin || frame.RedMean > cfg.RedMax {
		return confidence, 0, []string{ReasonRedOutOfRange}
	}
	confidence += WeightRange

	if r := frame.RedGreenRatio(); r < cfg.RGRatioMin || r > cfg.RGRatioMax {
		return confidence, 0, []string{ReasonRatioOutOfRange}
	}
	confidence += WeightRatio

	if frame.TextureScore < cfg.TextureMin {
		return confidence, 0, []string{ReasonLowTexture}
	}
	confidence += WeightTexture

	stability := hrv.Mean(history.StabilityScores(cfg.StabilityWindow))
	if stability < cfg.StabilityMin {
		return confidence, 0, []string{ReasonUnstable}
	}
	if stability > cfg.StabilityMax {
		return confidence, 0, []string{ReasonTooStable}
	}
	confidence += WeightStability

	if history.SpanMs() < cfg.PerfusionMinSpanMs {
		return confidence, 0, []string{ReasonPerfusionPending}
	}
	now := frame.TimestampMs
	red := history.RedValuesSince(now - cfg.PerfusionWindowMs)
	span := hrv.PeakToPeak(red)
	if mean := hrv.Mean(red); mean > 0 {
		perfusion = span / mean
	}
	if perfusion < cfg.PerfusionMin {
		return confidence, perfusion, []string{ReasonLowPerfusion}
	}
	recent := history.RedValuesSince(now - cfg.FlatWindowMs)
	if len(recent) < minFlatFrames {
		recent = history.RedValues(minFlatFrames)
	}
	if hrv.PeakToPeak(recent) <= cfg.FlatFraction*span {
		return confidence, perfusion, []string{ReasonFlatSignal}
	}
	if perfusion > cfg.PerfusionMax {
		return confidence, perfusion, []string{ReasonHighPerfusion}
	}
	confidence += WeightPerfusion

	return confidence, perfusion, nil
}

// Detector combines the gates with the hysteresis machine for one session.
// It is not safe for concurrent use.
type Detector struct {
	cfg     Config
	history *l1frames.Window
	state   State
}

// NewDetector returns a Detector in PhaseNotPresent.
func NewDetector(cfg Config) *Detector {
	return &Detector{
		cfg:     cfg,
		history: l1frames.NewWindow(cfg.historySize()),
		state:   State{Phase: PhaseNotPresent},
	}
}

// Evaluate scores frame and advances the hysteresis machine. Invalid
// frames count as disqualifying and are kept out of the history.
func (d *Detector) Evaluate(frame l1frames.FrameSample) Evaluation {
	if frame.Validate() == nil {
		d.history.Push(frame)
	}
	conf, perfusion, reasons := Assess(frame, d.history, d.cfg)
	qualifying := conf >= d.cfg.ConfidenceThreshold
	if !qualifying && len(reasons) == 0 {
		reasons = []string{ReasonBelowThreshold}
	}

	was := d.state.IsPresent()
	d.state = Transition(d.state, qualifying, d.cfg)

	return Evaluation{
		Present:    d.state.IsPresent(),
		Qualifying: qualifying,
		Confidence: hrv.Clamp(conf, 0, 1),
		Reasons:    reasons,
		Perfusion:  perfusion,
		State:      d.state,
		Changed:    was != d.state.IsPresent(),
	}
}

// State returns the current hysteresis state.
func (d *Detector) State() State { return d.state }

// Reset returns the detector to PhaseNotPresent with no history.
func (d *Detector) Reset() {
	d.history.Reset()
	d.state = State{Phase: PhaseNotPresent}
}
