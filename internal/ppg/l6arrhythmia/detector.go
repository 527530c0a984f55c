package l6arrhythmia

import (
	"fmt"
	"math"

	"github.com/banshee-data/pulse.report/internal/ppg/hrv"
	"github.com/banshee-data/pulse.report/internal/ppg/ring"
	"github.com/banshee-data/pulse.report/internal/units"
)

// Phase is the detector's lifecycle state.
type Phase string

const (
	PhaseLearning   Phase = "learning"
	PhaseMonitoring Phase = "monitoring"
)

// Gate names why a monitoring RR was not scored.
const (
	GateImplausibleRR = "implausible_rr"
	GateLowQuality    = "low_quality"
	GateWindowFilling = "window_filling"
	GateBaselineShift = "baseline_shift"
)

// Event is a confirmed arrhythmia.
type Event struct {
	TimestampMs int64   `json:"timestamp_ms"`
	RMSSD       float64 `json:"rmssd_ms"`
	RRVariation float64 `json:"rr_variation"`
	Score       float64 `json:"score"`
}

// Result describes what one RR interval did to the detector.
type Result struct {
	Phase               Phase   `json:"phase"`
	BaselineEstablished bool    `json:"baseline_established,omitempty"`
	Gate                string  `json:"gate,omitempty"`
	Evaluated           bool    `json:"evaluated"`
	Metrics             Metrics `json:"metrics"`
	Score               float64 `json:"score"`
	HighConfidence      bool    `json:"high_confidence"`
	Confirmed           bool    `json:"confirmed"`
	Event               *Event  `json:"event,omitempty"`
	PreventionDecayed   bool    `json:"prevention_decayed,omitempty"`
}

// State is the rate-limiting state carried between RR intervals.
type State struct {
	LastEventMs            int64
	HasEvent               bool
	ConsecutiveNormalBeats int
	PreventionScore        float64
}

// Detector learns a baseline, then monitors RR windows. It is not safe
// for concurrent use.
type Detector struct {
	cfg Config

	phase        Phase
	learnStartMs int64
	learnStarted bool
	learnSamples []float64
	baseline     Baseline
	window       *ring.Buffer[float64]
	evaluations  *ring.Buffer[bool]
	eventTimes   *ring.Buffer[int64]
	state        State
	count        uint32
	lastEvent    *Event
}

// NewDetector returns a Detector in PhaseLearning.
func NewDetector(cfg Config) *Detector {
	return &Detector{
		cfg:          cfg,
		phase:        PhaseLearning,
		learnSamples: make([]float64, 0, cfg.LearningSamples),
		window:       ring.New[float64](cfg.WindowSize),
		evaluations:  ring.New[bool](cfg.ConsistencyWindow),
		eventTimes:   ring.New[int64](cfg.MaxPerMinute),
	}
}

// AddRR feeds one accepted RR interval observed at tsMs together with the
// current signal quality (0..100).
func (d *Detector) AddRR(rrMs uint32, tsMs int64, quality float64) Result {
	res := Result{Phase: d.phase}
	if !units.IsPlausibleRR(float64(rrMs), d.cfg.MinBPM, d.cfg.MaxBPM) {
		res.Gate = GateImplausibleRR
		return res
	}
	rr := float64(rrMs)

	if d.phase == PhaseLearning {
		res.BaselineEstablished = d.learn(rr, tsMs)
		res.Phase = d.phase
		return res
	}

	d.window.Push(rr)
	res.PreventionDecayed = d.trackNormal(rr)

	switch {
	case quality < d.cfg.MinSignalQuality:
		res.Gate = GateLowQuality
	case !d.window.Full():
		res.Gate = GateWindowFilling
	case math.Abs(hrv.Mean(d.window.Slice())-d.baseline.MeanRR)/d.baseline.MeanRR > d.cfg.MaxBaselineDeviation:
		res.Gate = GateBaselineShift
	}
	if res.Gate != "" {
		d.evaluations.Push(false)
		return res
	}

	res.Evaluated = true
	res.Metrics = ComputeMetrics(d.window.Slice(), d.baseline.MeanRR, d.cfg)
	res.Score = Score(res.Metrics, d.state.PreventionScore, d.cfg)
	res.HighConfidence = res.Score >= d.cfg.ScoreThreshold
	d.evaluations.Push(res.HighConfidence)

	if res.HighConfidence && d.canConfirm(tsMs) {
		ev := &Event{
			TimestampMs: tsMs,
			RMSSD:       res.Metrics.RMSSD,
			RRVariation: res.Metrics.RRVariation,
			Score:       res.Score,
		}
		d.confirm(ev)
		res.Confirmed = true
		res.Event = ev
	}
	return res
}

// learn accumulates baseline samples and reports whether the baseline was
// established by this interval.
func (d *Detector) learn(rr float64, tsMs int64) bool {
	if !d.learnStarted {
		d.learnStartMs, d.learnStarted = tsMs, true
	}
	if rr >= d.cfg.BaselineRRMinMs && rr <= d.cfg.BaselineRRMaxMs {
		d.learnSamples = append(d.learnSamples, rr)
	}

	n := len(d.learnSamples)
	done := n >= d.cfg.LearningSamples ||
		(tsMs-d.learnStartMs >= d.cfg.LearningDurationMs && n >= d.cfg.MinBaselineSamples)
	if !done {
		return false
	}
	d.baseline = ComputeBaseline(d.learnSamples, d.cfg.BaselineTrimFraction)
	d.learnSamples = nil
	d.phase = PhaseMonitoring
	return true
}

// trackNormal counts consecutive normal beats and decays the prevention
// score after a full run. It reports whether a decay happened.
func (d *Detector) trackNormal(rr float64) bool {
	tol := math.Max(d.cfg.NormalBeatTolerance*d.baseline.MeanRR, 2*d.baseline.SDRR)
	if math.Abs(rr-d.baseline.MeanRR) > tol {
		d.state.ConsecutiveNormalBeats = 0
		return false
	}
	d.state.ConsecutiveNormalBeats++
	if d.state.ConsecutiveNormalBeats < d.cfg.NormalBeatsForDecay {
		return false
	}
	d.state.ConsecutiveNormalBeats = 0
	if d.state.PreventionScore == 0 {
		return false
	}
	d.state.PreventionScore *= d.cfg.PreventionDecay
	return true
}

func (d *Detector) canConfirm(tsMs int64) bool {
	if d.state.HasEvent && tsMs-d.state.LastEventMs < d.cfg.CooldownMs {
		return false
	}
	if d.eventsWithinMinute(tsMs) >= d.cfg.MaxPerMinute {
		return false
	}
	high := 0
	for _, h := range d.evaluations.Slice() {
		if h {
			high++
		}
	}
	return high >= d.cfg.ConsistencyRequired
}

func (d *Detector) eventsWithinMinute(tsMs int64) int {
	n := 0
	for _, t := range d.eventTimes.Slice() {
		if tsMs-t < units.MsPerMinute {
			n++
		}
	}
	return n
}

func (d *Detector) confirm(ev *Event) {
	d.count++
	d.lastEvent = ev
	d.eventTimes.Push(ev.TimestampMs)
	d.state.LastEventMs, d.state.HasEvent = ev.TimestampMs, true
	d.state.PreventionScore = math.Min(d.state.PreventionScore+d.cfg.PreventionIncrement, MaxPrevention)
	d.state.ConsecutiveNormalBeats = 0
}

// Phase returns the lifecycle phase.
func (d *Detector) Phase() Phase { return d.phase }

// Baseline returns the learned baseline and whether it exists yet.
func (d *Detector) Baseline() (Baseline, bool) {
	return d.baseline, d.phase == PhaseMonitoring
}

// State returns a copy of the rate-limiting state.
func (d *Detector) State() State { return d.state }

// Status returns the reportable status.
func (d *Detector) Status() Status {
	s := Status{Count: d.count}
	switch {
	case d.phase == PhaseLearning:
		s.Phase = StatusCalibrating
	case d.count > 0:
		s.Phase = StatusDetected
	default:
		s.Phase = StatusNormal
	}
	if d.lastEvent != nil {
		ev := *d.lastEvent
		s.LastEvent = &ev
	}
	return s
}

// StatusPhase is the externally reported arrhythmia phase.
type StatusPhase string

const (
	StatusCalibrating StatusPhase = "CALIBRATING"
	StatusNormal      StatusPhase = "NO_ARRHYTHMIA"
	StatusDetected    StatusPhase = "ARRHYTHMIA_DETECTED"
)

// Status is emitted with every frame.
type Status struct {
	Phase     StatusPhase `json:"phase"`
	Count     uint32      `json:"count"`
	LastEvent *Event      `json:"last_event,omitempty"`
}

// String renders the status as CALIBRATING, NO_ARRHYTHMIA|n or
// ARRHYTHMIA_DETECTED|n.
func (s Status) String() string {
	if s.Phase == StatusCalibrating {
		return string(StatusCalibrating)
	}
	return fmt.Sprintf("%s|%d", s.Phase, s.Count)
}
