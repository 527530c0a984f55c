package pipeline

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/banshee-data/pulse.report/internal/config"
	"github.com/banshee-data/pulse.report/internal/monitoring"
	"github.com/banshee-data/pulse.report/internal/ppg/l1frames"
	"github.com/banshee-data/pulse.report/internal/ppg/l2signal"
	"github.com/banshee-data/pulse.report/internal/ppg/l3presence"
	"github.com/banshee-data/pulse.report/internal/ppg/l4beats"
	"github.com/banshee-data/pulse.report/internal/ppg/l5rhythm"
	"github.com/banshee-data/pulse.report/internal/ppg/l6arrhythmia"
	"github.com/banshee-data/pulse.report/internal/ppg/ring"
)

// Event sources.
const (
	SourceFrames     = "frames"
	SourcePresence   = "presence"
	SourceBeats      = "beats"
	SourceRhythm     = "rhythm"
	SourceArrhythmia = "arrhythmia"
	SourceSession    = "session"
)

// Event names.
const (
	EventInvalidFrame        = "invalid_frame"
	EventPresenceOn          = "presence_on"
	EventPresenceOff         = "presence_off"
	EventPeak                = "peak"
	EventRRRejected          = "rr_rejected"
	EventBaselineEstablished = "baseline_established"
	EventArrhythmia          = "arrhythmia_confirmed"
	EventPreventionDecayed   = "prevention_decayed"
	EventSessionStart        = "session_start"
	EventSessionEnd          = "session_end"
)

// sessionRRCapacity bounds the RR log kept for the summary.
const sessionRRCapacity = 4096

// HeartBeatResult is emitted for every frame.
type HeartBeatResult struct {
	BPM           uint32   `json:"bpm"`
	Confidence    float64  `json:"confidence"`
	IsPeak        bool     `json:"is_peak"`
	FilteredValue float64  `json:"filtered_value"`
	SignalQuality uint8    `json:"signal_quality"`
	RRIntervals   []uint32 `json:"rr_intervals"`
	LastPeakTime  *int64   `json:"last_peak_time,omitempty"`
}

// Span is an inclusive time range in milliseconds.
type Span struct {
	FromMs int64 `json:"from_ms"`
	ToMs   int64 `json:"to_ms"`
}

// Output is everything the processor reports for one frame.
type Output struct {
	TimestampMs int64                     `json:"timestamp_ms"`
	Valid       bool                      `json:"valid"`
	HeartBeat   HeartBeatResult           `json:"heartbeat"`
	Arrhythmia  l6arrhythmia.Status       `json:"arrhythmia"`
	Presence    l3presence.Evaluation     `json:"presence"`
	Detection   l4beats.Detection         `json:"detection"`
	Quality     l5rhythm.QualityBreakdown `json:"quality"`
	Peak        *l4beats.Peak             `json:"peak,omitempty"`
	// ArrhythmiaSpan is the RR interval that confirmed an arrhythmia on
	// this frame; downstream plots flag it.
	ArrhythmiaSpan *Span              `json:"arrhythmia_span,omitempty"`
	Events         []monitoring.Event `json:"events,omitempty"`
}

// Processor runs one session's frames through every layer. It owns all
// layer state and is not safe for concurrent use; see Session for a
// channel-driven wrapper.
type Processor struct {
	id string

	presence   *l3presence.Detector
	signal     *l2signal.Conditioner
	filtered   *l2signal.FilteredBuffer
	beats      *l4beats.Detector
	rhythm     *l5rhythm.Estimator
	scorer     *l5rhythm.Scorer
	arrhythmia *l6arrhythmia.Detector

	stability *ring.Buffer[float64]
	sessionRR *ring.Buffer[uint32]

	rhythmCfg       l5rhythm.Config
	lastConfidence  float64
	lostFinalBPM    float64
	frames          uint64
	invalidFrames   uint64
	presentFrames   uint64
	peaks           uint64
	firstTs, lastTs int64
	started         bool
}

// NewProcessor builds a Processor from a tuning config. A nil cfg uses the
// compiled defaults. Every derived layer config is validated.
func NewProcessor(cfg *config.TuningConfig) (*Processor, error) {
	if cfg == nil {
		cfg = config.EmptyTuningConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tuning config: %w", err)
	}

	sigCfg := l2signal.ConfigFromTuning(cfg)
	presCfg := l3presence.ConfigFromTuning(cfg)
	beatCfg := l4beats.ConfigFromTuning(cfg)
	rhythmCfg := l5rhythm.ConfigFromTuning(cfg)
	qualCfg := l5rhythm.QualityConfigFromTuning(cfg)
	arrCfg := l6arrhythmia.ConfigFromTuning(cfg)

	for _, c := range []struct {
		name string
		cfg  interface{ Validate() error }
	}{
		{"signal", sigCfg},
		{"presence", presCfg},
		{"beats", beatCfg},
		{"rhythm", rhythmCfg},
		{"arrhythmia", arrCfg},
	} {
		if err := c.cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s config: %w", c.name, err)
		}
	}

	stabilityCap := 2 * qualCfg.MinSamples
	if stabilityCap < 1 {
		stabilityCap = 1
	}

	return &Processor{
		id:         uuid.New().String(),
		presence:   l3presence.NewDetector(presCfg),
		signal:     l2signal.NewConditioner(sigCfg),
		filtered:   l2signal.NewFilteredBuffer(cfg.GetFilteredBufferSize()),
		beats:      l4beats.NewDetector(beatCfg),
		rhythm:     l5rhythm.NewEstimator(rhythmCfg),
		scorer:     l5rhythm.NewScorer(qualCfg),
		arrhythmia: l6arrhythmia.NewDetector(arrCfg),
		stability:  ring.New[float64](stabilityCap),
		sessionRR:  ring.New[uint32](sessionRRCapacity),
		rhythmCfg:  rhythmCfg,
	}, nil
}

// SessionID returns the random identifier assigned at construction.
func (p *Processor) SessionID() string { return p.id }

// Process consumes one frame. It never panics on bad input: an invalid
// frame is reported, counted as disqualifying for presence and otherwise
// skipped.
func (p *Processor) Process(frame l1frames.FrameSample) Output {
	out := Output{TimestampMs: frame.TimestampMs}
	p.frames++
	if !p.started {
		p.firstTs, p.started = frame.TimestampMs, true
	}
	if frame.TimestampMs > p.lastTs {
		p.lastTs = frame.TimestampMs
	}

	var sig l2signal.Sample
	valid := frame.Validate() == nil
	out.Valid = valid
	if valid {
		sig = p.signal.Process(frame.TimestampMs, frame.RedMean)
		p.filtered.Push(frame.TimestampMs, sig.Filtered)
		p.stability.Push(frame.StabilityScore)
		out.HeartBeat.FilteredValue = sig.Filtered
	} else {
		p.invalidFrames++
		out.emit(monitoring.LevelDiag, SourceFrames, EventInvalidFrame, nil)
	}

	out.Presence = p.presence.Evaluate(frame)
	if out.Presence.Present {
		p.presentFrames++
	}
	if out.Presence.Changed {
		if out.Presence.Present {
			out.emit(monitoring.LevelDiag, SourcePresence, EventPresenceOn,
				map[string]float64{"confidence": out.Presence.Confidence})
		} else {
			out.emit(monitoring.LevelDiag, SourcePresence, EventPresenceOff, nil)
			p.onFingerLost()
		}
	}

	if valid && out.Presence.Present {
		out.Detection = p.beats.Detect(l4beats.Sample{
			TimestampMs: frame.TimestampMs,
			Value:       sig.Normalized,
			Derivative:  sig.Derivative,
		})
		if out.Detection.IsPeak {
			p.onPeak(&out, out.Detection.Peak)
		}
	}

	p.finish(&out)
	return out
}

func (p *Processor) onPeak(out *Output, pk l4beats.Peak) {
	p.peaks++
	p.lastConfidence = pk.Confidence
	peak := pk
	out.Peak = &peak
	out.emit(monitoring.LevelTrace, SourceBeats, EventPeak, map[string]float64{
		"peak_ms":    float64(pk.TimestampMs),
		"value":      pk.Value,
		"confidence": pk.Confidence,
	})

	rr, accepted := p.rhythm.AddPeak(pk.TimestampMs)
	if !accepted {
		if rr > 0 {
			out.emit(monitoring.LevelDiag, SourceRhythm, EventRRRejected, map[string]float64{"rr_ms": float64(rr)})
		}
		return
	}
	p.sessionRR.Push(rr)

	quality := p.score(true)
	res := p.arrhythmia.AddRR(rr, pk.TimestampMs, float64(quality.Total))
	if res.BaselineEstablished {
		b, _ := p.arrhythmia.Baseline()
		out.emit(monitoring.LevelDiag, SourceArrhythmia, EventBaselineEstablished, map[string]float64{
			"mean_rr_ms": b.MeanRR,
			"sd_rr_ms":   b.SDRR,
			"samples":    float64(b.Samples),
		})
	}
	if res.PreventionDecayed {
		out.emit(monitoring.LevelDiag, SourceArrhythmia, EventPreventionDecayed,
			map[string]float64{"prevention": p.arrhythmia.State().PreventionScore})
	}
	if res.Confirmed {
		p.beats.MarkArrhythmia()
		peak.IsArrhythmia = true
		out.Detection.Peak.IsArrhythmia = true
		span := Span{FromMs: pk.TimestampMs - int64(rr), ToMs: pk.TimestampMs}
		p.filtered.MarkArrhythmia(span.FromMs, span.ToMs)
		out.ArrhythmiaSpan = &span
		out.emit(monitoring.LevelOps, SourceArrhythmia, EventArrhythmia, map[string]float64{
			"score":        res.Score,
			"rmssd_ms":     res.Metrics.RMSSD,
			"rr_variation": res.Metrics.RRVariation,
			"count":        float64(p.arrhythmia.Status().Count),
		})
	}
}

// finish fills the per-frame heartbeat fields that do not depend on
// the frame being valid.
func (p *Processor) finish(out *Output) {
	present := out.Presence.Present
	out.Quality = p.score(present)
	out.Arrhythmia = p.arrhythmia.Status()

	hb := &out.HeartBeat
	hb.IsPeak = out.Detection.IsPeak
	hb.SignalQuality = out.Quality.Total
	hb.RRIntervals = p.rhythm.RRIntervals()
	if present {
		hb.BPM = p.rhythm.BPM(out.TimestampMs)
	}
	if hb.BPM > 0 {
		hb.Confidence = p.lastConfidence
	}
	if ts, ok := p.rhythm.LastPeak(); ok {
		hb.LastPeakTime = &ts
	}
}

func (p *Processor) score(present bool) l5rhythm.QualityBreakdown {
	return p.scorer.Score(l5rhythm.QualityInput{
		Present:   present,
		Filtered:  p.filtered.Values(),
		Stability: p.stability.Slice(),
		RR:        p.rhythm.RRIntervals(),
	})
}

// onFingerLost drops beat and rate state. The arrhythmia baseline and
// the filtered stream persist for the session.
func (p *Processor) onFingerLost() {
	if f := p.rhythm.FinalBPM(); f > 0 {
		p.lostFinalBPM = f
	}
	p.beats.Reset()
	p.rhythm.Reset()
	p.lastConfidence = 0
}

// FilteredSamples returns a copy of the filtered-value stream, oldest
// first.
func (p *Processor) FilteredSamples() []l2signal.FilteredSample { return p.filtered.Samples() }

// RRIntervals returns a copy of the current RR history, oldest first.
func (p *Processor) RRIntervals() []uint32 { return p.rhythm.RRIntervals() }

// Peaks returns the peaks still inside the detector's rolling window.
func (p *Processor) Peaks() []l4beats.Peak { return p.beats.Peaks() }

// Thresholds returns the current adaptive peak thresholds.
func (p *Processor) Thresholds() l4beats.Thresholds { return p.beats.Thresholds() }

// ArrhythmiaStatus returns the current arrhythmia status.
func (p *Processor) ArrhythmiaStatus() l6arrhythmia.Status { return p.arrhythmia.Status() }

// Presence returns the current presence state.
func (p *Processor) Presence() l3presence.State { return p.presence.State() }

func (o *Output) emit(level monitoring.Level, source, name string, fields map[string]float64) {
	o.Events = append(o.Events, monitoring.Event{
		TimestampMs: o.TimestampMs,
		Level:       level,
		Source:      source,
		Name:        name,
		Fields:      fields,
	})
}
