package l4beats

import (
	"github.com/banshee-data/pulse.report/internal/ppg/hrv"
	"github.com/banshee-data/pulse.report/internal/ppg/ring"
)

// Suppression reasons reported for candidates that were not confirmed.
const (
	SuppressedNotLocalMax = "not_local_max"
	SuppressedRefractory  = "refractory"
	SuppressedLocked      = "locked"
)

// confidenceMargin is one voter's worth of confidence: the adaptive floor
// sits this far below the mean confidence of recent peaks.
const confidenceMargin = 0.25

// statsWindow is the number of confirmed peaks feeding adaptive tuning.
const statsWindow = 8

// minWindow is the fewest samples that can show a rise and a fall.
const minWindow = 3

// Sample is one conditioned value handed to the detector.
type Sample struct {
	TimestampMs int64
	Value       float64 // envelope-normalised waveform
	Derivative  float64
}

// Peak is a confirmed beat.
type Peak struct {
	TimestampMs  int64   `json:"timestamp_ms"`
	Value        float64 `json:"value"`
	Confidence   float64 `json:"confidence"`
	IsArrhythmia bool    `json:"is_arrhythmia"`
}

// Thresholds are the adaptive detection thresholds. They always lie within
// the hard bounds declared in config.go.
type Thresholds struct {
	Signal        float64 `json:"signal"`
	Derivative    float64 `json:"derivative"`
	MinConfidence float64 `json:"min_confidence"`
}

// Votes records which sub-detectors fired on a sample.
type Votes struct {
	Derivative bool `json:"derivative"`
	Amplitude  bool `json:"amplitude"`
	Pattern    bool `json:"pattern"`
}

// Count returns the number of voters that fired.
func (v Votes) Count() int {
	n := 0
	for _, b := range []bool{v.Derivative, v.Amplitude, v.Pattern} {
		if b {
			n++
		}
	}
	return n
}

// Confidence maps a vote count to a confidence: 0.5 for a single voter,
// plus 0.25 per corroborating voter, capped at 1.
func (v Votes) Confidence() float64 {
	n := v.Count()
	if n == 0 {
		return 0
	}
	return hrv.Clamp(0.5+0.25*float64(n-1), 0, 1)
}

// Detection is the detector's verdict for one sample.
type Detection struct {
	IsPeak     bool    `json:"is_peak"`
	Candidate  bool    `json:"candidate"`
	Confidence float64 `json:"confidence"`
	Votes      Votes   `json:"votes"`
	Peak       Peak    `json:"peak"`                 // valid when IsPeak
	Suppressed string  `json:"suppressed,omitempty"` // why a candidate was dropped
}

type peakStat struct {
	value, derivative, confidence float64
}

// Detector is the single beat detector of the pipeline. Timers are stored
// timestamps compared against the sample time, so the detector is purely
// synchronous. It is not safe for concurrent use.
type Detector struct {
	cfg Config

	buf   *ring.Buffer[Sample]
	peaks *ring.Buffer[Peak]
	stats *ring.Buffer[peakStat]

	th         Thresholds
	lastPeakMs int64
	hasPeak    bool
	unlockAtMs int64
}

// NewDetector returns a Detector with the configured initial thresholds.
func NewDetector(cfg Config) *Detector {
	d := &Detector{
		cfg:   cfg,
		buf:   ring.New[Sample](cfg.bufferSize()),
		peaks: ring.New[Peak](cfg.MaxPeaks),
		stats: ring.New[peakStat](statsWindow),
	}
	d.Reset()
	return d
}

// Detect consumes one sample and reports whether it confirms a peak.
func (d *Detector) Detect(s Sample) Detection {
	d.buf.Push(s)
	d.prune(s.TimestampMs)

	votes := d.vote(s)
	det := Detection{Votes: votes, Confidence: votes.Confidence()}
	if det.Confidence == 0 || det.Confidence < d.th.MinConfidence {
		return det
	}
	det.Candidate = true

	win := d.window(s.TimestampMs)
	first, last := argmax(win)
	if first == 0 || last == len(win)-1 {
		det.Suppressed = SuppressedNotLocalMax
		return det
	}
	// A flat crest is reported at its midpoint.
	top := win[(first+last)/2]

	if d.hasPeak && top.TimestampMs-d.lastPeakMs < d.cfg.MinPeakDistanceMs {
		det.Suppressed = SuppressedRefractory
		return det
	}
	if s.TimestampMs < d.unlockAtMs {
		det.Suppressed = SuppressedLocked
		return det
	}

	p := Peak{TimestampMs: top.TimestampMs, Value: top.Value, Confidence: det.Confidence}
	d.peaks.Push(p)
	d.lastPeakMs = p.TimestampMs
	d.hasPeak = true
	d.unlockAtMs = s.TimestampMs + d.cfg.PeakLockTimeoutMs
	d.adapt(peakStat{value: top.Value, derivative: s.Derivative, confidence: det.Confidence})

	det.IsPeak = true
	det.Peak = p
	return det
}

// window returns the samples within ConfirmWindowMs of nowMs, or the
// newest minWindow samples when the frame rate is too low to fill it.
func (d *Detector) window(nowMs int64) []Sample {
	all := d.buf.Slice()
	from := len(all)
	for from > 0 && nowMs-all[from-1].TimestampMs <= d.cfg.ConfirmWindowMs {
		from--
	}
	if len(all)-from < minWindow {
		from = max(0, len(all)-minWindow)
	}
	return all[from:]
}

func (d *Detector) vote(s Sample) Votes {
	// The downslope is judged against the level it falls from.
	level := s.Value
	if n := d.buf.Len(); n >= 2 {
		level = max(level, d.buf.At(n-2).Value)
	}
	v := Votes{
		Derivative: s.Derivative < d.th.Derivative && level > d.th.Signal,
		Amplitude:  s.Value > d.cfg.AmplitudeMultiple*d.th.Signal,
	}

	// Rise then fall across the last three distinct values, with equal
	// neighbours collapsed so a flat crest still counts.
	var distinct [minWindow]float64
	n := 0
	for i := d.buf.Len() - 1; i >= 0 && n < minWindow; i-- {
		if val := d.buf.At(i).Value; n == 0 || val != distinct[n-1] {
			distinct[n] = val
			n++
		}
	}
	if n == minWindow {
		c, b, a := distinct[0], distinct[1], distinct[2]
		v.Pattern = a < b && b > c
	}
	return v
}

// adapt nudges each threshold toward the statistics of recent peaks.
func (d *Detector) adapt(ps peakStat) {
	d.stats.Push(ps)
	recent := d.stats.Slice()
	values := make([]float64, len(recent))
	derivs := make([]float64, len(recent))
	confs := make([]float64, len(recent))
	for i, r := range recent {
		values[i], derivs[i], confs[i] = r.value, r.derivative, r.confidence
	}

	lr := d.cfg.LearningRate
	d.th.Signal = hrv.Clamp(hrv.EMA(d.th.Signal, 0.5*hrv.Mean(values), lr),
		SignalThresholdMin, SignalThresholdMax)
	d.th.Derivative = hrv.Clamp(hrv.EMA(d.th.Derivative, 0.5*hrv.Mean(derivs), lr),
		DerivativeThresholdMin, DerivativeThresholdMax)
	d.th.MinConfidence = hrv.Clamp(hrv.EMA(d.th.MinConfidence, hrv.Mean(confs)-confidenceMargin, lr),
		MinConfidenceFloor, MinConfidenceCeiling)
}

// prune drops peaks older than the retention window.
func (d *Detector) prune(nowMs int64) {
	drop := 0
	for i := 0; i < d.peaks.Len(); i++ {
		if nowMs-d.peaks.At(i).TimestampMs <= d.cfg.PeakWindowMs {
			break
		}
		drop++
	}
	d.peaks.DropOldest(drop)
}

// MarkArrhythmia flags the newest peak as part of a confirmed arrhythmia.
func (d *Detector) MarkArrhythmia() {
	n := d.peaks.Len()
	if n == 0 {
		return
	}
	p := d.peaks.At(n - 1)
	p.IsArrhythmia = true
	d.peaks.Set(n-1, p)
}

// Peaks returns a copy of the retained peaks, oldest first.
func (d *Detector) Peaks() []Peak { return d.peaks.Slice() }

// Thresholds returns the current adaptive thresholds.
func (d *Detector) Thresholds() Thresholds { return d.th }

// LastPeak returns the timestamp of the last confirmed peak.
func (d *Detector) LastPeak() (int64, bool) { return d.lastPeakMs, d.hasPeak }

// Reset forgets all peaks and returns the thresholds to their initial
// values. The pipeline calls it when the finger is lost.
func (d *Detector) Reset() {
	d.buf.Reset()
	d.peaks.Reset()
	d.stats.Reset()
	d.th = Thresholds{
		Signal:        hrv.Clamp(d.cfg.SignalThreshold, SignalThresholdMin, SignalThresholdMax),
		Derivative:    hrv.Clamp(d.cfg.DerivativeThreshold, DerivativeThresholdMin, DerivativeThresholdMax),
		MinConfidence: hrv.Clamp(d.cfg.MinConfidence, MinConfidenceFloor, MinConfidenceCeiling),
	}
	d.lastPeakMs, d.hasPeak, d.unlockAtMs = 0, false, 0
}

// argmax returns the first and last index holding the largest value.
func argmax(s []Sample) (first, last int) {
	for i := 1; i < len(s); i++ {
		switch {
		case s[i].Value > s[first].Value:
			first, last = i, i
		case s[i].Value == s[first].Value:
			last = i
		}
	}
	return first, last
}
