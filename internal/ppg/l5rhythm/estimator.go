package l5rhythm

import (
	"math"

	"github.com/banshee-data/pulse.report/internal/ppg/hrv"
	"github.com/banshee-data/pulse.report/internal/ppg/ring"
	"github.com/banshee-data/pulse.report/internal/units"
)

const (
	// seedSize is the history length from which outlier rejection applies.
	seedSize = 3
	// reseedAfter consecutive outliers mean the rate itself has moved.
	reseedAfter = 4
)

// Estimator turns confirmed peak timestamps into RR intervals and BPM.
// Every value it stores or reports lies in [MinBPM, MaxBPM], or is 0.
// It is not safe for concurrent use.
type Estimator struct {
	cfg Config

	bpm *ring.Buffer[float64]
	rr  *ring.Buffer[uint32]

	smoothed   float64
	lastPeakMs int64
	hasPeak    bool
	outliers   int
}

// NewEstimator returns an empty Estimator.
func NewEstimator(cfg Config) *Estimator {
	return &Estimator{
		cfg: cfg,
		bpm: ring.New[float64](cfg.HistorySize),
		rr:  ring.New[uint32](cfg.RRHistorySize),
	}
}

// AddPeak records a confirmed peak. It returns the RR interval to the
// previous peak and whether it was accepted into the history. An
// implausible gap is rejected and the new peak becomes the reference for
// the next interval. Once the history is seeded, an interval further than
// MaxDeviation from the median RR (a missed or doubled beat) is rejected
// too, until reseedAfter of them in a row restart the history at the new
// rate.
func (e *Estimator) AddPeak(tsMs int64) (rrMs uint32, accepted bool) {
	if !e.hasPeak || tsMs <= e.lastPeakMs {
		if !e.hasPeak {
			e.lastPeakMs, e.hasPeak = tsMs, true
		}
		return 0, false
	}
	dt := tsMs - e.lastPeakMs
	e.lastPeakMs = tsMs

	inst := units.BPMFromRR(float64(dt))
	if !units.IsPlausibleBPM(inst, e.cfg.MinBPM, e.cfg.MaxBPM) || dt > math.MaxUint32 {
		return uint32(min(dt, math.MaxUint32)), false
	}

	if e.bpm.Len() >= seedSize {
		medRR := units.RRFromBPM(hrv.Median(e.bpm.Slice()))
		if math.Abs(float64(dt)-medRR)/medRR > e.cfg.MaxDeviation {
			e.outliers++
			if e.outliers < reseedAfter {
				return uint32(dt), false
			}
			e.bpm.Reset()
			e.rr.Reset()
		}
	}
	e.outliers = 0

	e.bpm.Push(inst)
	e.rr.Push(uint32(dt))
	med := hrv.Median(e.bpm.Slice())
	if e.bpm.Len() == 1 {
		e.smoothed = med
	} else {
		e.smoothed = hrv.EMA(e.smoothed, med, e.cfg.EMAAlpha)
	}
	return uint32(dt), true
}

// BPM returns the smoothed rate at nowMs, or 0 when no interval has been
// accepted or the last peak is older than PeakTimeoutMs.
func (e *Estimator) BPM(nowMs int64) uint32 {
	if e.bpm.Len() == 0 || !e.hasPeak || nowMs-e.lastPeakMs > e.cfg.PeakTimeoutMs {
		return 0
	}
	return e.round(e.smoothed)
}

// SmoothedBPM returns the unrounded smoothed rate, ignoring the timeout.
func (e *Estimator) SmoothedBPM() float64 {
	if e.bpm.Len() == 0 {
		return 0
	}
	return e.smoothed
}

// FinalBPM returns the trimmed mean of the instantaneous history, or 0
// when it is empty.
func (e *Estimator) FinalBPM() float64 {
	if e.bpm.Len() == 0 {
		return 0
	}
	return hrv.TrimmedMean(e.bpm.Slice(), e.cfg.FinalTrimFraction)
}

// History returns a copy of the instantaneous BPM history, oldest first.
func (e *Estimator) History() []float64 { return e.bpm.Slice() }

// RRIntervals returns the stored RR intervals, oldest first, dropping any
// value outside the plausible band.
func (e *Estimator) RRIntervals() []uint32 {
	return ValidRR(e.rr.Slice(), e.cfg.MinBPM, e.cfg.MaxBPM)
}

// LastPeak returns the timestamp of the most recent peak.
func (e *Estimator) LastPeak() (int64, bool) { return e.lastPeakMs, e.hasPeak }

// Reset forgets all peaks, intervals and smoothing state.
func (e *Estimator) Reset() {
	e.bpm.Reset()
	e.rr.Reset()
	e.smoothed = 0
	e.lastPeakMs, e.hasPeak = 0, false
	e.outliers = 0
}

// round converts a rate to whole BPM without leaving the configured band.
func (e *Estimator) round(bpm float64) uint32 {
	r := math.Round(bpm)
	r = math.Max(r, math.Ceil(e.cfg.MinBPM))
	r = math.Min(r, math.Floor(e.cfg.MaxBPM))
	if r < 0 {
		return 0
	}
	return uint32(r)
}

// ValidRR returns the intervals of rr that lie inside the band implied by
// [minBPM, maxBPM], preserving order.
func ValidRR(rr []uint32, minBPM, maxBPM float64) []uint32 {
	out := make([]uint32, 0, len(rr))
	for _, v := range rr {
		if units.IsPlausibleRR(float64(v), minBPM, maxBPM) {
			out = append(out, v)
		}
	}
	return out
}
