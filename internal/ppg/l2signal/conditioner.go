package l2signal

import (
	"math"

	"github.com/banshee-data/pulse.report/internal/ppg/hrv"
	"github.com/banshee-data/pulse.report/internal/ppg/ring"
)

// Sample is the conditioner's output for one raw value.
type Sample struct {
	Filtered   float64 // smoothed intensity, same scale as the input
	Baseline   float64 // slow DC estimate
	Normalized float64 // (Filtered-Baseline)/envelope, roughly -1..1
	Derivative float64 // change in Normalized per reference frame interval
	Gain       float64 // boost gain applied this sample
}

// Conditioner is the per-session filter chain:
// median -> moving average -> boost -> EMA, followed by baseline removal
// and envelope normalisation. It is not safe for concurrent use.
type Conditioner struct {
	cfg Config

	raw     *ring.Buffer[float64] // pre-filter values, sized for the boost window
	medians *ring.Buffer[float64]

	ema      float64
	baseline float64
	envelope float64
	prevNorm float64
	lastMs   int64
	primed   bool
}

// NewConditioner returns a Conditioner with empty history.
func NewConditioner(cfg Config) *Conditioner {
	rawCap := cfg.BoostWindow
	if cfg.MedianWindow > rawCap {
		rawCap = cfg.MedianWindow
	}
	return &Conditioner{
		cfg:     cfg,
		raw:     ring.New[float64](rawCap),
		medians: ring.New[float64](cfg.MovingAverageWindow),
	}
}

// Process pushes one raw intensity, captured at tsMs, through the chain.
// The slow trackers and the derivative are scaled by the gap to the
// previous sample, so their time constants do not depend on frame rate.
func (c *Conditioner) Process(tsMs int64, raw float64) Sample {
	c.raw.Push(raw)

	med := hrv.Median(c.raw.Tail(c.cfg.MedianWindow))
	c.medians.Push(med)
	smoothed := hrv.Mean(c.medians.Slice())

	boostWin := c.raw.Tail(c.cfg.BoostWindow)
	gain := c.gain(boostWin)
	if gain != 1 {
		center := hrv.Mean(boostWin)
		smoothed = center + (smoothed-center)*gain
	}

	step := c.cfg.referenceStepMs()
	dt := step
	if c.primed && tsMs > c.lastMs {
		dt = float64(tsMs - c.lastMs)
	}
	frames := dt / step

	if !c.primed {
		c.ema = smoothed
		c.baseline = smoothed
		c.envelope = c.cfg.EnvelopeFloor
		c.primed = true
	} else {
		c.ema = hrv.EMA(c.ema, smoothed, c.cfg.EMAAlpha)
		alpha := 1 - math.Pow(1-c.cfg.BaselineAlpha, frames)
		c.baseline = hrv.EMA(c.baseline, c.ema, alpha)
	}

	// Normalise against the envelope as it stood before this sample so a
	// crest reads above its neighbours instead of saturating at 1.
	ac := c.ema - c.baseline
	norm := ac / c.envelope
	c.envelope = math.Max(math.Abs(ac), c.envelope*math.Pow(c.cfg.EnvelopeDecay, frames))
	if c.envelope < c.cfg.EnvelopeFloor {
		c.envelope = c.cfg.EnvelopeFloor
	}

	s := Sample{
		Filtered:   c.ema,
		Baseline:   c.baseline,
		Normalized: norm,
		Derivative: (norm - c.prevNorm) / frames,
		Gain:       gain,
	}
	c.prevNorm = norm
	c.lastMs = tsMs
	return s
}

// gain maps the range of the recent raw window to a weak-signal boost.
func (c *Conditioner) gain(window []float64) float64 {
	if len(window) < 2 {
		return 1
	}
	span := hrv.PeakToPeak(window)
	if span >= c.cfg.BoostLowWatermark {
		return 1
	}
	if span <= 0 {
		return c.cfg.BoostMaxGain
	}
	return math.Min(c.cfg.BoostMaxGain, c.cfg.BoostLowWatermark/span)
}

// RawWindow returns a copy of the trailing pre-filter values, oldest first.
func (c *Conditioner) RawWindow() []float64 { return c.raw.Slice() }

// Reset clears all filter state.
func (c *Conditioner) Reset() {
	c.raw.Reset()
	c.medians.Reset()
	c.ema, c.baseline, c.envelope, c.prevNorm = 0, 0, 0, 0
	c.lastMs = 0
	c.primed = false
}
