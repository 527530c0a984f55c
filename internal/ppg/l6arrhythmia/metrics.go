package l6arrhythmia

import (
	"math"

	"github.com/banshee-data/pulse.report/internal/ppg/hrv"
)

// Baseline is the reference rhythm learned at the start of a session. It
// is never refit once established.
type Baseline struct {
	MeanRR  float64 `json:"mean_rr_ms"`
	SDRR    float64 `json:"sd_rr_ms"`
	Samples int     `json:"samples"`
}

// ComputeBaseline trims fraction of the samples from each tail and returns
// the mean and sample standard deviation of the rest.
func ComputeBaseline(samples []float64, fraction float64) Baseline {
	kept := hrv.Trim(samples, fraction)
	return Baseline{
		MeanRR:  hrv.Mean(kept),
		SDRR:    hrv.SDNN(kept),
		Samples: len(kept),
	}
}

// Metrics are the four variability criteria for one RR window.
type Metrics struct {
	RMSSD       float64 `json:"rmssd_ms"`
	RRVariation float64 `json:"rr_variation"`
	CV          float64 `json:"cv"`
	Entropy     float64 `json:"entropy_bits"`
	Passed      int     `json:"passed"`
}

// ComputeMetrics evaluates window against the baseline mean and counts the
// criteria that reach their thresholds.
func ComputeMetrics(window []float64, meanRR float64, cfg Config) Metrics {
	m := Metrics{
		RMSSD:       hrv.RMSSD(window),
		RRVariation: hrv.RelativeVariation(window, meanRR),
		CV:          hrv.CoefficientOfVariation(window),
		Entropy:     hrv.HistogramEntropyBits(window, cfg.EntropyBinMs),
	}
	for _, pass := range []bool{
		m.RMSSD >= cfg.RMSSDThresholdMs,
		m.RRVariation >= cfg.RRVariationThreshold,
		m.CV >= cfg.CVThreshold,
		m.Entropy >= cfg.EntropyThresholdBits,
	} {
		if pass {
			m.Passed++
		}
	}
	return m
}

// Score maps metrics to 0..1. Fewer than three passing criteria score 0;
// otherwise each criterion contributes min(value/threshold, 2)/2 and the
// mean is damped by the prevention score.
func Score(m Metrics, prevention float64, cfg Config) float64 {
	if m.Passed < 3 {
		return 0
	}
	ratio := func(v, thr float64) float64 { return math.Min(v/thr, 2) / 2 }
	s := (ratio(m.RMSSD, cfg.RMSSDThresholdMs) +
		ratio(m.RRVariation, cfg.RRVariationThreshold) +
		ratio(m.CV, cfg.CVThreshold) +
		ratio(m.Entropy, cfg.EntropyThresholdBits)) / 4
	return hrv.Clamp(s*(1-prevention), 0, 1)
}
