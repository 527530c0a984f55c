package l5rhythm

import (
	"math"

	"github.com/banshee-data/pulse.report/internal/ppg/hrv"
)

// Maximum contribution of each quality term.
const (
	AmplitudePoints   = 40
	ConsistencyPoints = 30
	RegularityPoints  = 30
)

// QualityInput is the snapshot scored for one frame.
type QualityInput struct {
	Present   bool
	Filtered  []float64 // recent filtered values, oldest first
	Stability []float64 // recent per-frame stability scores
	RR        []uint32  // recent RR intervals, oldest first
}

// QualityBreakdown is the score split into its terms.
type QualityBreakdown struct {
	Amplitude   float64 `json:"amplitude"`
	Consistency float64 `json:"consistency"`
	Regularity  float64 `json:"regularity"`
	Total       uint8   `json:"total"`
}

// Scorer computes the composite 0-100 signal quality.
type Scorer struct {
	cfg QualityConfig
}

// NewScorer returns a Scorer.
func NewScorer(cfg QualityConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score returns the composite quality. It is 0 while the finger is absent
// or fewer than MinSamples filtered values exist.
func (s *Scorer) Score(in QualityInput) QualityBreakdown {
	if !in.Present || len(in.Filtered) < s.cfg.MinSamples {
		return QualityBreakdown{}
	}

	var b QualityBreakdown
	recent := in.Filtered[len(in.Filtered)-s.amplitudeWindow(len(in.Filtered)):]
	if s.cfg.AmplitudeFullScale > 0 {
		b.Amplitude = AmplitudePoints * hrv.Clamp(hrv.PeakToPeak(recent)/s.cfg.AmplitudeFullScale, 0, 1)
	}
	b.Consistency = ConsistencyPoints * hrv.Clamp(hrv.Mean(in.Stability), 0, 1)
	b.Regularity = s.regularity(in.RR)

	b.Total = uint8(math.Round(hrv.Clamp(b.Amplitude+b.Consistency+b.Regularity, 0, 100)))
	return b
}

// amplitudeWindow spans two MinSamples windows, enough to cover a full beat
// at the slowest accepted rate for typical frame rates.
func (s *Scorer) amplitudeWindow(n int) int {
	w := 2 * s.cfg.MinSamples
	if w > n || w <= 0 {
		return n
	}
	return w
}

func (s *Scorer) regularity(rr []uint32) float64 {
	valid := ValidRR(rr, s.cfg.MinBPM, s.cfg.MaxBPM)
	if len(valid) > s.cfg.RRWindow {
		valid = valid[len(valid)-s.cfg.RRWindow:]
	}
	if len(valid) < 2 || s.cfg.RRMaxAbsDeviationMs <= 0 {
		return 0
	}
	x := make([]float64, len(valid))
	for i, v := range valid {
		x[i] = float64(v)
	}
	mad := hrv.MeanAbsDeviation(x, hrv.Mean(x))
	return RegularityPoints * math.Max(0, 1-mad/s.cfg.RRMaxAbsDeviationMs)
}
