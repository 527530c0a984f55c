package l1frames

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidFrame is wrapped by every error returned from Validate.
var ErrInvalidFrame = errors.New("invalid frame")

// FrameSample is one camera frame reduced to channel statistics. Channel
// means are on the 0..255 intensity scale; texture and stability scores
// are in 0..1.
type FrameSample struct {
	TimestampMs    int64   `json:"timestamp_ms"`
	RedMean        float64 `json:"red_mean"`
	GreenMean      float64 `json:"green_mean"`
	BlueMean       float64 `json:"blue_mean"`
	TextureScore   float64 `json:"texture_score"`
	StabilityScore float64 `json:"stability_score"`
}

// Validate rejects frames carrying values no sampler can produce:
// non-finite or negative statistics, and a negative timestamp.
func (f FrameSample) Validate() error {
	if f.TimestampMs < 0 {
		return fmt.Errorf("%w: negative timestamp %d", ErrInvalidFrame, f.TimestampMs)
	}
	fields := []struct {
		name string
		v    float64
	}{
		{"red_mean", f.RedMean},
		{"green_mean", f.GreenMean},
		{"blue_mean", f.BlueMean},
		{"texture_score", f.TextureScore},
		{"stability_score", f.StabilityScore},
	}
	for _, fl := range fields {
		if math.IsNaN(fl.v) || math.IsInf(fl.v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidFrame, fl.name)
		}
		if fl.v < 0 {
			return fmt.Errorf("%w: %s is negative (%g)", ErrInvalidFrame, fl.name, fl.v)
		}
	}
	return nil
}

// RedGreenRatio returns RedMean/GreenMean, or +Inf when green is zero.
func (f FrameSample) RedGreenRatio() float64 {
	if f.GreenMean == 0 {
		return math.Inf(1)
	}
	return f.RedMean / f.GreenMean
}
