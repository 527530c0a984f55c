package hrv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRMSSDHandComputed(t *testing.T) {
	tests := []struct {
		name string
		rr   []float64
		want float64
	}{
		{"empty", nil, 0},
		{"single", []float64{800}, 0},
		{"constant", []float64{800, 800, 800, 800}, 0},
		// diffs 50, -50, 50 -> mean sq 2500 -> 50
		{"zigzag", []float64{800, 850, 800, 850}, 50},
		// diffs 400, -400 -> 400
		{"alternating", []float64{600, 1000, 600}, 400},
		// diffs 10, 20, -30 -> (100+400+900)/3 = 466.67 -> 21.6025
		{"mixed", []float64{800, 810, 830, 800}, math.Sqrt(1400.0 / 3.0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RMSSD(tt.rr), 1e-9)
		})
	}
}

func TestRMSSDMatchesDefinition(t *testing.T) {
	rr := []float64{812, 790, 845, 1020, 640, 905, 777}
	var sum float64
	for i := 0; i+1 < len(rr); i++ {
		d := rr[i+1] - rr[i]
		sum += d * d
	}
	want := math.Sqrt(sum / float64(len(rr)-1))
	assert.InDelta(t, want, RMSSD(rr), 1e-9)
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, Median(nil))
	assert.Equal(t, 3.0, Median([]float64{5, 1, 3}))
	assert.Equal(t, 2.5, Median([]float64{4, 1, 3, 2}))

	in := []float64{3, 1, 2}
	Median(in)
	assert.Equal(t, []float64{3, 1, 2}, in, "input must not be reordered")
}

func TestTrim(t *testing.T) {
	x := []float64{10, 1, 9, 2, 8, 3, 7, 4, 6, 5}
	assert.Equal(t, []float64{3, 4, 5, 6, 7, 8}, Trim(x, 0.2))
	assert.InDelta(t, 5.5, TrimmedMean(x, 0.2), 1e-12)

	// Fewer than five values: floor(n*0.2) == 0, nothing trimmed.
	assert.Equal(t, []float64{1, 2, 3}, Trim([]float64{3, 1, 2}, 0.2))

	// Always keeps at least one value.
	assert.Len(t, Trim([]float64{1, 2}, 0.49), 2)
	assert.Empty(t, Trim(nil, 0.2))
}

func TestSDNNAndCV(t *testing.T) {
	assert.Equal(t, 0.0, SDNN([]float64{800}))
	// sample sd of {600, 1000} = sqrt(2*200^2/1) = 282.84
	assert.InDelta(t, 282.842712, SDNN([]float64{600, 1000}), 1e-6)
	// population sd 200 over mean 800
	assert.InDelta(t, 0.25, CoefficientOfVariation([]float64{600, 1000, 600, 1000}), 1e-12)
	assert.Equal(t, 0.0, CoefficientOfVariation(nil))
}

func TestRelativeVariation(t *testing.T) {
	assert.InDelta(t, 0.25, RelativeVariation([]float64{600, 1000}, 800), 1e-12)
	assert.Equal(t, 0.0, RelativeVariation([]float64{600}, 0))
	assert.InDelta(t, 200, MeanAbsDeviation([]float64{600, 1000}, 800), 1e-12)
}

func TestHistogramEntropyBits(t *testing.T) {
	assert.Equal(t, 0.0, HistogramEntropyBits(nil, 50))
	assert.Equal(t, 0.0, HistogramEntropyBits([]float64{800, 800, 810}, 50))
	assert.InDelta(t, 1.0, HistogramEntropyBits([]float64{600, 1000, 600, 1000}, 50), 1e-12)
	// Four equally populated bins -> 2 bits.
	assert.InDelta(t, 2.0, HistogramEntropyBits([]float64{600, 700, 800, 900}, 50), 1e-12)
	// Upper edge lands in its own bin rather than panicking.
	assert.InDelta(t, 1.0, HistogramEntropyBits([]float64{950, 1000}, 50), 1e-12)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, 0.0, PeakToPeak(nil))
	assert.Equal(t, 7.0, PeakToPeak([]float64{3, -2, 5}))
	assert.Equal(t, 5.0, EMA(0, 10, 0.5))
	assert.Equal(t, 1.0, Clamp(3, 0, 1))
	assert.Equal(t, 0.0, Clamp(-3, 0, 1))
	assert.Equal(t, 0.5, Clamp(0.5, 0, 1))
	assert.Equal(t, 0.0, Mean(nil))
}
