package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tone(n int, fps, hz, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 150 + amp*math.Sin(2*math.Pi*hz*float64(i)/fps)
	}
	return out
}

func TestDominantBPM(t *testing.T) {
	tests := []struct {
		name string
		fps  float64
		hz   float64
		want float64
	}{
		{"72 bpm at 30 fps", 30, 1.2, 72},
		{"55 bpm at 30 fps", 30, 55.0 / 60, 55},
		{"150 bpm at 60 fps", 60, 2.5, 150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			est, err := DominantBPM(tone(int(10*tt.fps), tt.fps, tt.hz, 3), tt.fps, 30, 200)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, est.BPM, 1.0)
			assert.Greater(t, est.Magnitude, 0.0)
		})
	}
}

func TestDominantBPMIgnoresOutOfBandEnergy(t *testing.T) {
	fps := 30.0
	values := tone(300, fps, 1.2, 3)
	drift := tone(300, fps, 0.1, 20) // respiration-like wander at 6 BPM
	for i := range values {
		values[i] += drift[i] - 150
	}
	est, err := DominantBPM(values, fps, 30, 200)
	require.NoError(t, err)
	assert.InDelta(t, 72, est.BPM, 1.5)
}

func TestDominantBPMErrors(t *testing.T) {
	_, err := DominantBPM(make([]float64, 10), 30, 30, 200)
	assert.ErrorIs(t, err, ErrTooShort)

	_, err = DominantBPM(tone(100, 30, 1, 1), 0, 30, 200)
	assert.ErrorIs(t, err, ErrBadRate)

	_, err = DominantBPM(make([]float64, 100), 30, 30, 200)
	assert.ErrorIs(t, err, ErrNoPeak, "a flat segment has no spectral peak")

	_, err = DominantBPM(tone(100, 30, 1, 1), 30, 60, 60.1)
	assert.ErrorIs(t, err, ErrEmptyRange)
}

func TestSampleRate(t *testing.T) {
	ts := make([]int64, 301)
	for i := range ts {
		ts[i] = int64(math.Round(float64(i) * 1000 / 30))
	}
	assert.InDelta(t, 30, SampleRate(ts), 1e-9)
	assert.Zero(t, SampleRate(ts[:1]))
	assert.Zero(t, SampleRate([]int64{5, 5}))
}
