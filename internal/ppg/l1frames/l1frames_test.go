package l1frames

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skinFrame(ts int64) FrameSample {
	return FrameSample{
		TimestampMs:    ts,
		RedMean:        150,
		GreenMean:      60,
		BlueMean:       40,
		TextureScore:   0.2,
		StabilityScore: 0.7,
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*FrameSample)
		wantErr bool
	}{
		{"valid", func(*FrameSample) {}, false},
		{"zero values are legal", func(f *FrameSample) { *f = FrameSample{} }, false},
		{"negative red", func(f *FrameSample) { f.RedMean = -1 }, true},
		{"nan green", func(f *FrameSample) { f.GreenMean = math.NaN() }, true},
		{"inf blue", func(f *FrameSample) { f.BlueMean = math.Inf(1) }, true},
		{"negative texture", func(f *FrameSample) { f.TextureScore = -0.1 }, true},
		{"nan stability", func(f *FrameSample) { f.StabilityScore = math.NaN() }, true},
		{"negative timestamp", func(f *FrameSample) { f.TimestampMs = -5 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := skinFrame(100)
			tt.mutate(&f)
			err := f.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidFrame), "error %v should wrap ErrInvalidFrame", err)
		})
	}
}

func TestRedGreenRatio(t *testing.T) {
	assert.InDelta(t, 2.5, skinFrame(0).RedGreenRatio(), 1e-12)
	assert.True(t, math.IsInf(FrameSample{RedMean: 10}.RedGreenRatio(), 1))
}

func TestWindowKeepsNewest(t *testing.T) {
	w := NewWindow(3)
	for i := 0; i < 5; i++ {
		f := skinFrame(int64(i) * 33)
		f.RedMean = float64(100 + i)
		f.StabilityScore = float64(i) / 10
		w.Push(f)
	}

	assert.Equal(t, 3, w.Len())
	assert.Equal(t, []float64{102, 103, 104}, w.RedValues(10))
	assert.Equal(t, []float64{103, 104}, w.RedValues(2))
	assert.InDeltaSlice(t, []float64{0.3, 0.4}, w.StabilityScores(2), 1e-12)
	assert.Equal(t, []float64{103, 104}, w.RedValuesSince(99))
	assert.Equal(t, []float64{102, 103, 104}, w.RedValuesSince(0))
	assert.Empty(t, w.RedValuesSince(200))
	assert.Equal(t, int64(66), w.SpanMs())

	last, ok := w.Last()
	require.True(t, ok)
	assert.Equal(t, int64(132), last.TimestampMs)

	w.Reset()
	assert.Equal(t, 0, w.Len())
	assert.Empty(t, w.RedValues(3))
	assert.Zero(t, w.SpanMs())
}
