package l2signal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pulse.report/internal/config"
)

// passthrough disables smoothing so boost arithmetic can be checked by hand.
func passthrough() Config {
	cfg := DefaultConfig()
	cfg.MedianWindow = 1
	cfg.MovingAverageWindow = 1
	cfg.EMAAlpha = 1
	return cfg
}

// frameMs is the timestamp of frame i at 30 fps.
func frameMs(i int) int64 { return int64(math.Round(float64(i) * 1000 / 30)) }

func TestDefaultConfigMatchesTuning(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ConfigFromTuning(config.EmptyTuningConfig()), cfg)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3, cfg.MedianWindow)
	assert.InDelta(t, 0.65, cfg.EMAAlpha, 1e-12)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero median", func(c *Config) { c.MedianWindow = 0 }},
		{"alpha above one", func(c *Config) { c.EMAAlpha = 1.2 }},
		{"zero baseline alpha", func(c *Config) { c.BaselineAlpha = 0 }},
		{"gain below one", func(c *Config) { c.BoostMaxGain = 0.5 }},
		{"zero envelope floor", func(c *Config) { c.EnvelopeFloor = 0 }},
		{"decay above one", func(c *Config) { c.EnvelopeDecay = 1.01 }},
		{"zero reference fps", func(c *Config) { c.ReferenceFPS = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConstantInputIsStationary(t *testing.T) {
	c := NewConditioner(DefaultConfig())
	var s Sample
	for i := 0; i < 100; i++ {
		s = c.Process(frameMs(i), 120)
	}
	assert.InDelta(t, 120, s.Filtered, 1e-9)
	assert.InDelta(t, 120, s.Baseline, 1e-9)
	assert.InDelta(t, 0, s.Normalized, 1e-9)
	assert.InDelta(t, 0, s.Derivative, 1e-9)
	assert.Equal(t, DefaultConfig().BoostMaxGain, s.Gain, "a flat window gets the full boost")
}

func TestMedianRejectsIsolatedSpike(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EMAAlpha = 1
	c := NewConditioner(cfg)
	for i, v := range []float64{100, 100, 100, 200, 100, 100, 100} {
		s := c.Process(frameMs(i), v)
		assert.InDelta(t, 100, s.Filtered, 1e-9, "spike leaked through for input %v", v)
	}
}

func TestBoostCentersThenScales(t *testing.T) {
	c := NewConditioner(passthrough())

	first := c.Process(0, 10)
	assert.Equal(t, 1.0, first.Gain)
	assert.InDelta(t, 10, first.Filtered, 1e-12)

	// Window {10, 11}: span 1 -> gain 2 around mean 10.5.
	second := c.Process(33, 11)
	assert.InDelta(t, 2, second.Gain, 1e-12)
	assert.InDelta(t, 11.5, second.Filtered, 1e-12)
}

func TestBoostDisabledForLargeRange(t *testing.T) {
	c := NewConditioner(passthrough())
	c.Process(0, 100)
	s := c.Process(33, 110)
	assert.Equal(t, 1.0, s.Gain)
	assert.InDelta(t, 110, s.Filtered, 1e-12)
}

func TestBoostGainIsCapped(t *testing.T) {
	c := NewConditioner(passthrough())
	c.Process(0, 100)
	s := c.Process(33, 100.1)
	assert.InDelta(t, DefaultConfig().BoostMaxGain, s.Gain, 1e-12)
}

func TestSineIsNormalised(t *testing.T) {
	c := NewConditioner(DefaultConfig())
	step := 1000 / DefaultConfig().ReferenceFPS
	var prev float64
	var prevMs int64
	maxNorm := 0.0
	for i := 0; i < 600; i++ {
		ts := frameMs(i)
		raw := 150 + 4*math.Sin(2*math.Pi*1.2*float64(ts)/1000)
		s := c.Process(ts, raw)
		if i > 0 {
			frames := float64(ts-prevMs) / step
			assert.InDelta(t, s.Normalized-prev, s.Derivative*frames, 1e-12)
		}
		prev, prevMs = s.Normalized, ts
		if i >= 300 {
			maxNorm = math.Max(maxNorm, math.Abs(s.Normalized))
			assert.InDelta(t, 150, s.Baseline, 1.0)
		}
	}
	assert.InDelta(t, 1.0, maxNorm, 0.1, "envelope should track the pulse amplitude")
}

// The same pulse sampled at different frame rates yields the same
// normalised shape and the same downslope steepness.
func TestConditioningIsFrameRateInvariant(t *testing.T) {
	run := func(fps float64) (maxNorm, steepest float64) {
		c := NewConditioner(DefaultConfig())
		for i := 0; i < int(20*fps); i++ {
			ts := int64(math.Round(float64(i) * 1000 / fps))
			s := c.Process(ts, 150+4*math.Sin(2*math.Pi*1.2*float64(ts)/1000))
			if ts < 10000 {
				continue
			}
			maxNorm = math.Max(maxNorm, math.Abs(s.Normalized))
			steepest = math.Min(steepest, s.Derivative)
			assert.InDelta(t, 150, s.Baseline, 1.0, "fps %v", fps)
		}
		return maxNorm, steepest
	}

	_, ref := run(30)
	require.Less(t, ref, 0.0)
	for _, fps := range []float64{15, 60, 120} {
		maxNorm, steepest := run(fps)
		assert.InDelta(t, 1.0, maxNorm, 0.1, "fps %v", fps)
		assert.InEpsilon(t, ref, steepest, 0.1, "fps %v", fps)
	}
}

func TestNonIncreasingTimestampUsesReferenceStep(t *testing.T) {
	a := NewConditioner(DefaultConfig())
	b := NewConditioner(DefaultConfig())
	var sa, sb Sample
	for i, v := range []float64{150, 152, 155, 151} {
		sa = a.Process(frameMs(i), v)
		sb = b.Process(0, v)
	}
	assert.InDelta(t, sa.Baseline, sb.Baseline, 0.05)
	assert.False(t, math.IsInf(sb.Derivative, 0) || math.IsNaN(sb.Derivative))
}

func TestRawWindowAndReset(t *testing.T) {
	c := NewConditioner(DefaultConfig())
	for i := 0; i < 15; i++ {
		c.Process(frameMs(i), float64(i))
	}
	win := c.RawWindow()
	require.Len(t, win, 10)
	assert.Equal(t, 5.0, win[0])
	assert.Equal(t, 14.0, win[9])

	c.Reset()
	assert.Empty(t, c.RawWindow())
	s := c.Process(1000, 42)
	assert.InDelta(t, 42, s.Filtered, 1e-12)
}

func TestFilteredBuffer(t *testing.T) {
	b := NewFilteredBuffer(4)
	for i := int64(0); i < 6; i++ {
		b.Push(i*100, float64(i))
	}

	require.Equal(t, 4, b.Len())
	assert.Equal(t, 4, b.Cap())
	assert.Equal(t, []float64{2, 3, 4, 5}, b.Values())
	assert.Equal(t, []int64{200, 300, 400, 500}, b.Timestamps())

	t.Run("mark range", func(t *testing.T) {
		assert.Equal(t, 2, b.MarkArrhythmia(300, 400))
		got := b.Samples()
		assert.False(t, got[0].IsArrhythmia)
		assert.True(t, got[1].IsArrhythmia)
		assert.True(t, got[2].IsArrhythmia)
		assert.False(t, got[3].IsArrhythmia)
	})

	t.Run("samples are copies", func(t *testing.T) {
		got := b.Samples()
		got[0].Value = 99
		assert.InDelta(t, 2, b.Samples()[0].Value, 1e-12)
	})

	b.Reset()
	assert.Zero(t, b.Len())
	assert.Zero(t, b.MarkArrhythmia(0, 1000))
}
