package l6arrhythmia

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodQuality = 80

// feeder drives a Detector with RR intervals on a running clock.
type feeder struct {
	d      *Detector
	tsMs   int64
	events []Event
}

func (f *feeder) add(rr uint32) Result {
	f.tsMs += int64(rr)
	res := f.d.AddRR(rr, f.tsMs, goodQuality)
	if res.Confirmed {
		f.events = append(f.events, *res.Event)
	}
	return res
}

func (f *feeder) repeat(rr uint32, n int) {
	for i := 0; i < n; i++ {
		f.add(rr)
	}
}

func (f *feeder) alternate(n int) []Result {
	out := make([]Result, n)
	for i := 0; i < n; i++ {
		rr := uint32(600)
		if i%2 == 1 {
			rr = 1000
		}
		out[i] = f.add(rr)
	}
	return out
}

func TestDefaultConfigValidates(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.ConsistencyRequired = 4
	assert.Error(t, cfg.Validate())
}

func TestComputeBaselineTrims(t *testing.T) {
	b := ComputeBaseline([]float64{800, 810, 790, 800, 805, 795, 400, 1500, 800, 800}, 0.2)
	assert.Equal(t, 6, b.Samples)
	assert.InDelta(t, 800, b.MeanRR, 1)
	assert.Less(t, b.SDRR, 10.0)
}

func TestLearningEndsOnSampleCount(t *testing.T) {
	f := &feeder{d: NewDetector(DefaultConfig())}
	for i := 0; i < 7; i++ {
		res := f.add(800)
		assert.Equal(t, PhaseLearning, res.Phase)
		assert.Equal(t, StatusCalibrating, f.d.Status().Phase)
	}
	res := f.add(800)
	assert.True(t, res.BaselineEstablished)
	assert.Equal(t, PhaseMonitoring, res.Phase)

	b, ok := f.d.Baseline()
	require.True(t, ok)
	assert.InDelta(t, 800, b.MeanRR, 1e-9)
	assert.Zero(t, b.SDRR)
	assert.Equal(t, "NO_ARRHYTHMIA|0", f.d.Status().String())
}

func TestLearningEndsOnDuration(t *testing.T) {
	f := &feeder{d: NewDetector(DefaultConfig())}
	for i := 0; i < 5; i++ {
		assert.False(t, f.add(1300).BaselineEstablished)
	}
	res := f.add(1300)
	assert.True(t, res.BaselineEstablished, "6 s elapsed with 6 samples")
	b, _ := f.d.Baseline()
	assert.Equal(t, 4, b.Samples)
}

func TestLearningIgnoresOutOfBandRR(t *testing.T) {
	f := &feeder{d: NewDetector(DefaultConfig())}
	f.repeat(350, 30)
	assert.Equal(t, PhaseLearning, f.d.Phase(), "350 ms is plausible but outside the learning band")

	res := f.d.AddRR(2500, f.tsMs+2500, goodQuality)
	assert.Equal(t, GateImplausibleRR, res.Gate)
}

func TestComputeMetricsAlternating(t *testing.T) {
	window := []float64{600, 1000, 600, 1000, 600, 1000, 600, 1000}
	m := ComputeMetrics(window, 800, DefaultConfig())

	assert.InDelta(t, 400, m.RMSSD, 1e-9)
	assert.InDelta(t, 0.25, m.RRVariation, 1e-12)
	assert.InDelta(t, 0.25, m.CV, 1e-12)
	assert.InDelta(t, 1.0, m.Entropy, 1e-12)
	assert.Equal(t, 4, m.Passed)
	assert.InDelta(t, 1.0, Score(m, 0, DefaultConfig()), 1e-12)
	assert.InDelta(t, 0.7, Score(m, 0.3, DefaultConfig()), 1e-12)
}

func TestScoreRequiresThreeCriteria(t *testing.T) {
	cfg := DefaultConfig()
	m := Metrics{RMSSD: 500, RRVariation: 1, CV: 0.01, Entropy: 0.1, Passed: 2}
	assert.Zero(t, Score(m, 0, cfg), "two strong metrics alone never score")

	steady := ComputeMetrics([]float64{800, 805, 795, 800, 810, 790, 800, 800}, 800, cfg)
	assert.Less(t, steady.Passed, 3)
	assert.Zero(t, Score(steady, 0, cfg))
}

// Scenario: stable 800 ms rhythm, then 20 beats alternating 600/1000 ms.
func TestSustainedIrregularityConfirmsOnce(t *testing.T) {
	cfg := DefaultConfig()
	f := &feeder{d: NewDetector(cfg)}
	f.repeat(800, 10)

	results := f.alternate(20)

	require.Len(t, f.events, 1, "exactly one confirmation")
	assert.True(t, results[7].Confirmed, "confirmed in the first qualifying window")
	assert.InDelta(t, 0.945, results[5].Score, 0.001, "mixed window scores just below threshold")
	assert.True(t, results[6].HighConfidence)

	first := f.events[0]
	assert.InDelta(t, 400, first.RMSSD, 1e-9)
	assert.InDelta(t, 0.25, first.RRVariation, 1e-12)

	for _, r := range results[8:] {
		assert.False(t, r.Confirmed)
		assert.InDelta(t, 0.7, r.Score, 1e-9, "prevention damps later windows")
	}

	st := f.d.Status()
	assert.Equal(t, StatusDetected, st.Phase)
	assert.Equal(t, "ARRHYTHMIA_DETECTED|1", st.String())
	require.NotNil(t, st.LastEvent)
	assert.Equal(t, first.TimestampMs, st.LastEvent.TimestampMs)

	// Well past the cooldown the pattern is still damped.
	f.alternate(40)
	assert.Len(t, f.events, 1)
	assert.GreaterOrEqual(t, f.tsMs-first.TimestampMs, cfg.CooldownMs)
}

func TestCooldownSpacesConfirmations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PreventionIncrement = 0
	f := &feeder{d: NewDetector(cfg)}
	f.repeat(800, 8)
	f.alternate(100)

	require.GreaterOrEqual(t, len(f.events), 2)
	for i := 1; i < len(f.events); i++ {
		gap := f.events[i].TimestampMs - f.events[i-1].TimestampMs
		assert.GreaterOrEqual(t, gap, cfg.CooldownMs)
	}
}

// In any rolling 60 s window there are at most MaxPerMinute events.
func TestRateLimitProperty(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PreventionIncrement = 0
	cfg.CooldownMs = 0
	cfg.ConsistencyRequired = 1
	f := &feeder{d: NewDetector(cfg)}
	f.repeat(800, 8)
	f.alternate(400)

	require.GreaterOrEqual(t, len(f.events), cfg.MaxPerMinute)
	for i, ev := range f.events {
		n := 0
		for _, other := range f.events[:i+1] {
			if ev.TimestampMs-other.TimestampMs < 60000 {
				n++
			}
		}
		require.LessOrEqual(t, n, cfg.MaxPerMinute, "event %d at %d ms", i, ev.TimestampMs)
	}
}

func TestPreventionDecaysAfterNormalRun(t *testing.T) {
	cfg := DefaultConfig()
	f := &feeder{d: NewDetector(cfg)}
	f.repeat(800, 10)
	f.alternate(8)
	require.Len(t, f.events, 1)
	assert.InDelta(t, 0.3, f.d.State().PreventionScore, 1e-12)

	decayed := false
	for i := 0; i < cfg.NormalBeatsForDecay; i++ {
		if f.add(800).PreventionDecayed {
			decayed = true
		}
	}
	assert.True(t, decayed)
	assert.InDelta(t, 0.15, f.d.State().PreventionScore, 1e-12)
	assert.Zero(t, f.d.State().ConsecutiveNormalBeats)
}

func TestMonitoringGates(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("low quality", func(t *testing.T) {
		f := &feeder{d: NewDetector(cfg)}
		f.repeat(800, 16)
		res := f.d.AddRR(600, f.tsMs+600, 20)
		assert.Equal(t, GateLowQuality, res.Gate)
		assert.False(t, res.Evaluated)
	})

	t.Run("window filling", func(t *testing.T) {
		f := &feeder{d: NewDetector(cfg)}
		f.repeat(800, 8)
		assert.Equal(t, GateWindowFilling, f.add(800).Gate)
	})

	t.Run("baseline shift", func(t *testing.T) {
		f := &feeder{d: NewDetector(cfg)}
		f.repeat(800, 8)
		var res Result
		for i := 0; i < cfg.WindowSize; i++ {
			res = f.add(1100)
		}
		assert.Equal(t, GateBaselineShift, res.Gate)
		b, _ := f.d.Baseline()
		assert.InDelta(t, 800, b.MeanRR, 1e-9, "baseline is never refit")
	})

	t.Run("steady rhythm evaluates to zero", func(t *testing.T) {
		f := &feeder{d: NewDetector(cfg)}
		f.repeat(800, 8)
		var res Result
		for i := 0; i < cfg.WindowSize; i++ {
			res = f.add(uint32(800 + 10*(i%3)))
		}
		assert.True(t, res.Evaluated)
		assert.Zero(t, res.Score)
		assert.False(t, math.IsNaN(res.Metrics.Entropy))
	})
}
