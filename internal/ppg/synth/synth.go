// Package synth generates deterministic PPG frame sequences for replay,
// tests and demos: a sinusoidal pulse, a pulse train driven by an explicit
// RR list, a flat (uniform, textureless) image and a held (textured but
// unchanging) image.
package synth

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/banshee-data/pulse.report/internal/ppg/l1frames"
	"github.com/banshee-data/pulse.report/internal/units"
)

// Config describes the simulated sensor. Channel levels match a finger
// held over the lens with the torch on.
type Config struct {
	FPS          float64
	RedBase      float64
	Green        float64
	Blue         float64
	Amplitude    float64 // half peak-to-peak of the pulse on the red channel
	PulseWidthMs float64 // gaussian sigma of each beat's upstroke in a pulse train
	Texture      float64
	Stability    float64
	NoiseStd     float64 // gaussian noise on the red channel
	Seed         int64
	StartMs      int64
}

// DefaultConfig returns a clean 30 fps finger at 150 red / 60 green.
func DefaultConfig() Config {
	return Config{
		FPS:          30,
		RedBase:      150,
		Green:        60,
		Blue:         40,
		Amplitude:    3,
		PulseWidthMs: 100,
		Texture:      0.2,
		Stability:    0.7,
	}
}

// Generator emits consecutive frames. Successive calls continue the same
// timeline, so sequences can be concatenated into one session.
type Generator struct {
	cfg   Config
	rng   *rand.Rand
	frame int64
	phase float64
}

// New returns a Generator positioned at cfg.StartMs.
func New(cfg Config) *Generator {
	if cfg.FPS <= 0 {
		cfg.FPS = 30
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// FramesFor returns the number of frames covering durationMs.
func (g *Generator) FramesFor(durationMs int64) int {
	return int(math.Round(float64(durationMs) * g.cfg.FPS / 1000))
}

// NowMs returns the timestamp the next frame will carry.
func (g *Generator) NowMs() int64 { return g.timestamp(g.frame) }

func (g *Generator) timestamp(i int64) int64 {
	return g.cfg.StartMs + int64(math.Round(float64(i)*1000/g.cfg.FPS))
}

func (g *Generator) emit(red, texture float64) l1frames.FrameSample {
	if g.cfg.NoiseStd > 0 {
		red += g.rng.NormFloat64() * g.cfg.NoiseStd
	}
	f := l1frames.FrameSample{
		TimestampMs:    g.timestamp(g.frame),
		RedMean:        red,
		GreenMean:      g.cfg.Green,
		BlueMean:       g.cfg.Blue,
		TextureScore:   texture,
		StabilityScore: g.cfg.Stability,
	}
	g.frame++
	return f
}

// Sine returns n frames of a sinusoidal pulse at bpm.
func (g *Generator) Sine(n int, bpm float64) []l1frames.FrameSample {
	out := make([]l1frames.FrameSample, n)
	step := 2 * math.Pi * bpm / 60 / g.cfg.FPS
	for i := range out {
		out[i] = g.emit(g.cfg.RedBase+g.cfg.Amplitude*math.Sin(g.phase), g.cfg.Texture)
		g.phase += step
	}
	return out
}

// Pulses returns frames covering the sum of rr, with one beat at the end
// of each interval. A beat rises as a gaussian of PulseWidthMs and decays
// exponentially with a time constant of a third of its own interval, so
// slow rhythms spend most of each cycle in diastole. Beats are placed
// relative to the first frame of the call.
func (g *Generator) Pulses(rr []uint32) []l1frames.FrameSample {
	start := g.NowMs()
	beats := make([]float64, len(rr))
	taus := make([]float64, len(rr))
	maxTau := 0.0
	t := float64(start)
	for i, v := range rr {
		t += float64(v)
		beats[i] = t
		taus[i] = float64(v) / 3
		maxTau = math.Max(maxTau, taus[i])
	}
	end := int64(t)

	sigma := g.cfg.PulseWidthMs
	var out []l1frames.FrameSample
	for g.NowMs() < end {
		now := float64(g.NowMs())
		v := 0.0
		// Upstrokes within 5 sigma ahead.
		next := sort.Search(len(beats), func(i int) bool { return beats[i] > now })
		for k := next; k < len(beats) && beats[k]-now <= 5*sigma; k++ {
			z := (now - beats[k]) / sigma
			v += math.Exp(-0.5 * z * z)
		}
		// Decay tails within 10 time constants behind.
		for k := next - 1; k >= 0 && now-beats[k] <= 10*maxTau; k-- {
			if age := now - beats[k]; age <= 10*taus[k] {
				v += math.Exp(-age / taus[k])
			}
		}
		red := g.cfg.RedBase - g.cfg.Amplitude + 2*g.cfg.Amplitude*v
		out = append(out, g.emit(red, g.cfg.Texture))
	}
	return out
}

// Flat returns n frames of a uniform image: constant red and no texture.
func (g *Generator) Flat(n int) []l1frames.FrameSample {
	out := make([]l1frames.FrameSample, n)
	for i := range out {
		out[i] = g.emit(g.cfg.RedBase, 0)
	}
	return out
}

// Steady returns n frames of a finger held over the lens with the pulse
// gone: texture and stability intact, red constant.
func (g *Generator) Steady(n int) []l1frames.FrameSample {
	out := make([]l1frames.FrameSample, n)
	for i := range out {
		out[i] = g.emit(g.cfg.RedBase, g.cfg.Texture)
	}
	return out
}

// RegularRR returns n intervals at bpm.
func RegularRR(n int, bpm float64) []uint32 {
	rr := make([]uint32, n)
	for i := range rr {
		rr[i] = uint32(math.Round(units.RRFromBPM(bpm)))
	}
	return rr
}

// AlternatingRR returns n intervals alternating between short and long.
func AlternatingRR(n int, short, long uint32) []uint32 {
	rr := make([]uint32, n)
	for i := range rr {
		if i%2 == 0 {
			rr[i] = short
		} else {
			rr[i] = long
		}
	}
	return rr
}

// Scenario names accepted by Build.
const (
	ScenarioSine      = "sine"
	ScenarioPulses    = "pulses"
	ScenarioIrregular = "irregular"
	ScenarioFlat      = "flat"
	ScenarioLift      = "lift"
)

// Scenarios lists every name Build accepts.
var Scenarios = []string{ScenarioSine, ScenarioPulses, ScenarioIrregular, ScenarioFlat, ScenarioLift}

// Build generates a named scenario lasting roughly durationMs:
//
//	sine       sinusoidal pulse at bpm
//	pulses     pulse train at bpm
//	irregular  8 s of regular beats at 75 BPM, then alternating 600/1000 ms
//	flat       uniform image
//	lift       sine for the first 60%, then flat (finger removed)
func (g *Generator) Build(name string, durationMs int64, bpm float64) ([]l1frames.FrameSample, error) {
	n := g.FramesFor(durationMs)
	switch name {
	case ScenarioSine:
		return g.Sine(n, bpm), nil
	case ScenarioPulses:
		rr := units.RRFromBPM(bpm)
		if rr <= 0 {
			return nil, fmt.Errorf("synth: bpm must be positive, got %g", bpm)
		}
		return g.Pulses(RegularRR(int(float64(durationMs)/rr), bpm)), nil
	case ScenarioIrregular:
		lead := RegularRR(10, 75)
		rest := durationMs - 8000
		if rest < 0 {
			rest = 0
		}
		return g.Pulses(append(lead, AlternatingRR(int(rest/800), 600, 1000)...)), nil
	case ScenarioFlat:
		return g.Flat(n), nil
	case ScenarioLift:
		on := n * 6 / 10
		return append(g.Sine(on, bpm), g.Flat(n-on)...), nil
	default:
		return nil, fmt.Errorf("synth: unknown scenario %q (want one of %v)", name, Scenarios)
	}
}
