// Package spectral estimates the dominant pulse rate of a filtered PPG
// segment in the frequency domain. It is an end-of-session cross-check
// for the beat-to-beat estimate, not part of the per-frame path.
package spectral

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"

	"github.com/banshee-data/pulse.report/internal/ppg/hrv"
	"github.com/banshee-data/pulse.report/internal/units"
)

// MinSamples is the shortest segment DominantBPM accepts.
const MinSamples = 64

// padFactor zero-pads the segment so that bins are finer than 1 BPM for
// typical session lengths.
const padFactor = 4

var (
	ErrTooShort   = errors.New("spectral: segment too short")
	ErrBadRate    = errors.New("spectral: sample rate must be positive")
	ErrNoPeak     = errors.New("spectral: no spectral peak in band")
	ErrEmptyRange = errors.New("spectral: BPM band is empty at this resolution")
)

// Estimate is the result of a spectral analysis.
type Estimate struct {
	BPM         float64 `json:"bpm"`
	FrequencyHz float64 `json:"frequency_hz"`
	Magnitude   float64 `json:"magnitude"`
	BinWidthHz  float64 `json:"bin_width_hz"`
}

// DominantBPM returns the strongest periodicity of values within
// [minBPM, maxBPM]. The segment is mean-removed, Hann-windowed and
// zero-padded; the peak bin is refined with parabolic interpolation.
func DominantBPM(values []float64, sampleRateHz, minBPM, maxBPM float64) (Estimate, error) {
	if len(values) < MinSamples {
		return Estimate{}, ErrTooShort
	}
	if sampleRateHz <= 0 || math.IsNaN(sampleRateHz) || math.IsInf(sampleRateHz, 0) {
		return Estimate{}, ErrBadRate
	}

	n := nextPow2(len(values) * padFactor)
	mean := hrv.Mean(values)
	win := window.Hann(len(values))
	buf := make([]float64, n)
	for i, v := range values {
		buf[i] = (v - mean) * win[i]
	}
	spectrum := fft.FFTReal(buf)

	binHz := sampleRateHz / float64(n)
	lo := int(math.Ceil(minBPM / units.MsPerMinute * 1000 / binHz))
	hi := int(math.Floor(maxBPM / units.MsPerMinute * 1000 / binHz))
	if lo < 1 {
		lo = 1
	}
	if hi > n/2-1 {
		hi = n/2 - 1
	}
	if lo > hi {
		return Estimate{}, ErrEmptyRange
	}

	best, bestMag := -1, 0.0
	for i := lo; i <= hi; i++ {
		if m := cmplx.Abs(spectrum[i]); m > bestMag {
			best, bestMag = i, m
		}
	}
	if best < 0 || bestMag == 0 {
		return Estimate{}, ErrNoPeak
	}

	delta := 0.0
	y1, y3 := cmplx.Abs(spectrum[best-1]), cmplx.Abs(spectrum[best+1])
	if den := 2 * (2*bestMag - y1 - y3); den != 0 {
		delta = (y3 - y1) / den
	}
	freq := (float64(best) + delta) * binHz
	bpm := hrv.Clamp(freq*60, minBPM, maxBPM)

	return Estimate{BPM: bpm, FrequencyHz: freq, Magnitude: bestMag, BinWidthHz: binHz}, nil
}

// SampleRate returns the mean sample rate implied by millisecond
// timestamps, or 0 when it cannot be determined.
func SampleRate(timestampsMs []int64) float64 {
	n := len(timestampsMs)
	if n < 2 {
		return 0
	}
	span := timestampsMs[n-1] - timestampsMs[0]
	if span <= 0 {
		return 0
	}
	return float64(n-1) * 1000 / float64(span)
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
