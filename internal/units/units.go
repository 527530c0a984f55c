// Package units provides shared conversions and plausibility checks for
// heart-rate quantities. RR intervals are carried in milliseconds and rates
// in beats per minute throughout the repository.
package units

import "math"

// MsPerMinute is the number of milliseconds in one minute.
const MsPerMinute = 60000.0

// BPMFromRR converts an RR interval in milliseconds to beats per minute.
// Non-positive intervals yield 0.
func BPMFromRR(rrMs float64) float64 {
	if rrMs <= 0 {
		return 0
	}
	return MsPerMinute / rrMs
}

// RRFromBPM converts a rate in beats per minute to an RR interval in milliseconds.
// Non-positive rates yield 0.
func RRFromBPM(bpm float64) float64 {
	if bpm <= 0 {
		return 0
	}
	return MsPerMinute / bpm
}

// RRBand returns the plausible RR interval band [min, max] in milliseconds
// implied by a BPM band.
func RRBand(minBPM, maxBPM float64) (minRR, maxRR float64) {
	return RRFromBPM(maxBPM), RRFromBPM(minBPM)
}

// IsPlausibleRR reports whether rrMs lies inside the band implied by the
// BPM limits. The comparison tolerates rounding to whole milliseconds.
func IsPlausibleRR(rrMs, minBPM, maxBPM float64) bool {
	if math.IsNaN(rrMs) || math.IsInf(rrMs, 0) {
		return false
	}
	lo, hi := RRBand(minBPM, maxBPM)
	return rrMs >= math.Floor(lo) && rrMs <= math.Ceil(hi)
}

// IsPlausibleBPM reports whether bpm lies in [minBPM, maxBPM].
func IsPlausibleBPM(bpm, minBPM, maxBPM float64) bool {
	return bpm >= minBPM && bpm <= maxBPM
}
