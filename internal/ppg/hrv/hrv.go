// Package hrv implements the bounded-memory statistics used by the rhythm
// and arrhythmia layers: robust location estimates and heart-rate
// variability metrics over short RR-interval windows.
//
// All functions take ordinary slices, never modify their input, and return
// 0 when there is not enough data for the metric to be defined.
package hrv

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean of x, or 0 for an empty slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}

// Median returns the median of x (mean of the two middle values for even
// lengths), or 0 for an empty slice.
func Median(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	s := sorted(x)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

// Trim returns a sorted copy of x with floor(len(x)*fraction) values removed
// from each tail. At least one value is always kept.
func Trim(x []float64, fraction float64) []float64 {
	s := sorted(x)
	if len(s) == 0 {
		return s
	}
	k := int(math.Floor(float64(len(s)) * fraction))
	if k < 0 {
		k = 0
	}
	if 2*k >= len(s) {
		k = (len(s) - 1) / 2
	}
	return s[k : len(s)-k]
}

// TrimmedMean returns the mean of x after trimming fraction of the values
// from each tail.
func TrimmedMean(x []float64, fraction float64) float64 {
	return Mean(Trim(x, fraction))
}

// SDNN returns the sample standard deviation of the intervals in x, or 0
// when fewer than two values exist.
func SDNN(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	return stat.StdDev(x, nil)
}

// RMSSD returns the root mean square of successive differences:
// sqrt(mean((x[i+1]-x[i])^2)). It is 0 when fewer than two values exist.
func RMSSD(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	var sum float64
	for i := 1; i < len(x); i++ {
		d := x[i] - x[i-1]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(x)-1))
}

// CoefficientOfVariation returns the population standard deviation of x
// divided by its mean, or 0 for empty input or a non-positive mean.
func CoefficientOfVariation(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	mean, std := stat.PopMeanStdDev(x, nil)
	if mean <= 0 {
		return 0
	}
	return std / mean
}

// MeanAbsDeviation returns the mean absolute deviation of x from center.
func MeanAbsDeviation(x []float64, center float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += math.Abs(v - center)
	}
	return sum / float64(len(x))
}

// RelativeVariation returns the mean absolute deviation of x from reference,
// expressed as a fraction of reference.
func RelativeVariation(x []float64, reference float64) float64 {
	if reference <= 0 {
		return 0
	}
	return MeanAbsDeviation(x, reference) / reference
}

// HistogramEntropyBits bins x into fixed-width bins and returns the Shannon
// entropy of the bin occupancy in bits. A single occupied bin yields 0.
func HistogramEntropyBits(x []float64, binWidth float64) float64 {
	if len(x) == 0 || binWidth <= 0 {
		return 0
	}
	s := sorted(x)
	lo := math.Floor(s[0]/binWidth) * binWidth
	hi := math.Floor(s[len(s)-1]/binWidth)*binWidth + binWidth
	dividers := floats.Span(make([]float64, int(math.Round((hi-lo)/binWidth))+1), lo, hi)
	counts := stat.Histogram(nil, dividers, s, nil)

	total := floats.Sum(counts)
	p := make([]float64, 0, len(counts))
	for _, c := range counts {
		if c > 0 {
			p = append(p, c/total)
		}
	}
	return stat.Entropy(p) / math.Ln2
}

// PeakToPeak returns max(x) - min(x), or 0 for an empty slice.
func PeakToPeak(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return floats.Max(x) - floats.Min(x)
}

// EMA advances an exponential moving average: prev + alpha*(value-prev).
func EMA(prev, value, alpha float64) float64 {
	return prev + alpha*(value-prev)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sorted(x []float64) []float64 {
	s := make([]float64, len(x))
	copy(s, x)
	sort.Float64s(s)
	return s
}
