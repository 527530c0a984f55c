package units

import (
	"math"
	"testing"
)

func TestBPMFromRR(t *testing.T) {
	tests := []struct {
		rr   float64
		want float64
	}{
		{1000, 60},
		{500, 120},
		{300, 200},
		{2000, 30},
		{0, 0},
		{-10, 0},
	}
	for _, tt := range tests {
		if got := BPMFromRR(tt.rr); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("BPMFromRR(%v) = %v, want %v", tt.rr, got, tt.want)
		}
	}
}

func TestRRFromBPM(t *testing.T) {
	if got := RRFromBPM(72); math.Abs(got-833.333333) > 1e-3 {
		t.Errorf("RRFromBPM(72) = %v", got)
	}
	if got := RRFromBPM(0); got != 0 {
		t.Errorf("RRFromBPM(0) = %v, want 0", got)
	}
}

func TestRRBand(t *testing.T) {
	lo, hi := RRBand(30, 200)
	if lo != 300 || hi != 2000 {
		t.Errorf("RRBand(30, 200) = (%v, %v), want (300, 2000)", lo, hi)
	}
}

func TestIsPlausibleRR(t *testing.T) {
	tests := []struct {
		rr   float64
		want bool
	}{
		{300, true},
		{2000, true},
		{800, true},
		{299, false},
		{2001, false},
		{math.NaN(), false},
		{math.Inf(1), false},
	}
	for _, tt := range tests {
		if got := IsPlausibleRR(tt.rr, 30, 200); got != tt.want {
			t.Errorf("IsPlausibleRR(%v) = %v, want %v", tt.rr, got, tt.want)
		}
	}
}

func TestIsPlausibleBPM(t *testing.T) {
	if !IsPlausibleBPM(72, 30, 200) {
		t.Error("72 bpm should be plausible")
	}
	if IsPlausibleBPM(220, 30, 200) {
		t.Error("220 bpm should not be plausible")
	}
}
