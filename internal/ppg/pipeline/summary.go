package pipeline

import (
	"github.com/banshee-data/pulse.report/internal/ppg/l6arrhythmia"
	"github.com/banshee-data/pulse.report/internal/ppg/spectral"
)

// Summary describes a finished (or in-progress) session.
type Summary struct {
	SessionID       string `json:"session_id"`
	FramesProcessed uint64 `json:"frames_processed"`
	InvalidFrames   uint64 `json:"invalid_frames"`
	PresentFrames   uint64 `json:"present_frames"`
	DurationMs      int64  `json:"duration_ms"`
	Peaks           uint64 `json:"peaks"`

	// FinalBPM is the trimmed mean of the current BPM history, or of the
	// history in force when the finger was last lost if the current one
	// is empty.
	FinalBPM    float64            `json:"final_bpm"`
	Spectral    *spectral.Estimate `json:"spectral,omitempty"`
	SpectralErr string             `json:"spectral_error,omitempty"`

	RRIntervals []uint32 `json:"rr_intervals"`

	Arrhythmia      l6arrhythmia.Status    `json:"arrhythmia"`
	ArrhythmiaCount uint32                 `json:"arrhythmia_count"`
	Baseline        *l6arrhythmia.Baseline `json:"baseline,omitempty"`
}

// Summary computes the end-of-session report. It may be called at any
// time and does not change processor state.
func (p *Processor) Summary() Summary {
	s := Summary{
		SessionID:       p.id,
		FramesProcessed: p.frames,
		InvalidFrames:   p.invalidFrames,
		PresentFrames:   p.presentFrames,
		Peaks:           p.peaks,
		FinalBPM:        p.rhythm.FinalBPM(),
		RRIntervals:     p.sessionRR.Slice(),
		Arrhythmia:      p.arrhythmia.Status(),
	}
	if p.started {
		s.DurationMs = p.lastTs - p.firstTs
	}
	if s.FinalBPM == 0 {
		s.FinalBPM = p.lostFinalBPM
	}
	s.ArrhythmiaCount = s.Arrhythmia.Count
	if b, ok := p.arrhythmia.Baseline(); ok {
		s.Baseline = &b
	}

	est, err := spectral.DominantBPM(
		p.filtered.Values(),
		spectral.SampleRate(p.filtered.Timestamps()),
		p.rhythmCfg.MinBPM, p.rhythmCfg.MaxBPM,
	)
	if err != nil {
		s.SpectralErr = err.Error()
	} else {
		s.Spectral = &est
	}
	return s
}
