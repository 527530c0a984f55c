package l1frames

import "github.com/banshee-data/pulse.report/internal/ppg/ring"

// Window keeps the most recent valid frames for the temporal presence
// gates. Invalid frames are never stored.
type Window struct {
	frames *ring.Buffer[FrameSample]
}

// NewWindow returns a Window retaining at most capacity frames.
func NewWindow(capacity int) *Window {
	return &Window{frames: ring.New[FrameSample](capacity)}
}

// Push records f.
func (w *Window) Push(f FrameSample) { w.frames.Push(f) }

// Len returns the number of frames held.
func (w *Window) Len() int { return w.frames.Len() }

// Reset forgets every frame.
func (w *Window) Reset() { w.frames.Reset() }

// Last returns the newest frame.
func (w *Window) Last() (FrameSample, bool) { return w.frames.Last() }

// RedValues returns the red means of the newest n frames, oldest first.
func (w *Window) RedValues(n int) []float64 {
	return project(w.frames.Tail(n), func(f FrameSample) float64 { return f.RedMean })
}

// RedValuesSince returns the red means of frames stamped at or after
// fromMs, oldest first.
func (w *Window) RedValuesSince(fromMs int64) []float64 {
	n := 0
	for i := w.frames.Len() - 1; i >= 0 && w.frames.At(i).TimestampMs >= fromMs; i-- {
		n++
	}
	return w.RedValues(n)
}

// SpanMs returns the time between the oldest and newest frame held.
func (w *Window) SpanMs() int64 {
	n := w.frames.Len()
	if n == 0 {
		return 0
	}
	return w.frames.At(n-1).TimestampMs - w.frames.At(0).TimestampMs
}

// StabilityScores returns the stability scores of the newest n frames,
// oldest first.
func (w *Window) StabilityScores(n int) []float64 {
	return project(w.frames.Tail(n), func(f FrameSample) float64 { return f.StabilityScore })
}

func project(frames []FrameSample, fn func(FrameSample) float64) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = fn(f)
	}
	return out
}
