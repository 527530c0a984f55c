package l2signal

import "github.com/banshee-data/pulse.report/internal/ppg/ring"

// FilteredSample is one entry of the filtered-value stream shared read-only
// with downstream consumers.
type FilteredSample struct {
	TimestampMs  int64   `json:"timestamp_ms"`
	Value        float64 `json:"value"`
	IsArrhythmia bool    `json:"is_arrhythmia"`
}

// FilteredBuffer keeps the most recent filtered samples. The oldest sample is
// evicted when the buffer is full.
type FilteredBuffer struct {
	buf *ring.Buffer[FilteredSample]
}

// NewFilteredBuffer returns an empty buffer holding at most capacity samples.
func NewFilteredBuffer(capacity int) *FilteredBuffer {
	return &FilteredBuffer{buf: ring.New[FilteredSample](capacity)}
}

// Push appends a sample.
func (b *FilteredBuffer) Push(tsMs int64, value float64) {
	b.buf.Push(FilteredSample{TimestampMs: tsMs, Value: value})
}

// Len reports the number of stored samples.
func (b *FilteredBuffer) Len() int { return b.buf.Len() }

// Cap reports the buffer capacity.
func (b *FilteredBuffer) Cap() int { return b.buf.Cap() }

// Samples returns a copy of the stored samples, oldest first.
func (b *FilteredBuffer) Samples() []FilteredSample { return b.buf.Slice() }

// Values returns a copy of the stored values, oldest first.
func (b *FilteredBuffer) Values() []float64 {
	out := make([]float64, b.buf.Len())
	for i := range out {
		out[i] = b.buf.At(i).Value
	}
	return out
}

// Timestamps returns a copy of the stored timestamps, oldest first.
func (b *FilteredBuffer) Timestamps() []int64 {
	out := make([]int64, b.buf.Len())
	for i := range out {
		out[i] = b.buf.At(i).TimestampMs
	}
	return out
}

// MarkArrhythmia flags every stored sample with fromMs <= ts <= toMs and
// returns how many were flagged.
func (b *FilteredBuffer) MarkArrhythmia(fromMs, toMs int64) int {
	n := 0
	for i := b.buf.Len() - 1; i >= 0; i-- {
		s := b.buf.At(i)
		if s.TimestampMs < fromMs {
			break
		}
		if s.TimestampMs > toMs {
			continue
		}
		s.IsArrhythmia = true
		b.buf.Set(i, s)
		n++
	}
	return n
}

// Reset drops every stored sample.
func (b *FilteredBuffer) Reset() { b.buf.Reset() }
