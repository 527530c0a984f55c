package report

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pulse.report/internal/ppg/l2signal"
	"github.com/banshee-data/pulse.report/internal/ppg/l4beats"
)

func sineSeries(n int) Series {
	s := Series{Title: "synthetic 72 bpm", Subtitle: "test"}
	for i := 0; i < n; i++ {
		ts := int64(1000 + i*33)
		s.Samples = append(s.Samples, l2signal.FilteredSample{
			TimestampMs:  ts,
			Value:        150 + 3*math.Sin(2*math.Pi*1.2*float64(ts)/1000),
			IsArrhythmia: i >= n-10,
		})
	}
	s.Peaks = []l4beats.Peak{
		{TimestampMs: 1200, Value: 0.9, Confidence: 0.75},
		{TimestampMs: 2033, Value: 0.95, Confidence: 1, IsArrhythmia: true},
	}
	return s
}

func TestValueAt(t *testing.T) {
	samples := []l2signal.FilteredSample{
		{TimestampMs: 100, Value: 1},
		{TimestampMs: 200, Value: 2},
		{TimestampMs: 300, Value: 3},
	}
	tests := []struct {
		ts     int64
		want   float64
		wantOK bool
	}{
		{ts: 50, wantOK: false},
		{ts: 100, want: 1, wantOK: true},
		{ts: 250, want: 2, wantOK: true},
		{ts: 300, want: 3, wantOK: true},
		{ts: 900, want: 3, wantOK: true},
	}
	for _, tt := range tests {
		got, ok := valueAt(samples, tt.ts)
		assert.Equal(t, tt.wantOK, ok, "ts=%d", tt.ts)
		if tt.wantOK {
			assert.InDelta(t, tt.want, got, 1e-12, "ts=%d", tt.ts)
		}
	}
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plots", "session.png")
	require.NoError(t, WritePNG(path, sineSeries(120)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, sineSeries(120)))

	html := buf.String()
	assert.Contains(t, html, "synthetic 72 bpm")
	assert.Contains(t, html, "peaks")
	assert.Contains(t, html, "arrhythmia")
}

func TestWriteHTMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.html")
	require.NoError(t, WriteHTMLFile(path, sineSeries(30)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<html")
}

func TestEmptySeries(t *testing.T) {
	dir := t.TempDir()
	assert.ErrorIs(t, WritePNG(filepath.Join(dir, "x.png"), Series{}), ErrNoSamples)
	assert.ErrorIs(t, WriteHTML(&bytes.Buffer{}, Series{}), ErrNoSamples)
}
