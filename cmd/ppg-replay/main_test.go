package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pulse.report/internal/ppg/l1frames"
	"github.com/banshee-data/pulse.report/internal/ppg/l4beats"
	"github.com/banshee-data/pulse.report/internal/ppg/pipeline"
	"github.com/banshee-data/pulse.report/internal/ppg/synth"
)

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    options
		wantErr string
	}{
		{
			name:    "no input",
			opts:    options{FPS: 30},
			wantErr: "one of -csv or -synth is required",
		},
		{
			name:    "both inputs",
			opts:    options{CSVPath: "a.csv", Synth: "sine", FPS: 30, Duration: time.Second},
			wantErr: "mutually exclusive",
		},
		{
			name:    "zero fps",
			opts:    options{Synth: "sine", Duration: time.Second},
			wantErr: "-fps must be positive",
		},
		{
			name:    "synthetic without duration",
			opts:    options{Synth: "sine", FPS: 30},
			wantErr: "-duration must be positive",
		},
		{
			name: "csv ignores duration",
			opts: options{CSVPath: "a.csv", FPS: 30},
		},
		{
			name: "synthetic",
			opts: options{Synth: "sine", FPS: 30, Duration: 20 * time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReadFramesCSV(t *testing.T) {
	in := strings.Join([]string{
		"# recorded on bench rig",
		"timestamp_ms,red,green,blue,texture,stability",
		"0, 180, 60, 40, 0.2, 0.9",
		"33,181.5,60,40",
		"67,182,61,41,0.25",
	}, "\n")

	frames, err := readFramesCSV(strings.NewReader(in))
	require.NoError(t, err)

	want := []l1frames.FrameSample{
		{TimestampMs: 0, RedMean: 180, GreenMean: 60, BlueMean: 40, TextureScore: 0.2, StabilityScore: 0.9},
		{TimestampMs: 33, RedMean: 181.5, GreenMean: 60, BlueMean: 40},
		{TimestampMs: 67, RedMean: 182, GreenMean: 61, BlueMean: 41, TextureScore: 0.25},
	}
	if diff := cmp.Diff(want, frames); diff != "" {
		t.Errorf("frames mismatch (-want +got):\n%s", diff)
	}
}

func TestReadFramesCSVErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr string
	}{
		{name: "empty", in: "", wantErr: "no frames"},
		{name: "header only", in: "timestamp_ms,red,green,blue\n", wantErr: "no frames"},
		{name: "short row", in: "0,180,60\n", wantErr: "want 4 to 6 fields, got 3"},
		{name: "long row", in: "0,1,2,3,4,5,6\n", wantErr: "got 7"},
		{name: "bad timestamp", in: "abc,180,60,40\n", wantErr: "timestamp_ms"},
		{name: "bad channel", in: "0,180,x,40\n", wantErr: "green"},
		{name: "row number", in: "0,180,60,40\n33,180,60,nan?\n", wantErr: "csv row 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readFramesCSV(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWriteFramesCSVReadsBack(t *testing.T) {
	cfg := synth.DefaultConfig()
	cfg.NoiseStd = 1.5
	frames := synth.New(cfg).Sine(45, 72)

	var buf bytes.Buffer
	require.NoError(t, writeFramesCSV(&buf, frames))
	assert.True(t, strings.HasPrefix(buf.String(), "timestamp_ms,red,green,blue,texture,stability\n"))

	got, err := readFramesCSV(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(frames, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRecorderStatusLineOncePerSecond(t *testing.T) {
	r := newRecorder(8)
	var emitted []int64
	for _, ts := range []int64{0, 500, 999, 1000, 1999, 2000, 2500} {
		if _, ok := r.statusLine(pipeline.Output{TimestampMs: ts}); ok {
			emitted = append(emitted, ts)
		}
	}
	assert.Equal(t, []int64{0, 1000, 2000}, emitted)
}

func TestRecorderMarksArrhythmiaSpans(t *testing.T) {
	r := newRecorder(8)
	for i := int64(0); i < 5; i++ {
		out := pipeline.Output{TimestampMs: i * 100, Valid: i != 2}
		out.HeartBeat.FilteredValue = float64(i)
		if i == 4 {
			out.Peak = &l4beats.Peak{TimestampMs: 400, Value: 4, IsArrhythmia: true}
			out.ArrhythmiaSpan = &pipeline.Span{FromMs: 250, ToMs: 400}
		}
		r.add(out)
	}

	s := r.series("title", "sub")
	require.Len(t, s.Samples, 4, "invalid frames are not plotted")
	require.Len(t, s.Peaks, 1)

	var marked []int64
	for _, smp := range s.Samples {
		if smp.IsArrhythmia {
			marked = append(marked, smp.TimestampMs)
		}
	}
	assert.Equal(t, []int64{300, 400}, marked)
}

func TestRunSyntheticSession(t *testing.T) {
	dir := t.TempDir()
	jsonOut := filepath.Join(dir, "summary.json")
	pngOut := filepath.Join(dir, "plots", "session.png")
	htmlOut := filepath.Join(dir, "session.html")
	csvOut := filepath.Join(dir, "frames.csv")

	opts := options{
		Synth:    synth.ScenarioSine,
		Duration: 10 * time.Second,
		FPS:      30,
		BPM:      72,
		Seed:     1,
		JSONPath: jsonOut,
		PNGPath:  pngOut,
		HTMLPath: htmlOut,
		DumpCSV:  csvOut,
	}

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), opts, &stdout, &stderr))

	out := stdout.String()
	assert.Contains(t, out, "final bpm")
	assert.Contains(t, out, "rhythm    NO_ARRHYTHMIA")
	assert.GreaterOrEqual(t, strings.Count(out, "t="), 9)
	assert.Contains(t, stderr.String(), "session_start")

	data, err := os.ReadFile(jsonOut)
	require.NoError(t, err)
	var sum pipeline.Summary
	require.NoError(t, json.Unmarshal(data, &sum))
	assert.Equal(t, uint64(300), sum.FramesProcessed)
	assert.InDelta(t, 72, sum.FinalBPM, 3)

	for _, p := range []string{pngOut, htmlOut, csvOut} {
		info, err := os.Stat(p)
		require.NoError(t, err, p)
		assert.Positive(t, info.Size(), p)
	}

	replayed, err := os.Open(csvOut)
	require.NoError(t, err)
	defer replayed.Close()
	frames, err := readFramesCSV(replayed)
	require.NoError(t, err)
	assert.Len(t, frames, 300)
}

func TestRunSummaryToStdout(t *testing.T) {
	opts := options{
		Synth:    synth.ScenarioFlat,
		Duration: 2 * time.Second,
		FPS:      30,
		BPM:      72,
		JSONPath: "-",
	}

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), opts, &stdout, &stderr))
	assert.Contains(t, stdout.String(), `"frames_processed": 60`)
	assert.Contains(t, stdout.String(), `"final_bpm": 0`)
}

func TestRunRejectsUnknownScenario(t *testing.T) {
	opts := options{Synth: "sawtooth", Duration: time.Second, FPS: 30, BPM: 72}
	err := run(context.Background(), opts, &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown scenario")
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	opts := options{Synth: synth.ScenarioSine, Duration: 5 * time.Second, FPS: 30, BPM: 72}
	err := run(ctx, opts, &bytes.Buffer{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}
