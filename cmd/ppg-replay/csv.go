package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/banshee-data/pulse.report/internal/ppg/l1frames"
)

// csvColumns is the column order of a recorded session. A header row with
// these names is optional.
var csvColumns = []string{"timestamp_ms", "red", "green", "blue", "texture", "stability"}

// readFramesCSV parses a recorded session. Rows may omit the trailing
// texture and stability columns; missing values are 0. Lines starting with
// '#' are comments.
func readFramesCSV(r io.Reader) ([]l1frames.FrameSample, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var frames []l1frames.FrameSample
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line++
		if line == 1 && isHeader(rec) {
			continue
		}
		f, err := parseFrame(rec)
		if err != nil {
			return nil, fmt.Errorf("csv row %d: %w", line, err)
		}
		frames = append(frames, f)
	}
	if len(frames) == 0 {
		return nil, errors.New("csv contains no frames")
	}
	return frames, nil
}

func isHeader(rec []string) bool {
	return len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), csvColumns[0])
}

func parseFrame(rec []string) (l1frames.FrameSample, error) {
	if len(rec) < 4 || len(rec) > len(csvColumns) {
		return l1frames.FrameSample{}, fmt.Errorf("want 4 to %d fields, got %d", len(csvColumns), len(rec))
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(rec[0]), 10, 64)
	if err != nil {
		return l1frames.FrameSample{}, fmt.Errorf("%s: %w", csvColumns[0], err)
	}
	vals := make([]float64, len(csvColumns)-1)
	for i, field := range rec[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return l1frames.FrameSample{}, fmt.Errorf("%s: %w", csvColumns[i+1], err)
		}
		vals[i] = v
	}
	return l1frames.FrameSample{
		TimestampMs:    ts,
		RedMean:        vals[0],
		GreenMean:      vals[1],
		BlueMean:       vals[2],
		TextureScore:   vals[3],
		StabilityScore: vals[4],
	}, nil
}

// writeFramesCSV writes frames in the format readFramesCSV accepts.
func writeFramesCSV(w io.Writer, frames []l1frames.FrameSample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return err
	}
	fmtF := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	for _, f := range frames {
		rec := []string{
			strconv.FormatInt(f.TimestampMs, 10),
			fmtF(f.RedMean), fmtF(f.GreenMean), fmtF(f.BlueMean),
			fmtF(f.TextureScore), fmtF(f.StabilityScore),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
