// Command ppg-replay runs a recorded or synthetic PPG session through the
// processing pipeline and reports heart rate, signal quality and rhythm
// status.
//
// Usage:
//
//	go run ./cmd/ppg-replay -synth sine -bpm 72 -duration 20s
//	go run ./cmd/ppg-replay -csv session.csv -json summary.json -png session.png
//
// CSV input has the columns timestamp_ms,red,green,blue[,texture[,stability]]
// with an optional header row.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/banshee-data/pulse.report/internal/config"
	"github.com/banshee-data/pulse.report/internal/monitoring"
	"github.com/banshee-data/pulse.report/internal/ppg/l1frames"
	"github.com/banshee-data/pulse.report/internal/ppg/l2signal"
	"github.com/banshee-data/pulse.report/internal/ppg/l4beats"
	"github.com/banshee-data/pulse.report/internal/ppg/pipeline"
	"github.com/banshee-data/pulse.report/internal/ppg/report"
	"github.com/banshee-data/pulse.report/internal/ppg/synth"
	"github.com/banshee-data/pulse.report/internal/timeutil"
	"github.com/banshee-data/pulse.report/internal/version"
)

var (
	csvPath     = flag.String("csv", "", "Recorded session CSV to replay")
	synthName   = flag.String("synth", "", "Synthetic scenario to generate (sine, pulses, irregular, flat, lift)")
	duration    = flag.Duration("duration", 20*time.Second, "Length of a synthetic session")
	fps         = flag.Float64("fps", 30, "Frame rate of a synthetic session, and replay rate with -realtime")
	bpm         = flag.Float64("bpm", 72, "Heart rate of a synthetic session")
	noise       = flag.Float64("noise", 0, "Gaussian noise (red channel std dev) added to a synthetic session")
	seed        = flag.Int64("seed", 1, "Noise seed for a synthetic session")
	configPath  = flag.String("config", "", "Tuning config JSON (defaults to "+config.DefaultConfigPath+")")
	jsonPath    = flag.String("json", "", "Write the session summary as JSON to this path (- for stdout)")
	pngPath     = flag.String("png", "", "Write a PNG plot of the filtered signal to this path")
	htmlPath    = flag.String("html", "", "Write an interactive HTML chart to this path")
	dumpCSVPath = flag.String("dump-csv", "", "Write the replayed frames as CSV to this path")
	verbose     = flag.Bool("verbose", false, "Log presence, peak and rhythm events")
	realtime    = flag.Bool("realtime", false, "Pace frames at -fps instead of replaying as fast as possible")
	showVersion = flag.Bool("version", false, "Print version information and exit")
)

// options is the parsed command line, separated from the flag globals so
// run can be driven from tests.
type options struct {
	CSVPath    string
	Synth      string
	Duration   time.Duration
	FPS        float64
	BPM        float64
	Noise      float64
	Seed       int64
	ConfigPath string
	JSONPath   string
	PNGPath    string
	HTMLPath   string
	DumpCSV    string
	Verbose    bool
	Realtime   bool
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("ppg-replay %s (git %s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	opts := options{
		CSVPath:    *csvPath,
		Synth:      *synthName,
		Duration:   *duration,
		FPS:        *fps,
		BPM:        *bpm,
		Noise:      *noise,
		Seed:       *seed,
		ConfigPath: *configPath,
		JSONPath:   *jsonPath,
		PNGPath:    *pngPath,
		HTMLPath:   *htmlPath,
		DumpCSV:    *dumpCSVPath,
		Verbose:    *verbose,
		Realtime:   *realtime,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout, os.Stderr); err != nil {
		log.Fatalf("ppg-replay: %v", err)
	}
}

func (o options) validate() error {
	switch {
	case o.CSVPath == "" && o.Synth == "":
		return errors.New("one of -csv or -synth is required")
	case o.CSVPath != "" && o.Synth != "":
		return errors.New("-csv and -synth are mutually exclusive")
	case o.FPS <= 0:
		return fmt.Errorf("-fps must be positive, got %g", o.FPS)
	case o.Synth != "" && o.Duration <= 0:
		return fmt.Errorf("-duration must be positive, got %s", o.Duration)
	}
	return nil
}

// loadTuning reads path, or the repository defaults when path is empty.
// Outside a checkout the built-in layer defaults apply.
func loadTuning(path string) (*config.TuningConfig, error) {
	if path != "" {
		return config.LoadTuningConfig(path)
	}
	cfg, err := config.LoadTuningConfig(config.DefaultConfigPath)
	if errors.Is(err, fs.ErrNotExist) {
		monitoring.Diagf("%s not found, using built-in defaults", config.DefaultConfigPath)
		return config.EmptyTuningConfig(), nil
	}
	return cfg, err
}

func loadFrames(o options, clock timeutil.Clock) ([]l1frames.FrameSample, error) {
	if o.CSVPath != "" {
		f, err := os.Open(o.CSVPath)
		if err != nil {
			return nil, fmt.Errorf("open csv: %w", err)
		}
		defer f.Close()
		return readFramesCSV(f)
	}

	sc := synth.DefaultConfig()
	sc.FPS = o.FPS
	sc.NoiseStd = o.Noise
	sc.Seed = o.Seed
	if o.Realtime {
		sc.StartMs = timeutil.UnixMillis(clock.Now())
	}
	return synth.New(sc).Build(o.Synth, o.Duration.Milliseconds(), o.BPM)
}

// run replays one session and writes its reports. Status lines go to
// stdout once per second of session time; logs go to stderr.
func run(ctx context.Context, o options, stdout, stderr io.Writer) error {
	if err := o.validate(); err != nil {
		return err
	}

	writers := monitoring.LogWriters{Ops: stderr}
	if o.Verbose {
		writers.Diag = stderr
		writers.Trace = stderr
	}
	monitoring.SetLogWriters(writers)
	defer monitoring.SetLogWriters(monitoring.LogWriters{})

	tuning, err := loadTuning(o.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	proc, err := pipeline.NewProcessor(tuning)
	if err != nil {
		return err
	}

	clock := timeutil.RealClock{}
	frames, err := loadFrames(o, clock)
	if err != nil {
		return err
	}
	if o.DumpCSV != "" {
		if err := dumpFrames(o.DumpCSV, frames); err != nil {
			return err
		}
	}

	monitoring.Opsf("session %s: %d frames", proc.SessionID(), len(frames))

	var in <-chan l1frames.FrameSample
	if o.Realtime {
		in = synth.Stream(ctx, clock, frames, o.FPS)
	} else {
		in = feed(ctx, frames)
	}

	rec := newRecorder(len(frames))
	sess := pipeline.NewSession(proc, monitoring.LogSink{})
	for out := range sess.Run(ctx, in) {
		rec.add(out)
		if line, ok := rec.statusLine(out); ok {
			fmt.Fprintln(stdout, line)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	sum := proc.Summary()
	printSummary(stdout, sum)

	if o.JSONPath != "" {
		if err := writeJSON(o.JSONPath, stdout, sum); err != nil {
			return err
		}
	}
	series := rec.series(fmt.Sprintf("PPG session %s", sum.SessionID[:8]),
		fmt.Sprintf("final %.1f bpm, %d arrhythmia events", sum.FinalBPM, sum.ArrhythmiaCount))
	if o.PNGPath != "" {
		if err := report.WritePNG(o.PNGPath, series); err != nil {
			return fmt.Errorf("write png: %w", err)
		}
		monitoring.Logf("wrote %s", o.PNGPath)
	}
	if o.HTMLPath != "" {
		if err := report.WriteHTMLFile(o.HTMLPath, series); err != nil {
			return fmt.Errorf("write html: %w", err)
		}
		monitoring.Logf("wrote %s", o.HTMLPath)
	}
	return nil
}

// feed delivers frames without pacing.
func feed(ctx context.Context, frames []l1frames.FrameSample) <-chan l1frames.FrameSample {
	ch := make(chan l1frames.FrameSample)
	go func() {
		defer close(ch)
		for _, f := range frames {
			select {
			case ch <- f:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

// recorder keeps the whole session's filtered stream and peaks for plots;
// the processor itself only retains a bounded window.
type recorder struct {
	filtered   *l2signal.FilteredBuffer
	peaks      []l4beats.Peak
	lastStatus int64
	started    bool
}

func newRecorder(frames int) *recorder {
	if frames < 1 {
		frames = 1
	}
	return &recorder{filtered: l2signal.NewFilteredBuffer(frames)}
}

func (r *recorder) add(out pipeline.Output) {
	if out.Valid {
		r.filtered.Push(out.TimestampMs, out.HeartBeat.FilteredValue)
	}
	if out.Peak != nil {
		r.peaks = append(r.peaks, *out.Peak)
	}
	if sp := out.ArrhythmiaSpan; sp != nil {
		r.filtered.MarkArrhythmia(sp.FromMs, sp.ToMs)
	}
}

// statusLine returns a one-line status at most once per second of session
// time.
func (r *recorder) statusLine(out pipeline.Output) (string, bool) {
	if r.started && out.TimestampMs-r.lastStatus < 1000 {
		return "", false
	}
	r.started, r.lastStatus = true, out.TimestampMs
	hb := out.HeartBeat
	return fmt.Sprintf("t=%8d present=%-5t bpm=%3d quality=%3d rr=%d %s",
		out.TimestampMs, out.Presence.Present, hb.BPM, hb.SignalQuality, len(hb.RRIntervals), out.Arrhythmia), true
}

func (r *recorder) series(title, subtitle string) report.Series {
	return report.Series{
		Title:    title,
		Subtitle: subtitle,
		Samples:  r.filtered.Samples(),
		Peaks:    r.peaks,
	}
}

func printSummary(w io.Writer, s pipeline.Summary) {
	fmt.Fprintf(w, "session   %s\n", s.SessionID)
	fmt.Fprintf(w, "frames    %d (%d invalid, %d with finger present)\n", s.FramesProcessed, s.InvalidFrames, s.PresentFrames)
	fmt.Fprintf(w, "duration  %.1fs\n", float64(s.DurationMs)/1000)
	fmt.Fprintf(w, "final bpm %.1f\n", s.FinalBPM)
	if s.Spectral != nil {
		fmt.Fprintf(w, "spectral  %.1f bpm\n", s.Spectral.BPM)
	} else {
		fmt.Fprintf(w, "spectral  n/a (%s)\n", s.SpectralErr)
	}
	fmt.Fprintf(w, "peaks     %d, %d RR intervals\n", s.Peaks, len(s.RRIntervals))
	fmt.Fprintf(w, "rhythm    %s\n", s.Arrhythmia)
}

func writeJSON(path string, stdout io.Writer, sum pipeline.Summary) error {
	data, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	data = append(data, '\n')
	if path == "-" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	monitoring.Logf("wrote %s", path)
	return nil
}

func dumpFrames(path string, frames []l1frames.FrameSample) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	if err := writeFramesCSV(f, frames); err != nil {
		f.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	return f.Close()
}
