// Package report renders a processed session as a static PNG plot or an
// interactive HTML chart: the filtered waveform with confirmed peaks overlaid
// and arrhythmic stretches highlighted.
package report

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/pulse.report/internal/ppg/l2signal"
	"github.com/banshee-data/pulse.report/internal/ppg/l4beats"
)

// ErrNoSamples is returned when a Series has nothing to plot.
var ErrNoSamples = errors.New("report: no filtered samples")

// Series is everything a report draws.
type Series struct {
	Title    string
	Subtitle string
	Samples  []l2signal.FilteredSample
	Peaks    []l4beats.Peak
}

var (
	waveColor      = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	peakColor      = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	arrhythmiaRed  = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	defaultTitle   = "PPG session"
	pngWidth       = 14 * vg.Inch
	pngHeight      = 6 * vg.Inch
	htmlChartWidth = "1200px"
)

// seconds converts a timestamp to seconds relative to origin.
func seconds(tsMs, originMs int64) float64 {
	return float64(tsMs-originMs) / 1000
}

func (s Series) title() string {
	if s.Title == "" {
		return defaultTitle
	}
	return s.Title
}

func (s Series) origin() int64 { return s.Samples[0].TimestampMs }

// WritePNG saves the series as a PNG (or any extension gonum/plot supports)
// at path, creating the parent directory if needed.
func WritePNG(path string, s Series) error {
	if len(s.Samples) == 0 {
		return ErrNoSamples
	}
	origin := s.origin()

	p := plot.New()
	p.Title.Text = s.title()
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Filtered intensity"

	wave := make(plotter.XYs, 0, len(s.Samples))
	var flagged plotter.XYs
	for _, fs := range s.Samples {
		pt := plotter.XY{X: seconds(fs.TimestampMs, origin), Y: fs.Value}
		wave = append(wave, pt)
		if fs.IsArrhythmia {
			flagged = append(flagged, pt)
		}
	}

	line, err := plotter.NewLine(wave)
	if err != nil {
		return fmt.Errorf("filtered line: %w", err)
	}
	line.Color = waveColor
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add("filtered", line)

	if len(flagged) > 0 {
		sc, err := plotter.NewScatter(flagged)
		if err != nil {
			return fmt.Errorf("arrhythmia scatter: %w", err)
		}
		sc.GlyphStyle.Color = arrhythmiaRed
		sc.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(sc)
		p.Legend.Add("arrhythmia", sc)
	}

	if peaks := peakXYs(s, origin); len(peaks) > 0 {
		sc, err := plotter.NewScatter(peaks)
		if err != nil {
			return fmt.Errorf("peak scatter: %w", err)
		}
		sc.GlyphStyle.Color = peakColor
		sc.GlyphStyle.Shape = draw.TriangleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(4)
		p.Add(sc)
		p.Legend.Add("peaks", sc)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create plot dir: %w", err)
		}
	}
	if err := p.Save(pngWidth, pngHeight, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}

// peakXYs places each peak at the filtered value nearest its timestamp, so
// markers sit on the drawn waveform rather than at the normalised peak value.
func peakXYs(s Series, origin int64) plotter.XYs {
	out := make(plotter.XYs, 0, len(s.Peaks))
	for _, pk := range s.Peaks {
		v, ok := valueAt(s.Samples, pk.TimestampMs)
		if !ok {
			continue
		}
		out = append(out, plotter.XY{X: seconds(pk.TimestampMs, origin), Y: v})
	}
	return out
}

// valueAt returns the filtered value with the closest timestamp not after
// tsMs. Samples are ordered by time.
func valueAt(samples []l2signal.FilteredSample, tsMs int64) (float64, bool) {
	if len(samples) == 0 || tsMs < samples[0].TimestampMs {
		return 0, false
	}
	lo, hi := 0, len(samples)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if samples[mid].TimestampMs <= tsMs {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return samples[lo].Value, true
}

// WriteHTML renders the series as a self-contained echarts page.
func WriteHTML(w io.Writer, s Series) error {
	if len(s.Samples) == 0 {
		return ErrNoSamples
	}
	origin := s.origin()

	wave := make([]opts.LineData, 0, len(s.Samples))
	var flagged []opts.ScatterData
	for _, fs := range s.Samples {
		x := seconds(fs.TimestampMs, origin)
		wave = append(wave, opts.LineData{Value: []interface{}{x, fs.Value}})
		if fs.IsArrhythmia {
			flagged = append(flagged, opts.ScatterData{Value: []interface{}{x, fs.Value}})
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: s.title(), Width: htmlChartWidth, Height: "520px"}),
		charts.WithTitleOpts(opts.Title{Title: s.title(), Subtitle: s.Subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "Time (s)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Filtered", Scale: opts.Bool(true)}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	)
	line.AddSeries("filtered", wave,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		charts.WithLineStyleOpts(opts.LineStyle{Width: 1, Color: "#1f77b4"}),
	)

	peaks := make([]opts.ScatterData, 0, len(s.Peaks))
	for _, pk := range s.Peaks {
		v, ok := valueAt(s.Samples, pk.TimestampMs)
		if !ok {
			continue
		}
		peaks = append(peaks, opts.ScatterData{
			Name:  fmt.Sprintf("conf %.2f", pk.Confidence),
			Value: []interface{}{seconds(pk.TimestampMs, origin), v},
		})
	}
	peakScatter := charts.NewScatter()
	peakScatter.AddSeries("peaks", peaks,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 9}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#2ca02c"}),
	)
	line.Overlap(peakScatter)

	if len(flagged) > 0 {
		arr := charts.NewScatter()
		arr.AddSeries("arrhythmia", flagged,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "#d62728"}),
		)
		line.Overlap(arr)
	}

	page := components.NewPage()
	page.SetPageTitle(s.title())
	page.AddCharts(line)
	return page.Render(w)
}

// WriteHTMLFile is WriteHTML into a new file at path.
func WriteHTMLFile(path string, s Series) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close report: %w", cerr)
		}
	}()
	return WriteHTML(f, s)
}
