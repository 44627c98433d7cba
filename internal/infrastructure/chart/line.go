// Package chart renders the joined indicator table into the line-chart
// artifact: one mean line per income group in a fixed order and palette,
// a World aggregate line, and a shaded standard-error band around each.
package chart

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"wdireport/internal/config"
	"wdireport/internal/dataset"
	"wdireport/internal/domain"
	"wdireport/internal/ports"
)

// paletteStart/paletteEnd bound the sequential dark-to-navy ramp used for
// the four canonical income groups, darkest first.
var (
	paletteStart = color.RGBA{R: 42, G: 42, B: 62, A: 255}
	paletteEnd   = color.RGBA{R: 0, G: 0, B: 128, A: 255}
	worldColor   = color.RGBA{R: 76, G: 114, B: 176, A: 255}
)

// LineRenderer draws the report chart and writes it as a PNG of a fixed
// size in inches. The output file is overwritten on every run.
type LineRenderer struct {
	cfg    config.ChartConfig
	yLabel string
	path   string
	logger *slog.Logger
}

var _ ports.ChartRenderer = (*LineRenderer)(nil)

// NewLineRenderer wires chart settings; path is the PNG destination and
// yLabel the indicator's axis label. logger may be nil.
func NewLineRenderer(cfg config.ChartConfig, yLabel, path string, logger *slog.Logger) *LineRenderer {
	return &LineRenderer{cfg: cfg, yLabel: yLabel, path: path, logger: logger}
}

// Render aggregates the joined rows into per-group and World series and
// draws them. An empty table yields an empty chart, not an error.
func (r *LineRenderer) Render(_ context.Context, rows []domain.ClassifiedObservation) (string, error) {
	p := plot.New()
	p.Title.Text = r.cfg.Title
	p.X.Label.Text = r.cfg.XLabel
	p.Y.Label.Text = r.yLabel
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())

	palette := groupPalette(len(domain.IncomeLevelOrder()))
	for _, series := range dataset.BuildGroupSeries(rows) {
		if err := addSeries(p, series, palette[canonicalIndex(series.Label)]); err != nil {
			return "", fmt.Errorf("draw %s series: %w", series.Label, err)
		}
	}

	world := dataset.BuildWorldSeries(rows)
	if len(world.Points) > 0 {
		if err := addSeries(p, world, worldColor); err != nil {
			return "", fmt.Errorf("draw world series: %w", err)
		}
	}

	if err := r.save(p); err != nil {
		return "", err
	}

	if r.logger != nil {
		r.logger.Debug("chart written", "path", r.path, "rows", len(rows))
	}
	return r.path, nil
}

func (r *LineRenderer) save(p *plot.Plot) error {
	width := vg.Length(r.cfg.WidthInches) * vg.Inch
	height := vg.Length(r.cfg.HeightInches) * vg.Inch

	writer, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("prepare chart canvas: %w", err)
	}

	f, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}

	if _, err := writer.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write chart: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close chart file: %w", err)
	}
	return nil
}

func addSeries(p *plot.Plot, series dataset.Series, lineColor color.RGBA) error {
	if band := bandPolygon(series); band != nil {
		poly, err := plotter.NewPolygon(band)
		if err != nil {
			return fmt.Errorf("build band: %w", err)
		}
		fill := lineColor
		fill.A = 48
		poly.Color = fill
		poly.LineStyle.Width = 0
		p.Add(poly)
	}

	xys := make(plotter.XYs, len(series.Points))
	for i, point := range series.Points {
		xys[i].X = decimalYear(point.Date)
		xys[i].Y = point.Mean
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("build line: %w", err)
	}
	line.Color = lineColor
	line.Width = vg.Points(1.5)

	p.Add(line)
	p.Legend.Add(series.Label, line)
	return nil
}

// bandPolygon traces mean+stderr left to right, then mean-stderr back, so
// the filled shape shades the confidence band. Single-point series have no
// visible band.
func bandPolygon(series dataset.Series) plotter.XYs {
	if len(series.Points) < 2 {
		return nil
	}

	band := make(plotter.XYs, 0, 2*len(series.Points))
	for _, point := range series.Points {
		band = append(band, plotter.XY{X: decimalYear(point.Date), Y: point.Mean + point.StdErr})
	}
	for i := len(series.Points) - 1; i >= 0; i-- {
		point := series.Points[i]
		band = append(band, plotter.XY{X: decimalYear(point.Date), Y: point.Mean - point.StdErr})
	}
	return band
}

func canonicalIndex(label string) int {
	for i, level := range domain.IncomeLevelOrder() {
		if level == label {
			return i
		}
	}
	return 0
}

func groupPalette(n int) []color.RGBA {
	colors := make([]color.RGBA, n)
	for i := range colors {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		colors[i] = color.RGBA{
			R: lerp(paletteStart.R, paletteEnd.R, t),
			G: lerp(paletteStart.G, paletteEnd.G, t),
			B: lerp(paletteStart.B, paletteEnd.B, t),
			A: 255,
		}
	}
	return colors
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

// decimalYear puts a date on the numeric x-axis: annual observations land
// exactly on the year, sub-annual ones on fractional positions.
func decimalYear(t time.Time) float64 {
	year := t.Year()
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	return float64(year) + t.Sub(start).Seconds()/end.Sub(start).Seconds()
}
