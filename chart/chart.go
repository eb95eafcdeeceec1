// Package chart renders a generated series on a logarithmic population axis.
//
// The modeled series is drawn as a line and the anchors as markers, with a legend
// telling the two apart. The image format follows the destination extension
// (.png, .svg, .pdf, .jpg, .eps, .tif). Rendering failures wrap errs.ErrDisplay
// so callers can tell them apart from data errors.
package chart

import (
	"fmt"
	"image/color"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/arloliu/phasecurve/errs"
	"github.com/arloliu/phasecurve/internal/options"
	"github.com/arloliu/phasecurve/phase"
	"github.com/arloliu/phasecurve/series"
)

// Legend labels.
const (
	ModeledLabel = "Modeled Population"
	AnchorLabel  = "Historical Anchors"
)

// DefaultTitle is the chart title used when none is configured.
const DefaultTitle = "Population: Piecewise Modeled Trend"

var (
	lineColor   = color.RGBA{B: 255, A: 255}
	anchorColor = color.RGBA{R: 255, A: 255}
	gridColor   = color.Gray{Y: 200}
)

type renderConfig struct {
	title         string
	width, height vg.Length
}

// Option configures Render.
type Option = options.Option[*renderConfig]

// WithTitle sets the chart title.
func WithTitle(title string) Option {
	return options.NoError(func(cfg *renderConfig) {
		if title != "" {
			cfg.title = title
		}
	})
}

// WithSize sets the image size. Both dimensions must be positive.
func WithSize(width, height vg.Length) Option {
	return options.New(func(cfg *renderConfig) error {
		if width <= 0 || height <= 0 {
			return fmt.Errorf("chart size %vx%v: %w", width, height, errs.ErrInvalidConfig)
		}
		cfg.width, cfg.height = width, height

		return nil
	})
}

// Build assembles the plot without rendering it.
//
// Every value must be positive because the population axis is logarithmic.
func Build(s series.Series, anchors []phase.Anchor, opts ...Option) (*plot.Plot, error) {
	cfg := renderConfig{title: DefaultTitle, width: 12 * vg.Inch, height: 6 * vg.Inch}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	return build(s, anchors, cfg)
}

func build(s series.Series, anchors []phase.Anchor, cfg renderConfig) (*plot.Plot, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("empty series: %w", errs.ErrDisplay)
	}

	modeled := make(plotter.XYs, len(s))
	for i, p := range s {
		if p.Value <= 0 {
			return nil, fmt.Errorf("year %d: value %g cannot be drawn on a log axis: %w", p.Year, p.Value, errs.ErrDisplay)
		}
		modeled[i].X = float64(p.Year)
		modeled[i].Y = p.Value
	}

	marks := make(plotter.XYs, 0, len(anchors))
	for _, a := range anchors {
		if a.Value <= 0 {
			return nil, fmt.Errorf("anchor %d: value %g cannot be drawn on a log axis: %w", a.Year, a.Value, errs.ErrDisplay)
		}
		marks = append(marks, plotter.XY{X: float64(a.Year), Y: a.Value})
	}

	p := plot.New()
	p.Title.Text = cfg.title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Population (log scale)"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	grid := plotter.NewGrid()
	grid.Vertical.Color = gridColor
	grid.Vertical.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	grid.Horizontal.Color = gridColor
	grid.Horizontal.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	p.Add(grid)

	line, err := plotter.NewLine(modeled)
	if err != nil {
		return nil, fmt.Errorf("modeled line: %w: %w", errs.ErrDisplay, err)
	}
	line.Color = lineColor
	line.Width = vg.Points(1.5)
	p.Add(line)
	p.Legend.Add(ModeledLabel, line)

	if len(marks) > 0 {
		scatter, err := plotter.NewScatter(marks)
		if err != nil {
			return nil, fmt.Errorf("anchor markers: %w: %w", errs.ErrDisplay, err)
		}
		scatter.GlyphStyle.Color = anchorColor
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		scatter.GlyphStyle.Radius = vg.Points(4)
		p.Add(scatter)
		p.Legend.Add(AnchorLabel, scatter)
	}
	p.Legend.Top = true

	return p, nil
}

// Render draws the series and anchors to path, creating parent directories.
func Render(path string, s series.Series, anchors []phase.Anchor, opts ...Option) (err error) {
	cfg := renderConfig{title: DefaultTitle, width: 12 * vg.Inch, height: 6 * vg.Inch}
	if err := options.Apply(&cfg, opts...); err != nil {
		return err
	}

	p, err := build(s, anchors, cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w: %w", path, errs.ErrDisplay, err)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render %s: %w: %v", path, errs.ErrDisplay, r)
		}
	}()

	if err := p.Save(cfg.width, cfg.height, path); err != nil {
		return fmt.Errorf("render %s: %w: %w", path, errs.ErrDisplay, err)
	}

	return nil
}

// Opener opens a file in an interactive viewer.
type Opener func(path string) error

// SystemOpener opens path with the platform's default viewer and does not wait
// for the viewer to exit.
func SystemOpener(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}

	if err := cmd.Start(); err != nil {
		return err
	}

	return cmd.Process.Release()
}

// Display shows a rendered chart with open. A nil open uses SystemOpener.
func Display(path string, open Opener) error {
	if open == nil {
		open = SystemOpener
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("display %s: %w: %w", path, errs.ErrDisplay, err)
	}
	if err := open(path); err != nil {
		return fmt.Errorf("display %s: %w: %w", path, errs.ErrDisplay, err)
	}

	return nil
}
