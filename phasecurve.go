// Package phasecurve synthesizes a yearly population series from piecewise,
// anchor-fitted growth and decay curves.
//
// The model is a list of contiguous phases, each governed by one closed-form
// curve whose free parameter is derived from known (year, value) anchors:
//
//   - Linear interpolation between two values
//   - Exponential decay through two anchors
//   - Logistic growth toward a carrying capacity, with the rate derived from the
//     end anchor
//   - Logistic growth with a fixed rate, which only approximates its end anchor
//
// # Basic Usage
//
// Generating the default model (American bison, 1800-2017):
//
//	result, err := phasecurve.Generate(phasecurve.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(len(result.Series)) // 222: boundary years appear twice
//
// Running the full pipeline from a project file, writing the table and the chart:
//
//	f, err := config.Load("phasecurve.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	outcome, err := phasecurve.Run(f, logger)
//
// # Package Structure
//
// This package wraps the phase, table and chart packages for the common case. Use
// them directly for finer control.
package phasecurve

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/phasecurve/chart"
	"github.com/arloliu/phasecurve/config"
	"github.com/arloliu/phasecurve/errs"
	"github.com/arloliu/phasecurve/internal/logging"
	"github.com/arloliu/phasecurve/phase"
	"github.com/arloliu/phasecurve/table"
)

// DefaultConfig returns the generator config of the default bison model.
func DefaultConfig() phase.Config {
	cfg, err := config.Default().PhaseConfig()
	if err != nil {
		panic(fmt.Sprintf("phasecurve: invalid default config: %v", err))
	}

	return cfg
}

// Generate evaluates cfg into a series. See phase.Generate.
func Generate(cfg phase.Config, opts ...phase.Option) (*phase.Result, error) {
	return phase.Generate(cfg, opts...)
}

// Outcome is the product of Run.
type Outcome struct {
	// Result is the generated series and its phase reports.
	Result *phase.Result
	// Table describes the written table.
	Table table.Info
	// Chart is the rendered chart path, empty if rendering failed.
	Chart string
}

// RunOptions tunes Run beyond what the project file holds.
type RunOptions struct {
	// SkipChart disables chart rendering.
	SkipChart bool
	// Opener replaces the platform viewer used when the file asks for display.
	Opener chart.Opener
	// Extra generator options, applied after those of the file.
	Generator []phase.Option
}

// Run generates the series described by f, writes the table and renders the chart.
//
// The table is written and logged before rendering starts. When rendering or
// display fails, Run returns the Outcome together with an error wrapping
// errs.ErrDisplay; the table is kept. Any other error aborts with a nil Outcome.
//
// Parameters:
//   - f: Validated project file
//   - logger: Logger for progress and diagnostics (nil disables logging)
//   - ro: Optional run options; at most one is used
//
// Returns:
//   - *Outcome: Generated data and artifact locations
//   - error: Generation, I/O or display error
func Run(f config.File, logger *zap.Logger, ro ...RunOptions) (*Outcome, error) {
	logger = logging.OrNop(logger)
	var opt RunOptions
	if len(ro) > 0 {
		opt = ro[0]
	}

	cfg, err := f.PhaseConfig()
	if err != nil {
		return nil, err
	}
	genOpts, err := f.GeneratorOptions()
	if err != nil {
		return nil, err
	}
	genOpts = append(genOpts, phase.WithLogger(logger))
	genOpts = append(genOpts, opt.Generator...)

	res, err := phase.Generate(cfg, genOpts...)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	info, err := table.Write(f.Output.Table, res.Series)
	if err != nil {
		return nil, fmt.Errorf("write table: %w", err)
	}
	logger.Info("table written",
		zap.String("path", info.Path),
		zap.Stringer("format", info.Format),
		zap.Stringer("compression", info.Compression),
		zap.Int("rows", info.Rows),
		zap.Int("bytes", info.Bytes),
		zap.String("fingerprint", fmt.Sprintf("%016x", info.Fingerprint)))

	out := &Outcome{Result: res, Table: info}
	if opt.SkipChart || f.Output.Chart == "" {
		return out, nil
	}

	if err := chart.Render(f.Output.Chart, res.Series, cfg.Anchors.Anchors(), chart.WithTitle(f.Output.Title)); err != nil {
		logger.Error("chart rendering failed", zap.Error(err))
		return out, err
	}
	out.Chart = f.Output.Chart
	logger.Info("chart rendered", zap.String("path", out.Chart))

	if f.Output.Display {
		if err := chart.Display(out.Chart, opt.Opener); err != nil {
			logger.Error("chart display failed", zap.Error(err))
			return out, err
		}
	}

	return out, nil
}

// IsDisplayError reports whether err came from chart rendering or display, in
// which case the table has already been written.
func IsDisplayError(err error) bool {
	return errors.Is(err, errs.ErrDisplay)
}
