package phase

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/phasecurve/curve"
	"github.com/arloliu/phasecurve/errs"
	"github.com/arloliu/phasecurve/format"
	"github.com/arloliu/phasecurve/internal/options"
	"github.com/arloliu/phasecurve/series"
)

// Phase is a definition together with its derived curve.
type Phase struct {
	Definition
	// Curve is the derived curve evaluated across [Start, End].
	Curve curve.Curve
	// From is the value the curve starts from.
	From float64
}

// Generator evaluates the phases of a Config into a series.
//
// A Generator owns a private copy of its Config and is safe for concurrent use.
type Generator struct {
	cfg  Config
	opts generatorConfig
}

// NewGenerator validates cfg and creates a generator.
//
// Parameters:
//   - cfg: Anchors and phase definitions (copied)
//   - opts: Generator options (WithDedupeBoundaries, WithRateRule, WithParallel, WithLogger)
//
// Returns:
//   - *Generator: The generator
//   - error: errs.ErrInvalidConfig or errs.ErrMissingAnchor wrapped with context
func NewGenerator(cfg Config, opts ...Option) (*Generator, error) {
	g := &Generator{cfg: cfg.Clone(), opts: defaultGeneratorConfig()}
	if err := options.Apply(&g.opts, opts...); err != nil {
		return nil, err
	}
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}

	return g, nil
}

// Generate is a shorthand for NewGenerator followed by Generator.Generate.
func Generate(cfg Config, opts ...Option) (*Result, error) {
	g, err := NewGenerator(cfg, opts...)
	if err != nil {
		return nil, err
	}

	return g.Generate()
}

// Derive builds the curve of every phase in order.
//
// Derivation stops at the first phase that fails, returning an *errs.DerivationError
// carrying that phase's name.
func (g *Generator) Derive() ([]Phase, error) {
	phases := make([]Phase, 0, len(g.cfg.Phases))
	for _, d := range g.cfg.Phases {
		p, err := g.derive(d)
		if err != nil {
			var derr *errs.DerivationError
			if errors.As(err, &derr) && derr.Phase == "" {
				derr.Phase = d.Name
			}

			return nil, fmt.Errorf("derive phase %q: %w", d.Name, err)
		}

		g.opts.logger.Debug("phase derived",
			zap.String("phase", d.Name),
			zap.Stringer("form", d.Form),
			zap.Float64s("params", p.Curve.Params()),
			zap.String("formula", p.Curve.Formula()))

		phases = append(phases, p)
	}

	return phases, nil
}

func (g *Generator) derive(d Definition) (Phase, error) {
	from, err := g.cfg.startValue(d)
	if err != nil {
		return Phase{}, err
	}

	var c curve.Curve
	switch d.Form {
	case format.FormLinear:
		to, err := g.cfg.endValue(d)
		if err != nil {
			return Phase{}, err
		}
		c, err = curve.NewLinear(d.Start, d.End, from, to)
		if err != nil {
			return Phase{}, err
		}
	case format.FormExponentialDecay:
		to, err := g.cfg.endValue(d)
		if err != nil {
			return Phase{}, err
		}
		c, err = curve.NewDecay(d.Start, d.End, from, to)
		if err != nil {
			return Phase{}, err
		}
	case format.FormLogistic:
		to, err := g.cfg.endValue(d)
		if err != nil {
			return Phase{}, err
		}
		c, err = curve.NewLogistic(d.Start, d.End, d.Capacity, from, to, g.opts.rateRule)
		if err != nil {
			return Phase{}, err
		}
	case format.FormLogisticFixed:
		c, err = curve.NewLogisticFixed(d.Start, d.Capacity, from, d.Rate)
		if err != nil {
			return Phase{}, err
		}
	default:
		return Phase{}, fmt.Errorf("unknown form %s: %w", d.Form, errs.ErrInvalidConfig)
	}

	return Phase{Definition: d, Curve: c, From: from}, nil
}

// Generate derives and evaluates every phase and returns the full series.
//
// Either the complete series is returned or an error; partial output is never
// produced.
func (g *Generator) Generate() (*Result, error) {
	phases, err := g.Derive()
	if err != nil {
		return nil, err
	}

	slots := make([]series.Series, len(phases))
	if g.opts.parallel {
		// Errors are collected per phase so the first failing phase in order
		// is reported, as in sequential evaluation.
		failures := make([]error, len(phases))
		var eg errgroup.Group
		for i := range phases {
			eg.Go(func() error {
				slots[i], failures[i] = evaluate(phases[i])
				return nil
			})
		}
		_ = eg.Wait()
		for _, err := range failures {
			if err != nil {
				return nil, err
			}
		}
	} else {
		for i := range phases {
			s, err := evaluate(phases[i])
			if err != nil {
				return nil, err
			}
			slots[i] = s
		}
	}

	out := make(series.Series, 0, g.cfg.Rows())
	for _, s := range slots {
		out = append(out, s...)
	}
	if g.opts.dedupe {
		out = out.Dedupe()
	}

	res := &Result{Series: out, Reports: make([]Report, len(phases))}
	for i, p := range phases {
		res.Reports[i] = g.report(p, slots[i])
	}

	g.opts.logger.Info("series generated",
		zap.Int("phases", len(phases)),
		zap.Int("rows", len(out)),
		zap.Bool("dedupe", g.opts.dedupe),
		zap.Stringer("rate_rule", g.opts.rateRule))

	return res, nil
}

// evaluate emits one sample per year of the phase, both endpoints included.
func evaluate(p Phase) (series.Series, error) {
	out := make(series.Series, 0, p.Years())
	for year := p.Start; year <= p.End; year++ {
		v := p.Curve.Value(year)
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return nil, fmt.Errorf("evaluate phase %q: %w",
				p.Name, errs.Derivation(p.Name, fmt.Sprintf("value@%d", year), v, errs.ErrInvalidSample))
		}
		out = append(out, series.Sample{Year: year, Value: v})
	}

	return out, nil
}
