package phase

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/arloliu/phasecurve/curve"
	"github.com/arloliu/phasecurve/format"
	"github.com/arloliu/phasecurve/series"
)

// Report summarizes one evaluated phase.
type Report struct {
	Name       string
	Form       format.FormType
	Start, End int
	// Formula is the human-readable curve formula.
	Formula string
	// Params are the derived curve parameters (see curve.Curve.Params).
	Params []float64
	// StartValue and EndValue are the evaluated values at the phase boundaries.
	StartValue, EndValue float64
	// Anchor is the known value at End; HasAnchor is false when none exists.
	Anchor    float64
	HasAnchor bool
	// Residual is EndValue - Anchor; RelResidual is Residual / Anchor.
	Residual    float64
	RelResidual float64
	// Notes lists behaviors worth surfacing, such as a growing decay phase.
	Notes []string
}

// String returns a one-line summary of the report.
func (r Report) String() string {
	s := fmt.Sprintf("%s [%d-%d] %s: %s", r.Name, r.Start, r.End, r.Form, r.Formula)
	if r.HasAnchor {
		s += fmt.Sprintf(" (residual %.4g, %.3f%%)", r.Residual, r.RelResidual*100)
	}

	return s
}

// Result is the outcome of a generation.
type Result struct {
	// Series holds every sample in generation order.
	Series series.Series
	// Reports holds one report per phase, in phase order.
	Reports []Report
}

// Report returns the report of the named phase.
func (r *Result) Report(name string) (Report, bool) {
	for _, rep := range r.Reports {
		if rep.Name == name {
			return rep, true
		}
	}

	return Report{}, false
}

// MaxRelResidual returns the report with the largest absolute relative anchor residual.
// The second return value is false when no phase ends on an anchor.
func (r *Result) MaxRelResidual() (Report, bool) {
	var (
		best  Report
		found bool
	)
	for _, rep := range r.Reports {
		if !rep.HasAnchor {
			continue
		}
		if !found || math.Abs(rep.RelResidual) > math.Abs(best.RelResidual) {
			best, found = rep, true
		}
	}

	return best, found
}

func (g *Generator) report(p Phase, s series.Series) Report {
	rep := Report{
		Name:       p.Name,
		Form:       p.Form,
		Start:      p.Start,
		End:        p.End,
		Formula:    p.Curve.Formula(),
		Params:     p.Curve.Params(),
		StartValue: s[0].Value,
		EndValue:   s[len(s)-1].Value,
	}

	if anchor, err := g.cfg.endValue(p.Definition); err == nil {
		rep.Anchor = anchor
		rep.HasAnchor = true
		rep.Residual = rep.EndValue - anchor
		rep.RelResidual = rep.Residual / anchor
	}

	switch c := p.Curve.(type) {
	case *curve.DecayCurve:
		if c.DecayConstant() <= 0 {
			rep.Notes = append(rep.Notes, "decay constant is not positive; the curve does not decline")
		}
	case *curve.LogisticCurve:
		if c.Rate() < 0 {
			rep.Notes = append(rep.Notes, "logistic rate is negative; the curve declines")
		}
		if c.Form() == format.FormLogisticFixed {
			rep.Notes = append(rep.Notes, "fixed rate; the end anchor is not targeted")
		}
	}

	log := g.opts.logger.With(zap.String("phase", rep.Name))
	for _, note := range rep.Notes {
		log.Debug(note)
	}
	if rep.HasAnchor {
		fields := []zap.Field{
			zap.Int("year", rep.End),
			zap.Float64("anchor", rep.Anchor),
			zap.Float64("value", rep.EndValue),
			zap.Float64("residual", rep.Residual),
			zap.Float64("rel_residual", rep.RelResidual),
		}
		if math.Abs(rep.RelResidual) > 1e-6 {
			log.Warn("phase misses its end anchor", fields...)
		} else {
			log.Debug("phase lands on its end anchor", fields...)
		}
	}

	return rep
}
