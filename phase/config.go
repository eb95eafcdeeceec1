package phase

import (
	"fmt"
	"math"

	"github.com/arloliu/phasecurve/errs"
	"github.com/arloliu/phasecurve/format"
)

// Definition describes one phase of the model.
type Definition struct {
	// Name identifies the phase in errors and reports.
	Name string
	// Start and End are the inclusive boundary years, End > Start.
	Start, End int
	// Form is the functional form evaluated across the phase.
	Form format.FormType
	// StartValue overrides the anchor lookup at Start when positive.
	StartValue float64
	// EndValue overrides the anchor lookup at End when positive.
	EndValue float64
	// Capacity is the carrying capacity K of the logistic forms.
	Capacity float64
	// Rate is the constant growth rate of format.FormLogisticFixed.
	Rate float64
}

// Years returns the number of samples the phase emits.
func (d Definition) Years() int {
	return d.End - d.Start + 1
}

// Config is the immutable input of the generator.
type Config struct {
	Anchors AnchorTable
	Phases  []Definition
}

// Clone returns a deep copy of the config.
func (c Config) Clone() Config {
	return Config{
		Anchors: c.Anchors.Clone(),
		Phases:  append([]Definition(nil), c.Phases...),
	}
}

// Range returns the first and last year covered by the phases.
func (c Config) Range() (int, int) {
	if len(c.Phases) == 0 {
		return 0, 0
	}

	return c.Phases[0].Start, c.Phases[len(c.Phases)-1].End
}

// Rows returns the number of samples a generation emits with boundary years duplicated.
func (c Config) Rows() int {
	n := 0
	for _, d := range c.Phases {
		n += d.Years()
	}

	return n
}

// Validate checks the anchors and phase definitions for consistency.
//
// Phases must be non-empty, uniquely named, ordered and contiguous: each phase
// starts on the year the previous one ends. Boundary values must be resolvable
// from the explicit overrides or the anchor table, and the form parameters must
// be present.
func (c Config) Validate() error {
	if len(c.Phases) == 0 {
		return fmt.Errorf("no phases defined: %w", errs.ErrInvalidConfig)
	}

	for year, v := range c.Anchors {
		if !validAnchorValue(v) {
			return fmt.Errorf("anchor %d: value %g must be positive: %w", year, v, errs.ErrInvalidConfig)
		}
	}

	names := make(map[string]struct{}, len(c.Phases))
	for i, d := range c.Phases {
		if d.Name == "" {
			return fmt.Errorf("phase #%d: missing name: %w", i, errs.ErrInvalidConfig)
		}
		if _, dup := names[d.Name]; dup {
			return fmt.Errorf("phase %q: duplicate name: %w", d.Name, errs.ErrInvalidConfig)
		}
		names[d.Name] = struct{}{}

		if d.End <= d.Start {
			return fmt.Errorf("phase %q: end %d must be after start %d: %w", d.Name, d.End, d.Start, errs.ErrInvalidConfig)
		}
		if i > 0 && d.Start != c.Phases[i-1].End {
			return fmt.Errorf("phase %q: starts at %d but %q ends at %d: %w",
				d.Name, d.Start, c.Phases[i-1].Name, c.Phases[i-1].End, errs.ErrInvalidConfig)
		}

		if err := c.validateForm(d); err != nil {
			return err
		}
	}

	return nil
}

func (c Config) validateForm(d Definition) error {
	if _, err := c.startValue(d); err != nil {
		return err
	}

	switch d.Form {
	case format.FormLinear, format.FormExponentialDecay:
		_, err := c.endValue(d)
		return err
	case format.FormLogistic:
		if _, err := c.endValue(d); err != nil {
			return err
		}
		return checkCapacity(d)
	case format.FormLogisticFixed:
		if err := checkCapacity(d); err != nil {
			return err
		}
		if d.Rate == 0 || math.IsNaN(d.Rate) || math.IsInf(d.Rate, 0) {
			return fmt.Errorf("phase %q: rate %g must be a non-zero number: %w", d.Name, d.Rate, errs.ErrInvalidConfig)
		}
		return nil
	default:
		return fmt.Errorf("phase %q: unknown form %s: %w", d.Name, d.Form, errs.ErrInvalidConfig)
	}
}

func checkCapacity(d Definition) error {
	if !validAnchorValue(d.Capacity) {
		return fmt.Errorf("phase %q: capacity %g must be positive: %w", d.Name, d.Capacity, errs.ErrInvalidConfig)
	}

	return nil
}

func (c Config) startValue(d Definition) (float64, error) {
	return c.boundaryValue(d, d.Start, d.StartValue)
}

func (c Config) endValue(d Definition) (float64, error) {
	return c.boundaryValue(d, d.End, d.EndValue)
}

func (c Config) boundaryValue(d Definition, year int, override float64) (float64, error) {
	if override != 0 {
		if !validAnchorValue(override) {
			return 0, fmt.Errorf("phase %q: value %g at %d must be positive: %w", d.Name, override, year, errs.ErrInvalidConfig)
		}
		return override, nil
	}

	v, ok := c.Anchors.Lookup(year)
	if !ok {
		return 0, fmt.Errorf("phase %q: no anchor for %d: %w", d.Name, year, errs.ErrMissingAnchor)
	}

	return v, nil
}
