// Package config loads and validates phasecurve project files.
//
// A project file is YAML:
//
//	anchors:
//	  1860: 45000000
//	  1884: 325
//	phases:
//	  - name: collapse
//	    start: 1860
//	    end: 1884
//	    form: exponential-decay
//	dedupe_boundaries: false
//	rate_rule: anchored
//	output:
//	  table: data/raw/population.csv
//	  chart: data/raw/population.png
//
// A file that defines neither anchors nor phases inherits the default model, so a
// file may only override output settings. Missing output paths fall back to
// DefaultTablePath and DefaultChartPath, and a missing rate rule to "anchored".
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/phasecurve/errs"
	"github.com/arloliu/phasecurve/format"
	"github.com/arloliu/phasecurve/phase"
)

// File is the on-disk project configuration.
type File struct {
	Anchors          phase.AnchorTable `yaml:"anchors" validate:"required,min=1"`
	Phases           []PhaseSpec       `yaml:"phases" validate:"required,min=1,dive"`
	DedupeBoundaries bool              `yaml:"dedupe_boundaries"`
	RateRule         string            `yaml:"rate_rule" validate:"omitempty,oneof=anchored legacy"`
	Parallel         bool              `yaml:"parallel"`
	Output           Output            `yaml:"output"`
}

// PhaseSpec is the YAML form of phase.Definition.
type PhaseSpec struct {
	Name       string  `yaml:"name" validate:"required"`
	Start      int     `yaml:"start"`
	End        int     `yaml:"end" validate:"gtfield=Start"`
	Form       string  `yaml:"form" validate:"required,oneof=linear exponential-decay logistic logistic-fixed-rate"`
	StartValue float64 `yaml:"start_value,omitempty" validate:"gte=0"`
	EndValue   float64 `yaml:"end_value,omitempty" validate:"gte=0"`
	Capacity   float64 `yaml:"capacity,omitempty" validate:"required_if=Form logistic,required_if=Form logistic-fixed-rate,gte=0"`
	Rate       float64 `yaml:"rate,omitempty" validate:"required_if=Form logistic-fixed-rate"`
}

// Output holds the destinations of the generated artifacts.
type Output struct {
	// Table is the table path; its extension selects the format.
	Table string `yaml:"table" validate:"required"`
	// Chart is the chart path.
	Chart string `yaml:"chart,omitempty"`
	// Title is the chart title.
	Title string `yaml:"title,omitempty"`
	// Display opens the rendered chart in the platform viewer.
	Display bool `yaml:"display,omitempty"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	return validate
}

// Load reads and validates the project file at path.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read config %s: %w", path, err)
	}

	f, err := Parse(data)
	if err != nil {
		return File{}, fmt.Errorf("config %s: %w", path, err)
	}

	return f, nil
}

// Parse decodes and validates a YAML project file. Unknown keys are rejected.
func Parse(data []byte) (File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("decode yaml: %w: %w", errs.ErrInvalidConfig, err)
	}

	if f.Anchors == nil && f.Phases == nil {
		def := Default()
		f.Anchors, f.Phases = def.Anchors, def.Phases
	}
	if f.RateRule == "" {
		f.RateRule = format.RateAnchored.String()
	}
	if f.Output.Table == "" {
		f.Output.Table = DefaultTablePath
	}
	if f.Output.Chart == "" {
		f.Output.Chart = DefaultChartPath
	}
	if f.Output.Title == "" {
		f.Output.Title = DefaultChartTitle
	}

	if err := f.Validate(); err != nil {
		return File{}, err
	}

	return f, nil
}

// Marshal encodes f as YAML.
func Marshal(f File) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Validate checks field constraints and the semantic consistency of the model.
func (f File) Validate() error {
	if err := structValidator().Struct(f); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrInvalidConfig, err)
	}

	cfg, err := f.PhaseConfig()
	if err != nil {
		return err
	}

	return cfg.Validate()
}

// PhaseConfig converts the file into a generator config.
func (f File) PhaseConfig() (phase.Config, error) {
	cfg := phase.Config{
		Anchors: f.Anchors.Clone(),
		Phases:  make([]phase.Definition, len(f.Phases)),
	}
	for i, p := range f.Phases {
		form, ok := format.ParseFormType(p.Form)
		if !ok {
			return phase.Config{}, fmt.Errorf("phase %q: unknown form %q: %w", p.Name, p.Form, errs.ErrInvalidConfig)
		}
		cfg.Phases[i] = phase.Definition{
			Name:       p.Name,
			Start:      p.Start,
			End:        p.End,
			Form:       form,
			StartValue: p.StartValue,
			EndValue:   p.EndValue,
			Capacity:   p.Capacity,
			Rate:       p.Rate,
		}
	}

	return cfg, nil
}

// GeneratorOptions returns the generator options selected by the file.
func (f File) GeneratorOptions() ([]phase.Option, error) {
	rule, ok := format.ParseRateRule(f.RateRule)
	if !ok {
		return nil, fmt.Errorf("unknown rate rule %q: %w", f.RateRule, errs.ErrInvalidConfig)
	}

	return []phase.Option{
		phase.WithDedupeBoundaries(f.DedupeBoundaries),
		phase.WithRateRule(rule),
		phase.WithParallel(f.Parallel),
	}, nil
}
