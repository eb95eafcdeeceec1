package phase

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/arloliu/phasecurve/errs"
	"github.com/arloliu/phasecurve/format"
)

const relTol = 1e-6

func bisonConfig() Config {
	return Config{
		Anchors: AnchorTable{
			1860: 45_000_000,
			1884: 325,
			1889: 1091,
			1905: 1091,
			1910: 2108,
			1920: 225,
			1990: 237_500,
			2017: 500_000,
		},
		Phases: []Definition{
			{Name: "pre-collapse", Start: 1800, End: 1860, Form: format.FormLinear, StartValue: 60_000_000},
			{Name: "collapse", Start: 1860, End: 1884, Form: format.FormExponentialDecay},
			{Name: "early-recovery", Start: 1884, End: 1920, Form: format.FormLogistic, Capacity: 5000},
			{Name: "mid-recovery", Start: 1920, End: 1990, Form: format.FormLogistic, Capacity: 300_000},
			{Name: "modern-recovery", Start: 1990, End: 2017, Form: format.FormLogisticFixed, Capacity: 500_000, Rate: 0.1},
		},
	}
}

func TestGenerate_RowCount(t *testing.T) {
	cfg := bisonConfig()

	res, err := Generate(cfg)
	require.NoError(t, err)

	expected := 0
	for _, d := range cfg.Phases {
		expected += d.End - d.Start + 1
	}
	require.Equal(t, 222, expected)
	require.Equal(t, expected, cfg.Rows())
	require.Len(t, res.Series, expected)
	require.Equal(t, []int{1860, 1884, 1920, 1990}, res.Series.Duplicates())
	require.Equal(t, 1800, res.Series[0].Year)
	require.Equal(t, 2017, res.Series[len(res.Series)-1].Year)
	require.NoError(t, res.Series.Validate())
}

func TestGenerate_Anchors(t *testing.T) {
	cfg := bisonConfig()
	res, err := Generate(cfg)
	require.NoError(t, err)
	require.Len(t, res.Reports, len(cfg.Phases))

	for _, rep := range res.Reports {
		t.Run(rep.Name, func(t *testing.T) {
			start := res.Series.Between(rep.Start, rep.End)
			require.NotEmpty(t, start)

			if rep.Name == "pre-collapse" {
				require.InEpsilon(t, 60_000_000.0, rep.StartValue, relTol)
			} else {
				require.InEpsilon(t, cfg.Anchors[rep.Start], rep.StartValue, relTol)
			}

			require.True(t, rep.HasAnchor)
			if rep.Form == format.FormLogisticFixed {
				require.Greater(t, rep.EndValue, 0.0)
				return
			}
			require.InEpsilon(t, cfg.Anchors[rep.End], rep.EndValue, relTol)
			require.InDelta(t, 0, rep.RelResidual, relTol)
		})
	}
}

func TestGenerate_Shapes(t *testing.T) {
	res, err := Generate(bisonConfig(), WithDedupeBoundaries(true))
	require.NoError(t, err)
	s := res.Series

	require.InEpsilon(t, 52_500_000.0, s.Between(1830, 1830)[0].Value, relTol)

	require.True(t, s.Between(1860, 1884).NonIncreasing())
	require.Less(t, s.Between(1884, 1920).Max(), 5000.0)
	require.True(t, s.Between(1920, 1990).NonDecreasing())
	require.Less(t, s.Between(1920, 1990).Max(), 300_000.0)
	require.True(t, s.Between(1990, 2017).NonDecreasing())
	require.Less(t, s.Between(1990, 2017).Max(), 500_000.0)

	for _, p := range s {
		require.Greater(t, p.Value, 0.0, "year %d", p.Year)
	}
}

func TestGenerate_DecayConstant(t *testing.T) {
	res, err := Generate(bisonConfig())
	require.NoError(t, err)

	rep, ok := res.Report("collapse")
	require.True(t, ok)
	require.Equal(t, format.FormExponentialDecay, rep.Form)

	k := rep.Params[1]
	require.InEpsilon(t, 325.0, 45_000_000*math.Exp(-k*24), relTol)
}

func TestGenerate_FixedRateResidual(t *testing.T) {
	res, err := Generate(bisonConfig())
	require.NoError(t, err)

	rep, ok := res.Report("modern-recovery")
	require.True(t, ok)

	a := (500_000.0 - 237_500.0) / 237_500.0
	require.InEpsilon(t, 500_000/(1+a*math.Exp(-0.1*27)), rep.EndValue, relTol)
	require.InEpsilon(t, 500_000.0, rep.Anchor, relTol)
	require.InEpsilon(t, -0.06914379178727488, rep.RelResidual, 1e-4)
	require.Contains(t, rep.Notes, "fixed rate; the end anchor is not targeted")

	worst, ok := res.MaxRelResidual()
	require.True(t, ok)
	require.Equal(t, "modern-recovery", worst.Name)
}

func TestGenerate_Dedupe(t *testing.T) {
	res, err := Generate(bisonConfig(), WithDedupeBoundaries(true))
	require.NoError(t, err)

	require.Len(t, res.Series, 218)
	require.Empty(t, res.Series.Duplicates())
	for i, p := range res.Series {
		require.Equal(t, 1800+i, p.Year)
	}
}

func TestGenerate_ParallelMatchesSequential(t *testing.T) {
	seq, err := Generate(bisonConfig())
	require.NoError(t, err)

	par, err := Generate(bisonConfig(), WithParallel(true))
	require.NoError(t, err)

	require.Equal(t, seq.Series, par.Series)
	require.Equal(t, seq.Series.Fingerprint(), par.Series.Fingerprint())
}

func TestGenerate_LegacyRateRule(t *testing.T) {
	res, err := Generate(bisonConfig(), WithRateRule(format.RateLegacy))
	require.NoError(t, err)
	require.Len(t, res.Series, 222)

	rep, ok := res.Report("mid-recovery")
	require.True(t, ok)
	require.InEpsilon(t, 853.2082626484386, rep.EndValue, relTol)
	require.Less(t, rep.RelResidual, -0.99)

	// the next phase restarts from its anchor, so the boundary rows disagree
	boundary := res.Series.Between(1990, 1990)
	require.Len(t, boundary, 2)
	require.InEpsilon(t, 237_500.0, boundary[1].Value, relTol)

	_, err = Generate(bisonConfig(), WithRateRule(format.RateRule(0)))
	require.ErrorIs(t, err, errs.ErrInvalidConfig)
}

func TestGenerate_DerivationFailure(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		phase    string
		quantity string
		sentinel error
	}{
		{
			name:     "capacity below start value",
			mutate:   func(c *Config) { c.Phases[2].Capacity = 300 },
			phase:    "early-recovery",
			quantity: "A",
			sentinel: errs.ErrDomain,
		},
		{
			name:     "capacity equal to start value",
			mutate:   func(c *Config) { c.Phases[3].Capacity = 225 },
			phase:    "mid-recovery",
			quantity: "A",
			sentinel: errs.ErrDomain,
		},
		{
			name:     "capacity below target",
			mutate:   func(c *Config) { c.Phases[3].Capacity = 200_000 },
			phase:    "mid-recovery",
			quantity: "K/target-1",
			sentinel: errs.ErrDomain,
		},
		{
			name:     "fixed capacity below start value",
			mutate:   func(c *Config) { c.Phases[4].Capacity = 100_000 },
			phase:    "modern-recovery",
			quantity: "A",
			sentinel: errs.ErrDomain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := bisonConfig()
			tt.mutate(&cfg)

			res, err := Generate(cfg)
			require.Nil(t, res)
			require.ErrorIs(t, err, tt.sentinel)

			var derr *errs.DerivationError
			require.True(t, errors.As(err, &derr))
			require.Equal(t, tt.phase, derr.Phase)
			require.Equal(t, tt.quantity, derr.Quantity)
		})
	}
}

func TestGenerate_InvalidConfig(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		sentinel error
	}{
		{name: "no phases", mutate: func(c *Config) { c.Phases = nil }, sentinel: errs.ErrInvalidConfig},
		{name: "gap", mutate: func(c *Config) { c.Phases[1].Start = 1861 }, sentinel: errs.ErrInvalidConfig},
		{name: "reversed", mutate: func(c *Config) { c.Phases[0].End = 1790 }, sentinel: errs.ErrInvalidConfig},
		{name: "missing name", mutate: func(c *Config) { c.Phases[2].Name = "" }, sentinel: errs.ErrInvalidConfig},
		{name: "duplicate name", mutate: func(c *Config) { c.Phases[2].Name = "collapse" }, sentinel: errs.ErrInvalidConfig},
		{name: "unknown form", mutate: func(c *Config) { c.Phases[1].Form = format.FormType(0) }, sentinel: errs.ErrInvalidConfig},
		{name: "missing start anchor", mutate: func(c *Config) { c.Phases[0].StartValue = 0 }, sentinel: errs.ErrMissingAnchor},
		{name: "missing end anchor", mutate: func(c *Config) { delete(c.Anchors, 1884) }, sentinel: errs.ErrMissingAnchor},
		{name: "negative anchor", mutate: func(c *Config) { c.Anchors[1905] = -1 }, sentinel: errs.ErrInvalidConfig},
		{name: "missing capacity", mutate: func(c *Config) { c.Phases[2].Capacity = 0 }, sentinel: errs.ErrInvalidConfig},
		{name: "zero fixed rate", mutate: func(c *Config) { c.Phases[4].Rate = 0 }, sentinel: errs.ErrInvalidConfig},
		{name: "negative override", mutate: func(c *Config) { c.Phases[0].StartValue = -5 }, sentinel: errs.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := bisonConfig()
			tt.mutate(&cfg)

			_, err := NewGenerator(cfg)
			require.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestGenerate_SyntheticRange(t *testing.T) {
	cfg := Config{
		Anchors: AnchorTable{0: 100, 4: 50, 8: 80},
		Phases: []Definition{
			{Name: "fall", Start: 0, End: 4, Form: format.FormExponentialDecay},
			{Name: "rise", Start: 4, End: 8, Form: format.FormLogistic, Capacity: 100},
			{Name: "tail", Start: 8, End: 10, Form: format.FormLinear, EndValue: 90},
		},
	}

	res, err := Generate(cfg)
	require.NoError(t, err)
	require.Len(t, res.Series, 5+5+3)
	require.InEpsilon(t, 50.0, res.Series[4].Value, relTol)
	require.InEpsilon(t, 50.0, res.Series[5].Value, relTol)
	require.InEpsilon(t, 80.0, res.Series[9].Value, relTol)
	require.InEpsilon(t, 90.0, res.Series[12].Value, relTol)
	require.True(t, res.Series[5:10].NonDecreasing())

	start, end := cfg.Range()
	require.Equal(t, 0, start)
	require.Equal(t, 10, end)
}

func TestGenerate_DoesNotMutateConfig(t *testing.T) {
	cfg := bisonConfig()
	g, err := NewGenerator(cfg)
	require.NoError(t, err)

	cfg.Anchors[1884] = 1
	cfg.Phases[2].Capacity = 1

	res, err := g.Generate()
	require.NoError(t, err)
	rep, ok := res.Report("collapse")
	require.True(t, ok)
	require.InEpsilon(t, 325.0, rep.EndValue, relTol)
}

func TestGenerate_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	_, err := Generate(bisonConfig(), WithLogger(zap.New(core)))
	require.NoError(t, err)

	misses := logs.FilterMessage("phase misses its end anchor").All()
	require.Len(t, misses, 1)
	require.Equal(t, "modern-recovery", misses[0].ContextMap()["phase"])

	require.Equal(t, 5, logs.FilterMessage("phase derived").Len())
	require.Equal(t, 1, logs.FilterMessage("series generated").Len())
}

func TestGenerate_ParallelReportsFirstFailingPhase(t *testing.T) {
	// Both phases collapse to zero right after their start year.
	cfg := Config{
		Anchors: AnchorTable{1900: 100, 1910: 100},
		Phases: []Definition{
			{Name: "a", Start: 1900, End: 1910, Form: format.FormLogisticFixed, Capacity: 1000, Rate: -1000},
			{Name: "b", Start: 1910, End: 1920, Form: format.FormLogisticFixed, Capacity: 1000, Rate: -1000},
		},
	}

	_, err := Generate(cfg)
	var seq *errs.DerivationError
	require.ErrorAs(t, err, &seq)
	require.Equal(t, "a", seq.Phase)
	require.Equal(t, "value@1901", seq.Quantity)

	for i := 0; i < 200; i++ {
		res, err := Generate(cfg, WithParallel(true))
		require.Nil(t, res)
		require.ErrorIs(t, err, errs.ErrInvalidSample)

		var par *errs.DerivationError
		require.ErrorAs(t, err, &par)
		require.Equal(t, seq.Phase, par.Phase)
		require.Equal(t, seq.Quantity, par.Quantity)
	}
}
