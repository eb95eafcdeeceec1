package config

import (
	"github.com/arloliu/phasecurve/format"
	"github.com/arloliu/phasecurve/phase"
)

// Default model constants for the American bison population, 1800-2017.
const (
	DefaultStartYear = 1800
	DefaultEndYear   = 2017

	// DefaultPreCollapseValue is the assumed population in DefaultStartYear.
	// It is a phase start value, not an anchor.
	DefaultPreCollapseValue = 60_000_000

	DefaultEarlyCapacity  = 5000
	DefaultMidCapacity    = 300_000
	DefaultModernCapacity = 500_000
	DefaultModernRate     = 0.1

	DefaultTablePath = "data/raw/revised_bison_population.csv"
	DefaultChartPath = "data/raw/revised_bison_population.png"

	DefaultChartTitle = "American Bison Population: Piecewise Modeled Trend"
)

// Phase boundary years of the default model.
const (
	CollapseYear       = 1860
	NearExtinctionYear = 1884
	EarlyRecoveryYear  = 1920
	MidRecoveryYear    = 1990
)

// DefaultAnchors returns the historical anchor points of the default model.
// The 1920 value is a placeholder estimate.
func DefaultAnchors() phase.AnchorTable {
	return phase.AnchorTable{
		CollapseYear:       45_000_000,
		NearExtinctionYear: 325,
		1889:               1091,
		1905:               1091,
		1910:               2108,
		EarlyRecoveryYear:  225,
		MidRecoveryYear:    237_500,
		DefaultEndYear:     500_000,
	}
}

// DefaultPhases returns the five phases of the default model.
func DefaultPhases() []PhaseSpec {
	return []PhaseSpec{
		{
			Name:       "pre-collapse",
			Start:      DefaultStartYear,
			End:        CollapseYear,
			Form:       format.FormLinear.String(),
			StartValue: DefaultPreCollapseValue,
		},
		{
			Name:  "collapse",
			Start: CollapseYear,
			End:   NearExtinctionYear,
			Form:  format.FormExponentialDecay.String(),
		},
		{
			Name:     "early-recovery",
			Start:    NearExtinctionYear,
			End:      EarlyRecoveryYear,
			Form:     format.FormLogistic.String(),
			Capacity: DefaultEarlyCapacity,
		},
		{
			Name:     "mid-recovery",
			Start:    EarlyRecoveryYear,
			End:      MidRecoveryYear,
			Form:     format.FormLogistic.String(),
			Capacity: DefaultMidCapacity,
		},
		{
			Name:     "modern-recovery",
			Start:    MidRecoveryYear,
			End:      DefaultEndYear,
			Form:     format.FormLogisticFixed.String(),
			Capacity: DefaultModernCapacity,
			Rate:     DefaultModernRate,
		},
	}
}

// Default returns the complete default configuration.
func Default() File {
	return File{
		Anchors:  DefaultAnchors(),
		Phases:   DefaultPhases(),
		RateRule: format.RateAnchored.String(),
		Output: Output{
			Table: DefaultTablePath,
			Chart: DefaultChartPath,
			Title: DefaultChartTitle,
		},
	}
}
