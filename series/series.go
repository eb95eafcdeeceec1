// Package series holds the ordered (year, value) samples produced by the phase generator.
package series

import (
	"fmt"
	"math"

	"github.com/arloliu/phasecurve/errs"
	"github.com/arloliu/phasecurve/internal/hash"
)

// Sample is one modeled value for one year.
type Sample struct {
	Year  int
	Value float64
}

// Series is an ordered sequence of samples, ascending by year.
//
// A year may appear twice at a phase boundary: once as the last sample of one
// phase and once as the first sample of the next.
type Series []Sample

// Years returns the sample years in order.
func (s Series) Years() []int {
	years := make([]int, len(s))
	for i, p := range s {
		years[i] = p.Year
	}

	return years
}

// Values returns the sample values in order.
func (s Series) Values() []float64 {
	values := make([]float64, len(s))
	for i, p := range s {
		values[i] = p.Value
	}

	return values
}

// Between returns the samples whose year lies in [from, to], in order.
// The returned series shares no memory with s.
func (s Series) Between(from, to int) Series {
	out := make(Series, 0)
	for _, p := range s {
		if p.Year >= from && p.Year <= to {
			out = append(out, p)
		}
	}

	return out
}

// Dedupe collapses consecutive samples with the same year into one.
//
// The later sample wins. At a phase boundary that is the first sample of the
// next phase, which is always evaluated from its own start value.
func (s Series) Dedupe() Series {
	out := make(Series, 0, len(s))
	for _, p := range s {
		if n := len(out); n > 0 && out[n-1].Year == p.Year {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}

	return out
}

// Duplicates returns the years that appear more than once, in order.
func (s Series) Duplicates() []int {
	var years []int
	for i := 1; i < len(s); i++ {
		if s[i].Year == s[i-1].Year {
			years = append(years, s[i].Year)
		}
	}

	return years
}

// Validate checks that years never decrease and every value is finite and positive.
func (s Series) Validate() error {
	for i, p := range s {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) || p.Value <= 0 {
			return fmt.Errorf("year %d: value %g: %w", p.Year, p.Value, errs.ErrInvalidSample)
		}
		if i > 0 && p.Year < s[i-1].Year {
			return fmt.Errorf("year %d follows %d: %w", p.Year, s[i-1].Year, errs.ErrInvalidSample)
		}
	}

	return nil
}

// NonIncreasing reports whether values never increase along the series.
func (s Series) NonIncreasing() bool {
	for i := 1; i < len(s); i++ {
		if s[i].Value > s[i-1].Value {
			return false
		}
	}

	return true
}

// NonDecreasing reports whether values never decrease along the series.
func (s Series) NonDecreasing() bool {
	for i := 1; i < len(s); i++ {
		if s[i].Value < s[i-1].Value {
			return false
		}
	}

	return true
}

// Max returns the largest value, or 0 for an empty series.
func (s Series) Max() float64 {
	if len(s) == 0 {
		return 0
	}

	m := s[0].Value
	for _, p := range s[1:] {
		m = math.Max(m, p.Value)
	}

	return m
}

// Fingerprint returns the xxHash64 of the samples.
// Identical series produce identical fingerprints across runs and platforms.
func (s Series) Fingerprint() uint64 {
	return hash.Points(s.Years(), s.Values())
}
