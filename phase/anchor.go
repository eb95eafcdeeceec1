package phase

import (
	"maps"
	"math"
	"slices"
)

// Anchor is a known (year, value) pair.
type Anchor struct {
	Year  int
	Value float64
}

// AnchorTable maps a year to its known value.
type AnchorTable map[int]float64

// Lookup returns the anchor value for year.
func (t AnchorTable) Lookup(year int) (float64, bool) {
	v, ok := t[year]
	return v, ok
}

// Anchors returns the anchors ordered by year.
func (t AnchorTable) Anchors() []Anchor {
	years := slices.Sorted(maps.Keys(t))
	out := make([]Anchor, len(years))
	for i, y := range years {
		out[i] = Anchor{Year: y, Value: t[y]}
	}

	return out
}

// Clone returns a copy of the table.
func (t AnchorTable) Clone() AnchorTable {
	return maps.Clone(t)
}

func validAnchorValue(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
