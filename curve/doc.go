// Package curve provides the closed-form curves used to model population phases.
//
// Each curve is constructed from boundary values and derives its free parameter so
// the curve passes through those values:
//
//   - Linear: P = v0 + (t - t0) / (t1 - t0) * (v1 - v0)
//   - Exponential decay: P = P0 * e^(-k * (t - t0)), k = ln(P0 / P1) / (t1 - t0)
//   - Logistic: P = K / (1 + A * e^(-r * (t - t0))), A = (K - v0) / v0
//
// The logistic rate r is either derived from the end value (see format.RateRule)
// or supplied as a constant, in which case the curve is not guaranteed to reach
// the end value.
//
// # Usage
//
//	c, err := curve.NewDecay(1860, 1884, 45_000_000, 325)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(c.Value(1870), c.Formula())
//
// Constructors report invalid inputs as *errs.DerivationError values naming the
// offending quantity. The Phase field is left empty; the phase package fills it in.
package curve
