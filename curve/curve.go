package curve

import (
	"fmt"
	"math"

	"github.com/arloliu/phasecurve/errs"
	"github.com/arloliu/phasecurve/format"
)

// Curve defines the interface for a phase curve.
type Curve interface {
	// Value evaluates the curve at the given year.
	Value(year int) float64
	// Form returns the functional form of the curve.
	Form() format.FormType
	// Params returns the derived parameters of the curve.
	//   - linear: [v0, v1]
	//   - exponential decay: [P0, k]
	//   - logistic: [K, A, r]
	Params() []float64
	// Formula returns a human-readable representation of the curve.
	Formula() string
}

var (
	_ Curve = (*LinearCurve)(nil)
	_ Curve = (*DecayCurve)(nil)
	_ Curve = (*LogisticCurve)(nil)
)

// LinearCurve interpolates linearly between two boundary values.
type LinearCurve struct {
	start, end int
	v0, v1     float64
}

// NewLinear creates a linear curve from (start, v0) to (end, v1).
//
// Returns an error if end <= start (division by zero) or a value is not finite.
func NewLinear(start, end int, v0, v1 float64) (*LinearCurve, error) {
	if err := checkDuration(start, end); err != nil {
		return nil, err
	}
	if err := checkFinite("start_value", v0); err != nil {
		return nil, err
	}
	if err := checkFinite("end_value", v1); err != nil {
		return nil, err
	}

	return &LinearCurve{start: start, end: end, v0: v0, v1: v1}, nil
}

// Value calculates v0 + frac * (v1 - v0).
func (l *LinearCurve) Value(year int) float64 {
	frac := float64(year-l.start) / float64(l.end-l.start)
	return l.v0 + frac*(l.v1-l.v0)
}

// Form returns format.FormLinear.
func (l *LinearCurve) Form() format.FormType {
	return format.FormLinear
}

// Params returns [v0, v1].
func (l *LinearCurve) Params() []float64 {
	return []float64{l.v0, l.v1}
}

// Formula returns the interpolation formula.
func (l *LinearCurve) Formula() string {
	return fmt.Sprintf("P = %.2f + (t - %d) / %d * (%.2f - %.2f)", l.v0, l.start, l.end-l.start, l.v1, l.v0)
}

// DecayCurve implements P = P0 * e^(-k * (t - t0)).
//
// The decay constant is derived as k = ln(P0 / P1) / (t1 - t0). When P1 > P0
// the constant is negative and the curve grows; this is accepted.
type DecayCurve struct {
	start int
	p0, k float64
}

// NewDecay creates an exponential curve through (start, p0) and (end, pEnd).
//
// Both values must be positive and end must be after start.
func NewDecay(start, end int, p0, pEnd float64) (*DecayCurve, error) {
	if err := checkDuration(start, end); err != nil {
		return nil, err
	}
	if err := checkPositive("P0", p0); err != nil {
		return nil, err
	}
	if err := checkPositive("P_end", pEnd); err != nil {
		return nil, err
	}

	k := math.Log(p0/pEnd) / float64(end-start)
	if math.IsNaN(k) || math.IsInf(k, 0) {
		return nil, errs.Derivation("", "k", k, errs.ErrInvalidRate)
	}

	return &DecayCurve{start: start, p0: p0, k: k}, nil
}

// Value calculates P0 * e^(-k * (year - start)).
func (d *DecayCurve) Value(year int) float64 {
	return d.p0 * math.Exp(-d.k*float64(year-d.start))
}

// Form returns format.FormExponentialDecay.
func (d *DecayCurve) Form() format.FormType {
	return format.FormExponentialDecay
}

// Params returns [P0, k].
func (d *DecayCurve) Params() []float64 {
	return []float64{d.p0, d.k}
}

// DecayConstant returns k. A negative constant means the curve grows.
func (d *DecayCurve) DecayConstant() float64 {
	return d.k
}

// Formula returns the decay formula.
func (d *DecayCurve) Formula() string {
	return fmt.Sprintf("P = %.2f * e^(%.6f * (t - %d))", d.p0, -d.k, d.start)
}

// LogisticCurve implements P = K / (1 + A * e^(-r * (t - t0))).
type LogisticCurve struct {
	form     format.FormType
	start    int
	capacity float64
	a, r     float64
}

// NewLogistic creates a logistic curve starting at (start, v0) whose rate is
// derived from the target value at end.
//
// Rate rules:
//   - format.RateAnchored: r = -ln((K/target - 1) / A) / (end - start), so Value(end) == target
//   - format.RateLegacy: r = ln(K/target - 1) / -(end - start), which ignores A
//
// Parameters:
//   - start, end: Phase boundary years (end > start)
//   - capacity: Carrying capacity K, must exceed v0 and target
//   - v0: Value at start (> 0)
//   - target: Value the rate is derived from (> 0)
//   - rule: Rate derivation rule
//
// Returns:
//   - *LogisticCurve: The derived curve
//   - error: *errs.DerivationError naming the invalid quantity
func NewLogistic(start, end int, capacity, v0, target float64, rule format.RateRule) (*LogisticCurve, error) {
	if err := checkDuration(start, end); err != nil {
		return nil, err
	}
	a, err := logisticOffset(capacity, v0)
	if err != nil {
		return nil, err
	}
	if err := checkPositive("target", target); err != nil {
		return nil, err
	}

	ratio := capacity/target - 1
	if ratio <= 0 {
		return nil, errs.Derivation("", "K/target-1", ratio, errs.ErrDomain)
	}

	duration := float64(end - start)
	var r float64
	switch rule {
	case format.RateAnchored:
		r = -math.Log(ratio/a) / duration
	case format.RateLegacy:
		r = math.Log(ratio) / -duration
	default:
		return nil, fmt.Errorf("unknown rate rule %s: %w", rule, errs.ErrInvalidConfig)
	}
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return nil, errs.Derivation("", "r", r, errs.ErrInvalidRate)
	}

	return &LogisticCurve{form: format.FormLogistic, start: start, capacity: capacity, a: a, r: r}, nil
}

// NewLogisticFixed creates a logistic curve starting at (start, v0) with a constant rate.
//
// The curve does not target any end value; callers that need to know how far it
// lands from an anchor must compare Value(end) themselves.
func NewLogisticFixed(start int, capacity, v0, rate float64) (*LogisticCurve, error) {
	a, err := logisticOffset(capacity, v0)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return nil, errs.Derivation("", "r", rate, errs.ErrInvalidRate)
	}

	return &LogisticCurve{form: format.FormLogisticFixed, start: start, capacity: capacity, a: a, r: rate}, nil
}

// Value calculates K / (1 + A * e^(-r * (year - start))).
func (l *LogisticCurve) Value(year int) float64 {
	return l.capacity / (1 + l.a*math.Exp(-l.r*float64(year-l.start)))
}

// Form returns format.FormLogistic or format.FormLogisticFixed.
func (l *LogisticCurve) Form() format.FormType {
	return l.form
}

// Params returns [K, A, r].
func (l *LogisticCurve) Params() []float64 {
	return []float64{l.capacity, l.a, l.r}
}

// Capacity returns the carrying capacity K.
func (l *LogisticCurve) Capacity() float64 {
	return l.capacity
}

// Rate returns the growth rate r. A negative rate means the curve declines toward zero.
func (l *LogisticCurve) Rate() float64 {
	return l.r
}

// Formula returns the logistic formula.
func (l *LogisticCurve) Formula() string {
	return fmt.Sprintf("P = %.2f / (1 + %.6f * e^(%.6f * (t - %d)))", l.capacity, l.a, -l.r, l.start)
}

// logisticOffset computes A = (K - v0) / v0 and rejects K <= v0.
func logisticOffset(capacity, v0 float64) (float64, error) {
	if err := checkPositive("K", capacity); err != nil {
		return 0, err
	}
	if err := checkPositive("start_value", v0); err != nil {
		return 0, err
	}

	a := (capacity - v0) / v0
	if a <= 0 {
		return 0, errs.Derivation("", "A", a, errs.ErrDomain)
	}

	return a, nil
}

func checkDuration(start, end int) error {
	if end <= start {
		return errs.Derivation("", "duration", float64(end-start), errs.ErrDomain)
	}

	return nil
}

func checkFinite(quantity string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errs.Derivation("", quantity, v, errs.ErrDomain)
	}

	return nil
}

func checkPositive(quantity string, v float64) error {
	if err := checkFinite(quantity, v); err != nil {
		return err
	}
	if v <= 0 {
		return errs.Derivation("", quantity, v, errs.ErrDomain)
	}

	return nil
}
