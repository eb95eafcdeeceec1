// Package phase builds a yearly series from anchored, piecewise curve phases.
//
// A Config pairs an AnchorTable (year -> known value) with an ordered list of
// contiguous phase Definitions. Each phase picks a functional form and derives its
// free parameter from the anchor table only, never from the previous phase's
// output, so adjacent phases agree at a shared boundary year because both read
// the same anchor.
//
// # Basic Usage
//
//	result, err := phase.Generate(cfg, phase.WithDedupeBoundaries(false))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, s := range result.Series {
//	    fmt.Println(s.Year, s.Value)
//	}
//
// Every phase emits one sample per year including both of its endpoints, so a
// boundary year appears twice unless WithDedupeBoundaries(true) is given.
//
// # Failure Semantics
//
// Configuration problems are reported as errs.ErrInvalidConfig or
// errs.ErrMissingAnchor before any curve is built. A phase whose parameters cannot
// be derived fails the whole generation with an *errs.DerivationError naming the
// phase and the offending quantity; no partial series is returned.
package phase
