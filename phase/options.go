package phase

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/phasecurve/errs"
	"github.com/arloliu/phasecurve/format"
	"github.com/arloliu/phasecurve/internal/options"
)

// generatorConfig holds the tunables of a Generator.
type generatorConfig struct {
	dedupe   bool
	rateRule format.RateRule
	parallel bool
	logger   *zap.Logger
}

// defaultGeneratorConfig preserves boundary duplicates and anchors logistic rates.
func defaultGeneratorConfig() generatorConfig {
	return generatorConfig{
		dedupe:   false,
		rateRule: format.RateAnchored,
		parallel: false,
		logger:   zap.NewNop(),
	}
}

// Option is a functional option for the generator.
type Option = options.Option[*generatorConfig]

// WithDedupeBoundaries drops the duplicated boundary-year sample when enabled.
// The sample of the later phase is kept.
func WithDedupeBoundaries(enabled bool) Option {
	return options.NoError(func(cfg *generatorConfig) {
		cfg.dedupe = enabled
	})
}

// WithRateRule selects how logistic rates are derived from their target anchor.
func WithRateRule(rule format.RateRule) Option {
	return options.New(func(cfg *generatorConfig) error {
		if rule != format.RateAnchored && rule != format.RateLegacy {
			return fmt.Errorf("rate rule %s: %w", rule, errs.ErrInvalidConfig)
		}
		cfg.rateRule = rule

		return nil
	})
}

// WithParallel evaluates phases concurrently. The output is identical to the
// sequential evaluation.
func WithParallel(enabled bool) Option {
	return options.NoError(func(cfg *generatorConfig) {
		cfg.parallel = enabled
	})
}

// WithLogger sets the logger used for per-phase diagnostics. A nil logger disables logging.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(cfg *generatorConfig) {
		if logger == nil {
			logger = zap.NewNop()
		}
		cfg.logger = logger
	})
}
