package reconciler

import (
	"github.com/agentstation/sponsormap/pkg/errors"
	"github.com/agentstation/sponsormap/pkg/tiers"
)

// Options configures a reconciler.
type options struct {
	ladder   tiers.Ladder
	strategy Strategy
}

func defaultOptions() *options {
	return &options{
		ladder:   tiers.Default(),
		strategy: NewLifetimeStrategy(),
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithLadder sets the tier ladder used for bucketing.
func WithLadder(ladder tiers.Ladder) Option {
	return func(o *options) error {
		if err := ladder.Validate(); err != nil {
			return err
		}
		o.ladder = ladder
		return nil
	}
}

// WithStrategy sets the duplicate resolution strategy.
func WithStrategy(strategy Strategy) Option {
	return func(o *options) error {
		if strategy == nil {
			return &errors.ValidationError{
				Field:   "strategy",
				Message: "cannot be nil",
			}
		}
		o.strategy = strategy
		return nil
	}
}
