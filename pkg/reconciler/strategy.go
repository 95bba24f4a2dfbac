package reconciler

import (
	"fmt"
	"strings"

	"github.com/agentstation/sponsormap/pkg/errors"
	"github.com/agentstation/sponsormap/pkg/sponsors"
)

// StrategyType represents the type of duplicate resolution strategy.
type StrategyType string

// String returns the string representation of a strategy type.
func (s StrategyType) String() string {
	return string(s)
}

const (
	// StrategyTypeLifetime keeps the record with the greater lifetime total.
	StrategyTypeLifetime StrategyType = "lifetime"
	// StrategyTypeMonthly keeps the record with the greater monthly equivalent,
	// falling back to lifetime total.
	StrategyTypeMonthly StrategyType = "monthly"
)

// Strategy decides which of two records with the same identity survives.
type Strategy interface {
	// Type returns the strategy type
	Type() StrategyType

	// Description returns a human-readable description
	Description() string

	// Prefer reports whether candidate should replace current.
	// Returning false on a tie keeps the first-seen record.
	Prefer(current, candidate sponsors.Normalized) bool
}

// lifetimeStrategy compares lifetime totals.
type lifetimeStrategy struct{}

// NewLifetimeStrategy returns the default strategy: the greater lifetime
// total wins and the first-seen record wins an exact tie.
func NewLifetimeStrategy() Strategy {
	return lifetimeStrategy{}
}

func (lifetimeStrategy) Type() StrategyType { return StrategyTypeLifetime }

func (lifetimeStrategy) Description() string {
	return "Keep the record with the greatest lifetime contribution"
}

func (lifetimeStrategy) Prefer(current, candidate sponsors.Normalized) bool {
	return candidate.LifetimeTotal > current.LifetimeTotal
}

// monthlyStrategy compares current rates first.
type monthlyStrategy struct{}

// NewMonthlyStrategy returns a strategy that prefers the higher monthly
// equivalent. Lifetime totals from different providers cover different
// accounting windows; the monthly rate does not.
func NewMonthlyStrategy() Strategy {
	return monthlyStrategy{}
}

func (monthlyStrategy) Type() StrategyType { return StrategyTypeMonthly }

func (monthlyStrategy) Description() string {
	return "Keep the record with the highest monthly equivalent"
}

func (monthlyStrategy) Prefer(current, candidate sponsors.Normalized) bool {
	if candidate.MonthlyEquivalent != current.MonthlyEquivalent {
		return candidate.MonthlyEquivalent > current.MonthlyEquivalent
	}
	return candidate.LifetimeTotal > current.LifetimeTotal
}

// ParseStrategy returns the strategy with the given type name.
func ParseStrategy(name string) (Strategy, error) {
	switch StrategyType(strings.ToLower(strings.TrimSpace(name))) {
	case "", StrategyTypeLifetime:
		return NewLifetimeStrategy(), nil
	case StrategyTypeMonthly:
		return NewMonthlyStrategy(), nil
	}
	return nil, errors.NewValidationError("strategy", name,
		fmt.Sprintf("unknown strategy (want %s or %s)", StrategyTypeLifetime, StrategyTypeMonthly))
}
