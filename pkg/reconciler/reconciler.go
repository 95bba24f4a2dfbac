// Package reconciler merges admitted sponsorship records from every provider
// into a single tiered roster.
//
// Reconciliation runs as two strictly sequential passes. The first resolves
// duplicate identities completely; the second assigns each survivor to a band
// of the tier ladder. Members are then ranked by lifetime contribution.
package reconciler

import (
	"context"
	"sort"

	"github.com/agentstation/sponsormap/pkg/logging"
	"github.com/agentstation/sponsormap/pkg/roster"
	"github.com/agentstation/sponsormap/pkg/sponsors"
	"github.com/agentstation/sponsormap/pkg/tiers"
)

// Reconciler turns admitted records into a Roster.
type Reconciler interface {
	// Reconcile deduplicates, buckets and ranks the given records.
	Reconcile(ctx context.Context, records []sponsors.Normalized) (*Result, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	ladder   tiers.Ladder
	strategy Strategy
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{
		ladder:   options.ladder,
		strategy: options.strategy,
	}, nil
}

// Reconcile performs reconciliation with clean step-by-step flow.
func (r *reconciler) Reconcile(ctx context.Context, records []sponsors.Normalized) (*Result, error) {
	logger := logging.FromContext(logging.WithOperation(ctx, "reconcile"))
	result := newResult(r.strategy)
	result.Metadata.Stats.Input = len(records)

	// Step 1: resolve duplicate identities before any bucketing
	c := newCollector(r.strategy)
	for i, rec := range records {
		c.add(i, rec)
	}
	survivors, conflicts := c.results()
	result.Conflicts = conflicts
	for _, conflict := range conflicts {
		event := logger.Debug()
		if conflict.CrossProvider() {
			event = logger.Info()
		}
		event.Str("identity", conflict.Identity).
			Str("winner", conflict.Winner.String()).
			Float64("winner_lifetime", conflict.WinnerLifetime).
			Str("loser", conflict.Loser.String()).
			Float64("loser_lifetime", conflict.LoserLifetime).
			Msg("Resolved duplicate sponsor")
	}

	// Step 2: assign each survivor to a band
	members := make(map[string][]sponsors.Normalized, len(r.ladder))
	for _, rec := range survivors {
		band, ok := r.ladder.Bucket(rec.MonthlyEquivalent)
		if !ok {
			result.Dropped = append(result.Dropped, rec.Identity)
			logger.Debug().
				Str("identity", rec.Identity).
				Float64("monthly", rec.MonthlyEquivalent).
				Msg("Dropped sponsor below every band")
			continue
		}
		members[band.Name] = append(members[band.Name], rec)
	}

	// Step 3: rank within each band, keeping input order on ties
	for name := range members {
		bucket := members[name]
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].LifetimeTotal > bucket[j].LifetimeTotal
		})
	}

	result.Roster = roster.New(r.ladder, members)
	if err := validateRoster(result.Roster); err != nil {
		return nil, err
	}

	result.Metadata.Stats.Unique = len(survivors)
	result.Metadata.Stats.Placed = result.Roster.Len()
	result.finalize()

	logger.Info().
		Int("input", result.Metadata.Stats.Input).
		Int("placed", result.Metadata.Stats.Placed).
		Int("duplicates", len(result.Conflicts)).
		Int("dropped", len(result.Dropped)).
		Dur("duration", result.Metadata.Duration).
		Msg("Reconciled sponsors")

	return result, nil
}

// Reconcile is a convenience wrapper that reconciles with the default options
// and the given ladder.
func Reconcile(ctx context.Context, ladder tiers.Ladder, records []sponsors.Normalized) (roster.Roster, error) {
	r, err := New(WithLadder(ladder))
	if err != nil {
		return roster.Roster{}, err
	}
	result, err := r.Reconcile(ctx, records)
	if err != nil {
		return roster.Roster{}, err
	}
	return result.Roster, nil
}
