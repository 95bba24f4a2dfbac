package reconciler

import (
	"fmt"
	"time"

	"github.com/agentstation/sponsormap/pkg/roster"
	"github.com/agentstation/sponsormap/pkg/sponsors"
)

// Result represents the outcome of a reconciliation.
type Result struct {
	// Roster is the tiered, ranked output.
	Roster roster.Roster

	// Conflicts lists every duplicate identity decision.
	Conflicts []Conflict

	// Dropped lists identities that fell below every band.
	Dropped []string

	// Metadata
	Metadata ResultMetadata
}

// ResultMetadata contains metadata about the reconciliation process.
type ResultMetadata struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Strategy  StrategyType
	Stats     ResultStatistics
}

// ResultStatistics contains statistics about the reconciliation.
type ResultStatistics struct {
	Input  int // admitted records offered
	Unique int // distinct identities
	Placed int // members of the roster
}

// Conflict records one duplicate identity decision.
type Conflict struct {
	Identity       string          `json:"identity" yaml:"identity"`
	Winner         sponsors.Source `json:"winner" yaml:"winner"`
	WinnerLifetime float64         `json:"winner_lifetime" yaml:"winner_lifetime"`
	Loser          sponsors.Source `json:"loser" yaml:"loser"`
	LoserLifetime  float64         `json:"loser_lifetime" yaml:"loser_lifetime"`
}

func newConflict(winner, loser sponsors.Normalized) Conflict {
	return Conflict{
		Identity:       winner.Identity,
		Winner:         winner.Source,
		WinnerLifetime: winner.LifetimeTotal,
		Loser:          loser.Source,
		LoserLifetime:  loser.LifetimeTotal,
	}
}

// CrossProvider reports whether the duplicates came from different providers.
func (c Conflict) CrossProvider() bool {
	return c.Winner != c.Loser
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	return fmt.Sprintf("Reconciled %d records into %d sponsors (%d duplicates, %d dropped)",
		r.Metadata.Stats.Input, r.Metadata.Stats.Placed, len(r.Conflicts), len(r.Dropped))
}

func newResult(strategy Strategy) *Result {
	return &Result{
		Conflicts: []Conflict{},
		Dropped:   []string{},
		Metadata: ResultMetadata{
			StartTime: time.Now(),
			Strategy:  strategy.Type(),
		},
	}
}

// finalize calculates duration and marks completion.
func (r *Result) finalize() {
	r.Metadata.EndTime = time.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)
}
