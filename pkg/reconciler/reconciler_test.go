package reconciler_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/sponsormap/pkg/errors"
	"github.com/agentstation/sponsormap/pkg/reconciler"
	"github.com/agentstation/sponsormap/pkg/sponsors"
	"github.com/agentstation/sponsormap/pkg/tiers"
)

// Helper function to create test records
func createTestRecord(source sponsors.Source, id string, monthly, lifetime float64) sponsors.Normalized {
	return sponsors.Normalized{
		Record: sponsors.Record{
			Source:        source,
			Identity:      id,
			DisplayName:   id,
			BillingCycle:  sponsors.CycleMonthly,
			PeriodAmount:  monthly,
			LifetimeTotal: lifetime,
			IsActive:      true,
		},
		MonthlyEquivalent: monthly,
	}
}

func identities(t *testing.T, result *reconciler.Result, band string) []string {
	t.Helper()
	b, ok := result.Roster.Bucket(band)
	require.True(t, ok, "band %s", band)
	ids := make([]string, len(b.Members))
	for i, m := range b.Members {
		ids[i] = m.Identity
	}
	return ids
}

func TestReconcilerCrossProviderDuplicate(t *testing.T) {
	r, err := reconciler.New()
	require.NoError(t, err)

	result, err := r.Reconcile(context.Background(), []sponsors.Normalized{
		createTestRecord(sponsors.SourceOpenCollective, "acme", 30, 100),
		createTestRecord(sponsors.SourceGitHub, "acme", 30, 150),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Roster.Len())
	bronze, ok := result.Roster.Bucket("Bronze Sponsors")
	require.True(t, ok)
	require.Len(t, bronze.Members, 1)
	assert.Equal(t, sponsors.SourceGitHub, bronze.Members[0].Source)
	assert.Equal(t, 150.0, bronze.Members[0].LifetimeTotal)

	require.Len(t, result.Conflicts, 1)
	c := result.Conflicts[0]
	assert.True(t, c.CrossProvider())
	assert.Equal(t, sponsors.SourceGitHub, c.Winner)
	assert.Equal(t, sponsors.SourceOpenCollective, c.Loser)
	assert.Equal(t, 100.0, c.LoserLifetime)
}

func TestReconcilerDedupBeforeBucketing(t *testing.T) {
	r, err := reconciler.New()
	require.NoError(t, err)

	// The loser would land in Gold; the winner belongs in Backers.
	result, err := r.Reconcile(context.Background(), []sponsors.Normalized{
		createTestRecord(sponsors.SourceOpenCollective, "shift", 200, 400),
		createTestRecord(sponsors.SourceGitHub, "shift", 5, 900),
	})
	require.NoError(t, err)

	assert.Empty(t, identities(t, result, "Gold Sponsors"))
	assert.Equal(t, []string{"shift"}, identities(t, result, "Backers"))
}

func TestReconcilerTieKeepsFirstSeen(t *testing.T) {
	r, err := reconciler.New()
	require.NoError(t, err)

	result, err := r.Reconcile(context.Background(), []sponsors.Normalized{
		createTestRecord(sponsors.SourceGitHub, "twin", 60, 300),
		createTestRecord(sponsors.SourceOpenCollective, "twin", 10, 300),
	})
	require.NoError(t, err)

	silver, _ := result.Roster.Bucket("Silver Sponsors")
	require.Len(t, silver.Members, 1)
	assert.Equal(t, sponsors.SourceGitHub, silver.Members[0].Source)
}

func TestReconcilerWinnerKeepsFirstPosition(t *testing.T) {
	r, err := reconciler.New()
	require.NoError(t, err)

	result, err := r.Reconcile(context.Background(), []sponsors.Normalized{
		createTestRecord(sponsors.SourceOpenCollective, "x", 30, 40),
		createTestRecord(sponsors.SourceOpenCollective, "y", 30, 50),
		createTestRecord(sponsors.SourceGitHub, "x", 30, 50),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "y"}, identities(t, result, "Bronze Sponsors"))
	bronze, _ := result.Roster.Bucket("Bronze Sponsors")
	assert.Equal(t, sponsors.SourceGitHub, bronze.Members[0].Source)
}

func TestReconcilerRanking(t *testing.T) {
	r, err := reconciler.New()
	require.NoError(t, err)

	result, err := r.Reconcile(context.Background(), []sponsors.Normalized{
		createTestRecord(sponsors.SourceOpenCollective, "a", 150, 100),
		createTestRecord(sponsors.SourceOpenCollective, "b", 120, 900),
		createTestRecord(sponsors.SourceGitHub, "c", 500, 100),
		createTestRecord(sponsors.SourceGitHub, "d", 1, 50),
		createTestRecord(sponsors.SourceGitHub, "e", 2, 70),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a", "c"}, identities(t, result, "Gold Sponsors"))
	assert.Equal(t, []string{"e", "d"}, identities(t, result, "Backers"))
	assert.Equal(t, 5, result.Metadata.Stats.Placed)
	assert.Equal(t, reconciler.StrategyTypeLifetime, result.Metadata.Strategy)
}

func TestReconcilerBoundaries(t *testing.T) {
	ladder := tiers.Ladder{
		{Name: "500", Min: 500, LogoSize: 128},
		{Name: "250", Min: 250, LogoSize: 96},
		{Name: "100", Min: 100, LogoSize: 72},
		{Name: "50", Min: 50, LogoSize: 48},
		{Name: "20", Min: 20, LogoSize: 32},
		{Name: "0", Min: 0},
	}
	r, err := reconciler.New(reconciler.WithLadder(ladder))
	require.NoError(t, err)

	result, err := r.Reconcile(context.Background(), []sponsors.Normalized{
		createTestRecord(sponsors.SourceGitHub, "exact", 100.00, 10),
		createTestRecord(sponsors.SourceGitHub, "under", 99.99, 10),
		createTestRecord(sponsors.SourceGitHub, "zero", 0, 10),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"exact"}, identities(t, result, "100"))
	assert.Equal(t, []string{"under"}, identities(t, result, "50"))
	assert.Equal(t, []string{"zero"}, result.Dropped)
	assert.Equal(t, 2, result.Roster.Len())
}

func TestReconcilerMonthlyStrategy(t *testing.T) {
	strategy, err := reconciler.ParseStrategy("monthly")
	require.NoError(t, err)

	r, err := reconciler.New(reconciler.WithStrategy(strategy))
	require.NoError(t, err)

	result, err := r.Reconcile(context.Background(), []sponsors.Normalized{
		createTestRecord(sponsors.SourceOpenCollective, "acme", 100, 100),
		createTestRecord(sponsors.SourceGitHub, "acme", 30, 5000),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"acme"}, identities(t, result, "Gold Sponsors"))
}

func TestOptionsValidation(t *testing.T) {
	_, err := reconciler.New(reconciler.WithStrategy(nil))
	assert.True(t, errors.IsValidationError(err))

	_, err = reconciler.New(reconciler.WithLadder(tiers.Ladder{{Name: "A", Min: 1}, {Name: "B", Min: 2}}))
	assert.True(t, errors.IsValidationError(err))

	_, err = reconciler.ParseStrategy("coinflip")
	assert.True(t, errors.IsValidationError(err))
}

func TestReconcileIsDeterministic(t *testing.T) {
	records := []sponsors.Normalized{
		createTestRecord(sponsors.SourceOpenCollective, "x", 20, 40),
		createTestRecord(sponsors.SourceGitHub, "y", 20, 40),
		createTestRecord(sponsors.SourceGitHub, "x", 25, 40),
		createTestRecord(sponsors.SourceOpenCollective, "z", 75, 10),
	}

	first, err := reconciler.Reconcile(context.Background(), tiers.Default(), records)
	require.NoError(t, err)
	second, err := reconciler.Reconcile(context.Background(), tiers.Default(), records)
	require.NoError(t, err)

	if diff := cmp.Diff(first.Buckets(), second.Buckets()); diff != "" {
		t.Errorf("roster mismatch (-first +second):\n%s", diff)
	}
	assert.Equal(t, []string{"z", "x", "y"}, first.Identities())
}

func TestReconcileEmpty(t *testing.T) {
	r, err := reconciler.Reconcile(context.Background(), tiers.Default(), nil)
	require.NoError(t, err)
	assert.True(t, r.IsEmpty())
}
