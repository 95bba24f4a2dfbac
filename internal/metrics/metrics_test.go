package metrics_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/sponsormap/internal/metrics"
	"github.com/agentstation/sponsormap/pkg/eligibility"
	"github.com/agentstation/sponsormap/pkg/reconciler"
	"github.com/agentstation/sponsormap/pkg/roster"
	"github.com/agentstation/sponsormap/pkg/sponsors"
	"github.com/agentstation/sponsormap/pkg/sync"
)

func sampleResult() *sync.Result {
	return &sync.Result{
		StartTime: time.Unix(1700000000, 0),
		Duration:  1500 * time.Millisecond,
		Providers: []sync.ProviderResult{
			{Source: sponsors.SourceOpenCollective, Status: sync.StatusOK, Records: 4},
			{Source: sponsors.SourceGitHub, Status: sync.StatusFailed, Error: "boom"},
		},
		Excluded: eligibility.Exclusions{
			eligibility.ReasonExpired:  2,
			eligibility.ReasonInactive: 1,
		},
		Conflicts: []reconciler.Conflict{{Identity: "acme"}},
		Tiers: []roster.TierCount{
			{Tier: "Gold Sponsors", Count: 1},
			{Tier: "Backers", Count: 3},
		},
		Documents: []sync.DocumentResult{
			{Path: "README.md", Status: sync.StatusUpdated},
			{Path: "docs/index.md", Status: sync.StatusFailed},
		},
	}
}

func TestObserve(t *testing.T) {
	m := metrics.NewManager()
	m.Observe(sampleResult())

	expected := `
# HELP sponsormap_tier_members Number of sponsors placed in each tier
# TYPE sponsormap_tier_members gauge
sponsormap_tier_members{tier="Backers"} 3
sponsormap_tier_members{tier="Gold Sponsors"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "sponsormap_tier_members"))

	expected = `
# HELP sponsormap_records_excluded_total Records excluded by the eligibility rules, by reason
# TYPE sponsormap_records_excluded_total counter
sponsormap_records_excluded_total{reason="expired"} 2
sponsormap_records_excluded_total{reason="inactive"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "sponsormap_records_excluded_total"))

	expected = `
# HELP sponsormap_fetch_failures_total Provider fetches that failed
# TYPE sponsormap_fetch_failures_total counter
sponsormap_fetch_failures_total{provider="github"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "sponsormap_fetch_failures_total"))

	count, err := testutil.GatherAndCount(m.Registry(), "sponsormap_patch_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestObserveResetsTiers(t *testing.T) {
	m := metrics.NewManager()
	m.Observe(sampleResult())

	next := sampleResult()
	next.Tiers = []roster.TierCount{{Tier: "Backers", Count: 5}}
	m.Observe(next)

	count, err := testutil.GatherAndCount(m.Registry(), "sponsormap_tier_members")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecordWritesTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sponsormap.prom")
	m := metrics.NewManager(metrics.WithTextfile(path), metrics.WithNamespace("sponsors"))

	require.NoError(t, m.Record(sampleResult()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sponsors_last_run_timestamp_seconds 1.7e+09")
	assert.Contains(t, string(data), `sponsors_provider_records{provider="opencollective"} 4`)
}

func TestRecordWithoutTextfile(t *testing.T) {
	m := metrics.NewManager()
	assert.NoError(t, m.Record(nil))
	assert.NoError(t, m.Record(sampleResult()))
}
