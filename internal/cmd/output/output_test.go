package output_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/sponsormap/internal/cmd/output"
	"github.com/agentstation/sponsormap/internal/cmd/table"
	"github.com/agentstation/sponsormap/pkg/errors"
	"github.com/agentstation/sponsormap/pkg/roster"
	"github.com/agentstation/sponsormap/pkg/sponsors"
	"github.com/agentstation/sponsormap/pkg/sync"
	"github.com/agentstation/sponsormap/pkg/tiers"
)

func sampleRoster() roster.Roster {
	return roster.New(tiers.Default(), map[string][]sponsors.Normalized{
		"Silver Sponsors": {{
			Record: sponsors.Record{
				Source:        sponsors.SourceOpenCollective,
				Identity:      "acme",
				DisplayName:   "Acme",
				BillingCycle:  sponsors.CycleYearly,
				PeriodAmount:  720,
				LifetimeTotal: 1440,
				IsActive:      true,
			},
			MonthlyEquivalent: 60,
		}},
	})
}

func TestParseFormat(t *testing.T) {
	f, err := output.ParseFormat(" YAML ")
	require.NoError(t, err)
	assert.Equal(t, output.FormatYAML, f)

	_, err = output.ParseFormat("xml")
	assert.True(t, errors.IsValidationError(err))

	assert.Equal(t, output.FormatJSON, output.DetectFormat("JSON"))
}

func TestFormatRosterJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.FormatRoster(&buf, output.FormatJSON, sampleRoster()))

	var entries []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Silver Sponsors", entries[0]["tier"])
	assert.Equal(t, "acme", entries[0]["identity"])
}

func TestFormatRosterYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.FormatRoster(&buf, output.FormatYAML, sampleRoster()))

	var entries []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Silver Sponsors", entries[0]["tier"])
}

func TestFormatRosterTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.FormatRoster(&buf, output.FormatTable, sampleRoster()))

	out := buf.String()
	assert.Contains(t, out, "Silver Sponsors")
	assert.Contains(t, out, "$60.00")
	assert.Contains(t, out, "$1440.00")
}

func TestFormatResultTable(t *testing.T) {
	result := &sync.Result{
		Providers: []sync.ProviderResult{{Source: sponsors.SourceGitHub, Status: sync.StatusFailed, Error: "boom"}},
		Tiers:     []roster.TierCount{{Tier: "Backers", Count: 2}},
	}

	var buf bytes.Buffer
	require.NoError(t, output.FormatResult(&buf, output.FormatTable, result))
	out := buf.String()
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "Backers")
	assert.Contains(t, out, "from 0/1 providers")
}

func TestTableFormatterReflection(t *testing.T) {
	type info struct {
		Version string `json:"version"`
		BuiltBy string `json:"built_by"`
		secret  string
		Ignored string `json:"-"`
	}

	var buf bytes.Buffer
	f := &output.TableFormatter{}
	require.NoError(t, f.Format(&buf, info{Version: "1.0.0", BuiltBy: "make", secret: "x", Ignored: "y"}))

	out := strings.ToLower(buf.String())
	assert.Contains(t, out, "built by")
	assert.Contains(t, out, "1.0.0")
	assert.NotContains(t, out, "ignored")
}

func TestTableFormatterData(t *testing.T) {
	var buf bytes.Buffer
	f := output.NewFormatter(output.FormatWide)
	require.NoError(t, f.Format(&buf, table.Data{Headers: []string{"A"}, Rows: [][]string{{"cell"}}}))
	assert.Contains(t, buf.String(), "cell")
}
