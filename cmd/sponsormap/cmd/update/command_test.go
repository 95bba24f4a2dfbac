package update

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/sponsormap/internal/appcontext"
	"github.com/agentstation/sponsormap/pkg/constants"
	"github.com/agentstation/sponsormap/pkg/errors"
	"github.com/agentstation/sponsormap/pkg/render"
	"github.com/agentstation/sponsormap/pkg/sponsors"
	"github.com/agentstation/sponsormap/pkg/sync"
)

type stubProvider struct {
	source sponsors.Source
	ids    []string
	err    error
}

func (s stubProvider) Source() sponsors.Source { return s.source }

func (s stubProvider) Fetch(context.Context) (sponsors.Batch, error) {
	if s.err != nil {
		return sponsors.Batch{}, s.err
	}
	batch := sponsors.Batch{Source: s.source}
	for _, id := range s.ids {
		r, err := sponsors.New(s.source, sponsors.Fields{
			Identity:      id,
			BillingCycle:  sponsors.CycleMonthly,
			PeriodAmount:  25,
			LifetimeTotal: 100,
			IsActive:      true,
		})
		if err != nil {
			return batch, err
		}
		batch.Records = append(batch.Records, r)
	}
	return batch, nil
}

const readme = "intro\n" + constants.BeginMarker + "\n" + constants.EndMarker + "\n"

func run(t *testing.T, fs afero.Fs, providers []sync.Provider, args ...string) (string, error) {
	t.Helper()
	app := &appcontext.Mock{
		OutputFormatFunc: func() string { return "json" },
		PipelineFunc: func(opts ...sync.Option) (*sync.Pipeline, error) {
			base := []sync.Option{
				sync.WithFs(fs),
				sync.WithTargets(sync.Target{Path: "README.md", Renderer: render.KindDetailed, Begin: constants.BeginMarker, End: constants.EndMarker}),
			}
			return sync.New(providers, append(base, opts...)...)
		},
	}

	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{}, args...))
	cmd.SetContext(context.Background())
	err := cmd.Execute()
	return out.String(), err
}

func TestUpdateWritesDocument(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "README.md", []byte(readme), 0o644))

	out, err := run(t, fs, []sync.Provider{
		stubProvider{source: sponsors.SourceOpenCollective, ids: []string{"acme"}},
	})
	require.NoError(t, err)

	var summary map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, false, summary["dry_run"])

	data, err := afero.ReadFile(fs, "README.md")
	require.NoError(t, err)
	assert.Contains(t, string(data), "### Bronze Sponsors")
	assert.Contains(t, string(data), "[acme](https://opencollective.com/acme)")
}

func TestUpdateDryRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "README.md", []byte(readme), 0o644))

	_, err := run(t, fs, []sync.Provider{
		stubProvider{source: sponsors.SourceOpenCollective, ids: []string{"acme"}},
	}, "--dry-run")
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "README.md")
	require.NoError(t, err)
	assert.Equal(t, readme, string(data))
}

func TestUpdateSkipFlags(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "README.md", []byte(readme), 0o644))

	_, err := run(t, fs, []sync.Provider{
		stubProvider{source: sponsors.SourceOpenCollective, ids: []string{"acme"}},
		stubProvider{source: sponsors.SourceGitHub, err: errors.New("should not be called")},
	}, "--skip-github")
	require.NoError(t, err)
}

func TestUpdateFailsWhenAllProvidersFail(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "README.md", []byte(readme), 0o644))

	_, err := run(t, fs, []sync.Provider{
		stubProvider{source: sponsors.SourceOpenCollective, err: errors.New("offline")},
	})
	assert.ErrorIs(t, err, sync.ErrAllProvidersFailed)

	data, readErr := afero.ReadFile(fs, "README.md")
	require.NoError(t, readErr)
	assert.Equal(t, readme, string(data))
}

func TestUpdateFailsOnMissingMarkers(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "README.md", []byte("no markers\n"), 0o644))

	_, err := run(t, fs, []sync.Provider{
		stubProvider{source: sponsors.SourceOpenCollective, ids: []string{"acme"}},
	})
	assert.ErrorIs(t, err, sync.ErrDocumentsFailed)
	assert.True(t, errors.IsMarkerNotFound(err))
}

func TestFlagsOptions(t *testing.T) {
	f := &Flags{DryRun: true, SkipGitHub: true, SkipOpenCollective: true}
	o := sync.Defaults().Apply(f.Options()...)
	assert.True(t, o.DryRun)
	assert.ElementsMatch(t, []sponsors.Source{sponsors.SourceGitHub, sponsors.SourceOpenCollective}, o.Skipped)
}
