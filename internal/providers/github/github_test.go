package github_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/sponsormap/internal/providers/github"
	"github.com/agentstation/sponsormap/internal/providers/testhelper"
	"github.com/agentstation/sponsormap/pkg/errors"
	"github.com/agentstation/sponsormap/pkg/sponsors"
)

func TestAdapt(t *testing.T) {
	batch, err := github.Adapt(context.Background(), testhelper.LoadData(t, "page1.json"))
	require.NoError(t, err)
	require.Len(t, batch.Records, 2)

	org := batch.Records[0]
	assert.Equal(t, sponsors.SourceGitHub, org.Source)
	assert.Equal(t, "octo-org", org.Identity)
	assert.Equal(t, "Octo Org", org.DisplayName)
	assert.Equal(t, sponsors.CycleMonthly, org.BillingCycle)
	assert.Equal(t, 50.0, org.PeriodAmount)
	assert.Equal(t, 50.0, org.LifetimeTotal)
	assert.Equal(t, "2023-05-01T12:00:00Z", org.Since)
	assert.True(t, org.IsActive)

	solo := batch.Records[1]
	assert.Equal(t, "solo", solo.DisplayName)
	assert.Equal(t, "https://github.com/solo", solo.ProfileURL)
	assert.Equal(t, sponsors.CycleOneTime, solo.BillingCycle)
}

func TestAdaptMalformedNodes(t *testing.T) {
	batch, err := github.Adapt(context.Background(), testhelper.LoadData(t, "page2.json"))
	require.NoError(t, err)
	assert.Equal(t, 2, batch.Malformed)
	require.Len(t, batch.Records, 1)

	tiny := batch.Records[0]
	assert.Equal(t, "Sponsor", tiny.TierLabel)
	assert.Equal(t, 0.0, tiny.LifetimeTotal)
	assert.False(t, tiny.HasImage())
}

func TestAdaptUnrecognized(t *testing.T) {
	_, err := github.Adapt(context.Background(), map[string]any{"viewer": map[string]any{}})
	var parseErr *errors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "data.user", parseErr.Path)

	_, err = github.Adapt(context.Background(), map[string]any{"user": map[string]any{}})
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "data.user.sponsorshipsAsMaintainer.nodes", parseErr.Path)
}

func TestFetchPaginates(t *testing.T) {
	srv := testhelper.NewGraphQLServer(t, http.StatusOK, "page1.json", "page2.json")
	client := github.New(github.WithURL(srv.URL), github.WithLogin("maintainer"), github.WithToken("ghp_test"))

	batch, err := client.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, batch.Records, 3)
	assert.Equal(t, 2, batch.Malformed)

	reqs := srv.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "Bearer ghp_test", reqs[0].Header.Get("Authorization"))
	assert.NotEmpty(t, reqs[0].Header.Get("User-Agent"))
	assert.Equal(t, "maintainer", reqs[0].Variables["login"])
	assert.Nil(t, reqs[0].Variables["after"])
	assert.Equal(t, "Y3Vyc29yOjI=", reqs[1].Variables["after"])
}

func TestFetchRequiresToken(t *testing.T) {
	client := github.New()
	assert.False(t, client.HasToken())

	_, err := client.Fetch(context.Background())
	assert.ErrorIs(t, err, errors.ErrAPIKeyRequired)
}

func TestFetchFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		fixture string
		check   func(t *testing.T, err error)
	}{
		{
			name:    "unauthorized",
			status:  http.StatusUnauthorized,
			fixture: "bad_credentials.json",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, errors.ErrAPIKeyRequired)
			},
		},
		{
			name:    "graphql not found",
			status:  http.StatusOK,
			fixture: "no_user.json",
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "Could not resolve to a User")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := testhelper.NewGraphQLServer(t, tt.status, tt.fixture)
			batch, err := github.New(github.WithURL(srv.URL), github.WithToken("t")).Fetch(context.Background())
			require.Error(t, err)
			assert.Empty(t, batch.Records)

			var fetchErr *errors.FetchError
			require.ErrorAs(t, err, &fetchErr)
			assert.Equal(t, "github", fetchErr.Provider)
			tt.check(t, err)
		})
	}
}
