package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/sponsormap/pkg/errors"
)

func TestAuthenticators(t *testing.T) {
	req := &http.Request{Header: make(http.Header)}
	(&NoAuth{}).Apply(req, "secret")
	assert.Empty(t, req.Header)

	(&BearerAuth{}).Apply(req, "secret")
	assert.Equal(t, "Bearer secret", req.Header.Get("Authorization"))

	req = &http.Request{Header: make(http.Header)}
	(&HeaderAuth{Header: "X-Token"}).Apply(req, "secret")
	assert.Equal(t, "secret", req.Header.Get("X-Token"))
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestGraphQL(t *testing.T) {
	var got GraphQLRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "sponsormap-test", r.Header.Get("User-Agent"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"data":{"user":{"login":"octocat"}}}`))
	}))
	defer srv.Close()

	c := New("github",
		WithAuth(&BearerAuth{}),
		WithToken("tok"),
		WithUserAgent("sponsormap-test"),
		WithTimeout(5*time.Second))

	data, err := c.GraphQL(context.Background(), srv.URL, "query { user }", map[string]any{"login": "octocat"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"user": map[string]any{"login": "octocat"}}, data)
	assert.Equal(t, "query { user }", got.Query)
	assert.Equal(t, "octocat", got.Variables["login"])
}

func TestGraphQLFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "graphql errors",
			status: http.StatusOK,
			body:   `{"data":null,"errors":[{"message":"Bad credentials"},{"message":"again"}]}`,
			check: func(t *testing.T, err error) {
				var apiErr *errors.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, "opencollective", apiErr.Provider)
				assert.Contains(t, apiErr.Message, "Bad credentials; again")
			},
		},
		{
			name:   "server error",
			status: http.StatusBadGateway,
			body:   "upstream down",
			check: func(t *testing.T, err error) {
				assert.True(t, errors.IsProviderUnavailable(err))
				assert.Contains(t, err.Error(), "upstream down")
			},
		},
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			body:   "slow down",
			check: func(t *testing.T, err error) {
				assert.True(t, errors.IsRateLimited(err))
			},
		},
		{
			name:   "malformed json",
			status: http.StatusOK,
			body:   "{not json",
			check: func(t *testing.T, err error) {
				var parseErr *errors.ParseError
				require.ErrorAs(t, err, &parseErr)
				assert.Equal(t, "json", parseErr.Format)
			},
		},
		{
			name:   "missing data",
			status: http.StatusOK,
			body:   `{}`,
			check: func(t *testing.T, err error) {
				var parseErr *errors.ParseError
				require.ErrorAs(t, err, &parseErr)
				assert.Equal(t, "data", parseErr.Path)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New("opencollective").GraphQL(context.Background(), srv.URL, "query {}", nil)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New("github").GraphQL(context.Background(), url, "query {}", nil)
	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.StatusCode)
	assert.Equal(t, "github", apiErr.Provider)
}
