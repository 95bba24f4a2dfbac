// Package github fetches GitHub Sponsors sponsorships of a maintainer and
// adapts them to sponsor records.
package github

import (
	"context"
	"fmt"

	"github.com/agentstation/sponsormap/internal/providers/tree"
	"github.com/agentstation/sponsormap/internal/transport"
	"github.com/agentstation/sponsormap/pkg/constants"
	"github.com/agentstation/sponsormap/pkg/errors"
	"github.com/agentstation/sponsormap/pkg/logging"
	"github.com/agentstation/sponsormap/pkg/sponsors"
)

const sponsorshipsQuery = `query sponsors($login: String!, $first: Int!, $after: String) {
  user(login: $login) {
    sponsorshipsAsMaintainer(first: $first, after: $after, activeOnly: true) {
      pageInfo {
        hasNextPage
        endCursor
      }
      nodes {
        sponsorEntity {
          ... on User {
            login
            name
            url
            avatarUrl
          }
          ... on Organization {
            login
            name
            url
            avatarUrl
          }
        }
        tier {
          name
          monthlyPriceInDollars
          isOneTime
        }
        createdAt
      }
    }
  }
}`

const (
	pageSize = 100
	maxPages = 20
)

// Client fetches sponsorships of one maintainer.
type Client struct {
	transport *transport.Client
	url       string
	login     string
	token     string
	topts     []transport.Option
}

// Option configures a Client.
type Option func(*Client)

// WithURL overrides the GraphQL endpoint.
func WithURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.url = url
		}
	}
}

// WithLogin sets the maintainer login.
func WithLogin(login string) Option {
	return func(c *Client) {
		if login != "" {
			c.login = login
		}
	}
}

// WithToken sets the personal access token.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithTransport adds transport options such as the timeout.
func WithTransport(opts ...transport.Option) Option {
	return func(c *Client) {
		c.topts = append(c.topts, opts...)
	}
}

// New creates a GitHub Sponsors client authenticating with a Bearer token.
func New(opts ...Option) *Client {
	c := &Client{
		url:   constants.GitHubGraphQLURL,
		login: constants.DefaultGitHubLogin,
	}
	for _, opt := range opts {
		opt(c)
	}
	topts := append([]transport.Option{
		transport.WithAuth(&transport.BearerAuth{}),
		transport.WithToken(c.token),
	}, c.topts...)
	c.transport = transport.New(constants.ProviderGitHub, topts...)
	return c
}

// Source returns the provider identifier.
func (c *Client) Source() sponsors.Source {
	return sponsors.SourceGitHub
}

// HasToken reports whether a token is configured.
func (c *Client) HasToken() bool {
	return c.token != ""
}

// Fetch queries every page of sponsorships and adapts them.
func (c *Client) Fetch(ctx context.Context) (sponsors.Batch, error) {
	ctx = logging.WithProvider(ctx, constants.ProviderGitHub)
	logger := logging.FromContext(ctx)
	batch := sponsors.Batch{Source: c.Source()}

	if !c.HasToken() {
		return batch, errors.NewFetchError(constants.ProviderGitHub, errors.ErrAPIKeyRequired)
	}

	var after any
	for page := 1; ; page++ {
		logger.Debug().Str("login", c.login).Int("page", page).Msg("Fetching sponsorships")

		data, err := c.transport.GraphQL(ctx, c.url, sponsorshipsQuery, map[string]any{
			"login": c.login,
			"first": pageSize,
			"after": after,
		})
		if err != nil {
			return sponsors.Batch{Source: c.Source()}, errors.NewFetchError(constants.ProviderGitHub, err)
		}

		pageBatch, err := Adapt(ctx, data)
		if err != nil {
			return sponsors.Batch{Source: c.Source()}, errors.NewFetchError(constants.ProviderGitHub, err)
		}
		batch.Records = append(batch.Records, pageBatch.Records...)
		batch.Malformed += pageBatch.Malformed

		if !tree.Bool(data, false, connectionPath("pageInfo", "hasNextPage")...) {
			break
		}
		cursor := tree.String(data, connectionPath("pageInfo", "endCursor")...)
		if cursor == "" {
			break
		}
		if page >= maxPages {
			return sponsors.Batch{Source: c.Source()}, errors.NewFetchError(constants.ProviderGitHub,
				fmt.Errorf("more than %d pages of sponsorships", maxPages))
		}
		after = cursor
	}

	if batch.Records == nil {
		batch.Records = []sponsors.Record{}
	}
	return batch, nil
}
