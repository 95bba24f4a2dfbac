// Package opencollective fetches backers of an Open Collective collective and
// adapts them to sponsor records.
package opencollective

import (
	"context"

	"github.com/agentstation/sponsormap/internal/transport"
	"github.com/agentstation/sponsormap/pkg/constants"
	"github.com/agentstation/sponsormap/pkg/errors"
	"github.com/agentstation/sponsormap/pkg/logging"
	"github.com/agentstation/sponsormap/pkg/sponsors"
)

const membersQuery = `query collective($slug: String!, $limit: Int!) {
  collective(slug: $slug) {
    members(role: BACKER, limit: $limit) {
      nodes {
        account {
          name
          slug
          website
          imageUrl(height: 96)
        }
        tier {
          name
          amount {
            value
          }
          frequency
        }
        totalDonations {
          value
        }
        since
        isActive
      }
    }
  }
}`

// Client fetches collective members.
type Client struct {
	transport *transport.Client
	url       string
	slug      string
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

// WithSlug sets the collective slug.
func WithSlug(slug string) Option {
	return func(c *Client) {
		if slug != "" {
			c.slug = slug
		}
	}
}

// WithTransport sets transport options such as the timeout.
func WithTransport(opts ...transport.Option) Option {
	return func(c *Client) {
		c.transport = transport.New(constants.ProviderOpenCollective, opts...)
	}
}

// New creates an Open Collective client. The API needs no authentication.
func New(opts ...Option) *Client {
	c := &Client{
		transport: transport.New(constants.ProviderOpenCollective),
		url:       constants.OpenCollectiveGraphQLURL,
		slug:      constants.DefaultCollectiveSlug,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Source returns the provider identifier.
func (c *Client) Source() sponsors.Source {
	return sponsors.SourceOpenCollective
}

// Slug returns the collective slug.
func (c *Client) Slug() string {
	return c.slug
}

// Fetch queries the collective members and adapts them.
func (c *Client) Fetch(ctx context.Context) (sponsors.Batch, error) {
	ctx = logging.WithProvider(ctx, constants.ProviderOpenCollective)
	logging.FromContext(ctx).Debug().Str("slug", c.slug).Str("url", c.url).Msg("Fetching collective members")

	data, err := c.transport.GraphQL(ctx, c.url, membersQuery, map[string]any{
		"slug":  c.slug,
		"limit": constants.MembersPageSize,
	})
	if err != nil {
		return sponsors.Batch{Source: c.Source()}, errors.NewFetchError(constants.ProviderOpenCollective, err)
	}

	batch, err := Adapt(ctx, data)
	if err != nil {
		return batch, errors.NewFetchError(constants.ProviderOpenCollective, err)
	}
	return batch, nil
}
