package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/agentstation/sponsormap/pkg/constants"
	"github.com/agentstation/sponsormap/pkg/errors"
	"github.com/agentstation/sponsormap/pkg/logging"
)

// GraphQLRequest is the body of a GraphQL POST.
type GraphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// GraphQLError is one entry of a GraphQL "errors" array.
type GraphQLError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
	Type    string `json:"type,omitempty"`
}

type graphQLResponse struct {
	Data   map[string]any `json:"data"`
	Errors []GraphQLError `json:"errors"`
}

// GraphQL posts a query and returns the decoded "data" tree. A non-200
// status or a non-empty "errors" array is returned as an *errors.APIError.
func (c *Client) GraphQL(ctx context.Context, url, query string, variables map[string]any) (map[string]any, error) {
	resp, err := c.PostJSON(ctx, url, GraphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, err
	}

	var out graphQLResponse
	if err := c.DecodeResponse(ctx, resp, &out); err != nil {
		return nil, err
	}
	if len(out.Errors) > 0 {
		msgs := make([]string, len(out.Errors))
		for i, e := range out.Errors {
			msgs[i] = e.Message
		}
		return nil, &errors.APIError{
			Provider: c.provider,
			Endpoint: url,
			Message:  "graphql errors: " + strings.Join(msgs, "; "),
		}
	}
	if out.Data == nil {
		return nil, &errors.ParseError{Format: "graphql", Path: "data", Message: "response has no data"}
	}
	return out.Data, nil
}

// DecodeResponse decodes a JSON response into the target structure.
func (c *Client) DecodeResponse(ctx context.Context, resp *http.Response, target any) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, constants.MaxResponseBytes))
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &errors.APIError{
			Provider:   c.provider,
			StatusCode: resp.StatusCode,
			Endpoint:   resp.Request.URL.String(),
			Message:    truncate(strings.TrimSpace(string(body)), 512),
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", "response", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
