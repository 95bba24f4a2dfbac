// Package constants provides shared constants used throughout the sponsormap codebase.
// This includes timeouts, eligibility thresholds, default marker comments and
// file permissions that must stay consistent across packages.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to provider APIs
	DefaultHTTPTimeout = 30 * time.Second

	// ProviderFetchTimeout bounds a single provider fetch, including decode
	ProviderFetchTimeout = 2 * time.Minute

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute
)

// Eligibility constants.
const (
	// OneTimeWindow is how long a one-time contribution stays eligible.
	OneTimeWindow = 365 * 24 * time.Hour

	// MonthsPerYear converts yearly and one-time amounts to a monthly equivalent.
	MonthsPerYear = 12

	// DefaultHighlightFloor is the minimum monthly equivalent for the highlight fragment.
	DefaultHighlightFloor = 100.0

	// HighlightFallbackLogoSize is used when a highlighted band has no logo size.
	HighlightFallbackLogoSize = 64
)

// Provider identifiers.
const (
	ProviderOpenCollective = "opencollective"
	ProviderGitHub         = "github"
)

// Provider endpoints and defaults.
const (
	OpenCollectiveGraphQLURL = "https://api.opencollective.com/graphql/v2"
	GitHubGraphQLURL         = "https://api.github.com/graphql"

	DefaultCollectiveSlug = "goreleaser"
	DefaultGitHubLogin    = "caarlos0"

	OpenCollectiveProfileBase = "https://opencollective.com/"
	GitHubProfileBase         = "https://github.com/"

	// UserAgent is sent on every provider request.
	UserAgent = "sponsormap"
)

// Default marker comments delimiting generated regions.
const (
	BeginMarker          = "<!-- sponsors:begin -->"
	EndMarker            = "<!-- sponsors:end -->"
	HighlightBeginMarker = "<!-- sponsors-highlight:begin -->"
	HighlightEndMarker   = "<!-- sponsors-highlight:end -->"
)

// Default tier label for records that carry none.
const DefaultTierLabel = "Backers"

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// MaxResponseBytes caps a provider response body.
	MaxResponseBytes = 16 << 20

	// MembersPageSize is the number of members requested per provider query.
	MembersPageSize = 1000
)
