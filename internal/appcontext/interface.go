// Package appcontext provides the shared application context interface
// used by all commands. Commands depend on this interface rather than the
// concrete App, so they can be tested with Mock.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/sponsormap/pkg/sync"
)

// Interface defines the application context interface that commands need.
type Interface interface {
	// Pipeline builds a sponsor pipeline from the loaded configuration.
	// Extra options are applied after the configured ones.
	Pipeline(opts ...sync.Option) (*sync.Pipeline, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
