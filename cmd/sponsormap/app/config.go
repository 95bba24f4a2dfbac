package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/sponsormap/pkg/constants"
	"github.com/agentstation/sponsormap/pkg/errors"
	"github.com/agentstation/sponsormap/pkg/sync"
	"github.com/agentstation/sponsormap/pkg/tiers"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Providers
	GitHubToken        string
	GitHubLogin        string
	GitHubURL          string
	OpenCollectiveSlug string
	OpenCollectiveURL  string
	HTTPTimeout        time.Duration
	FetchTimeout       time.Duration

	// Reconciliation and rendering
	Tiers           tiers.Ladder
	Strategy        string
	HighlightFloor  float64
	RenderTimestamp bool
	CollectiveURL   string
	Project         string

	// Documents
	Targets             []sync.Target
	PatchOnTotalFailure bool

	// MetricsFile is an optional Prometheus textfile path.
	MetricsFile string

	// Logging configuration
	LogLevel     string // from LOG_LEVEL or the config file
	LogLevelFlag string // from --log-level
	LogFormat    string
	LogOutput    string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (path, or .sponsormap.yaml in $HOME or the working directory)
// 5. Defaults
func LoadConfig(path string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	if err := readConfigFile(v, path); err != nil {
		return nil, err
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		GitHubToken:        v.GetString("github_token"),
		GitHubLogin:        v.GetString("github.login"),
		GitHubURL:          v.GetString("github.url"),
		OpenCollectiveSlug: v.GetString("opencollective.slug"),
		OpenCollectiveURL:  v.GetString("opencollective.url"),
		HTTPTimeout:        v.GetDuration("http_timeout"),
		FetchTimeout:       v.GetDuration("fetch_timeout"),

		Strategy:        v.GetString("strategy"),
		HighlightFloor:  v.GetFloat64("highlight.floor"),
		RenderTimestamp: v.GetBool("render.timestamp"),
		CollectiveURL:   v.GetString("render.collective_url"),
		Project:         v.GetString("render.project"),

		PatchOnTotalFailure: v.GetBool("patch_on_total_failure"),
		MetricsFile:         v.GetString("metrics_file"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}

	if err := v.UnmarshalKey("tiers", &config.Tiers); err != nil {
		return nil, errors.NewConfigError("tiers", "cannot decode tier ladder", err)
	}
	if len(config.Tiers) == 0 {
		config.Tiers = tiers.Default()
	}
	if err := v.UnmarshalKey("targets", &config.Targets); err != nil {
		return nil, errors.NewConfigError("targets", "cannot decode document targets", err)
	}
	if len(config.Targets) == 0 {
		config.Targets = sync.DefaultTargets()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the parts of the configuration that can be wrong in a file.
func (c *Config) Validate() error {
	if err := c.Tiers.Validate(); err != nil {
		return errors.NewConfigError("tiers", err.Error(), err)
	}
	for _, t := range c.Targets {
		if err := t.Validate(); err != nil {
			return errors.NewConfigError("targets", err.Error(), err)
		}
	}
	if c.HighlightFloor < 0 {
		return errors.NewConfigError("highlight.floor", "must be non-negative", nil)
	}
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	c.LogLevelFlag = logLevel
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("github.login", constants.DefaultGitHubLogin)
	v.SetDefault("github.url", constants.GitHubGraphQLURL)
	v.SetDefault("opencollective.slug", constants.DefaultCollectiveSlug)
	v.SetDefault("opencollective.url", constants.OpenCollectiveGraphQLURL)
	v.SetDefault("http_timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("fetch_timeout", constants.ProviderFetchTimeout)
	v.SetDefault("strategy", "lifetime")
	v.SetDefault("highlight.floor", constants.DefaultHighlightFloor)
	v.SetDefault("render.timestamp", false)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// readConfigFile reads an explicit config file, or searches the standard
// locations. Only an explicit file is required to exist.
func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return errors.NewConfigError("config", "cannot read "+path, err)
		}
		return nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")
	v.SetConfigType("yaml")
	v.SetConfigName(".sponsormap")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errors.NewConfigError("config", "cannot parse config file", err)
	}
	return nil
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// .env.local overrides .env
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
