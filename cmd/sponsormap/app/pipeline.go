package app

import (
	"time"

	"github.com/agentstation/sponsormap/internal/metrics"
	"github.com/agentstation/sponsormap/internal/providers/github"
	"github.com/agentstation/sponsormap/internal/providers/opencollective"
	"github.com/agentstation/sponsormap/internal/transport"
	"github.com/agentstation/sponsormap/pkg/constants"
	"github.com/agentstation/sponsormap/pkg/errors"
	"github.com/agentstation/sponsormap/pkg/reconciler"
	"github.com/agentstation/sponsormap/pkg/render"
	"github.com/agentstation/sponsormap/pkg/sponsors"
	"github.com/agentstation/sponsormap/pkg/sync"
)

// Pipeline builds a sponsor pipeline from the configuration. Without a
// GitHub token the GitHub provider is skipped rather than failed.
func (a *App) Pipeline(opts ...sync.Option) (*sync.Pipeline, error) {
	cfg := a.config

	transportOpts := []transport.Option{
		transport.WithTimeout(cfg.HTTPTimeout),
		transport.WithUserAgent(constants.UserAgent + "/" + a.version),
	}

	oc := opencollective.New(
		opencollective.WithSlug(cfg.OpenCollectiveSlug),
		opencollective.WithURL(cfg.OpenCollectiveURL),
		opencollective.WithTransport(transportOpts...),
	)
	gh := github.New(
		github.WithLogin(cfg.GitHubLogin),
		github.WithURL(cfg.GitHubURL),
		github.WithToken(cfg.GitHubToken),
		github.WithTransport(transportOpts...),
	)

	var skipped []sponsors.Source
	if !gh.HasToken() {
		a.logger.Warn().Msg("GITHUB_TOKEN is not set; skipping GitHub Sponsors")
		skipped = append(skipped, sponsors.SourceGitHub)
	}

	strategy, err := reconciler.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, errors.NewConfigError("strategy", err.Error(), err)
	}

	base := []sync.Option{
		sync.WithTargets(cfg.Targets...),
		sync.WithSkipped(skipped...),
		sync.WithFetchTimeout(cfg.FetchTimeout),
		sync.WithRenderOptions(a.renderOptions(oc.Slug())...),
		sync.WithReconcilerOptions(reconciler.WithLadder(cfg.Tiers), reconciler.WithStrategy(strategy)),
		sync.WithPatchOnTotalFailure(cfg.PatchOnTotalFailure),
	}
	if cfg.MetricsFile != "" {
		base = append(base, sync.WithRecorder(metrics.NewManager(metrics.WithTextfile(cfg.MetricsFile))))
	}

	p, err := sync.New([]sync.Provider{oc, gh}, append(base, opts...)...)
	if err != nil {
		return nil, errors.WrapResource("create", "pipeline", "", err)
	}
	return p, nil
}

func (a *App) renderOptions(slug string) []render.Option {
	cfg := a.config

	collectiveURL := cfg.CollectiveURL
	if collectiveURL == "" {
		collectiveURL = constants.OpenCollectiveProfileBase + slug
	}
	project := cfg.Project
	if project == "" {
		project = slug
	}

	opts := []render.Option{
		render.WithCollectiveURL(collectiveURL),
		render.WithProject(project),
		render.WithFloor(cfg.HighlightFloor),
	}
	if cfg.RenderTimestamp {
		opts = append(opts, render.WithTimestamp(time.Now))
	}
	return opts
}
