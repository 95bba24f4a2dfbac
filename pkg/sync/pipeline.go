package sync

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/sponsormap/pkg/eligibility"
	"github.com/agentstation/sponsormap/pkg/logging"
	"github.com/agentstation/sponsormap/pkg/patch"
	"github.com/agentstation/sponsormap/pkg/reconciler"
	"github.com/agentstation/sponsormap/pkg/render"
	"github.com/agentstation/sponsormap/pkg/roster"
	"github.com/agentstation/sponsormap/pkg/sponsors"
)

// Provider fetches sponsorship records from one source.
type Provider interface {
	Source() sponsors.Source
	Fetch(ctx context.Context) (sponsors.Batch, error)
}

// Pipeline wires providers, reconciliation, rendering and patching.
type Pipeline struct {
	providers  []Provider
	opts       *Options
	reconciler reconciler.Reconciler
}

// New creates a Pipeline over the given providers.
func New(providers []Provider, opts ...Option) (*Pipeline, error) {
	options := Defaults().Apply(opts...)
	if err := options.Validate(); err != nil {
		return nil, err
	}
	rec, err := reconciler.New(options.Reconcile...)
	if err != nil {
		return nil, err
	}
	// fail early on bad render options
	if _, err := render.New(render.KindDetailed, options.Render...); err != nil {
		return nil, err
	}
	return &Pipeline{providers: providers, opts: options, reconciler: rec}, nil
}

// Roster fetches every provider and reconciles the records without
// touching any document. The returned Result has no document entries.
func (p *Pipeline) Roster(ctx context.Context) (*Result, error) {
	result := &Result{StartTime: time.Now(), DryRun: p.opts.DryRun}

	batches := p.fetchAll(ctx, result)

	var records []sponsors.Record
	for _, b := range batches {
		records = append(records, b.Records...)
		result.Fetched += len(b.Records)
	}

	admitted, excluded := eligibility.Filter(ctx, records, p.opts.Now())
	result.Admitted = len(admitted)
	result.Excluded = excluded
	for _, b := range batches {
		if b.Malformed > 0 {
			result.Excluded[eligibility.ReasonMalformed] += b.Malformed
		}
	}

	reconciled, err := p.reconciler.Reconcile(ctx, admitted)
	if err != nil {
		return result, err
	}
	result.Roster = reconciled.Roster
	result.Conflicts = reconciled.Conflicts
	result.Tiers = reconciled.Roster.Counts()
	result.Duration = time.Since(result.StartTime)
	return result, nil
}

// Render builds the roster and renders one fragment kind.
func (p *Pipeline) Render(ctx context.Context, kind render.Kind) (string, *Result, error) {
	result, err := p.Roster(ctx)
	if err != nil {
		return "", result, err
	}
	renderer, err := render.New(kind, p.opts.Render...)
	if err != nil {
		return "", result, err
	}
	return renderer.Render(result.Roster), result, nil
}

// Run executes the full pipeline. The returned error is Result.Err: fetch
// failures and per-document failures are reported in the Result and do not
// stop the run.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	ctx = logging.WithOperation(ctx, "update")
	logger := logging.FromContext(ctx)

	result, err := p.Roster(ctx)
	if err != nil {
		return result, err
	}

	if result.Succeeded() == 0 && !p.opts.PatchOnTotalFailure {
		if result.Attempted() == 0 {
			logger.Warn().Int("documents", len(p.opts.Targets)).
				Msg("Every provider was skipped; leaving documents untouched")
		} else {
			logger.Warn().Msg("No provider returned data; leaving documents untouched")
		}
		for _, t := range p.opts.Targets {
			result.Documents = append(result.Documents, DocumentResult{Path: t.Path, Renderer: t.Renderer, Status: StatusSkipped})
		}
	} else {
		result.Documents = p.patchAll(ctx, result.Roster)
	}
	result.Duration = time.Since(result.StartTime)

	if p.opts.Recorder != nil {
		if err := p.opts.Recorder.Record(result); err != nil {
			logger.Warn().Err(err).Msg("Failed to record run metrics")
		}
	}

	logger.Info().
		Int("sponsors", result.Roster.Len()).
		Int("providers_ok", result.Succeeded()).
		Int("documents_failed", len(result.FailedDocuments())).
		Dur("duration", result.Duration).
		Msg(result.Summary())

	return result, result.Err()
}

// fetchAll fetches every provider concurrently. A failed provider
// contributes an empty batch and never cancels the others.
func (p *Pipeline) fetchAll(ctx context.Context, result *Result) []sponsors.Batch {
	batches := make([]sponsors.Batch, len(p.providers))
	statuses := make([]ProviderResult, len(p.providers))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, provider := range p.providers {
		source := provider.Source()
		if p.opts.skipped(source) {
			statuses[i] = ProviderResult{Source: source, Status: StatusSkipped}
			logging.FromContext(ctx).Info().Str("provider", source.String()).Msg("Provider skipped")
			continue
		}

		eg.Go(func() error {
			fetchCtx := logging.WithProvider(egCtx, source.String())
			logger := logging.FromContext(fetchCtx)
			if p.opts.FetchTimeout > 0 {
				var cancel context.CancelFunc
				fetchCtx, cancel = context.WithTimeout(fetchCtx, p.opts.FetchTimeout)
				defer cancel()
			}

			start := time.Now()
			batch, err := provider.Fetch(fetchCtx)
			status := ProviderResult{Source: source, Duration: time.Since(start)}
			if err != nil {
				status.Status = StatusFailed
				status.Error = err.Error()
				status.err = err
				logger.Error().Err(err).Msg("Provider fetch failed; continuing without it")
				statuses[i] = status
				return nil
			}

			status.Status = StatusOK
			status.Records = len(batch.Records)
			status.Malformed = batch.Malformed
			batches[i] = batch
			statuses[i] = status
			logger.Info().Int("records", status.Records).Int("malformed", batch.Malformed).Msg("Fetched sponsors")
			return nil
		})
	}
	_ = eg.Wait()

	result.Providers = statuses
	return batches
}

// patchAll renders each needed fragment once and patches every target.
// One failed target never stops the others.
func (p *Pipeline) patchAll(ctx context.Context, r roster.Roster) []DocumentResult {
	patcher := patch.NewPatcher(p.opts.Fs, patch.WithDryRun(p.opts.DryRun))
	fragments := make(map[render.Kind]string)
	docs := make([]DocumentResult, 0, len(p.opts.Targets))

	for _, t := range p.opts.Targets {
		doc := DocumentResult{Path: t.Path, Renderer: t.Renderer}

		fragment, ok := fragments[t.Renderer]
		if !ok {
			renderer, err := render.New(t.Renderer, p.opts.Render...)
			if err != nil {
				doc.Status, doc.Error, doc.err = StatusFailed, err.Error(), err
				docs = append(docs, doc)
				continue
			}
			fragment = renderer.Render(r)
			fragments[t.Renderer] = fragment
		}

		outcome, err := patcher.PatchFile(ctx, t.Path, t.Begin, t.End, fragment)
		doc.Bytes = outcome.Bytes
		switch {
		case err != nil:
			doc.Status, doc.Error, doc.err = StatusFailed, err.Error(), err
			logging.FromContext(logging.WithDocument(ctx, t.Path)).Error().Err(err).Msg("Failed to patch document")
		case !outcome.Changed:
			doc.Status = StatusUnchanged
		case outcome.Written:
			doc.Status = StatusUpdated
		default:
			doc.Status = StatusPending
		}
		docs = append(docs, doc)
	}
	return docs
}
