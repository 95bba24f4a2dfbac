// Package sync runs the sponsor pipeline end to end: fetch every provider,
// filter and reconcile the records, render each fragment and patch it into
// its target document.
package sync

import (
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/agentstation/sponsormap/pkg/constants"
	"github.com/agentstation/sponsormap/pkg/errors"
	"github.com/agentstation/sponsormap/pkg/reconciler"
	"github.com/agentstation/sponsormap/pkg/render"
	"github.com/agentstation/sponsormap/pkg/sponsors"
)

// Target is one document region to keep up to date.
type Target struct {
	Path     string      `mapstructure:"path" json:"path" yaml:"path"`
	Renderer render.Kind `mapstructure:"renderer" json:"renderer" yaml:"renderer"`
	Begin    string      `mapstructure:"begin" json:"begin" yaml:"begin"`
	End      string      `mapstructure:"end" json:"end" yaml:"end"`
}

// Validate checks that the target is complete.
func (t Target) Validate() error {
	if t.Path == "" {
		return errors.NewValidationError("targets.path", t.Path, "cannot be empty")
	}
	if _, err := render.ParseKind(string(t.Renderer)); err != nil {
		return errors.NewValidationError("targets.renderer", t.Renderer,
			fmt.Sprintf("unknown renderer for %s", t.Path))
	}
	if t.Begin == "" || t.End == "" {
		return errors.NewValidationError("targets.markers", t.Path, "begin and end markers must be set")
	}
	if t.Begin == t.End {
		return errors.NewValidationError("targets.markers", t.Path, "begin and end markers must differ")
	}
	return nil
}

// DefaultTargets returns the stock document targets.
func DefaultTargets() []Target {
	return []Target{
		{Path: "www/docs/sponsors.md", Renderer: render.KindDetailed, Begin: constants.BeginMarker, End: constants.EndMarker},
		{Path: "README.md", Renderer: render.KindCompact, Begin: constants.BeginMarker, End: constants.EndMarker},
		{Path: "www/docs/index.md", Renderer: render.KindHighlight, Begin: constants.HighlightBeginMarker, End: constants.HighlightEndMarker},
	}
}

// Recorder observes finished runs, for example to export metrics.
type Recorder interface {
	Record(result *Result) error
}

// Options controls a pipeline run.
type Options struct {
	DryRun       bool                // Render and check markers without writing
	FetchTimeout time.Duration       // Timeout for a single provider fetch
	Now          func() time.Time    // Clock used for eligibility
	Fs           afero.Fs            // Filesystem holding the target documents
	Targets      []Target            // Documents to patch
	Skipped      []sponsors.Source   // Providers explicitly disabled
	Render       []render.Option     // Options for every renderer
	Reconcile    []reconciler.Option // Options for the reconciler
	Recorder     Recorder            // Optional run observer

	// PatchOnTotalFailure patches documents even when every provider failed.
	PatchOnTotalFailure bool
}

// Option is a function that configures sync Options.
type Option func(*Options)

// Defaults returns the default sync options.
func Defaults() *Options {
	return &Options{
		FetchTimeout: constants.ProviderFetchTimeout,
		Now:          time.Now,
		Fs:           afero.NewOsFs(),
		Targets:      DefaultTargets(),
	}
}

// Apply applies the given options to the sync options.
func (o *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Validate checks if the sync options are valid.
func (o *Options) Validate() error {
	if o.FetchTimeout < 0 {
		return &errors.ValidationError{
			Field:   "FetchTimeout",
			Value:   o.FetchTimeout,
			Message: "timeout must be non-negative",
		}
	}
	for _, t := range o.Targets {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (o *Options) skipped(source sponsors.Source) bool {
	for _, s := range o.Skipped {
		if s == source {
			return true
		}
	}
	return false
}

// WithDryRun configures dry run mode.
func WithDryRun(dryRun bool) Option {
	return func(o *Options) {
		o.DryRun = dryRun
	}
}

// WithFetchTimeout sets the per-provider fetch timeout.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.FetchTimeout = timeout
	}
}

// WithClock sets the clock used for eligibility.
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		if now != nil {
			o.Now = now
		}
	}
}

// WithFs sets the filesystem holding target documents.
func WithFs(fs afero.Fs) Option {
	return func(o *Options) {
		if fs != nil {
			o.Fs = fs
		}
	}
}

// WithTargets replaces the document targets.
func WithTargets(targets ...Target) Option {
	return func(o *Options) {
		o.Targets = targets
	}
}

// WithSkipped marks providers as explicitly disabled.
func WithSkipped(sources ...sponsors.Source) Option {
	return func(o *Options) {
		o.Skipped = append(o.Skipped, sources...)
	}
}

// WithRenderOptions sets options passed to every renderer.
func WithRenderOptions(opts ...render.Option) Option {
	return func(o *Options) {
		o.Render = append(o.Render, opts...)
	}
}

// WithReconcilerOptions sets options passed to the reconciler.
func WithReconcilerOptions(opts ...reconciler.Option) Option {
	return func(o *Options) {
		o.Reconcile = append(o.Reconcile, opts...)
	}
}

// WithRecorder sets a run observer.
func WithRecorder(r Recorder) Option {
	return func(o *Options) {
		o.Recorder = r
	}
}

// WithPatchOnTotalFailure patches documents even when no provider succeeded.
func WithPatchOnTotalFailure(enabled bool) Option {
	return func(o *Options) {
		o.PatchOnTotalFailure = enabled
	}
}
