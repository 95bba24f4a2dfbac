package sync

import (
	"fmt"
	"strings"
	"time"

	"github.com/agentstation/sponsormap/pkg/eligibility"
	"github.com/agentstation/sponsormap/pkg/errors"
	"github.com/agentstation/sponsormap/pkg/reconciler"
	"github.com/agentstation/sponsormap/pkg/render"
	"github.com/agentstation/sponsormap/pkg/roster"
	"github.com/agentstation/sponsormap/pkg/sponsors"
)

// Sentinel errors returned by Run.
var (
	// ErrAllProvidersFailed is returned when no enabled provider could be fetched.
	ErrAllProvidersFailed = errors.New("all providers failed")

	// ErrDocumentsFailed is returned when at least one document could not be patched.
	ErrDocumentsFailed = errors.New("document patch failed")
)

// Status is the outcome of one provider fetch or one document patch.
type Status string

// Statuses.
const (
	StatusOK        Status = "ok"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
	StatusUpdated   Status = "updated"
	StatusUnchanged Status = "unchanged"
	StatusPending   Status = "would_update"
)

// ProviderResult is the fetch outcome of one provider.
type ProviderResult struct {
	Source    sponsors.Source `json:"source" yaml:"source"`
	Status    Status          `json:"status" yaml:"status"`
	Records   int             `json:"records" yaml:"records"`
	Malformed int             `json:"malformed,omitempty" yaml:"malformed,omitempty"`
	Duration  time.Duration   `json:"duration" yaml:"duration"`
	Error     string          `json:"error,omitempty" yaml:"error,omitempty"`

	err error
}

// DocumentResult is the patch outcome of one target.
type DocumentResult struct {
	Path     string      `json:"path" yaml:"path"`
	Renderer render.Kind `json:"renderer" yaml:"renderer"`
	Status   Status      `json:"status" yaml:"status"`
	Bytes    int         `json:"bytes,omitempty" yaml:"bytes,omitempty"`
	Error    string      `json:"error,omitempty" yaml:"error,omitempty"`

	err error
}

// Result represents the complete result of a pipeline run.
type Result struct {
	StartTime time.Time     `json:"start_time" yaml:"start_time"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	DryRun    bool          `json:"dry_run" yaml:"dry_run"`

	Providers []ProviderResult       `json:"providers" yaml:"providers"`
	Fetched   int                    `json:"fetched" yaml:"fetched"`
	Admitted  int                    `json:"admitted" yaml:"admitted"`
	Excluded  eligibility.Exclusions `json:"excluded" yaml:"excluded"`
	Conflicts []reconciler.Conflict  `json:"conflicts" yaml:"conflicts"`
	Tiers     []roster.TierCount     `json:"tiers" yaml:"tiers"`
	Documents []DocumentResult       `json:"documents" yaml:"documents"`

	// Roster is the reconciled roster; it is not serialized.
	Roster roster.Roster `json:"-" yaml:"-"`
}

// Attempted returns the number of providers that were not skipped.
func (r *Result) Attempted() int {
	n := 0
	for _, p := range r.Providers {
		if p.Status != StatusSkipped {
			n++
		}
	}
	return n
}

// Succeeded returns the number of providers fetched successfully.
func (r *Result) Succeeded() int {
	n := 0
	for _, p := range r.Providers {
		if p.Status == StatusOK {
			n++
		}
	}
	return n
}

// AllProvidersFailed reports whether every enabled provider failed.
func (r *Result) AllProvidersFailed() bool {
	return r.Attempted() > 0 && r.Succeeded() == 0
}

// FailedDocuments returns the targets that could not be patched.
func (r *Result) FailedDocuments() []DocumentResult {
	var failed []DocumentResult
	for _, d := range r.Documents {
		if d.Status == StatusFailed {
			failed = append(failed, d)
		}
	}
	return failed
}

// Err returns the run-level error: non-nil when a document failed to patch
// or every enabled provider failed to fetch.
func (r *Result) Err() error {
	var errs []error
	if r.AllProvidersFailed() {
		providerErrs := make([]error, 0, len(r.Providers))
		for _, p := range r.Providers {
			if p.err != nil {
				providerErrs = append(providerErrs, p.err)
			}
		}
		errs = append(errs, fmt.Errorf("%w: %w", ErrAllProvidersFailed, errors.Join(providerErrs...)))
	}
	for _, d := range r.FailedDocuments() {
		errs = append(errs, fmt.Errorf("%w: %w", ErrDocumentsFailed, d.err))
	}
	return errors.Join(errs...)
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	var parts []string
	for _, t := range r.Tiers {
		parts = append(parts, fmt.Sprintf("%s: %d", t.Tier, t.Count))
	}
	summary := fmt.Sprintf("%d sponsors from %d/%d providers", r.Roster.Len(), r.Succeeded(), r.Attempted())
	if len(parts) > 0 {
		summary += " (" + strings.Join(parts, ", ") + ")"
	}
	if failed := r.FailedDocuments(); len(failed) > 0 {
		paths := make([]string, len(failed))
		for i, d := range failed {
			paths[i] = d.Path
		}
		summary += "; failed documents: " + strings.Join(paths, ", ")
	}
	if r.DryRun {
		summary += " (dry run)"
	}
	return summary
}
