// Package sponsors defines the provider-neutral sponsorship record shared by
// every stage of the pipeline. Each provider adapter builds the same Record
// shape through New, tagged with its Source, so downstream code never looks
// at provider-specific fields.
package sponsors

import (
	"math"
	"strings"

	"github.com/agentstation/sponsormap/pkg/constants"
	"github.com/agentstation/sponsormap/pkg/errors"
)

// Source identifies the provider a record came from.
type Source string

// Known sources.
const (
	SourceOpenCollective Source = constants.ProviderOpenCollective
	SourceGitHub         Source = constants.ProviderGitHub
)

// String returns the string representation of a source.
func (s Source) String() string {
	return string(s)
}

// ProfileURL returns the provider default profile URL for an identity.
func (s Source) ProfileURL(identity string) string {
	switch s {
	case SourceOpenCollective:
		return constants.OpenCollectiveProfileBase + identity
	case SourceGitHub:
		return constants.GitHubProfileBase + identity
	}
	return ""
}

// BillingCycle is the period a contribution amount is denominated in.
type BillingCycle string

// Billing cycles. CycleUnknown covers a missing or unrecognized value.
const (
	CycleUnknown BillingCycle = ""
	CycleMonthly BillingCycle = "MONTHLY"
	CycleYearly  BillingCycle = "YEARLY"
	CycleOneTime BillingCycle = "ONE_TIME"
)

// ParseBillingCycle maps a provider frequency string to a BillingCycle.
// Unrecognized values map to CycleUnknown.
func ParseBillingCycle(s string) BillingCycle {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MONTHLY", "MONTH":
		return CycleMonthly
	case "YEARLY", "YEAR", "ANNUALLY":
		return CycleYearly
	case "ONE_TIME", "ONETIME", "ONE-TIME":
		return CycleOneTime
	}
	return CycleUnknown
}

// String returns the string representation of a billing cycle.
func (c BillingCycle) String() string {
	if c == CycleUnknown {
		return "UNKNOWN"
	}
	return string(c)
}

// Recurring reports whether the cycle is MONTHLY or YEARLY.
func (c BillingCycle) Recurring() bool {
	return c == CycleMonthly || c == CycleYearly
}

// Record is one contributor as reported by one provider.
// Records are values; stages derive new values instead of mutating them.
type Record struct {
	Source        Source       `json:"source" yaml:"source"`
	Identity      string       `json:"identity" yaml:"identity"`
	DisplayName   string       `json:"display_name" yaml:"display_name"`
	ProfileURL    string       `json:"profile_url" yaml:"profile_url"`
	ImageURL      string       `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	BillingCycle  BillingCycle `json:"billing_cycle" yaml:"billing_cycle"`
	TierLabel     string       `json:"tier_label,omitempty" yaml:"tier_label,omitempty"`
	PeriodAmount  float64      `json:"period_amount" yaml:"period_amount"`
	LifetimeTotal float64      `json:"lifetime_total" yaml:"lifetime_total"`
	Since         string       `json:"since,omitempty" yaml:"since,omitempty"` // raw provider timestamp
	IsActive      bool         `json:"is_active" yaml:"is_active"`
}

// HasImage reports whether the record carries an avatar.
func (r Record) HasImage() bool {
	return r.ImageURL != ""
}

// Fields are the provider-extracted values New builds a Record from.
type Fields struct {
	Identity      string
	DisplayName   string
	ProfileURL    string
	ImageURL      string
	BillingCycle  BillingCycle
	TierLabel     string
	PeriodAmount  float64
	LifetimeTotal float64
	Since         string
	IsActive      bool
}

// New builds a Record for the given source, filling the display name,
// profile URL and tier label defaults. It fails only when the identity is
// missing or an amount is negative or not a number.
func New(source Source, f Fields) (Record, error) {
	identity := strings.TrimSpace(f.Identity)
	if identity == "" {
		return Record{}, errors.NewValidationError("identity", f.Identity, "cannot be empty")
	}
	if err := checkAmount("period_amount", f.PeriodAmount); err != nil {
		return Record{}, err
	}
	if err := checkAmount("lifetime_total", f.LifetimeTotal); err != nil {
		return Record{}, err
	}

	name := strings.TrimSpace(f.DisplayName)
	if name == "" {
		name = "Anonymous"
	}
	profile := strings.TrimSpace(f.ProfileURL)
	if profile == "" {
		profile = source.ProfileURL(identity)
	}
	label := f.TierLabel
	if label == "" {
		label = constants.DefaultTierLabel
	}

	return Record{
		Source:        source,
		Identity:      identity,
		DisplayName:   name,
		ProfileURL:    profile,
		ImageURL:      strings.TrimSpace(f.ImageURL),
		BillingCycle:  f.BillingCycle,
		TierLabel:     label,
		PeriodAmount:  f.PeriodAmount,
		LifetimeTotal: f.LifetimeTotal,
		Since:         strings.TrimSpace(f.Since),
		IsActive:      f.IsActive,
	}, nil
}

func checkAmount(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.NewValidationError(field, v, "must be a finite number")
	}
	if v < 0 {
		return errors.NewValidationError(field, v, "cannot be negative")
	}
	return nil
}

// Normalized is a Record admitted by the eligibility filter, with its
// contribution expressed as a per-month rate.
type Normalized struct {
	Record            `yaml:",inline"`
	MonthlyEquivalent float64 `json:"monthly_equivalent" yaml:"monthly_equivalent"`
}

// Batch is the adapted output of one provider response.
type Batch struct {
	Source  Source
	Records []Record
	// Malformed counts nodes dropped because they could not form a Record.
	Malformed int
}
