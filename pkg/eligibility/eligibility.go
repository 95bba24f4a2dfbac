// Package eligibility decides which sponsorship records currently count and
// normalizes their contribution to a monthly rate.
//
// Rules are applied in order: inactive records and records with no lifetime
// contribution are dropped; MONTHLY and YEARLY records are admitted; ONE_TIME
// records are admitted only while their start date lies inside the trailing
// one-year window, and are prorated over twelve months. Anything else is
// excluded. Exclusion is never an error.
package eligibility

import (
	"context"
	"sort"
	"time"

	"github.com/agentstation/sponsormap/pkg/constants"
	"github.com/agentstation/sponsormap/pkg/logging"
	"github.com/agentstation/sponsormap/pkg/sponsors"
)

// Reason explains why a record was excluded.
type Reason string

// Exclusion reasons.
const (
	Admitted             Reason = ""
	ReasonInactive       Reason = "inactive"
	ReasonNoContribution Reason = "no_contribution"
	ReasonMissingSince   Reason = "missing_since"
	ReasonInvalidSince   Reason = "invalid_since"
	ReasonExpired        Reason = "expired"
	ReasonUnknownCycle   Reason = "unknown_cycle"

	// ReasonMalformed counts provider entries that never became records.
	ReasonMalformed Reason = "malformed"
)

// String returns the string representation of a reason.
func (r Reason) String() string {
	if r == Admitted {
		return "admitted"
	}
	return string(r)
}

// Admit applies the eligibility rules to one record at time now. The second
// return value is Admitted when the record counts.
func Admit(r sponsors.Record, now time.Time) (sponsors.Normalized, Reason) {
	if !r.IsActive {
		return sponsors.Normalized{}, ReasonInactive
	}
	if !(r.LifetimeTotal > 0) {
		return sponsors.Normalized{}, ReasonNoContribution
	}

	switch r.BillingCycle {
	case sponsors.CycleMonthly:
		return sponsors.Normalized{Record: r, MonthlyEquivalent: r.PeriodAmount}, Admitted
	case sponsors.CycleYearly:
		return sponsors.Normalized{Record: r, MonthlyEquivalent: r.PeriodAmount / constants.MonthsPerYear}, Admitted
	case sponsors.CycleOneTime:
		if r.Since == "" {
			return sponsors.Normalized{}, ReasonMissingSince
		}
		since, ok := ParseTimestamp(r.Since)
		if !ok {
			return sponsors.Normalized{}, ReasonInvalidSince
		}
		if now.Sub(since) > constants.OneTimeWindow {
			return sponsors.Normalized{}, ReasonExpired
		}
		return sponsors.Normalized{Record: r, MonthlyEquivalent: r.PeriodAmount / constants.MonthsPerYear}, Admitted
	}
	return sponsors.Normalized{}, ReasonUnknownCycle
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// ParseTimestamp parses a provider timestamp. Values without a zone are UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Exclusions counts excluded records by reason.
type Exclusions map[Reason]int

// Total returns the number of excluded records.
func (e Exclusions) Total() int {
	total := 0
	for _, n := range e {
		total += n
	}
	return total
}

// Reasons returns the recorded reasons in a stable order.
func (e Exclusions) Reasons() []Reason {
	reasons := make([]Reason, 0, len(e))
	for r := range e {
		reasons = append(reasons, r)
	}
	sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })
	return reasons
}

// Filter applies Admit to every record, preserving input order among the
// admitted ones.
func Filter(ctx context.Context, records []sponsors.Record, now time.Time) ([]sponsors.Normalized, Exclusions) {
	logger := logging.FromContext(ctx)
	admitted := make([]sponsors.Normalized, 0, len(records))
	excluded := Exclusions{}

	for _, r := range records {
		n, reason := Admit(r, now)
		if reason != Admitted {
			excluded[reason]++
			logger.Debug().
				Str("source", r.Source.String()).
				Str("identity", r.Identity).
				Str("reason", reason.String()).
				Msg("Excluded sponsor record")
			continue
		}
		logger.Debug().
			Str("source", r.Source.String()).
			Str("identity", r.Identity).
			Float64("monthly", n.MonthlyEquivalent).
			Msg("Admitted sponsor record")
		admitted = append(admitted, n)
	}
	return admitted, excluded
}
