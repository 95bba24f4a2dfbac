package reconciler

import (
	"fmt"

	"github.com/agentstation/sponsormap/pkg/errors"
	"github.com/agentstation/sponsormap/pkg/roster"
)

// validateRoster checks the roster invariants: unique identities and every
// member inside the bounds of its band.
func validateRoster(r roster.Roster) error {
	seen := make(map[string]string)
	buckets := r.Buckets()
	for i, b := range buckets {
		for _, m := range b.Members {
			if prev, dup := seen[m.Identity]; dup {
				return errors.NewValidationError("roster", m.Identity,
					fmt.Sprintf("identity appears in both %s and %s", prev, b.Band.Name))
			}
			seen[m.Identity] = b.Band.Name

			if !(m.MonthlyEquivalent > 0) || m.MonthlyEquivalent < b.Band.Min {
				return errors.NewValidationError("roster", m.Identity,
					fmt.Sprintf("monthly %.2f outside band %s", m.MonthlyEquivalent, b.Band.Name))
			}
			if i > 0 && m.MonthlyEquivalent >= buckets[i-1].Band.Min {
				return errors.NewValidationError("roster", m.Identity,
					fmt.Sprintf("monthly %.2f belongs above band %s", m.MonthlyEquivalent, b.Band.Name))
			}
		}
	}
	return nil
}
