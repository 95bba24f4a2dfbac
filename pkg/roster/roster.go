// Package roster holds the reconciled, tiered view of all sponsors.
//
// A Roster is immutable: it is built once by the reconciler and every
// accessor returns copies, so renderers can share one value safely.
package roster

import (
	"slices"

	"github.com/agentstation/sponsormap/pkg/sponsors"
	"github.com/agentstation/sponsormap/pkg/tiers"
)

// Bucket is one band of the ladder with its members, best first.
type Bucket struct {
	Band    tiers.Band            `json:"band" yaml:"band"`
	Members []sponsors.Normalized `json:"members" yaml:"members"`
}

// Len returns the number of members in the bucket.
func (b Bucket) Len() int {
	return len(b.Members)
}

// Roster maps every band of a ladder to its ordered members.
type Roster struct {
	buckets []Bucket
}

// New builds a Roster with one bucket per ladder band, in ladder order.
// members is keyed by band name; bands without an entry are empty.
func New(ladder tiers.Ladder, members map[string][]sponsors.Normalized) Roster {
	buckets := make([]Bucket, len(ladder))
	for i, band := range ladder {
		buckets[i] = Bucket{Band: band, Members: slices.Clone(members[band.Name])}
	}
	return Roster{buckets: buckets}
}

// Buckets returns every bucket in ladder order, including empty ones.
func (r Roster) Buckets() []Bucket {
	out := make([]Bucket, len(r.buckets))
	for i, b := range r.buckets {
		out[i] = Bucket{Band: b.Band, Members: slices.Clone(b.Members)}
	}
	return out
}

// NonEmpty returns the buckets that have members, in ladder order.
func (r Roster) NonEmpty() []Bucket {
	var out []Bucket
	for _, b := range r.Buckets() {
		if len(b.Members) > 0 {
			out = append(out, b)
		}
	}
	return out
}

// Bucket returns the bucket for the named band.
func (r Roster) Bucket(name string) (Bucket, bool) {
	for _, b := range r.buckets {
		if b.Band.Name == name {
			return Bucket{Band: b.Band, Members: slices.Clone(b.Members)}, true
		}
	}
	return Bucket{}, false
}

// Ladder returns the bands the roster was built with.
func (r Roster) Ladder() tiers.Ladder {
	ladder := make(tiers.Ladder, len(r.buckets))
	for i, b := range r.buckets {
		ladder[i] = b.Band
	}
	return ladder
}

// Len returns the total number of members.
func (r Roster) Len() int {
	n := 0
	for _, b := range r.buckets {
		n += len(b.Members)
	}
	return n
}

// IsEmpty reports whether no band has members.
func (r Roster) IsEmpty() bool {
	return r.Len() == 0
}

// Identities returns every member identity in roster order.
func (r Roster) Identities() []string {
	ids := make([]string, 0, r.Len())
	for _, b := range r.buckets {
		for _, m := range b.Members {
			ids = append(ids, m.Identity)
		}
	}
	return ids
}

// TierCount is the member count of one band.
type TierCount struct {
	Tier  string `json:"tier" yaml:"tier"`
	Count int    `json:"count" yaml:"count"`
}

// Counts returns per-band member counts in ladder order.
func (r Roster) Counts() []TierCount {
	counts := make([]TierCount, len(r.buckets))
	for i, b := range r.buckets {
		counts[i] = TierCount{Tier: b.Band.Name, Count: len(b.Members)}
	}
	return counts
}

// Entry is a flattened roster member, used for listings.
type Entry struct {
	Tier                string `json:"tier" yaml:"tier"`
	sponsors.Normalized `yaml:",inline"`
}

// Entries flattens the roster in ladder and rank order.
func (r Roster) Entries() []Entry {
	entries := make([]Entry, 0, r.Len())
	for _, b := range r.buckets {
		for _, m := range b.Members {
			entries = append(entries, Entry{Tier: b.Band.Name, Normalized: m})
		}
	}
	return entries
}
