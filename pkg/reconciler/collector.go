package reconciler

import (
	"sort"

	"github.com/agentstation/sponsormap/pkg/sponsors"
)

// collector groups records by identity and keeps one winner per identity.
type collector struct {
	strategy  Strategy
	winners   map[string]slot
	conflicts []Conflict
}

// slot remembers a winning record and the first input position of its
// identity.
type slot struct {
	index  int
	record sponsors.Normalized
}

func newCollector(strategy Strategy) *collector {
	return &collector{
		strategy: strategy,
		winners:  make(map[string]slot),
	}
}

// add offers the record at input position index.
func (c *collector) add(index int, rec sponsors.Normalized) {
	current, seen := c.winners[rec.Identity]
	if !seen {
		c.winners[rec.Identity] = slot{index: index, record: rec}
		return
	}

	if c.strategy.Prefer(current.record, rec) {
		c.conflicts = append(c.conflicts, newConflict(rec, current.record))
		c.winners[rec.Identity] = slot{index: current.index, record: rec}
		return
	}
	c.conflicts = append(c.conflicts, newConflict(current.record, rec))
}

// results returns the winners ordered by where each identity first appeared.
func (c *collector) results() ([]sponsors.Normalized, []Conflict) {
	slots := make([]slot, 0, len(c.winners))
	for _, s := range c.winners {
		slots = append(slots, s)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].index < slots[j].index })

	out := make([]sponsors.Normalized, len(slots))
	for i, s := range slots {
		out[i] = s.record
	}
	return out, c.conflicts
}
