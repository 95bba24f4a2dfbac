package opencollective

import (
	"context"

	"github.com/agentstation/sponsormap/internal/providers/tree"
	"github.com/agentstation/sponsormap/pkg/errors"
	"github.com/agentstation/sponsormap/pkg/logging"
	"github.com/agentstation/sponsormap/pkg/sponsors"
)

var nodesPath = []string{"collective", "members", "nodes"}

// Adapt converts the "data" tree of a members query into records.
// A missing collective or members list is a parse error; an empty list is
// a valid empty batch. Nodes without a slug are counted as malformed.
func Adapt(ctx context.Context, data map[string]any) (sponsors.Batch, error) {
	batch := sponsors.Batch{Source: sponsors.SourceOpenCollective}

	if _, ok := tree.Map(data, "collective"); !ok {
		return batch, &errors.ParseError{Format: "graphql", Path: "data.collective", Message: "collective not found"}
	}
	nodes, ok := tree.List(data, nodesPath...)
	if !ok {
		return batch, &errors.ParseError{Format: "graphql", Path: "data." + tree.Path(nodesPath...), Message: "members list missing"}
	}

	logger := logging.FromContext(ctx)
	batch.Records = make([]sponsors.Record, 0, len(nodes))
	for i, node := range nodes {
		rec, err := adaptNode(node)
		if err != nil {
			batch.Malformed++
			logger.Warn().Err(err).Int("node", i).Msg("Skipping malformed member")
			continue
		}
		batch.Records = append(batch.Records, rec)
	}
	return batch, nil
}

func adaptNode(node any) (sponsors.Record, error) {
	cycle := sponsors.CycleUnknown
	if tier, ok := tree.Map(node, "tier"); ok {
		cycle = sponsors.ParseBillingCycle(tree.String(tier, "frequency"))
	}

	return sponsors.New(sponsors.SourceOpenCollective, sponsors.Fields{
		Identity:      tree.String(node, "account", "slug"),
		DisplayName:   tree.String(node, "account", "name"),
		ProfileURL:    tree.String(node, "account", "website"),
		ImageURL:      tree.String(node, "account", "imageUrl"),
		BillingCycle:  cycle,
		TierLabel:     tree.String(node, "tier", "name"),
		PeriodAmount:  tree.FloatOr(node, 0, "tier", "amount", "value"),
		LifetimeTotal: tree.FloatOr(node, 0, "totalDonations", "value"),
		Since:         tree.String(node, "since"),
		IsActive:      tree.Bool(node, false, "isActive"),
	})
}
