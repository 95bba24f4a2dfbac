package github

import (
	"context"

	"github.com/agentstation/sponsormap/internal/providers/tree"
	"github.com/agentstation/sponsormap/pkg/errors"
	"github.com/agentstation/sponsormap/pkg/logging"
	"github.com/agentstation/sponsormap/pkg/sponsors"
)

func connectionPath(keys ...string) []string {
	return append([]string{"user", "sponsorshipsAsMaintainer"}, keys...)
}

// Adapt converts the "data" tree of one sponsorships page into records.
// GitHub exposes no lifetime total, so the monthly price stands in for it.
// The query asks for active sponsorships only, so every record is active.
func Adapt(ctx context.Context, data map[string]any) (sponsors.Batch, error) {
	batch := sponsors.Batch{Source: sponsors.SourceGitHub}

	if _, ok := tree.Map(data, "user"); !ok {
		return batch, &errors.ParseError{Format: "graphql", Path: "data.user", Message: "user not found"}
	}
	path := connectionPath("nodes")
	nodes, ok := tree.List(data, path...)
	if !ok {
		return batch, &errors.ParseError{Format: "graphql", Path: "data." + tree.Path(path...), Message: "sponsorships list missing"}
	}

	logger := logging.FromContext(ctx)
	batch.Records = make([]sponsors.Record, 0, len(nodes))
	for i, node := range nodes {
		rec, err := adaptNode(node)
		if err != nil {
			batch.Malformed++
			logger.Warn().Err(err).Int("node", i).Msg("Skipping malformed sponsorship")
			continue
		}
		batch.Records = append(batch.Records, rec)
	}
	return batch, nil
}

func adaptNode(node any) (sponsors.Record, error) {
	entity, ok := tree.Map(node, "sponsorEntity")
	if !ok {
		return sponsors.Record{}, errors.NewValidationError("sponsorEntity", nil, "missing")
	}

	login := tree.String(entity, "login")
	name := tree.String(entity, "name")
	if name == "" {
		name = login
	}

	cycle := sponsors.CycleMonthly
	if tree.Bool(node, false, "tier", "isOneTime") {
		cycle = sponsors.CycleOneTime
	}

	label := tree.String(node, "tier", "name")
	if label == "" {
		label = "Sponsor"
	}

	price := tree.FloatOr(node, 0, "tier", "monthlyPriceInDollars")
	return sponsors.New(sponsors.SourceGitHub, sponsors.Fields{
		Identity:      login,
		DisplayName:   name,
		ProfileURL:    tree.String(entity, "url"),
		ImageURL:      tree.String(entity, "avatarUrl"),
		BillingCycle:  cycle,
		TierLabel:     label,
		PeriodAmount:  price,
		LifetimeTotal: price,
		Since:         tree.String(node, "createdAt"),
		IsActive:      true,
	})
}
