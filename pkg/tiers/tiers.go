// Package tiers defines the monetary ladder used to classify contributors.
//
// A ladder is an ordered list of bands, highest first. Each band has an
// inclusive lower bound on the monthly-equivalent contribution and a logo
// size; a logo size of zero marks a text-only band.
package tiers

import (
	"fmt"
	"math"

	"github.com/agentstation/sponsormap/pkg/errors"
)

// Band is one named step of the ladder.
type Band struct {
	Name     string  `mapstructure:"name" json:"name" yaml:"name"`
	Min      float64 `mapstructure:"min" json:"min" yaml:"min"`
	LogoSize int     `mapstructure:"logo_size" json:"logo_size" yaml:"logo_size"`
}

// TextOnly reports whether members of the band render without images.
func (b Band) TextOnly() bool {
	return b.LogoSize <= 0
}

// Ladder is an ordered set of bands, strictly descending by Min.
type Ladder []Band

// Default returns the stock sponsor ladder.
func Default() Ladder {
	return Ladder{
		{Name: "Gold Sponsors", Min: 100, LogoSize: 96},
		{Name: "Silver Sponsors", Min: 50, LogoSize: 72},
		{Name: "Bronze Sponsors", Min: 20, LogoSize: 48},
		{Name: "Backers", Min: 0, LogoSize: 0},
	}
}

// Validate checks that the ladder is usable for bucketing.
func (l Ladder) Validate() error {
	if len(l) == 0 {
		return &errors.ValidationError{Field: "tiers", Message: "ladder has no bands"}
	}
	seen := make(map[string]struct{}, len(l))
	for i, b := range l {
		field := fmt.Sprintf("tiers[%d]", i)
		if b.Name == "" {
			return errors.NewValidationError(field+".name", b.Name, "cannot be empty")
		}
		if _, dup := seen[b.Name]; dup {
			return errors.NewValidationError(field+".name", b.Name, "duplicate band name")
		}
		seen[b.Name] = struct{}{}
		if math.IsNaN(b.Min) || b.Min < 0 {
			return errors.NewValidationError(field+".min", b.Min, "must be a non-negative number")
		}
		if b.LogoSize < 0 {
			return errors.NewValidationError(field+".logo_size", b.LogoSize, "cannot be negative")
		}
		if i > 0 && b.Min >= l[i-1].Min {
			return errors.NewValidationError(field+".min", b.Min,
				fmt.Sprintf("must be lower than %s (%g)", l[i-1].Name, l[i-1].Min))
		}
	}
	return nil
}

// Bucket returns the first band, scanning from the top, whose lower bound is
// at or below monthly. Amounts at or below zero belong to no band.
func (l Ladder) Bucket(monthly float64) (Band, bool) {
	if !(monthly > 0) {
		return Band{}, false
	}
	for _, b := range l {
		if b.Min <= monthly {
			return b, true
		}
	}
	return Band{}, false
}

// Band returns the band with the given name.
func (l Ladder) Band(name string) (Band, bool) {
	for _, b := range l {
		if b.Name == name {
			return b, true
		}
	}
	return Band{}, false
}

// Names returns band names in ladder order.
func (l Ladder) Names() []string {
	names := make([]string, len(l))
	for i, b := range l {
		names[i] = b.Name
	}
	return names
}

// AtOrAbove returns the bands whose lower bound is at or above floor.
func (l Ladder) AtOrAbove(floor float64) Ladder {
	var out Ladder
	for _, b := range l {
		if b.Min >= floor {
			out = append(out, b)
		}
	}
	return out
}
