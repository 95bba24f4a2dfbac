package render

import (
	"github.com/agentstation/sponsormap/pkg/constants"
	"github.com/agentstation/sponsormap/pkg/roster"
)

type highlight struct {
	opts *options
}

func (h *highlight) Kind() Kind { return KindHighlight }

// Render emits image links for members of bands at or above the floor that
// themselves meet the floor and have an image. Members without an image are
// omitted. An empty wrapper is rendered when nothing qualifies.
func (h *highlight) Render(r roster.Roster) string {
	b := newMarkdownBuilder()
	b.PlainText(`<div class="sponsors-highlight">`)

	for _, bucket := range r.NonEmpty() {
		if bucket.Band.Min < h.opts.floor {
			continue
		}
		size := bucket.Band.LogoSize
		if size <= 0 {
			size = constants.HighlightFallbackLogoSize
		}
		for _, m := range bucket.Members {
			if !m.HasImage() || m.MonthlyEquivalent < h.opts.floor {
				continue
			}
			b.PlainText("  " + anchor(m.ProfileURL, relDetailed, m.ImageURL, m.DisplayName, size, ""))
		}
	}

	b.PlainText("</div>")
	return b.String()
}
