package render

import (
	"fmt"
	"strings"

	md "github.com/nao1215/markdown"

	"github.com/agentstation/sponsormap/pkg/roster"
)

type compact struct {
	opts *options
}

func (c *compact) Kind() Kind { return KindCompact }

// Render emits each non-empty band as a heading and a single row of image
// links. Members without an image appear in the row as plain text links.
// The call-to-action line appears once for sponsor bands and once for the
// text-only band, when a collective URL is configured.
func (c *compact) Render(r roster.Roster) string {
	b := newMarkdownBuilder()
	c.opts.header(b)

	ctaDone := map[string]bool{}

	for _, bucket := range r.NonEmpty() {
		kind := "sponsors"
		if bucket.Band.TextOnly() {
			kind = "backers"
		}

		b.H3(bucket.Band.Name)
		if cta := c.callToAction(kind); cta != "" && !ctaDone[kind] {
			b.PlainText(cta).Blank()
			ctaDone[kind] = true
		}

		var row strings.Builder
		for _, m := range bucket.Members {
			if !m.HasImage() {
				row.WriteString(md.Link(escapeLinkText(m.DisplayName), m.ProfileURL))
				continue
			}
			row.WriteString(anchor(m.ProfileURL, relCompact, m.ImageURL, "", 0, ""))
		}
		b.PlainText(row.String()).Blank()
	}
	return b.String()
}

func (c *compact) callToAction(kind string) string {
	if c.opts.collectiveURL == "" {
		return ""
	}
	project := c.opts.project
	if project == "" {
		project = "this project"
	}
	if kind == "backers" {
		return fmt.Sprintf("Love our work and community? %s.",
			md.Link("Become a backer", c.opts.collectiveURL))
	}
	return fmt.Sprintf("Does your company use %s? Help keep the project bug-free and feature rich by %s.",
		project, md.Link("sponsoring the project", c.opts.collectiveURL+"#sponsor"))
}
