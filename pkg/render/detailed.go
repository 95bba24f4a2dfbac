package render

import (
	"github.com/agentstation/sponsormap/pkg/roster"
)

const detailedImageStyle = "border-radius: 8px; margin: 8px;"

type detailed struct {
	opts *options
}

func (d *detailed) Kind() Kind { return KindDetailed }

// Render emits every non-empty band as a heading plus an image grid, or a
// link list for text-only bands. Members without an image fall back to the
// link list individually.
func (d *detailed) Render(r roster.Roster) string {
	b := newMarkdownBuilder()
	d.opts.header(b)

	for _, bucket := range r.NonEmpty() {
		b.H3(bucket.Band.Name)

		if bucket.Band.TextOnly() {
			b.LinkList(linkItems(bucket)).Blank()
			continue
		}

		var textOnly []linkItem
		var images []string
		for _, m := range bucket.Members {
			if !m.HasImage() {
				textOnly = append(textOnly, linkItem{text: m.DisplayName, url: m.ProfileURL})
				continue
			}
			images = append(images, "  "+anchor(m.ProfileURL, relDetailed, m.ImageURL, m.DisplayName,
				bucket.Band.LogoSize, detailedImageStyle))
		}

		if len(images) > 0 {
			b.PlainText(`<div align="center">`).Blank()
			for _, img := range images {
				b.PlainText(img)
			}
			b.Blank().PlainText("</div>").Blank()
		}
		if len(textOnly) > 0 {
			b.LinkList(textOnly).Blank()
		}
	}
	return b.String()
}

func linkItems(bucket roster.Bucket) []linkItem {
	items := make([]linkItem, len(bucket.Members))
	for i, m := range bucket.Members {
		items[i] = linkItem{text: m.DisplayName, url: m.ProfileURL}
	}
	return items
}
