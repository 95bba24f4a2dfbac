package render

import (
	"fmt"
	"html"
	"strings"

	md "github.com/nao1215/markdown"
)

// markdownBuilder wraps the markdown package with the HTML snippets sponsor
// listings need.
type markdownBuilder struct {
	md     *md.Markdown
	buffer *strings.Builder
}

func newMarkdownBuilder() *markdownBuilder {
	buffer := &strings.Builder{}
	return &markdownBuilder{
		md:     md.NewMarkdown(buffer),
		buffer: buffer,
	}
}

// H3 creates a level 3 header followed by a blank line.
func (m *markdownBuilder) H3(text string) *markdownBuilder {
	m.md.H3(text)
	return m.Blank()
}

// PlainText adds a raw line.
func (m *markdownBuilder) PlainText(text string) *markdownBuilder {
	m.md.PlainText(text)
	return m
}

// PlainTextf adds a formatted raw line.
func (m *markdownBuilder) PlainTextf(format string, args ...any) *markdownBuilder {
	m.md.PlainTextf(format, args...)
	return m
}

// Blank adds an empty line.
func (m *markdownBuilder) Blank() *markdownBuilder {
	m.md.PlainText("")
	return m
}

// Comment adds an HTML comment line.
func (m *markdownBuilder) Comment(text string) *markdownBuilder {
	m.md.PlainTextf("<!-- %s -->", text)
	return m
}

// LinkList adds a bullet list of markdown links.
func (m *markdownBuilder) LinkList(items []linkItem) *markdownBuilder {
	links := make([]string, len(items))
	for i, item := range items {
		links[i] = md.Link(escapeLinkText(item.text), item.url)
	}
	m.md.BulletList(links...)
	return m
}

// String renders the accumulated lines with LF line endings and no trailing
// blank lines.
func (m *markdownBuilder) String() string {
	m.buffer.Reset()
	if err := m.md.Build(); err != nil {
		return ""
	}
	out := strings.ReplaceAll(m.buffer.String(), "\r\n", "\n")
	return strings.TrimRight(out, "\n")
}

type linkItem struct {
	text string
	url  string
}

// anchor renders an image link. size <= 0 omits the width and height.
func anchor(href, rel, src, alt string, size int, style string) string {
	var img strings.Builder
	fmt.Fprintf(&img, `<img src="%s"`, attr(src))
	if alt != "" {
		fmt.Fprintf(&img, ` alt="%s"`, attr(alt))
	}
	if size > 0 {
		fmt.Fprintf(&img, ` width="%d" height="%d"`, size, size)
	}
	if style != "" {
		fmt.Fprintf(&img, ` style="%s"`, attr(style))
	}
	img.WriteString(">")

	if rel == relCompact {
		return fmt.Sprintf(`<a href="%s" rel="%s" target="_blank">%s</a>`, attr(href), rel, img.String())
	}
	return fmt.Sprintf(`<a href="%s" target="_blank" rel="%s">%s</a>`, attr(href), rel, img.String())
}

const (
	relDetailed = "noopener sponsored"
	relCompact  = "nofollow sponsored"
)

func attr(s string) string {
	return html.EscapeString(s)
}

var linkTextEscaper = strings.NewReplacer(`[`, `\[`, `]`, `\]`)

func escapeLinkText(s string) string {
	return linkTextEscaper.Replace(s)
}
