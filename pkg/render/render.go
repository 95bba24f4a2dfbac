// Package render turns a roster into the markup embedded in target documents.
//
// Three renderers are provided. Detailed lists every band with an image grid
// or a link list. Compact packs each band into a single row of image links.
// Highlight shows only image-bearing sponsors at or above a monetary floor.
// Output depends only on the roster and options; the optional generated-at
// comment is the only place the clock is read.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/agentstation/sponsormap/pkg/constants"
	"github.com/agentstation/sponsormap/pkg/errors"
	"github.com/agentstation/sponsormap/pkg/roster"
)

// Kind names a renderer.
type Kind string

// Renderer kinds.
const (
	KindDetailed  Kind = "detailed"
	KindCompact   Kind = "compact"
	KindHighlight Kind = "highlight"
)

// String returns the string representation of a kind.
func (k Kind) String() string {
	return string(k)
}

// Kinds returns every renderer kind.
func Kinds() []Kind {
	return []Kind{KindDetailed, KindCompact, KindHighlight}
}

// ParseKind returns the kind with the given name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", errors.NewNotFoundError("renderer", s)
}

// Renderer renders a roster to text.
type Renderer interface {
	Kind() Kind
	Render(r roster.Roster) string
}

// New returns the renderer of the given kind.
func New(kind Kind, opts ...Option) (Renderer, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindDetailed:
		return &detailed{opts: o}, nil
	case KindCompact:
		return &compact{opts: o}, nil
	case KindHighlight:
		return &highlight{opts: o}, nil
	}
	return nil, errors.NewNotFoundError("renderer", string(kind))
}

type options struct {
	clock         func() time.Time
	generator     string
	collectiveURL string
	project       string
	floor         float64
}

// Option configures a renderer.
type Option func(*options) error

func newOptions(opts ...Option) (*options, error) {
	o := &options{
		generator: "sponsormap",
		floor:     constants.DefaultHighlightFloor,
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithTimestamp adds a generated-at comment using clock.
func WithTimestamp(clock func() time.Time) Option {
	return func(o *options) error {
		o.clock = clock
		return nil
	}
}

// WithGenerator sets the tool name mentioned in the header comment.
func WithGenerator(name string) Option {
	return func(o *options) error {
		if name != "" {
			o.generator = name
		}
		return nil
	}
}

// WithCollectiveURL sets the collective page used for call-to-action links
// in the compact listing.
func WithCollectiveURL(url string) Option {
	return func(o *options) error {
		o.collectiveURL = strings.TrimRight(url, "/")
		return nil
	}
}

// WithProject sets the project name used in call-to-action lines.
func WithProject(name string) Option {
	return func(o *options) error {
		o.project = name
		return nil
	}
}

// WithFloor sets the highlight floor in monthly-equivalent dollars.
func WithFloor(floor float64) Option {
	return func(o *options) error {
		if !(floor >= 0) {
			return errors.NewValidationError("highlight.floor", floor, "must be a non-negative number")
		}
		o.floor = floor
		return nil
	}
}

// header writes the leading comment lines.
func (o *options) header(b *markdownBuilder) {
	b.Comment(fmt.Sprintf("This list is auto-generated by %s", o.generator))
	if o.clock != nil {
		b.Comment("Last updated: " + o.clock().UTC().Format("2006-01-02 15:04:05 UTC"))
	}
	b.Blank()
}
