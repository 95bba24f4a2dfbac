package render_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/sponsormap/pkg/errors"
	"github.com/agentstation/sponsormap/pkg/render"
	"github.com/agentstation/sponsormap/pkg/roster"
	"github.com/agentstation/sponsormap/pkg/sponsors"
	"github.com/agentstation/sponsormap/pkg/tiers"
)

func member(id, name, profile, image string, monthly float64) sponsors.Normalized {
	return sponsors.Normalized{
		Record: sponsors.Record{
			Identity:    id,
			DisplayName: name,
			ProfileURL:  profile,
			ImageURL:    image,
		},
		MonthlyEquivalent: monthly,
	}
}

func testRoster() roster.Roster {
	return roster.New(tiers.Default(), map[string][]sponsors.Normalized{
		"Gold Sponsors": {
			member("acme", "Acme", "https://acme.dev", "https://img/acme.png", 150),
			member("nobody", "Nobody", "https://opencollective.com/nobody", "", 120),
		},
		"Backers": {
			member("bob", "Bob", "https://github.com/bob", "", 5),
		},
	})
}

func mustRender(t *testing.T, kind render.Kind, r roster.Roster, opts ...render.Option) string {
	t.Helper()
	renderer, err := render.New(kind, opts...)
	require.NoError(t, err)
	assert.Equal(t, kind, renderer.Kind())
	return renderer.Render(r)
}

func TestDetailed(t *testing.T) {
	want := strings.Join([]string{
		`<!-- This list is auto-generated by sponsormap -->`,
		``,
		`### Gold Sponsors`,
		``,
		`<div align="center">`,
		``,
		`  <a href="https://acme.dev" target="_blank" rel="noopener sponsored"><img src="https://img/acme.png" alt="Acme" width="96" height="96" style="border-radius: 8px; margin: 8px;"></a>`,
		``,
		`</div>`,
		``,
		`- [Nobody](https://opencollective.com/nobody)`,
		``,
		`### Backers`,
		``,
		`- [Bob](https://github.com/bob)`,
	}, "\n")

	assert.Equal(t, want, mustRender(t, render.KindDetailed, testRoster()))
}

func TestDetailedTimestamp(t *testing.T) {
	clock := func() time.Time { return time.Date(2025, 6, 15, 14, 0, 0, 0, time.FixedZone("X", 2*3600)) }
	out := mustRender(t, render.KindDetailed, testRoster(), render.WithTimestamp(clock))

	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, "<!-- Last updated: 2025-06-15 12:00:00 UTC -->", lines[1])
}

func TestCompact(t *testing.T) {
	want := strings.Join([]string{
		`<!-- This list is auto-generated by sponsormap -->`,
		``,
		`### Gold Sponsors`,
		``,
		`Does your company use goreleaser? Help keep the project bug-free and feature rich by [sponsoring the project](https://opencollective.com/goreleaser#sponsor).`,
		``,
		`<a href="https://acme.dev" rel="nofollow sponsored" target="_blank"><img src="https://img/acme.png"></a>` +
			`[Nobody](https://opencollective.com/nobody)`,
		``,
		`### Backers`,
		``,
		`Love our work and community? [Become a backer](https://opencollective.com/goreleaser).`,
		``,
		`[Bob](https://github.com/bob)`,
	}, "\n")

	got := mustRender(t, render.KindCompact, testRoster(),
		render.WithCollectiveURL("https://opencollective.com/goreleaser/"),
		render.WithProject("goreleaser"))
	assert.Equal(t, want, got)
}

func TestCompactMemberWithoutImageIsTextOnly(t *testing.T) {
	r := roster.New(tiers.Default(), map[string][]sponsors.Normalized{
		"Gold Sponsors": {member("octo", "Octo", "https://github.com/octo", "", 150)},
	})
	got := mustRender(t, render.KindCompact, r,
		render.WithCollectiveURL("https://opencollective.com/goreleaser"))

	assert.Contains(t, got, "[Octo](https://github.com/octo)")
	assert.NotContains(t, got, "<img")
	assert.NotContains(t, got, "/avatar")
}

func TestCompactWithoutCollective(t *testing.T) {
	got := mustRender(t, render.KindCompact, testRoster())
	assert.NotContains(t, got, "sponsoring the project")
	assert.Contains(t, got, "[Nobody](https://opencollective.com/nobody)")
	assert.Contains(t, got, "[Bob](https://github.com/bob)")
}

func TestHighlight(t *testing.T) {
	want := strings.Join([]string{
		`<div class="sponsors-highlight">`,
		`  <a href="https://acme.dev" target="_blank" rel="noopener sponsored"><img src="https://img/acme.png" alt="Acme" width="96" height="96"></a>`,
		`</div>`,
	}, "\n")
	assert.Equal(t, want, mustRender(t, render.KindHighlight, testRoster()))
}

func TestHighlightFloorAndFallbackSize(t *testing.T) {
	ladder := tiers.Ladder{
		{Name: "Top", Min: 200},
		{Name: "Mid", Min: 50, LogoSize: 48},
	}
	r := roster.New(ladder, map[string][]sponsors.Normalized{
		"Top": {member("t", "T", "https://t", "https://img/t.png", 250)},
		"Mid": {member("m", "M", "https://m", "https://img/m.png", 60)},
	})

	out := mustRender(t, render.KindHighlight, r, render.WithFloor(100))
	assert.Contains(t, out, `width="64" height="64"`)
	assert.NotContains(t, out, "https://img/m.png")

	empty := mustRender(t, render.KindHighlight, r, render.WithFloor(1000))
	assert.Equal(t, "<div class=\"sponsors-highlight\">\n</div>", empty)
}

func TestEmptyRoster(t *testing.T) {
	r := roster.New(tiers.Default(), nil)
	assert.Equal(t, "<!-- This list is auto-generated by sponsormap -->",
		mustRender(t, render.KindDetailed, r))
	assert.Equal(t, "<!-- This list is auto-generated by sponsormap -->",
		mustRender(t, render.KindCompact, r))
}

func TestEscaping(t *testing.T) {
	r := roster.New(tiers.Default(), map[string][]sponsors.Normalized{
		"Gold Sponsors": {member("q", `Q "&" Co`, "https://q.dev/?a=1&b=2", "https://img/q.png", 300)},
		"Backers":       {member("b", "[bracket]", "https://b.dev", "", 1)},
	})
	out := mustRender(t, render.KindDetailed, r)
	assert.Contains(t, out, `href="https://q.dev/?a=1&amp;b=2"`)
	assert.Contains(t, out, `alt="Q &#34;&amp;&#34; Co"`)
	assert.Contains(t, out, `- [\[bracket\]](https://b.dev)`)
}

func TestDeterministic(t *testing.T) {
	for _, kind := range render.Kinds() {
		first := mustRender(t, kind, testRoster())
		second := mustRender(t, kind, testRoster())
		assert.Equal(t, first, second, "kind %s", kind)
	}
}

func TestParseKind(t *testing.T) {
	k, err := render.ParseKind(" Compact ")
	require.NoError(t, err)
	assert.Equal(t, render.KindCompact, k)

	_, err = render.ParseKind("sidebar")
	assert.True(t, errors.IsNotFound(err))

	_, err = render.New("sidebar")
	assert.True(t, errors.IsNotFound(err))

	_, err = render.New(render.KindHighlight, render.WithFloor(-1))
	assert.True(t, errors.IsValidationError(err))
}
