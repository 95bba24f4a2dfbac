// Package table converts sponsormap values into rows for table output.
package table

import (
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/sponsormap/pkg/roster"
	"github.com/agentstation/sponsormap/pkg/sync"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// RosterToTableData lists every member in ladder order.
func RosterToTableData(r roster.Roster, wide bool) Data {
	headers := []string{"Tier", "Name", "Identity", "Monthly", "Lifetime", "Source"}
	align := []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignRight, AlignLeft}
	if wide {
		headers = append(headers, "Cycle", "Profile")
		align = append(align, AlignLeft, AlignLeft)
	}

	entries := r.Entries()
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		row := []string{
			e.Tier,
			e.DisplayName,
			e.Identity,
			FormatAmount(e.MonthlyEquivalent),
			FormatAmount(e.LifetimeTotal),
			e.Source.String(),
		}
		if wide {
			row = append(row, e.BillingCycle.String(), e.ProfileURL)
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// TiersToTableData lists per-tier member counts.
func TiersToTableData(counts []roster.TierCount) Data {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Tier, strconv.Itoa(c.Count)})
	}
	return Data{
		Headers:         []string{"Tier", "Sponsors"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// ResultToTableData summarizes a pipeline run: one row per provider,
// then one row per document.
func ResultToTableData(result *sync.Result) Data {
	var rows [][]string
	for _, p := range result.Providers {
		detail := strconv.Itoa(p.Records) + " records"
		if p.Malformed > 0 {
			detail += ", " + strconv.Itoa(p.Malformed) + " malformed"
		}
		if p.Error != "" {
			detail = Truncate(p.Error, 60)
		}
		if p.Status == sync.StatusSkipped {
			detail = "-"
		}
		rows = append(rows, []string{"provider", p.Source.String(), string(p.Status), detail, FormatDuration(p.Duration)})
	}
	for _, d := range result.Documents {
		detail := string(d.Renderer)
		if d.Error != "" {
			detail = Truncate(d.Error, 60)
		}
		rows = append(rows, []string{"document", d.Path, string(d.Status), detail, "-"})
	}
	return Data{
		Headers:         []string{"Kind", "Name", "Status", "Detail", "Duration"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignRight},
	}
}

// ExclusionsToTableData lists exclusion counts by reason.
func ExclusionsToTableData(result *sync.Result) Data {
	reasons := result.Excluded.Reasons()
	rows := make([][]string, 0, len(reasons))
	for _, r := range reasons {
		rows = append(rows, []string{r.String(), strconv.Itoa(result.Excluded[r])})
	}
	return Data{
		Headers:         []string{"Reason", "Records"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// FormatAmount formats a dollar amount with two decimals.
func FormatAmount(v float64) string {
	if v == 0 {
		return "-"
	}
	return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatDuration rounds a duration for display.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(time.Millisecond).String()
}

// Truncate shortens s to max runes, marking the cut with "...".
func Truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
