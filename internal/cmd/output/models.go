package output

import (
	"fmt"
	"io"

	"github.com/agentstation/sponsormap/internal/cmd/table"
	"github.com/agentstation/sponsormap/pkg/roster"
	"github.com/agentstation/sponsormap/pkg/sync"
)

// FormatRoster writes the roster. Tables list one member per row; JSON
// and YAML carry the flattened entries with their tier.
func FormatRoster(w io.Writer, format Format, r roster.Roster) error {
	formatter := NewFormatter(format)
	if format.IsTable() {
		return formatter.Format(w, table.RosterToTableData(r, format == FormatWide))
	}
	return formatter.Format(w, r.Entries())
}

// FormatResult writes a run summary. Tables print the provider/document
// status table followed by tier counts and, when present, exclusions.
func FormatResult(w io.Writer, format Format, result *sync.Result) error {
	formatter := NewFormatter(format)
	if !format.IsTable() {
		return formatter.Format(w, result)
	}

	if err := formatter.Format(w, table.ResultToTableData(result)); err != nil {
		return err
	}
	if len(result.Tiers) > 0 {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		if err := formatter.Format(w, table.TiersToTableData(result.Tiers)); err != nil {
			return err
		}
	}
	if len(result.Excluded) > 0 {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		if err := formatter.Format(w, table.ExclusionsToTableData(result)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, result.Summary())
	return err
}

// FormatAny formats any data type for output.
func FormatAny(w io.Writer, format Format, data any) error {
	return NewFormatter(format).Format(w, data)
}
