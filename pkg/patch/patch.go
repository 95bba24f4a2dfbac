// Package patch replaces the region between a begin and an end marker inside
// a document, leaving every other byte untouched.
package patch

import (
	"strings"

	"github.com/agentstation/sponsormap/pkg/errors"
)

// Patch returns doc with the span between the first begin marker and the
// first end marker after it replaced by fragment. The fragment is wrapped in
// the document's newline convention: CRLF when the document uses CRLF, LF
// otherwise.
func Patch(doc, begin, end, fragment string) (string, error) {
	if begin == "" || end == "" {
		return "", errors.NewValidationError("marker", "", "begin and end markers must be set")
	}

	b := strings.Index(doc, begin)
	if b < 0 {
		return "", &errors.MarkerError{Marker: begin, Begin: true}
	}
	start := b + len(begin)

	e := strings.Index(doc[start:], end)
	if e < 0 {
		return "", &errors.MarkerError{Marker: end}
	}
	stop := start + e

	nl := newline(doc)
	if nl == "\r\n" {
		fragment = toCRLF(fragment)
	}

	var out strings.Builder
	out.Grow(start + len(nl)*2 + len(fragment) + len(doc) - stop)
	out.WriteString(doc[:start])
	out.WriteString(nl)
	out.WriteString(fragment)
	out.WriteString(nl)
	out.WriteString(doc[stop:])
	return out.String(), nil
}

// Region returns the current content between the markers, without the
// surrounding newlines.
func Region(doc, begin, end string) (string, error) {
	b := strings.Index(doc, begin)
	if b < 0 {
		return "", &errors.MarkerError{Marker: begin, Begin: true}
	}
	start := b + len(begin)
	e := strings.Index(doc[start:], end)
	if e < 0 {
		return "", &errors.MarkerError{Marker: end}
	}
	region := doc[start : start+e]
	nl := newline(doc)
	region = strings.TrimPrefix(region, nl)
	return strings.TrimSuffix(region, nl), nil
}

func newline(doc string) string {
	if strings.Contains(doc, "\r\n") {
		return "\r\n"
	}
	return "\n"
}

func toCRLF(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\n", "\r\n")
}
