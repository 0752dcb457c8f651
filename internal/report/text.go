// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/pdiddy/research-lookup/pkg/types"
)

const ruleWidth = 80

// WriteText writes the human-readable report: for each successful query a
// header, the response, its sources, and any references found in the text;
// for each failed query a one-line error. Batches end with a summary table.
func WriteText(w io.Writer, results []types.LookupResult) error {
	ew := &errWriter{w: w}
	for i, r := range results {
		if !r.Success {
			ew.printf("\nError in query %d: %s\n", i+1, r.Error)
			continue
		}
		writeResult(ew, i+1, r)
	}
	if len(results) > 1 {
		ew.printf("\n")
		writeSummary(ew, results)
	}
	return ew.err
}

func writeResult(ew *errWriter, n int, r types.LookupResult) {
	rule := strings.Repeat("=", ruleWidth)
	ew.printf("\n%s\n", rule)
	ew.printf("Query %d: %s\n", n, r.Query)
	ew.printf("Timestamp: %s\n", r.Timestamp.Format(time.RFC3339))
	ew.printf("Backend: %s | Model: %s\n", orUnknown(string(r.Backend)), orUnknown(r.Model))
	ew.printf("%s\n", rule)
	ew.printf("%s\n", r.Response)

	if len(r.Sources) > 0 {
		ew.printf("\nSources (%d):\n", len(r.Sources))
		for j, s := range r.Sources {
			title := s.Title
			if title == "" {
				title = "Untitled"
			}
			date := ""
			if s.Date != "" {
				date = " (" + s.Date + ")"
			}
			ew.printf("  [%d] %s%s\n", j+1, title, date)
			if s.URL != "" {
				ew.printf("      %s\n", s.URL)
			}
		}
	}

	if refs := r.TextCitations(); len(refs) > 0 {
		ew.printf("\nAdditional References (%d):\n", len(refs))
		for j, c := range refs {
			switch c.Kind {
			case types.CitationDOI:
				ew.printf("  [%d] DOI: %s - %s\n", j+1, c.DOI, c.URL)
			default:
				ew.printf("  [%d] %s\n", j+1, c.URL)
			}
		}
	}

	if r.Usage != nil {
		ew.printf("\nUsage: %s\n", r.Usage)
	}
}

// summary column widths in terminal cells.
const (
	colNum     = 3
	colStatus  = 6
	colBackend = 10
	colCount   = 7
	colQuery   = 48
)

// writeSummary prints one row per result. Query text is truncated by display
// width so wide characters keep the columns aligned.
func writeSummary(ew *errWriter, results []types.LookupResult) {
	ew.printf("%s  %s  %s  %s  %s  %s\n",
		pad("#", colNum), pad("Status", colStatus), pad("Backend", colBackend),
		pad("Sources", colCount), pad("Refs", colCount), "Query")
	ew.printf("%s\n", strings.Repeat("-", colNum+colStatus+colBackend+2*colCount+colQuery+10))

	ok := 0
	for i, r := range results {
		status := "ok"
		if r.Success {
			ok++
		} else {
			status = "FAILED"
		}
		ew.printf("%s  %s  %s  %s  %s  %s\n",
			pad(strconv.Itoa(i+1), colNum),
			pad(status, colStatus),
			pad(orDash(string(r.Backend)), colBackend),
			pad(strconv.Itoa(len(r.Sources)), colCount),
			pad(strconv.Itoa(len(r.TextCitations())), colCount),
			runewidth.Truncate(oneLine(r.Query), colQuery, "..."))
	}
	ew.printf("\n%d of %d queries succeeded\n", ok, len(results))
}

func pad(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, ""), width)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// errWriter remembers the first write error and drops later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
