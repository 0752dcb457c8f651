// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-lookup/pkg/types"
)

// CSLItem is a bibliographic entry in CSL (Citation Style Language) form.
// Field names follow the CSL-YAML schema so Pandoc and reference managers
// can read the output directly.
type CSLItem struct {
	ID       string   `yaml:"id"`
	Type     string   `yaml:"type"`
	Title    string   `yaml:"title,omitempty"`
	Abstract string   `yaml:"abstract,omitempty"`
	Issued   *CSLDate `yaml:"issued,omitempty"`
	DOI      string   `yaml:"DOI,omitempty"`
	URL      string   `yaml:"URL,omitempty"`
	Note     string   `yaml:"note,omitempty"`
}

// CSLDate is a CSL date expressed as date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// CSLItems converts the citations of every successful result into CSL
// items. Citations repeated across results (same DOI, or same URL) appear
// once, in first-seen order.
func CSLItems(results []types.LookupResult) []CSLItem {
	seen := make(map[string]bool)
	var items []CSLItem
	for _, r := range results {
		if !r.Success {
			continue
		}
		for _, c := range r.Citations {
			key := citationKey(c)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			item := toCSLItem(c, len(items)+1)
			item.Note = "research-lookup: " + r.Query
			items = append(items, item)
		}
	}
	return items
}

// WriteCSL writes the citations of results as a CSL-YAML list.
func WriteCSL(w io.Writer, results []types.LookupResult) error {
	items := CSLItems(results)
	if items == nil {
		items = []CSLItem{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encoding csl: %w", err)
	}
	return enc.Close()
}

func citationKey(c types.Citation) string {
	if c.DOI != "" {
		return "doi:" + strings.ToLower(c.DOI)
	}
	if c.URL != "" {
		return "url:" + c.URL
	}
	return ""
}

// toCSLItem converts a citation to a CSL item. n numbers items without a DOI.
func toCSLItem(c types.Citation, n int) CSLItem {
	item := CSLItem{
		ID:       fmt.Sprintf("ref%d", n),
		Type:     "webpage",
		Title:    c.Title,
		Abstract: c.Snippet,
		URL:      c.URL,
		Issued:   parseCSLDate(c.Date),
	}
	if c.DOI != "" {
		item.ID = c.DOI
		item.Type = "article-journal"
		item.DOI = c.DOI
	}
	return item
}

// parseCSLDate reads a backend date ("2024-03-01", "2024-03", "2024") into
// date-parts at the precision given. Unrecognized dates yield nil.
func parseCSLDate(s string) *CSLDate {
	s = strings.TrimSpace(s)
	layouts := []struct {
		layout string
		parts  func(t time.Time) []int
	}{
		{"2006-01-02", func(t time.Time) []int { return []int{t.Year(), int(t.Month()), t.Day()} }},
		{"2006-01", func(t time.Time) []int { return []int{t.Year(), int(t.Month())} }},
		{"2006", func(t time.Time) []int { return []int{t.Year()} }},
	}
	for _, l := range layouts {
		if t, err := time.Parse(l.layout, s); err == nil {
			return &CSLDate{DateParts: [][]int{l.parts(t)}}
		}
	}
	return nil
}
