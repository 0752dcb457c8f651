// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract normalizes citation metadata from research backend output.
// Structured citations are read from the backend's JSON document; DOIs and
// scholarly URLs are scanned from the response prose. Neither path can fail:
// missing or malformed input yields an empty list.
package extract

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/pdiddy/research-lookup/pkg/types"
)

var (
	// doiRe matches a DOI introduced by "doi:", "doi ", "doi.org/",
	// "dx.doi.org/" or a resolver URL. Group 1 is the bare DOI.
	doiRe = regexp.MustCompile(`(?i)(?:doi[:\s]*|(?:https?://)?(?:dx\.)?doi\.org/)(10\.[0-9]{4,}/[^\s\)\]\,\[<>]+)`)

	// scholarlyURLRe matches http(s) URLs containing one of the scholarly
	// domain tokens below.
	scholarlyURLRe = regexp.MustCompile(`(?i)https?://[^\s\)\]\,<>"']*(?:` +
		strings.Join([]string{
			`arxiv\.org`,
			`pubmed`,
			`ncbi\.nlm\.nih\.gov`,
			`nature\.com`,
			`science\.org`,
			`wiley\.com`,
			`springer\.com`,
			`ieee\.org`,
			`acm\.org`,
		}, "|") +
		`)[^\s\)\]\,<>"']*`)
)

// doiTrailing is the punctuation stripped from the end of a matched DOI.
const doiTrailing = ".,;:)]"

// DOIURL returns the canonical resolver URL for a DOI.
func DOIURL(doi string) string {
	return "https://doi.org/" + doi
}

// Collect runs both extraction paths. sources holds the structured citations
// from raw; citations is sources followed by the citations found in text.
// The two paths are not reconciled, so a URL may appear as both a source and
// a text-derived citation.
func Collect(raw []byte, text string) (citations, sources []types.Citation) {
	sources = Sources(raw)
	fromText := FromText(text)

	citations = make([]types.Citation, 0, len(sources)+len(fromText))
	citations = append(citations, sources...)
	citations = append(citations, fromText...)
	return citations, sources
}

// FromText scans free text for DOIs and scholarly URLs. DOIs come first,
// deduplicated case-insensitively; URLs follow, deduplicated by exact string.
// Order of first appearance is preserved within each kind.
func FromText(text string) []types.Citation {
	if text == "" {
		return nil
	}
	var citations []types.Citation

	seenDOI := make(map[string]bool)
	for _, m := range doiRe.FindAllStringSubmatch(text, -1) {
		doi := NormalizeDOI(m[1])
		if doi == "" {
			continue
		}
		// DOIs are case-insensitive; the first spelling seen is kept.
		key := strings.ToLower(doi)
		if seenDOI[key] {
			continue
		}
		seenDOI[key] = true
		citations = append(citations, types.Citation{
			Kind: types.CitationDOI,
			DOI:  doi,
			URL:  DOIURL(doi),
		})
	}

	seenURL := make(map[string]bool)
	for _, u := range scholarlyURLRe.FindAllString(text, -1) {
		u = strings.TrimRight(u, ".")
		if u == "" || seenURL[u] {
			continue
		}
		seenURL[u] = true
		citations = append(citations, types.Citation{
			Kind: types.CitationURL,
			URL:  u,
		})
	}

	return citations
}

// NormalizeDOI trims whitespace and trailing punctuation picked up from
// surrounding prose.
func NormalizeDOI(doi string) string {
	return strings.TrimRight(strings.TrimSpace(doi), doiTrailing)
}

// Sources reads the structured citations from a backend response document.
// It understands three shapes:
//
//   - basis[].citations[] with url, title, excerpts (Parallel Chat API)
//   - search_results[] with url, title, date, snippet (Perplexity)
//   - legacy citations[], either URL strings or objects (Perplexity)
//
// search_results and citations are looked up at the top level, then under
// choices.0, then under choices.0.message; the first non-empty location
// wins. Entries without a URL are skipped and URLs are deduplicated in
// first-seen order, so a repeated URL keeps its first title.
func Sources(raw []byte) []types.Citation {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return nil
	}
	doc := gjson.ParseBytes(raw)

	seen := make(map[string]bool)
	var sources []types.Citation
	add := func(c types.Citation) {
		c.URL = strings.TrimSpace(c.URL)
		if c.URL == "" || seen[c.URL] {
			return
		}
		seen[c.URL] = true
		c.Kind = types.CitationSource
		sources = append(sources, c)
	}

	for _, item := range arrayAt(doc, "basis") {
		for _, cit := range arrayAt(item, "citations") {
			add(types.Citation{
				URL:      cit.Get("url").String(),
				Title:    cit.Get("title").String(),
				Excerpts: stringList(cit.Get("excerpts")),
			})
		}
	}

	for _, r := range firstNonEmpty(doc, "search_results") {
		add(types.Citation{
			URL:     r.Get("url").String(),
			Title:   r.Get("title").String(),
			Date:    r.Get("date").String(),
			Snippet: r.Get("snippet").String(),
		})
	}

	for _, c := range firstNonEmpty(doc, "citations") {
		switch {
		case c.Type == gjson.String:
			add(types.Citation{URL: c.String()})
		case c.IsObject():
			add(types.Citation{
				URL:   c.Get("url").String(),
				Title: c.Get("title").String(),
				Date:  c.Get("date").String(),
			})
		}
	}

	return sources
}

// firstNonEmpty returns the first non-empty array named key at the top
// level, under choices.0, or under choices.0.message.
func firstNonEmpty(doc gjson.Result, key string) []gjson.Result {
	for _, path := range []string{key, "choices.0." + key, "choices.0.message." + key} {
		if items := arrayAt(doc, path); len(items) > 0 {
			return items
		}
	}
	return nil
}

// arrayAt returns the elements of the array at path, or nil when the path is
// missing or not an array.
func arrayAt(r gjson.Result, path string) []gjson.Result {
	v := r.Get(path)
	if !v.IsArray() {
		return nil
	}
	return v.Array()
}

// stringList reads a list of strings, accepting a bare string as a
// one-element list.
func stringList(v gjson.Result) []string {
	switch {
	case v.IsArray():
		var out []string
		for _, s := range v.Array() {
			if s.Type == gjson.String && s.String() != "" {
				out = append(out, s.String())
			}
		}
		return out
	case v.Type == gjson.String && v.String() != "":
		return []string{v.String()}
	default:
		return nil
	}
}
