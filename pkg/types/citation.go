// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the research-lookup router:
// citations, lookup results, backend identifiers, and configuration.
package types

// CitationKind records where a citation came from.
type CitationKind string

const (
	// CitationSource is a structured citation returned by a backend API.
	CitationSource CitationKind = "source"

	// CitationDOI is a DOI found in the response text.
	CitationDOI CitationKind = "doi"

	// CitationURL is a scholarly URL found in the response text.
	CitationURL CitationKind = "url"
)

// Citation is a normalized reference backing a research response. Which
// fields are set depends on Kind: sources carry URL plus whatever metadata
// the backend reported, DOI citations carry DOI and its canonical resolver
// URL, and URL citations carry only URL.
type Citation struct {
	Kind CitationKind `json:"type" yaml:"type"`

	// URL is always set. For sources it is the dedup key.
	URL string `json:"url" yaml:"url"`

	Title    string   `json:"title,omitempty" yaml:"title,omitempty"`
	Date     string   `json:"date,omitempty" yaml:"date,omitempty"`
	Snippet  string   `json:"snippet,omitempty" yaml:"snippet,omitempty"`
	Excerpts []string `json:"excerpts,omitempty" yaml:"excerpts,omitempty"`

	// DOI is the normalized DOI (e.g. "10.1038/s41586-020-1234-5").
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`
}

// IsTextDerived reports whether the citation was extracted from free text
// rather than returned by the backend.
func (c Citation) IsTextDerived() bool {
	return c.Kind == CitationDOI || c.Kind == CitationURL
}
