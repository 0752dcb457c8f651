// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders lookup results for people and tools: a plain-text
// report, JSON, YAML, and a CSL-YAML bibliography of the citations found.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-lookup/pkg/types"
)

// Format selects an output rendering.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSL  Format = "csl"
)

// Formats lists the accepted format names.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatCSL}

// ParseFormat maps a format name to a Format. The empty string is text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML, FormatCSL:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json, yaml, or csl)", s)
	}
}

// Write renders results to w in format f.
func Write(w io.Writer, f Format, results []types.LookupResult) error {
	switch f {
	case FormatText, "":
		return WriteText(w, results)
	case FormatJSON:
		return WriteJSON(w, results)
	case FormatYAML:
		return WriteYAML(w, results)
	case FormatCSL:
		return WriteCSL(w, results)
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
}

// WriteJSON writes results as an indented JSON array. Non-ASCII text is
// written as-is.
func WriteJSON(w io.Writer, results []types.LookupResult) error {
	if results == nil {
		results = []types.LookupResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(results)
}

// WriteYAML writes results as a YAML list.
func WriteYAML(w io.Writer, results []types.LookupResult) error {
	if results == nil {
		results = []types.LookupResult{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}
