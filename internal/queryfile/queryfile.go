// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package queryfile reads batch query files. A file is either a YAML list
// of queries, a YAML mapping with a "queries" list, or plain text with one
// query per line (blank lines and lines starting with # are skipped).
package queryfile

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// File is the YAML mapping form of a batch file.
type File struct {
	Queries []string `yaml:"queries"`
}

// Read loads the queries in the file at path.
func Read(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file %s: %w", path, err)
	}
	queries, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing query file %s: %w", path, err)
	}
	return queries, nil
}

// Parse extracts queries from data. Empty queries are dropped; order is kept.
func Parse(data []byte) ([]string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err == nil && len(node.Content) == 1 {
		doc := node.Content[0]
		switch doc.Kind {
		case yaml.SequenceNode:
			var list []string
			if err := doc.Decode(&list); err != nil {
				return nil, fmt.Errorf("queries must be strings: %w", err)
			}
			return compact(list), nil
		case yaml.MappingNode:
			if hasKey(doc, "queries") {
				var f File
				if err := doc.Decode(&f); err != nil {
					return nil, fmt.Errorf("queries must be strings: %w", err)
				}
				return compact(f.Queries), nil
			}
		}
	}

	return lines(string(data)), nil
}

func hasKey(m *yaml.Node, key string) bool {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return true
		}
	}
	return false
}

func lines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		l = strings.TrimSpace(l)
		if l == "" || strings.HasPrefix(l, "#") {
			continue
		}
		out = append(out, l)
	}
	return out
}

func compact(list []string) []string {
	var out []string
	for _, q := range list {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out
}
