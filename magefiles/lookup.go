//go:build mage

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Lookup builds the CLI and answers $QUERY. Extra CLI flags can be passed
// in $LOOKUP_FLAGS, e.g. LOOKUP_FLAGS="--format json".
func Lookup() error {
	mg.Deps(Build)
	query := os.Getenv("QUERY")
	if query == "" {
		return fmt.Errorf("set QUERY to the research question")
	}
	args := append(splitFlags(os.Getenv("LOOKUP_FLAGS")), query)
	return sh.RunV(binPath(), args...)
}

// Classify builds the CLI and shows the routing decision for $QUERY without
// contacting a backend.
func Classify() error {
	mg.Deps(Build)
	query := os.Getenv("QUERY")
	if query == "" {
		return fmt.Errorf("set QUERY to the research question")
	}
	return sh.RunV(binPath(), "classify", query)
}

// Batch builds the CLI and runs every query in $BATCH_FILE.
func Batch() error {
	mg.Deps(Build)
	file := os.Getenv("BATCH_FILE")
	if file == "" {
		return fmt.Errorf("set BATCH_FILE to a query file")
	}
	args := append([]string{"--batch-file", file}, splitFlags(os.Getenv("LOOKUP_FLAGS"))...)
	return sh.RunV(binPath(), args...)
}

func splitFlags(s string) []string {
	return strings.Fields(s)
}
