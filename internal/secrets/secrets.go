// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves backend API keys. Environment variables take
// precedence; a directory of plain-text key files (one secret per file,
// filename is the key name) is the fallback.
//
// Recognized keys: PARALLEL_API_KEY / parallel-api-key and
// OPENROUTER_API_KEY / openrouter-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/research-lookup/internal/backend"
)

// DefaultDir is the secrets directory relative to the working directory.
const DefaultDir = ".secrets/"

// Key pairs an environment variable with its fallback file name.
type Key struct {
	Env  string
	File string
}

var (
	ParallelKey   = Key{Env: "PARALLEL_API_KEY", File: "parallel-api-key"}
	OpenRouterKey = Key{Env: "OPENROUTER_API_KEY", File: "openrouter-api-key"}
)

// Store holds secrets read from a directory, keyed by file name.
type Store map[string]string

// Names returns the stored key names in sorted order.
func (s Store) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Load reads every regular, non-hidden file in dir. Values are trimmed and
// empty files are skipped. A missing directory yields an empty store.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Store{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	store := make(Store)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if v := strings.TrimSpace(string(data)); v != "" {
			store[name] = v
		}
	}
	return store, nil
}

// Lookup returns the value for k: the trimmed environment variable when it
// is non-empty, otherwise the stored file value. getenv nil means os.Getenv.
func (s Store) Lookup(k Key, getenv func(string) string) string {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv(k.Env)); v != "" {
		return v
	}
	return s[k.File]
}

// Credentials resolves both backend keys from the environment and dir.
func Credentials(dir string, getenv func(string) string) (backend.Credentials, Store, error) {
	store, err := Load(dir)
	if err != nil {
		return backend.Credentials{}, nil, err
	}
	return backend.Credentials{
		ParallelAPIKey:   store.Lookup(ParallelKey, getenv),
		OpenRouterAPIKey: store.Lookup(OpenRouterKey, getenv),
	}, store, nil
}
