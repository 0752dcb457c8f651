// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-lookup/internal/router"
	"github.com/pdiddy/research-lookup/internal/secrets"
	"github.com/pdiddy/research-lookup/pkg/types"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <query>",
	Short: "Show which backend a query would be routed to",
	Long: `Classify runs the routing decision for a query without contacting any
backend. It reports whether the query reads as a scholarly literature request,
which academic keywords matched, and the backend that would be used with the
credentials currently configured.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().Bool("json", false, "output the decision as JSON")
	classifyCmd.Flags().String("force-backend", "", "force a backend: parallel (general) or perplexity (specialist)")

	rootCmd.AddCommand(classifyCmd)
}

// classification is the JSON form of a routing decision.
type classification struct {
	Query        string             `json:"query"`
	Availability types.Availability `json:"availability"`
	Decision     router.Decision    `json:"decision"`
	Error        string             `json:"error,omitempty"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	creds, _, err := secrets.Credentials(secretsDir, getenv)
	if err != nil {
		return err
	}
	cfg, err := loadLookupConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if name, _ := cmd.Flags().GetString("force-backend"); name != "" {
		if cfg.ForceBackend, err = types.ParseBackendID(name); err != nil {
			return err
		}
	}

	r, err := newRouter(cfg, creds)
	if err != nil {
		return err
	}

	out := classification{Query: query, Availability: r.Availability()}
	d, err := r.Decide(query)
	out.Decision = d
	if err != nil && !errors.Is(err, router.ErrNoBackendAvailable) {
		return err
	}
	if err != nil {
		out.Error = err.Error()
		// Classification does not depend on availability.
		sel := router.NewSelector(cfg.AcademicKeywords)
		out.Decision.Matched = sel.MatchKeywords(query)
		out.Decision.Academic = len(out.Decision.Matched) > 0
	}

	w := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	academic := "no"
	if out.Decision.Academic {
		academic = fmt.Sprintf("yes (matched %q)", out.Decision.Matched)
	}
	fmt.Fprintf(w, "Query:     %s\n", out.Query)
	fmt.Fprintf(w, "Academic:  %s\n", academic)
	fmt.Fprintf(w, "Available: parallel=%t perplexity=%t\n", out.Availability.Parallel, out.Availability.Perplexity)
	if out.Error != "" {
		fmt.Fprintf(w, "Backend:   none (%s)\n", out.Error)
		return nil
	}
	fmt.Fprintf(w, "Backend:   %s\n", out.Decision.Backend)
	for _, reason := range out.Decision.Reasons {
		fmt.Fprintf(w, "  - %s\n", reason)
	}
	return nil
}
