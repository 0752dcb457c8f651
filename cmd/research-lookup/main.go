// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the research-lookup CLI. The root
// command answers research queries; subcommands inspect routing.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built from --log-level before any command runs.
var logger = zap.NewNop()

var (
	errNoCredentials = errors.New("no API keys found")
	errNoQuery       = errors.New("no query given")
)

// rootCmd looks up research queries. Subcommands cover routing inspection
// and the version.
var rootCmd = &cobra.Command{
	Use:   "research-lookup [query]",
	Short: "Route research queries to Parallel or Perplexity and collect citations",
	Long: `research-lookup answers research questions with web-grounded backends.

General queries go to the Parallel Chat API; queries that ask for scholarly
literature ("find papers", "systematic review", "doi:", ...) go to Perplexity
sonar-pro-search through OpenRouter. Citations returned by the backend and
DOIs or scholarly URLs mentioned in the answer are collected and deduplicated.

Credentials come from PARALLEL_API_KEY and OPENROUTER_API_KEY, or from
.secrets/parallel-api-key and .secrets/openrouter-api-key.`,
	Example: `  research-lookup "latest advances in quantum computing 2025"
  research-lookup "find papers on CRISPR gene editing clinical trials"
  research-lookup "topic" --force-backend perplexity
  research-lookup --batch "first topic" --batch "second topic" --json -o results.json
  research-lookup --batch-file queries.yaml --format csl -o refs.yaml`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(viper.GetString("log_level"))
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runLookup,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./research-lookup.yaml or ~/.config/research-lookup/research-lookup.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	registerDefaults(viper.GetViper())
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("research-lookup")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "research-lookup"))
		}
	}

	viper.SetEnvPrefix("RESEARCH_LOOKUP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "warning: could not read config file %s: %v\n", cfgFile, err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
