// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-lookup/internal/router"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "List the phrases that route a query to the academic backend",
	Long: `Keywords prints the academic keyword list in effect, one per line and
quoted so significant trailing spaces are visible. Set academic_keywords in
the config file to replace the built-in list.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sel := router.NewSelector(viper.GetStringSlice("academic_keywords"))
		for _, kw := range sel.Keywords() {
			fmt.Fprintf(cmd.OutOrStdout(), "%q\n", kw)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keywordsCmd)
}
