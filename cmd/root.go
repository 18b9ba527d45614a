// Copyright (c) 2026 sqlrun
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the sqlrun job plugin.
// It implements the job-execution entry point plus a few human-facing
// helpers using the Cobra CLI framework. The package handles command
// parsing and execution; all job logic lives under internal/.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	showVersion bool
)

// rootCmd represents the base command when called without any subcommands.
// It serves as the entry point for the sqlrun plugin binary.
var rootCmd = &cobra.Command{
	Use:           "sqlrun",
	Short:         "Single-shot SQL query job plugin",
	Long: `sqlrun executes one ad-hoc SQL query as a unit of work on behalf of an
orchestration host. The host writes a JSON envelope to stdin; sqlrun runs the
query and reports progress, results, and a terminal status as line-delimited
JSON on stdout. Diagnostics go to stderr and are never parsed by the host.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("sqlrun %s\n", Version)
			return nil
		}
		// If no flag is set, show help
		return cmd.Help()
	},
}

// Execute runs the CLI application.
// It executes the root command and handles any errors that occur during execution.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show version information")
}
