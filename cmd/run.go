// Copyright (c) 2026 sqlrun
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"os"

	"sqlrun/plugin/internal/config"
	"sqlrun/plugin/internal/runner"

	"github.com/spf13/cobra"
)

// runCmd represents the run command, the job-execution entry point the
// orchestration host invokes. It reads the full input envelope from stdin,
// drives the query job, and exits with the code the state machine returns.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one query job from a stdin envelope",
	Long: `The run command reads a JSON job envelope from stdin, executes the SQL
query it describes, and emits the protocol stream on stdout: progress
checkpoints, result data, produced files, and exactly one terminal status
message. The process exits zero only when the terminal message reports
success.

Local defaults (artifact output directory, always-on debug tracing) are
read from the sqlrun config file; envelope values always win.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		// Config is best-effort: a broken local config file must not turn
		// a valid job into a failure.
		cfg, err := config.Load()
		if err != nil {
			cfg = config.Config{}
		}

		workDir := cfg.OutputDir
		if workDir == "" {
			if wd, err := os.Getwd(); err == nil {
				workDir = wd
			}
		}

		r := &runner.Runner{
			Out:      os.Stdout,
			Diag:     os.Stderr,
			WorkDir:  workDir,
			DebugAll: cfg.Debug,
		}
		if rc := r.Run(cmd.Context(), os.Stdin); rc != 0 {
			// The terminal Error message is already on the wire; the only
			// thing left to signal is the exit status.
			os.Exit(rc)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
