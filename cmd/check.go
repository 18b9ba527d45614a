// Copyright (c) 2026 sqlrun
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"sqlrun/plugin/internal/dsn"
	"sqlrun/plugin/internal/logging"
	"sqlrun/plugin/internal/query"
	"sqlrun/plugin/internal/terminal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	checkDriver  string
	checkEncrypt bool
	checkTrust   bool
)

// checkCmd represents the check command for verifying database connectivity.
// It prompts for the same connection fields a job envelope carries, runs a
// trivial round-trip query, and reports the outcome with the connection
// string masked. It is a human-facing helper and never emits protocol
// messages, so it is safe to run outside the orchestration host.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify a database connection interactively",
	Long: `The check command prompts for server, database, username, and password,
then attempts a trivial query against the database using the same driver
path the run command uses. The password is read without echo and never
stored; the connection string is displayed with credentials masked.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(os.Stdin)

		server, err := promptLine(reader, "Server (host or host:port): ")
		if err != nil {
			return err
		}
		database, err := promptLine(reader, "Database: ")
		if err != nil {
			return err
		}
		username, err := promptLine(reader, "Username: ")
		if err != nil {
			return err
		}

		promptText := "Password: "
		fmt.Print(promptText)
		pw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
		// Wipe the prompt so nothing credential-related lingers on screen.
		terminal.ClearPreviousLines(len(promptText))
		if len(pw) == 0 {
			return errors.New("password is required")
		}

		info := dsn.ConnInfo{
			Server:           server,
			Database:         database,
			Username:         username,
			Password:         string(pw),
			UseEncryption:    checkEncrypt,
			TrustCertificate: checkTrust,
		}

		builder, err := dsn.ForDriver(checkDriver)
		if err != nil {
			pterm.Println("❌ " + err.Error())
			return err
		}

		pterm.Println()
		pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Driver:     ") + pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint(checkDriver))
		pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Connection: ") + pterm.NewStyle(pterm.FgLightBlue).Sprint(builder.Masked(info)))
		pterm.Println()

		exec, err := query.ForDriver(checkDriver)
		if err != nil {
			pterm.Println("❌ " + err.Error())
			return err
		}

		stopSpinner := startInlineSpinner(os.Stderr, "Connecting...", []string{"|", "/", "-", "\\"}, 120*time.Millisecond)
		started := time.Now()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		_, execErr := exec.Execute(ctx, info, "SELECT 1", query.Options{EscalateWarnings: !checkTrust})
		stopSpinner()

		if execErr != nil {
			pterm.DefaultBox.
				WithTitle(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Connection failed")).
				WithPadding(1).
				Println(logging.PresentError("query failed", execErr))
			return execErr
		}

		pterm.DefaultBox.
			WithTitle(pterm.NewStyle(pterm.FgGreen, pterm.Bold).Sprint("Connection verified")).
			WithPadding(1).
			Println(fmt.Sprintf("Round trip completed in %s", time.Since(started).Round(time.Millisecond)))
		return nil
	},
}

// promptLine reads one trimmed input line.
func promptLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("a value is required")
	}
	return line, nil
}

func init() {
	checkCmd.Flags().StringVar(&checkDriver, "driver", "sqlserver", "Database driver (sqlserver or postgres)")
	checkCmd.Flags().BoolVar(&checkEncrypt, "encrypt", false, "Encrypt the connection")
	checkCmd.Flags().BoolVar(&checkTrust, "trust-certificate", false, "Accept the server certificate without verification")
	rootCmd.AddCommand(checkCmd)
}
