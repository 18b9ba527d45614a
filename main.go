// Package main is the entry point for the sqlrun job plugin.
// It executes ad-hoc SQL queries as single-shot jobs on behalf of an
// orchestration host, speaking a line-delimited JSON protocol on stdout.
package main

import (
	"sqlrun/plugin/cmd"
)

// main is the entry point for the sqlrun binary.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
