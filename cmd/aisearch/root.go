// Package main provides the entry point for the aisearch CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// exitError carries a specific process exit code out of a command.
// Calling automation branches on exit codes (2 = CAPTCHA, 3 = browser
// closed, 130 = interrupted), so RunE errors alone are not enough.
type exitError struct {
	code int
	msg  string
}

// Error returns the error message.
func (e *exitError) Error() string {
	return e.msg
}

// NewRootCmd creates the root command for aisearch.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aisearch",
		Short: "Extract AI-generated search answers as cited markdown",
		Long: `aisearch drives a real browser against Google's AI answer mode, waits
for the generated answer, harvests its citation links, and writes a
markdown document with numbered footnotes and a source list.

The browser runs headless by default. When the provider serves a CAPTCHA,
rerun with --show-browser and solve it by hand; the persistent profile
keeps the resulting trust for later runs.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and exits the process with the mapped
// exit code.
func Execute() {
	err := NewRootCmd().Execute()
	if err == nil {
		return
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.msg != "" {
			fmt.Fprintln(os.Stderr, ee.msg)
		}
		os.Exit(ee.code)
	}

	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
