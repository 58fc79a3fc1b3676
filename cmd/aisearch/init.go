package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/aisearch/internal/config"
	"github.com/spf13/cobra"
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with all defaults",
		Long: `Init writes a fully-populated .aisearch configuration file in the
current directory. Every phrase set, selector, and timing constant is
spelled out, so adding a locale or adjusting a selector is an edit, not
an archaeology session.

Examples:
  # Create .aisearch in the current directory
  aisearch init

  # Create the file at a specific path
  aisearch init -o config/aisearch.yaml

  # Overwrite an existing file
  aisearch init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if force {
		if err := os.Remove(outputPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to replace configuration file: %w", err)
		}
	}

	if err := config.WriteDefaultFile(outputPath); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nEdit this file to adjust settings such as:")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Block/readiness/disclaimer phrases per locale")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Content container and side panel selectors")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Poll intervals and the readiness budget")

	return nil
}
