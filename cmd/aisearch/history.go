package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/nao1215/aisearch/internal/config"
	"github.com/nao1215/aisearch/internal/database"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command with its subcommands.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse past extraction runs",
		Long: `History lists and replays past extraction runs from the local SQLite
database. Successful runs keep their full markdown document, so a past
answer can be re-read without another browser round trip.`,
	}

	cmd.PersistentFlags().String("db-dir", "",
		"History database directory (default: the user data directory)")

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())

	return cmd
}

// historyDir resolves the database directory from the flag or default.
func historyDir(cmd *cobra.Command) string {
	dir, err := cmd.Flags().GetString("db-dir")
	if err != nil || dir == "" {
		return config.HistoryDir()
	}
	return dir
}

// openHistory opens the history database without creating a fresh one:
// reading an empty history should say so, not leave files behind.
func openHistory(cmd *cobra.Command) (*database.HistoryDB, error) {
	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(historyDir(cmd), opts)
	if err != nil {
		return nil, fmt.Errorf("no extraction history yet: %w", err)
	}
	return db, nil
}

// newHistoryListCmd creates the history list subcommand.
func newHistoryListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List past runs, newest first",
		RunE:  runHistoryListCmd,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to list (0 = all)")
	cmd.Flags().StringP("filter", "f", "", "Only list queries containing this substring")

	return cmd
}

// runHistoryListCmd executes the history list subcommand.
func runHistoryListCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	filter, err := cmd.Flags().GetString("filter")
	if err != nil {
		return err
	}

	db, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := db.List(cmd.Context(), filter, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matching runs.")
		return nil
	}

	for _, rec := range records {
		status := "ok"
		if !rec.Success {
			status = string(rec.ErrorKind)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%6d  %s  %-25s  %s\n",
			rec.ID,
			rec.Timestamp.Format("2006-01-02 15:04"),
			status,
			rec.Query,
		)
	}
	return nil
}

// newHistoryShowCmd creates the history show subcommand.
func newHistoryShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print the stored document of one run",
		Long: `Show prints the stored markdown document of one run, addressed by its
id from 'history list'. With --last the argument is a query string
instead, and the most recent run for that exact query is shown.`,
		Args: cobra.ExactArgs(1),
		RunE: runHistoryShowCmd,
	}

	cmd.Flags().BoolP("json", "j", false, "Print the full record as JSON")
	cmd.Flags().BoolP("last", "l", false,
		"Treat the argument as a query and show its most recent run")

	return cmd
}

// runHistoryShowCmd executes the history show subcommand.
func runHistoryShowCmd(cmd *cobra.Command, args []string) error {
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	byQuery, err := cmd.Flags().GetBool("last")
	if err != nil {
		return err
	}

	db, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	var rec *database.Record
	if byQuery {
		rec, err = db.Latest(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("no run for query %q", args[0])
		}
	} else {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid run id %q", args[0])
		}
		rec, err = db.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("no run with id %d", id)
		}
	}

	if asJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(rec)
	}

	if !rec.Success {
		fmt.Fprintf(cmd.OutOrStdout(), "Run %d failed: %s (%s)\n", rec.ID, rec.ErrorKind, rec.Message)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), rec.Markdown)
	return nil
}
