package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/aisearch/internal/config"
	"github.com/spf13/cobra"
)

// newParsedSearchCmd returns a search command with its flags parsed and the
// positional arguments it left over. RunE is never invoked.
func newParsedSearchCmd(t *testing.T, args ...string) (*cobra.Command, []string) {
	t.Helper()

	cmd := NewSearchCmd()
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	return cmd, cmd.Flags().Args()
}

// TestCollectQueries tests query assembly from arguments and flags.
func TestCollectQueries(t *testing.T) {
	t.Parallel()

	t.Run("positional arguments become one query each", func(t *testing.T) {
		t.Parallel()

		cmd, args := newParsedSearchCmd(t, "frage eins", "frage zwei")
		queries, err := collectQueries(cmd, args)
		if err != nil {
			t.Fatalf("collectQueries() error = %v", err)
		}
		if len(queries) != 2 || queries[0] != "frage eins" || queries[1] != "frage zwei" {
			t.Errorf("queries = %v", queries)
		}
	})

	t.Run("structured flags build a single query", func(t *testing.T) {
		t.Parallel()

		cmd, args := newParsedSearchCmd(t, "--topic", "mietspiegel", "--city", "dresden", "--plz", "01067")
		queries, err := collectQueries(cmd, args)
		if err != nil {
			t.Fatalf("collectQueries() error = %v", err)
		}
		if len(queries) != 1 || queries[0] != "mietspiegel dresden 01067" {
			t.Errorf("queries = %v", queries)
		}
	})

	t.Run("positional and structured queries combine", func(t *testing.T) {
		t.Parallel()

		cmd, args := newParsedSearchCmd(t, "--topic", "mietspiegel", "--city", "dresden", "frage eins")
		queries, err := collectQueries(cmd, args)
		if err != nil {
			t.Fatalf("collectQueries() error = %v", err)
		}
		if len(queries) != 2 || queries[1] != "mietspiegel dresden" {
			t.Errorf("queries = %v", queries)
		}
	})

	t.Run("blank positional arguments are skipped", func(t *testing.T) {
		t.Parallel()

		cmd, args := newParsedSearchCmd(t, "  ", "frage eins")
		queries, err := collectQueries(cmd, args)
		if err != nil {
			t.Fatalf("collectQueries() error = %v", err)
		}
		if len(queries) != 1 || queries[0] != "frage eins" {
			t.Errorf("queries = %v", queries)
		}
	})

	t.Run("no query at all fails", func(t *testing.T) {
		t.Parallel()

		cmd, args := newParsedSearchCmd(t)
		if _, err := collectQueries(cmd, args); !errors.Is(err, config.ErrNoQuery) {
			t.Errorf("collectQueries() error = %v, want ErrNoQuery", err)
		}
	})
}

// TestBuildSearchConfig tests flag-to-config translation.
func TestBuildSearchConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults to a headless browser", func(t *testing.T) {
		t.Parallel()

		cmd, args := newParsedSearchCmd(t, "mietspiegel dresden")
		cfg, queries, err := buildSearchConfig(cmd, args)
		if err != nil {
			t.Fatalf("buildSearchConfig() error = %v", err)
		}
		if !cfg.Headless {
			t.Error("Headless = false, want true")
		}
		if cfg.BatchSize != config.DefaultBatchSize {
			t.Errorf("BatchSize = %d, want %d", cfg.BatchSize, config.DefaultBatchSize)
		}
		if len(queries) != 1 {
			t.Errorf("queries = %v", queries)
		}
	})

	t.Run("show-browser turns headless off", func(t *testing.T) {
		t.Parallel()

		cmd, args := newParsedSearchCmd(t, "--show-browser", "mietspiegel dresden")
		cfg, _, err := buildSearchConfig(cmd, args)
		if err != nil {
			t.Fatalf("buildSearchConfig() error = %v", err)
		}
		if cfg.Headless {
			t.Error("Headless = true, want false")
		}
	})

	t.Run("output path with several queries is rejected", func(t *testing.T) {
		t.Parallel()

		cmd, args := newParsedSearchCmd(t, "-o", "out.md", "frage eins", "frage zwei")
		if _, _, err := buildSearchConfig(cmd, args); err == nil {
			t.Error("buildSearchConfig() error = nil, want error")
		}
	})

	t.Run("explicit config file must exist", func(t *testing.T) {
		t.Parallel()

		missing := filepath.Join(t.TempDir(), "nope.yaml")
		cmd, args := newParsedSearchCmd(t, "-c", missing, "mietspiegel dresden")
		_, _, err := buildSearchConfig(cmd, args)
		if err == nil || !strings.Contains(err.Error(), "configuration file not found") {
			t.Errorf("buildSearchConfig() error = %v", err)
		}
	})

	t.Run("config file overrides are applied", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".aisearch")
		content := "endpoint: https://search.example.test/search\ntuning:\n  readinessBudget: 42\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		cmd, args := newParsedSearchCmd(t, "-c", path, "mietspiegel dresden")
		cfg, _, err := buildSearchConfig(cmd, args)
		if err != nil {
			t.Fatalf("buildSearchConfig() error = %v", err)
		}
		if cfg.SearchEndpoint != "https://search.example.test/search" {
			t.Errorf("SearchEndpoint = %q", cfg.SearchEndpoint)
		}
		if cfg.ReadinessBudget != 42 {
			t.Errorf("ReadinessBudget = %d, want 42", cfg.ReadinessBudget)
		}
	})
}
