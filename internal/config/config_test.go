package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/text/language"
)

// TestNewConfig tests default construction.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.SearchEndpoint != DefaultSearchEndpoint {
		t.Errorf("SearchEndpoint = %q", cfg.SearchEndpoint)
	}
	if !cfg.Headless {
		t.Error("expected headless by default")
	}
	if cfg.ReadinessBudget != 300 {
		t.Errorf("ReadinessBudget = %d, want 300", cfg.ReadinessBudget)
	}
	if cfg.ShortTextThreshold != 600 {
		t.Errorf("ShortTextThreshold = %d, want 600", cfg.ShortTextThreshold)
	}
	if cfg.Phrases == nil {
		t.Fatal("expected default phrases")
	}
	if len(cfg.Phrases.BlockedTraffic) == 0 {
		t.Error("expected default blocked-traffic phrases")
	}
}

// TestConfigValidate tests configuration validation.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "valid defaults",
			mutate:  func(*Config) {},
			wantErr: nil,
		},
		{
			name:    "zero readiness budget",
			mutate:  func(c *Config) { c.ReadinessBudget = 0 },
			wantErr: ErrInvalidReadinessBudget,
		},
		{
			name:    "zero batch size",
			mutate:  func(c *Config) { c.BatchSize = 0 },
			wantErr: ErrInvalidBatchSize,
		},
		{
			name:    "zero short-text threshold",
			mutate:  func(c *Config) { c.ShortTextThreshold = 0 },
			wantErr: ErrInvalidShortTextThreshold,
		},
		{
			name:    "zero panel poll interval",
			mutate:  func(c *Config) { c.PanelPollInterval = 0 },
			wantErr: ErrInvalidPanelTiming,
		},
		{
			name: "output and save together",
			mutate: func(c *Config) {
				c.OutputPath = "out.md"
				c.SaveToResults = true
			},
			wantErr: ErrConflictingOutputs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestPhraseTag tests BCP 47 parsing.
func TestPhraseTag(t *testing.T) {
	t.Parallel()

	t.Run("parses known tag", func(t *testing.T) {
		t.Parallel()

		p := Phrase{Locale: "de", Text: "KI-Antworten"}
		if got := p.Tag(); got != language.German {
			t.Errorf("Tag() = %v, want %v", got, language.German)
		}
	})

	t.Run("malformed tag degrades to und", func(t *testing.T) {
		t.Parallel()

		p := Phrase{Locale: "???", Text: "x"}
		if got := p.Tag(); got != language.Und {
			t.Errorf("Tag() = %v, want und", got)
		}
	})
}

// TestLoadConfigFile tests YAML loading and merging.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("err = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("overrides merge into defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `
endpoint: "https://www.google.de/search"
phrases:
  readiness:
    - locale: fr
      text: "Réponses générées par IA"
tuning:
  readinessBudget: 60
  panelPollCeiling: "500ms"
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile() error = %v", err)
		}

		cfg := NewConfig()
		cf.Apply(cfg)

		if cfg.SearchEndpoint != "https://www.google.de/search" {
			t.Errorf("SearchEndpoint = %q", cfg.SearchEndpoint)
		}
		if len(cfg.Phrases.Readiness) != 1 || cfg.Phrases.Readiness[0].Locale != "fr" {
			t.Errorf("Readiness = %+v", cfg.Phrases.Readiness)
		}
		// Untouched sets keep their defaults.
		if len(cfg.Phrases.BlockedTraffic) == 0 {
			t.Error("BlockedTraffic defaults were lost")
		}
		if cfg.ReadinessBudget != 60 {
			t.Errorf("ReadinessBudget = %d, want 60", cfg.ReadinessBudget)
		}
		if cfg.PanelPollCeiling != 500*time.Millisecond {
			t.Errorf("PanelPollCeiling = %v", cfg.PanelPollCeiling)
		}
		// Invalid/absent durations keep defaults.
		if cfg.PanelPollInterval != DefaultPanelPollInterval {
			t.Errorf("PanelPollInterval = %v", cfg.PanelPollInterval)
		}
	})
}

// TestWriteDefaultFile tests config scaffolding for `aisearch init`.
func TestWriteDefaultFile(t *testing.T) {
	t.Parallel()

	t.Run("writes loadable defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := WriteDefaultFile(path); err != nil {
			t.Fatalf("WriteDefaultFile() error = %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile() error = %v", err)
		}
		if cf.Endpoint != DefaultSearchEndpoint {
			t.Errorf("Endpoint = %q", cf.Endpoint)
		}
		if cf.Phrases == nil || len(cf.Phrases.Disclaimer) != 3 {
			t.Errorf("Phrases = %+v", cf.Phrases)
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
		if err := WriteDefaultFile(path); !errors.Is(err, os.ErrExist) {
			t.Errorf("err = %v, want os.ErrExist", err)
		}
	})
}

// TestFindConfigFile tests the search order.
func TestFindConfigFile(t *testing.T) {
	t.Run("explicit path wins when it exists", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte(""), 0600); err != nil {
			t.Fatal(err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("FindConfigFile() = %q, want %q", got, path)
		}
	})

	t.Run("missing explicit path returns empty", func(t *testing.T) {
		if got := FindConfigFile(filepath.Join(t.TempDir(), "nope")); got != "" {
			t.Errorf("FindConfigFile() = %q, want empty", got)
		}
	})
}
