package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".aisearch"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .aisearch configuration file.
// Every field is optional; absent fields keep their compiled-in defaults.
type File struct {
	// Endpoint overrides the provider search address.
	Endpoint string `yaml:"endpoint,omitempty"`

	// AnswerModeFlag overrides the answer-mode query fragment.
	AnswerModeFlag string `yaml:"answerModeFlag,omitempty"`

	// Phrases overrides the locale phrase sets. Lists replace the
	// defaults wholesale; users extending a locale should copy the
	// defaults from `aisearch init` and edit.
	Phrases *PhraseConfig `yaml:"phrases,omitempty"`

	// Tuning overrides the empirical timing constants.
	Tuning *Tuning `yaml:"tuning,omitempty"`
}

// Tuning holds the file representation of the timing constants.
// Durations are plain Go duration strings ("10ms", "1s").
type Tuning struct {
	ReadinessBudget    int    `yaml:"readinessBudget,omitempty"`
	ReadinessInterval  string `yaml:"readinessInterval,omitempty"`
	PanelPollInterval  string `yaml:"panelPollInterval,omitempty"`
	PanelPollCeiling   string `yaml:"panelPollCeiling,omitempty"`
	PanelSettleDelay   string `yaml:"panelSettleDelay,omitempty"`
	ShortTextThreshold int    `yaml:"shortTextThreshold,omitempty"`
}

// LoadConfigFile loads overrides from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers should
// handle this based on whether the path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
//  1. If configPath is specified, use it directly
//  2. Look for .aisearch in the current directory
//  3. Look for .aisearch in the user's home directory
//
// Returns the path if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// Apply merges the file's overrides into cfg. Unset fields are left alone.
func (f *File) Apply(cfg *Config) {
	if f.Endpoint != "" {
		cfg.SearchEndpoint = f.Endpoint
	}
	if f.AnswerModeFlag != "" {
		cfg.AnswerModeFlag = f.AnswerModeFlag
	}
	if f.Phrases != nil {
		merged := *cfg.Phrases
		if len(f.Phrases.BlockedTraffic) > 0 {
			merged.BlockedTraffic = f.Phrases.BlockedTraffic
		}
		if len(f.Phrases.BlockedConfirm) > 0 {
			merged.BlockedConfirm = f.Phrases.BlockedConfirm
		}
		if len(f.Phrases.BlockPathSegments) > 0 {
			merged.BlockPathSegments = f.Phrases.BlockPathSegments
		}
		if len(f.Phrases.CaptchaSelectors) > 0 {
			merged.CaptchaSelectors = f.Phrases.CaptchaSelectors
		}
		if len(f.Phrases.Readiness) > 0 {
			merged.Readiness = f.Phrases.Readiness
		}
		if len(f.Phrases.Disclaimer) > 0 {
			merged.Disclaimer = f.Phrases.Disclaimer
		}
		if len(f.Phrases.TriggerLabels) > 0 {
			merged.TriggerLabels = f.Phrases.TriggerLabels
		}
		if len(f.Phrases.SkipDomains) > 0 {
			merged.SkipDomains = f.Phrases.SkipDomains
		}
		cfg.Phrases = &merged
	}
	if f.Tuning != nil {
		if f.Tuning.ReadinessBudget > 0 {
			cfg.ReadinessBudget = f.Tuning.ReadinessBudget
		}
		if d, ok := parseDuration(f.Tuning.ReadinessInterval); ok {
			cfg.ReadinessInterval = d
		}
		if d, ok := parseDuration(f.Tuning.PanelPollInterval); ok {
			cfg.PanelPollInterval = d
		}
		if d, ok := parseDuration(f.Tuning.PanelPollCeiling); ok {
			cfg.PanelPollCeiling = d
		}
		if d, ok := parseDuration(f.Tuning.PanelSettleDelay); ok {
			cfg.PanelSettleDelay = d
		}
		if f.Tuning.ShortTextThreshold > 0 {
			cfg.ShortTextThreshold = f.Tuning.ShortTextThreshold
		}
	}
}

// parseDuration parses a duration string, reporting whether it was both
// present and valid. Invalid values are ignored rather than fatal so a
// broken config file degrades to defaults.
func parseDuration(s string) (time.Duration, bool) {
	if s == "" {
		return 0, false
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}

// WriteDefaultFile writes a fully-populated config file with all defaults
// to path, for `aisearch init`. Fails if the file already exists.
func WriteDefaultFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return os.ErrExist
	}

	cf := File{
		Endpoint:       DefaultSearchEndpoint,
		AnswerModeFlag: DefaultAnswerModeFlag,
		Phrases:        DefaultPhrases(),
		Tuning: &Tuning{
			ReadinessBudget:    DefaultReadinessBudget,
			ReadinessInterval:  DefaultReadinessInterval.String(),
			PanelPollInterval:  DefaultPanelPollInterval.String(),
			PanelPollCeiling:   DefaultPanelPollCeiling.String(),
			PanelSettleDelay:   DefaultPanelSettleDelay.String(),
			ShortTextThreshold: DefaultShortTextThreshold,
		},
	}

	data, err := yaml.Marshal(&cf)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
