package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// The timing values are empirical tuning constants measured against the
// provider's answer-mode UI, not protocol requirements.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "aisearch"

	// DefaultSearchEndpoint is the provider's search address.
	DefaultSearchEndpoint = "https://www.google.com/search"

	// DefaultAnswerModeFlag selects the provider's experimental AI answer
	// mode. It is appended verbatim to the search URL's query string.
	DefaultAnswerModeFlag = "udm=50"

	// DefaultPageLoadTimeout bounds the initial navigation. The answer
	// page itself renders asynchronously after DOMContentLoaded, so this
	// only needs to cover the document load, not content generation.
	DefaultPageLoadTimeout = 30 * time.Second

	// DefaultReadinessBudget is the number of 1-second readiness polls.
	// 300 iterations (5 minutes) covers the CAPTCHA-pending case where a
	// human has to solve a challenge in a visible browser before content
	// can appear. The same loop serves both cases; no special-casing.
	DefaultReadinessBudget = 300

	// DefaultReadinessInterval is the pause between readiness polls.
	DefaultReadinessInterval = time.Second

	// DefaultPanelPollInterval is the fine-grained poll used while
	// waiting for the side panel's link count to change after a trigger
	// click.
	DefaultPanelPollInterval = 10 * time.Millisecond

	// DefaultPanelPollCeiling bounds the post-click poll. Panels that
	// have not changed within 300ms are read as-is rather than waited on.
	DefaultPanelPollCeiling = 300 * time.Millisecond

	// DefaultPanelSettleDelay is the fixed pause after the poll so panel
	// animations finish before links are read.
	DefaultPanelSettleDelay = 50 * time.Millisecond

	// DefaultShortTextThreshold is the body-text length below which the
	// detector's length heuristic may fire. Real answer pages run well
	// past 2000 characters; block pages stay under 600.
	DefaultShortTextThreshold = 600

	// DefaultBatchSize is the number of concurrent extractions in batch
	// mode. Each extraction drives a full renderer page, so the local
	// browser saturates far sooner than a network client would.
	DefaultBatchSize = 2

	// DefaultMainContainerSelector locates the generated-answer container.
	DefaultMainContainerSelector = `[data-container-id="main-col"]`

	// DefaultSidePanelSelector locates the side panel that trigger clicks
	// populate with source links.
	DefaultSidePanelSelector = `[data-container-id="rhs-col"]`

	// DefaultUserAgent is sent by the driven browser. A current desktop
	// Chrome string; the answer mode is not served to unknown agents.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

// Config holds all configuration options for aisearch.
// It is populated from CLI flags and the optional config file, then passed
// through the application via dependency injection rather than global state.
type Config struct {
	// SearchEndpoint is the provider search address.
	SearchEndpoint string

	// AnswerModeFlag is the raw query-string fragment selecting answer mode.
	AnswerModeFlag string

	// Headless runs the browser without a window. In headless mode a
	// detected block page is a terminal CAPTCHA_REQUIRED failure; with a
	// visible browser it degrades to an extended readiness wait so the
	// user can solve the challenge.
	Headless bool

	// PageLoadTimeout bounds the initial navigation.
	PageLoadTimeout time.Duration

	// ReadinessBudget is the number of readiness poll iterations.
	ReadinessBudget int

	// ReadinessInterval is the pause between readiness polls.
	ReadinessInterval time.Duration

	// PanelPollInterval, PanelPollCeiling, and PanelSettleDelay tune the
	// post-click poll-then-settle wait in the harvester.
	PanelPollInterval time.Duration
	PanelPollCeiling  time.Duration
	PanelSettleDelay  time.Duration

	// ShortTextThreshold is the detector's length-heuristic cutoff.
	ShortTextThreshold int

	// MainContainerSelector locates the generated-answer container.
	MainContainerSelector string

	// SidePanelSelector locates the source-link side panel.
	SidePanelSelector string

	// BatchSize is the number of concurrent extractions in batch mode.
	BatchSize int

	// OutputPath writes the result document to an explicit path instead
	// of the derived file name.
	OutputPath string

	// SaveToResults writes into the XDG results directory with a
	// timestamped file name instead of the current directory.
	SaveToResults bool

	// JSONSidecar writes the full ExtractionResult as JSON next to the
	// markdown file.
	JSONSidecar bool

	// NoHistory disables recording the run in the history database.
	NoHistory bool

	// Verbose enables slog.LevelDebug output.
	Verbose bool

	// ConfigFilePath is an explicit config file path. If empty, the tool
	// searches for .aisearch in the current directory and then the home
	// directory.
	ConfigFilePath string

	// Phrases holds the locale phrase sets for all detection layers.
	Phrases *PhraseConfig
}

// NewConfig creates a Config with all defaults applied.
func NewConfig() *Config {
	return &Config{
		SearchEndpoint:        DefaultSearchEndpoint,
		AnswerModeFlag:        DefaultAnswerModeFlag,
		Headless:              true,
		PageLoadTimeout:       DefaultPageLoadTimeout,
		ReadinessBudget:       DefaultReadinessBudget,
		ReadinessInterval:     DefaultReadinessInterval,
		PanelPollInterval:     DefaultPanelPollInterval,
		PanelPollCeiling:      DefaultPanelPollCeiling,
		PanelSettleDelay:      DefaultPanelSettleDelay,
		ShortTextThreshold:    DefaultShortTextThreshold,
		MainContainerSelector: DefaultMainContainerSelector,
		SidePanelSelector:     DefaultSidePanelSelector,
		BatchSize:             DefaultBatchSize,
		Phrases:               DefaultPhrases(),
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.ReadinessBudget <= 0 {
		return ErrInvalidReadinessBudget
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.ShortTextThreshold <= 0 {
		return ErrInvalidShortTextThreshold
	}
	if c.PanelPollInterval <= 0 || c.PanelPollCeiling <= 0 {
		return ErrInvalidPanelTiming
	}
	if c.OutputPath != "" && c.SaveToResults {
		return ErrConflictingOutputs
	}
	return nil
}

// ProfileDir returns the persistent browser profile directory.
// Keeping the profile between runs preserves cookies and consent state,
// which substantially lowers the block-page rate.
func ProfileDir() string {
	return filepath.Join(xdg.DataHome, AppName, "profile")
}

// HistoryDir returns the directory holding the extraction history database.
func HistoryDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// ResultsDir returns the default directory for --save output.
func ResultsDir() string {
	return filepath.Join(xdg.DataHome, AppName, "results")
}
