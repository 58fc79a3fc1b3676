package config

import "golang.org/x/text/language"

// Phrase is a locale-tagged literal matched against page text.
// Matching is always done lower-cased on the page side; Text is stored in
// the exact casing the provider renders so config files stay greppable
// against screenshots.
type Phrase struct {
	// Locale is a BCP 47 tag ("de", "en") identifying which UI language
	// renders this phrase. It is metadata for logging and config hygiene;
	// every phrase is matched regardless of the page's locale.
	Locale string `yaml:"locale"`

	// Text is the literal phrase.
	Text string `yaml:"text"`
}

// Tag parses the locale into a language.Tag. Unknown or malformed tags
// parse to language.Und rather than failing, because a typo in a config
// file must not break detection.
func (p Phrase) Tag() language.Tag {
	return language.Make(p.Locale)
}

// PhraseConfig holds the phrase sets for every detection layer, plus the
// structural selector and domain lists the harvester needs. All of it is
// overridable from the .aisearch config file so new locales can be added
// without touching control flow.
type PhraseConfig struct {
	// BlockedTraffic are the "unusual traffic" phrases of the detector's
	// body-text layer. A match on any of them, in any locale, means the
	// page is a block page.
	BlockedTraffic []Phrase `yaml:"blockedTraffic,omitempty"`

	// BlockedConfirm is the narrower confirmation set for the length
	// heuristic. Short pages fire only when one of these also matches, to
	// avoid false positives on legitimately short pages.
	BlockedConfirm []Phrase `yaml:"blockedConfirm,omitempty"`

	// BlockPathSegments are address fragments that identify the
	// provider's block page by URL alone.
	BlockPathSegments []string `yaml:"blockPathSegments,omitempty"`

	// CaptchaSelectors are DOM selectors for known CAPTCHA widgets,
	// evaluated as the lowest-confidence detection layer.
	CaptchaSelectors []string `yaml:"captchaSelectors,omitempty"`

	// Readiness are the generated-content markers the waiter polls for.
	Readiness []Phrase `yaml:"readiness,omitempty"`

	// Disclaimer are the "answers may contain mistakes" phrases that mark
	// the end of generated content; the normalizer truncates at the first
	// occurrence.
	Disclaimer []Phrase `yaml:"disclaimer,omitempty"`

	// TriggerLabels are accessibility-label fragments identifying the
	// "related links" citation triggers inside the answer container.
	TriggerLabels []Phrase `yaml:"triggerLabels,omitempty"`

	// SkipDomains are the provider's own domains, excluded from harvested
	// source links.
	SkipDomains []string `yaml:"skipDomains,omitempty"`
}

// DefaultPhrases returns the built-in phrase sets for the locales the
// provider currently ships the answer mode in (English and German).
func DefaultPhrases() *PhraseConfig {
	return &PhraseConfig{
		BlockedTraffic: []Phrase{
			{Locale: "en", Text: "unusual traffic"},
			{Locale: "de", Text: "ungewöhnlichen Datenverkehr"},
			{Locale: "de", Text: "unsere Systeme haben"},
			{Locale: "en", Text: "our systems have detected"},
		},
		BlockedConfirm: []Phrase{
			{Locale: "en", Text: "captcha"},
			{Locale: "en", Text: "unusual"},
			{Locale: "de", Text: "über diese Seite"},
		},
		BlockPathSegments: []string{
			"/sorry/index",
			"google.com/sorry",
		},
		CaptchaSelectors: []string{
			"div#recaptcha",
			`iframe[src*="recaptcha"]`,
			`[id*="captcha"]`,
		},
		Readiness: []Phrase{
			{Locale: "de", Text: "KI-Antworten"},
			{Locale: "en", Text: "AI-generated"},
			{Locale: "en", Text: "AI Overview"},
		},
		Disclaimer: []Phrase{
			{Locale: "de", Text: "KI-Antworten können Fehler enthalten"},
			{Locale: "en", Text: "AI-generated answers may contain mistakes"},
			{Locale: "de", Text: "Öffentlicher Link wird erstellt"},
		},
		TriggerLabels: []Phrase{
			{Locale: "de", Text: "Zugehörige Links"},
			{Locale: "en", Text: "Supporting links"},
		},
		SkipDomains: []string{
			"google.com",
			"google.de",
			"gstatic.com",
			"support.google.com",
		},
	}
}

// Texts returns the raw phrase literals, in declaration order.
func Texts(phrases []Phrase) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		out = append(out, p.Text)
	}
	return out
}
