package normalize

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/nao1215/aisearch/internal/config"
)

// Post-pass patterns. Compiled once; the post-pass applies them in a
// fixed order (see PostPass).
var (
	// inlineImagePattern matches embedded inline-data image references.
	inlineImagePattern = regexp.MustCompile(`!\[[^\]]*\]\(data:image/[^)]+\)`)

	// emptyLinkPattern matches hyperlink references with an empty label.
	emptyLinkPattern = regexp.MustCompile(`\[\]\([^)]+\)`)

	// boldRejoinPattern matches a soft line break (no sentence-ending
	// punctuation before it) followed by a bold-emphasis opener.
	boldRejoinPattern = regexp.MustCompile(`([^.!?:;\n])\n+\s*(\*\*)`)

	// lowerRejoinPattern matches a soft line break followed by a
	// lowercase or German locale letter.
	lowerRejoinPattern = regexp.MustCompile(`([^.!?:;\n])\n+\s*([a-zäöü])`)

	// lonePeriodPattern matches lines consisting solely of a period,
	// left over after the disclaimer truncation.
	lonePeriodPattern = regexp.MustCompile(`(?m)^\s*\.\s*$`)

	// blankLinesPattern matches runs of 3 or more newlines.
	blankLinesPattern = regexp.MustCompile(`\n{3,}`)
)

// Normalizer converts harvested answer markup into a clean markdown
// document. All stages are pure string transformations.
type Normalizer struct {
	// disclaimer are the cut-off phrases marking the end of generated
	// content.
	disclaimer []config.Phrase

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithDisclaimerPhrases overrides the truncation phrase set.
func WithDisclaimerPhrases(phrases []config.Phrase) Option {
	return func(n *Normalizer) {
		n.disclaimer = phrases
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Normalizer) {
		n.logger = logger
	}
}

// New creates a Normalizer with the default disclaimer phrase set.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		disclaimer: config.DefaultPhrases().Disclaimer,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Run applies all three stages in order.
func (n *Normalizer) Run(rawHTML string) (string, error) {
	cleaned, err := n.PrePass(rawHTML)
	if err != nil {
		return "", err
	}
	text, err := n.Convert(cleaned)
	if err != nil {
		return "", err
	}
	return n.PostPass(text), nil
}

// PrePass removes hyperlink wrapping inside preformatted and code
// regions, replacing each link with its bare target address as literal
// text. Hyperlinks rendered inside code blocks are a conversion artifact,
// not meaningful content.
func (n *Normalizer) PrePass(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse markup: %w", err)
	}

	doc.Find("pre a[href], code a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		sel.ReplaceWithNodes(&html.Node{Type: html.TextNode, Data: href})
	})

	// The fragment was parsed into a full document; hand back only the
	// body's inner markup.
	out, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("failed to serialize markup: %w", err)
	}
	return out, nil
}

// Convert turns the cleaned markup into markdown. The converter's
// defaults already match the target document shape: ATX heading prefixes,
// 2-space list indentation, no forced line wrapping.
func (n *Normalizer) Convert(cleanedHTML string) (string, error) {
	markdown, err := htmltomarkdown.ConvertString(cleanedHTML)
	if err != nil {
		return "", fmt.Errorf("failed to convert markup to markdown: %w", err)
	}
	return markdown, nil
}

// PostPass applies the text cleanups, in this exact order:
//
//  1. Strip residual highlight-emphasis marker pairs ("==").
//  2. Remove embedded inline-data image references.
//  3. Remove empty hyperlink references.
//  4. Truncate at the AI disclaimer: it marks the end of generated
//     content and the start of UI chrome that must never appear in
//     output.
//  5. Rejoin sentences the converter split across lines.
//  6. Trim the whole document.
//  7. Remove lines consisting solely of a lone period.
//  8. Collapse 3+ consecutive blank lines, then trim again.
//
// Later passes assume earlier cleanup already ran. The whole pass is
// idempotent.
func (n *Normalizer) PostPass(text string) string {
	text = strings.ReplaceAll(text, "==", "")
	text = inlineImagePattern.ReplaceAllString(text, "")
	text = emptyLinkPattern.ReplaceAllString(text, "")

	for _, phrase := range n.disclaimer {
		if idx := strings.Index(text, phrase.Text); idx >= 0 {
			n.logger.Debug("truncated at disclaimer",
				"phrase", phrase.Text,
				"locale", phrase.Tag().String(),
			)
			text = text[:idx]
		}
	}

	// The rejoin patterns consume the character after the break, so a
	// chain of soft breaks ("a\nb\nc") joins only every other one per
	// application. Repeat until a fixed point so a single pass fully
	// rejoins and a second pass is a no-op.
	for {
		joined := boldRejoinPattern.ReplaceAllString(text, "$1 $2")
		joined = lowerRejoinPattern.ReplaceAllString(joined, "$1 $2")
		if joined == text {
			break
		}
		text = joined
	}

	text = strings.TrimSpace(text)
	text = lonePeriodPattern.ReplaceAllString(text, "")
	text = blankLinesPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
