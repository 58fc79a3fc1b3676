package cite

import (
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/nao1215/aisearch/internal/model"
)

var (
	// leftoverMarkerPattern sweeps marker tokens that no group claimed,
	// typically because the group's source list was empty.
	leftoverMarkerPattern = regexp.MustCompile(`\[CITE-\d+\]`)

	// escapedMarkerPattern matches the converter's escaped spelling of a
	// marker token. The markdown converter escapes bracket literals in
	// text nodes, so markers arrive as \[CITE-0\] and must be folded back
	// before replacement.
	escapedMarkerPattern = regexp.MustCompile(`\\\[CITE-(\d+)\\\]`)
)

// Embedder rewrites inline markers into footnote references.
type Embedder struct {
	// logger for structured logging.
	logger *slog.Logger
}

// Option configures an Embedder.
type Option func(*Embedder)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Embedder) {
		e.logger = logger
	}
}

// New creates an Embedder.
func New(opts ...Option) *Embedder {
	e := &Embedder{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Embed replaces marker tokens in text with bracketed footnote numbers
// and returns the rewritten text together with the concatenated source
// list, in first-seen order across groups.
//
// Groups are processed by descending marker id (see the package comment).
// A group with no sources is skipped entirely: its marker stays in place
// here and is removed by the final sweep, and it never increments the
// footnote counter. Each replacement targets the first occurrence of the
// exact marker token.
func (e *Embedder) Embed(text string, groups []model.CitationGroup) (string, []model.SourceRef) {
	text = escapedMarkerPattern.ReplaceAllString(text, "[CITE-$1]")

	ordered := slices.Clone(groups)
	slices.SortFunc(ordered, func(a, b model.CitationGroup) int {
		return b.MarkerID - a.MarkerID
	})

	sources := make([]model.SourceRef, 0)
	for _, group := range ordered {
		if len(group.Sources) == 0 {
			continue
		}

		marker := model.MarkerToken(group.MarkerID)
		if !strings.Contains(text, marker) {
			// A group whose marker is absent from the final text is
			// silently dropped; its sources never reach the bibliography.
			e.logger.Debug("citation marker not found in text", "marker_id", group.MarkerID)
			continue
		}

		var footnotes strings.Builder
		start := len(sources)
		for i := range group.Sources {
			fmt.Fprintf(&footnotes, "[%d]", start+i+1)
		}

		text = strings.Replace(text, marker, footnotes.String(), 1)
		sources = append(sources, group.Sources...)
	}

	return leftoverMarkerPattern.ReplaceAllString(text, ""), sources
}

// AppendBibliography appends the numbered source list to the document.
// Each entry is "[n] <title>" (falling back to the literal "Link" for
// untitled sources) followed by the bare URL on the next line. Texts
// without sources are returned unchanged.
func (e *Embedder) AppendBibliography(text string, sources []model.SourceRef) string {
	if len(sources) == 0 {
		return text
	}

	var b strings.Builder
	b.WriteString(text)
	b.WriteString("\n\n---\n\n## Sources:\n\n")
	for i, source := range sources {
		title := source.Title
		if title == "" {
			title = "Link"
		}
		fmt.Fprintf(&b, "[%d] %s  \n%s\n\n", i+1, title, source.URL)
	}
	return b.String()
}
