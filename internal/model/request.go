package model

import (
	"net/url"
	"strings"
	"time"
)

// ExtractionRequest is the immutable input for a single extraction run.
// It is created once, before the pipeline starts, and never modified.
type ExtractionRequest struct {
	// Query is the full search query string sent to the provider.
	Query string `json:"query"`
}

// NewExtractionRequest creates a request for the given query.
// Leading and trailing whitespace is trimmed because the provider treats
// padded queries as distinct cache keys.
func NewExtractionRequest(query string) ExtractionRequest {
	return ExtractionRequest{Query: strings.TrimSpace(query)}
}

// BuildQuery assembles a query from structured city/topic/postal-code
// parameters. It mirrors the CLI contract: the postal code is appended
// only when present.
func BuildQuery(topic, city, postalCode string) string {
	q := topic + " " + city
	if postalCode != "" {
		q += " " + postalCode
	}
	return strings.TrimSpace(q)
}

// SearchURL constructs the navigation target for this request:
// <endpoint>?<modeFlag>&q=<url-encoded query>.
//
// The mode flag is kept as a raw pre-encoded fragment (e.g. "udm=50")
// because it is a provider constant, not user input.
func (r ExtractionRequest) SearchURL(endpoint, modeFlag string) string {
	return endpoint + "?" + modeFlag + "&q=" + url.QueryEscape(r.Query)
}

// SafeFileName derives a filesystem-safe name fragment from the query.
// Non-alphanumeric runs collapse to underscores and the result is capped
// at 40 characters of query input, matching the result file naming scheme.
// The cap counts characters, not bytes, so umlaut-heavy queries are not
// cut short or mid-rune.
func (r ExtractionRequest) SafeFileName() string {
	q := []rune(r.Query)
	if len(q) > 40 {
		q = q[:40]
	}
	var b strings.Builder
	for _, c := range q {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			b.WriteRune(c)
		} else {
			b.WriteByte('_')
		}
	}
	return strings.Trim(b.String(), "_")
}

// TimestampedFileName returns the file name used when saving into the
// results directory: "<YYYY-MM-DD_HH-MM-SS>_<safe-query>.md".
func (r ExtractionRequest) TimestampedFileName(now time.Time) string {
	return now.Format("2006-01-02_15-04-05") + "_" + r.SafeFileName() + ".md"
}
