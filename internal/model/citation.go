package model

import (
	"fmt"

	"golang.org/x/net/publicsuffix"
)

// SourceRef is a single citation source collected from the provider's
// side panel. Entries are deduplicated by URL within a citation group.
type SourceRef struct {
	// Title is the link text, falling back to the accessibility label
	// and then to the empty string.
	Title string `json:"title"`

	// URL is the full link target. Always starts with a network scheme;
	// the harvester filters everything else out.
	URL string `json:"url"`

	// Host is the hostname derived from URL.
	// The JSON key is "source" for compatibility with the payload shape
	// produced by the in-page script.
	Host string `json:"source"`
}

// RegistrableDomain returns the registrable domain (eTLD+1) of the source
// host, e.g. "beispiel.de" for "www.beispiel.de". It is used to group
// sources by publisher in the run summary. Falls back to the raw host when
// the public suffix list cannot resolve it (IP addresses, localhost).
func (s SourceRef) RegistrableDomain() string {
	domain, err := publicsuffix.EffectiveTLDPlusOne(s.Host)
	if err != nil {
		return s.Host
	}
	return domain
}

// CitationGroup associates one inserted marker with the sources its
// trigger revealed. Sources may be empty when the side panel showed no
// external links for that trigger.
type CitationGroup struct {
	// MarkerID is the 0-based id assigned in document order during
	// harvesting. Unique and strictly increasing per run.
	MarkerID int `json:"marker_id"`

	// Sources are the collected links, in panel order, deduplicated by URL.
	Sources []SourceRef `json:"sources"`
}

// RawPayload is the sole structured value returned across the in-page
// harvester boundary. Either Error is set and the other fields are empty,
// or the payload is complete: the harvester never returns partial state.
type RawPayload struct {
	// HTML is the content container's markup after all marker insertions.
	HTML string `json:"html"`

	// Citations holds one group per visible trigger, in document order.
	Citations []CitationGroup `json:"citations"`

	// Error is a descriptor set by the in-page script when the procedure
	// could not run at all (e.g. the content container is missing).
	Error string `json:"error,omitempty"`
}

// MarkerToken returns the literal marker text inserted into the document
// for the given id. The cite package replaces exactly this token when
// embedding footnotes.
func MarkerToken(id int) string {
	return fmt.Sprintf("[CITE-%d]", id)
}
