// Package cite rewrites harvested citation markers into sequential
// footnote references and builds the trailing bibliography.
//
// Marker replacement processes groups by descending marker id. Replacing
// highest ids first guarantees a lower id's token is never matched as a
// substring of a not-yet-processed higher-id token when ids share digit
// prefixes (id 1 inside id 12). Footnote numbering still ascends in final
// reading order because the running source list always reflects prior
// insertions in the same pass.
package cite
