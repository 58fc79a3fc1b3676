// Package config holds runtime configuration for aisearch.
//
// Configuration comes from three layers, lowest priority first:
//  1. Compiled-in defaults (the named constants in this package)
//  2. An optional .aisearch YAML file holding locale phrase sets and
//     tuning constants
//  3. CLI flags
//
// Design decision: The empirical tuning values (poll intervals, settle
// delay, short-text threshold) live here as documented defaults instead of
// magic numbers in the detection and harvesting code, because they are
// measured characteristics of one provider's UI, not protocol requirements.
// The same goes for the locale phrase sets: adding a locale must never
// require touching control flow.
package config
