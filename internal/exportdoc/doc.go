// Package exportdoc writes and verifies the plain-text selection assembly
// document: the canonical selection-set JSON wrapped in marker-delimited
// sections for the time window, facts, counts, and traceability, with a
// selection fingerprint line that must appear identically in two places.
package exportdoc
