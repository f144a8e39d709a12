// Package canonical computes order-independent fingerprints over selection
// sets and chronicle compositions.
//
// A fingerprint is the lowercase SHA-256 hex digest of a canonical JSON
// serialization: included signal ids sorted lexicographically, exclusions
// sorted by (signal_id, reason_code), exclusion details sorted by (key, value),
// fixed key ordering, no whitespace variance. Permuting any input list never
// changes the digest; any change to logical content always does.
//
// The same recipe covers chronicle fingerprints, which hash upstream artifact
// identity tuples rather than artifact text so the digest depends only on which
// inputs were used.
package canonical
