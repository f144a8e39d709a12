// Package chronicle assembles derived season chronicles from approved weekly
// recap artifacts. Output is explicitly non-canonical: a fixed banner, a
// provenance block naming requested, missing, and included weeks, identity
// tuples for every upstream recap, and the upstream text quoted verbatim
// inside plain-text fences. Canonical event identifiers must never appear
// outside those fences.
package chronicle
