// Package selection deterministically partitions raw league signals into
// included and excluded sets with auditable reason codes.
//
// The Builder evaluates signals in input order against a fixed rule sequence
// and produces an immutable SelectionSet carrying the partition, a withheld
// flag for the nothing-eligible terminal case, and a canonical fingerprint.
// Signals stay opaque behind the Adapter interface so ingestion sources can be
// swapped without touching the build algorithm. Adapter failures always
// propagate; a broken adapter never reads as "everything excluded".
package selection
