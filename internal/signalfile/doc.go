// Package signalfile loads raw transaction signal batches from JSON files and
// adapts them to the selection builder's predicate interface.
package signalfile
