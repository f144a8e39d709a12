// Package pipeline orchestrates one batch build: window resolution, signal
// selection, fingerprinting, recap rendering, and draft persistence.
package pipeline
