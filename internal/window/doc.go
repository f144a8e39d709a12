// Package window resolves the canonical lock-to-lock time interval scoping
// which raw signals are eligible for a league week.
//
// The resolver reads stored roster lock events through the LockSource
// interface and returns a half-open [start, end) interval. When either
// boundary is missing the window degrades with a human-readable reason instead
// of failing; downstream selection logic must surface a degraded window as "no
// eligible window", never hide it.
package window
