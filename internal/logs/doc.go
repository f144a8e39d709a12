// Package logs tails the squadvault log file for the CLI.
package logs
