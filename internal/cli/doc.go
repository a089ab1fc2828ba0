// Package cli is responsible for interpreting the arguments cargo forwards
// to the px subcommand and for process-level concerns like exit codes and
// error reporting.
package cli
