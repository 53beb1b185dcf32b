// Package cmd implements the command-line interface for the oKV in-process
// key-value store. Since the store lives inside a single process, the CLI is
// built around a session model rather than one-shot client commands.
//
// The package is organized into several subpackages:
//
//   - repl: An interactive session against a store instance (set, get, del,
//     info, export, ...)
//   - bench: Micro-benchmarks for the store engine with optional CSV export
//   - util: Shared utilities for command-line processing and configuration
//     (internal use)
//
// See okv -help for a list of all commands.
package cmd
