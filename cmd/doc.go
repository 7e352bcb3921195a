// Package cmd implements the command-line interface of fcache. Every command
// opens the cache selected by --dir or --id, runs one operation and closes it
// again.
//
// The package is organized into two subpackages:
//
//   - kv: Commands for cache operations (put, get, list, info, perf, etc.)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// All flags can also be set through environment variables prefixed with
// FCACHE_ (e.g. FCACHE_MAX_DISK_BYTES), or in a .env / .env.local file.
//
// See fcache -help for a list of all commands.
package cmd
