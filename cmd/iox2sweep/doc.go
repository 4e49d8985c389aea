// Package main hosts the iox2sweep CLI entrypoint and command tree.
//
// The Cobra-based command tree translates terminal invocations into one-shot
// sweep runs, read-only status inspection, sweep-journal queries, and
// configuration scaffolding. It centralizes configuration resolution and
// logger setup so subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
