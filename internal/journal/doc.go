// Package journal persists sweep run history in SQLite.
//
// Every sweep writes one run row plus a removal row per artifact it
// touched, including dry runs and failed deletions. The journal answers
// "what did the last sweep actually remove" long after the log output is
// gone, which matters because sweeps run from cron and crash handlers as
// often as from an interactive shell.
//
// The database is small and disposable. Schema changes bump the version
// in schema.go; on mismatch users delete the journal and start fresh.
package journal
