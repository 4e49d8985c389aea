// Package sweep orchestrates one cleanup pass over stale iceoryx2
// artifacts.
//
// A run takes the sweep lock, terminates the leftover middleware process,
// scans the configured directories, removes what matches, and records the
// outcome in the journal. Each step past the lock is best-effort: a
// process that will not die or a file that will not delete is reported
// and the run keeps going, because removing nine of ten artifacts beats
// removing none. Only lock contention and a failed directory scan abort
// a run.
//
// Dry runs hold the lock and produce a full report without signalling
// processes or touching files.
package sweep
