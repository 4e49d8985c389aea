// Package procterm finds and terminates leftover middleware processes by
// name before a sweep runs.
//
// Matching is case-insensitive and ignores a trailing .exe, so one
// configured name covers Unix and Windows builds of the same binary. The
// current process is never a candidate, even when its name matches.
//
// Termination walks a ladder: a polite terminate first, a grace period for
// the process to flush and exit, then a hard kill for anything left.
// Processes that survive the whole ladder are reported, not retried; the
// sweep proceeds regardless and the artifacts tell the rest of the story.
package procterm
