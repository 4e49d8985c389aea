// Package artifacts discovers stale iceoryx2 runtime files on disk.
//
// Two artifact classes exist: shared-memory state files dropped directly
// in the base directory, and service descriptors under the services
// directory. Discovery is glob-based against filenames only and never
// descends into subdirectories, so a sweep touches exactly what the
// middleware leaves behind and nothing else.
//
// A missing scan directory is treated as an empty one. The sweeper runs
// after crashes and on fresh machines, where the middleware may never
// have created its directories at all.
package artifacts
