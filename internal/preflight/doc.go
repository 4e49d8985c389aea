// Package preflight provides readiness checks for the directories a sweep
// touches.
//
// The checks feed the "iox2sweep status" display and never block a sweep:
// a missing swept directory simply means nothing to clean, so it is
// reported as absent rather than as an error. Only permission problems on
// an existing directory count as failures, since those are what turn into
// partial sweeps later.
package preflight
