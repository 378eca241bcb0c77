// Package resultstore keeps a history of match runs in SQLite.
//
// Each invocation of the matcher opens a run, streams its results into the
// store as a matching.Sink, and closes the run with its summary counts. The
// history is for later inspection only; it is never consulted to skip remote
// lookups.
package resultstore
