// Package report renders match results as a streaming HTML table.
//
// The document is written row by row and flushed after each result so a
// browser can show partial progress while a long run is still rate limited.
// An advisory lock beside the report keeps two runs from interleaving rows in
// the same file.
package report
