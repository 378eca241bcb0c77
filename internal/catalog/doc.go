// Package catalog reads the CSV export of a game library into matching
// entries.
//
// A catalog carries a header row naming at least the `game` and `id`
// columns, in any order and any letter case. Rows missing either value are
// reported in Catalog.Skipped rather than failing the whole read, and game
// names are stripped of trademark glyphs before they reach the matcher.
package catalog
