// Package matching decides, for each catalog game, whether a GGN torrent
// group matches it and how confidently.
//
// Selector implements the precedence policy: a group whose Steam app id
// equals the game's id is a high-confidence match and ends the search;
// failing that, a link-less group on the best-ranked preferred platform is a
// tentative match; otherwise there is no match. Engine orchestrates the run:
// it skips malformed entries, gates each lookup through the rate limiter,
// treats unreachable-remote errors as per-entry skips, and streams results to
// sinks in input order. Processing is strictly sequential.
package matching
