// Package ggn provides the minimal GazelleGames API client used to look up
// torrent groups by game name.
//
// Requests authenticate with the X-API-Key header against the
// api.php?request=torrentgroup endpoint. Responses are decoded into ordered
// Group values with their weblinks normalized, whether the API sent them as a
// label map or a bare list. Lookup adds the single alternate-punctuation
// retry; connection problems, HTTP errors and undecodable bodies surface as
// *TransportError so callers can tell "no match" from "could not ask".
package ggn
