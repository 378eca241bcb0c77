package textutil

import "strings"

// quoteCycle swaps ASCII and typographic punctuation in a single pass:
// ' <-> ’ and " -> “ -> ” -> ".
var quoteCycle = strings.NewReplacer(
	"'", "’",
	"’", "'",
	"\"", "“",
	"“", "”",
	"”", "\"",
)

// AlternateQuotes returns name with apostrophes and double quotes rotated to
// their alternate glyphs. Steam and GGN disagree on typographic versus ASCII
// punctuation, so this is the single retry spelling for a failed search. The
// boolean is false when name contains none of those glyphs.
func AlternateQuotes(name string) (string, bool) {
	alt := quoteCycle.Replace(name)
	if alt == name {
		return "", false
	}
	return alt, true
}
