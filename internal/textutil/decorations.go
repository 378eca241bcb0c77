package textutil

import (
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// decorative glyphs carried by store listings but absent from tracker names.
var stripDecorative = runes.Remove(runes.Predicate(func(r rune) bool {
	return r == '®' || r == '™'
}))

// StripDecorations removes registered and trademark signs from name.
func StripDecorations(name string) string {
	out, _, err := transform.String(stripDecorative, name)
	if err != nil {
		return name
	}
	return out
}
