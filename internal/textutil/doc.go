// Package textutil provides the name rewriting used when matching catalog
// games against tracker groups.
//
// StripDecorations drops ® and ™ from catalog names before any lookup.
// AlternateQuotes produces the one alternate spelling tried when a search
// misses because of apostrophe or quotation-mark style.
package textutil
