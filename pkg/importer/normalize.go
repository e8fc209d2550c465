package importer

import (
	"regexp"
	"strings"
)

var (
	wsRE         = regexp.MustCompile(`\s+`)
	glyphReplace = strings.NewReplacer(
		"“", `"`, // left curly quote
		"”", `"`, // right curly quote
		"‘", "'", // left curly apostrophe
		"’", "'", // right curly apostrophe
		"…", "...",
	)
)

// Normalize strips common OCR artifacts from a single field: curly quotes and
// apostrophes become straight, the ellipsis glyph becomes three periods, runs
// of whitespace collapse to one space. Applied per field, never to the whole
// OCR blob, so line boundaries survive for parsing. Idempotent.
func Normalize(s string) string {
	s = glyphReplace.Replace(s)
	s = wsRE.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
