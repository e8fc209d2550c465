package importer

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	minFieldLen     = 2
	minLetters      = 5
	maxJunkFraction = 0.3
)

var dedupKeyRE = regexp.MustCompile(`[^a-z0-9]+`)

// FilterValid drops candidates that look like OCR garbage which matched a
// delimiter by coincidence: too-short fields, too few letters overall, or too
// high a share of characters outside [letters, digits, space, - ' /].
func FilterValid(cands []ParsedAlbumCandidate) []ParsedAlbumCandidate {
	out := make([]ParsedAlbumCandidate, 0, len(cands))
	for _, c := range cands {
		if len(c.Artist) < minFieldLen || len(c.Album) < minFieldLen {
			continue
		}
		combined := c.Artist + " " + c.Album
		letters, junk, total := 0, 0, 0
		for _, r := range combined {
			total++
			switch {
			case unicode.IsLetter(r):
				letters++
			case unicode.IsDigit(r), r == ' ', r == '-', r == '\'', r == '/':
			default:
				junk++
			}
		}
		if letters < minLetters {
			continue
		}
		if float64(junk) > maxJunkFraction*float64(total) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Deduplicate collapses near-duplicates case- and punctuation-insensitively,
// keeping the first occurrence in original order.
func Deduplicate(cands []ParsedAlbumCandidate) []ParsedAlbumCandidate {
	seen := map[string]struct{}{}
	out := make([]ParsedAlbumCandidate, 0, len(cands))
	for _, c := range cands {
		key := dedupKeyRE.ReplaceAllString(strings.ToLower(c.Artist+c.Album), "")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
