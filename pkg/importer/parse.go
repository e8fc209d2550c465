package importer

import (
	"regexp"
	"strings"
)

// enumPrefixRE strips list numbering like "12. " or "3) " ahead of delimiter
// matching so enumerated playlists parse the same as plain ones.
var enumPrefixRE = regexp.MustCompile(`^\d+[.)]\s*`)

// delimiters in priority order. Spaced variants come first so a hyphenated
// artist name is not split on its own hyphen when a spaced separator exists.
var delimiters = []string{" - ", " – ", " — ", "-", "–", "—", ": ", " / ", " | "}

const (
	maxArtistLen = 99
	maxAlbumLen  = 199
)

// ParseLines splits raw OCR text into lines and extracts one candidate per
// line that contains a usable delimiter. Lines without one are silently
// dropped; an empty result is an expected outcome, not an error.
func ParseLines(raw string) []ParsedAlbumCandidate {
	lines := strings.Split(raw, "\n")
	var out []ParsedAlbumCandidate
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = enumPrefixRE.ReplaceAllString(line, "")
		if cand, ok := splitLine(line); ok {
			cand.LineNumber = i + 1
			out = append(out, cand)
		}
	}
	return out
}

// splitLine tries each delimiter in priority order and splits on its FIRST
// occurrence, so "Artist - Album Name - Deluxe" keeps the subtitle on the
// album side. The first delimiter yielding an accepted split wins.
func splitLine(line string) (ParsedAlbumCandidate, bool) {
	for _, d := range delimiters {
		idx := strings.Index(line, d)
		if idx <= 0 {
			continue
		}
		artist := strings.TrimSpace(line[:idx])
		album := strings.TrimSpace(line[idx+len(d):])
		if len(artist) < 1 || len(artist) > maxArtistLen {
			continue
		}
		if len(album) < 1 || len(album) > maxAlbumLen {
			continue
		}
		return ParsedAlbumCandidate{Artist: Normalize(artist), Album: Normalize(album)}, true
	}
	return ParsedAlbumCandidate{}, false
}
