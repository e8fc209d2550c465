package importer

import (
	"strings"
	"testing"
)

func TestParseFirstDelimiterOccurrenceWins(t *testing.T) {
	cands := ParseLines("Radiohead - OK Computer - Collector's Edition")
	if len(cands) != 1 {
		t.Fatalf("expected 1 candidate got %d", len(cands))
	}
	if cands[0].Artist != "Radiohead" {
		t.Fatalf("artist = %q", cands[0].Artist)
	}
	if cands[0].Album != "OK Computer - Collector's Edition" {
		t.Fatalf("album = %q", cands[0].Album)
	}
}

func TestParseStripsEnumerationPrefix(t *testing.T) {
	plain := ParseLines("Boards of Canada - Music Has the Right to Children")
	numbered := ParseLines("12. Boards of Canada - Music Has the Right to Children")
	if len(plain) != 1 || len(numbered) != 1 {
		t.Fatalf("expected 1 candidate each, got %d and %d", len(plain), len(numbered))
	}
	if plain[0].Artist != numbered[0].Artist || plain[0].Album != numbered[0].Album {
		t.Fatalf("numbered line parsed differently: %+v vs %+v", numbered[0], plain[0])
	}
}

func TestParseDelimiterPriority(t *testing.T) {
	tests := []struct {
		line   string
		artist string
		album  string
	}{
		{"Portishead / Dummy", "Portishead", "Dummy"},
		{"Bjork: Homogenic", "Bjork", "Homogenic"},
		{"Autechre | Amber", "Autechre", "Amber"},
		{"Low-Life New Order", "Low", "Life New Order"}, // bare hyphen outranks ": " etc.
		{"MF DOOM – MM..FOOD", "MF DOOM", "MM..FOOD"},
	}
	for _, tt := range tests {
		cands := ParseLines(tt.line)
		if len(cands) != 1 {
			t.Fatalf("%q: expected 1 candidate got %d", tt.line, len(cands))
		}
		if cands[0].Artist != tt.artist || cands[0].Album != tt.album {
			t.Fatalf("%q: got %q / %q want %q / %q", tt.line, cands[0].Artist, cands[0].Album, tt.artist, tt.album)
		}
	}
}

func TestParseArtistLengthBound(t *testing.T) {
	long := strings.Repeat("a", 100)
	cands := ParseLines(long + " - Album")
	if len(cands) != 0 {
		t.Fatalf("100-char artist should yield no candidate, got %+v", cands)
	}
	ok := ParseLines(strings.Repeat("a", 99) + " - Album")
	if len(ok) != 1 {
		t.Fatalf("99-char artist should parse, got %d candidates", len(ok))
	}
}

func TestParseLineNumbersKeepGaps(t *testing.T) {
	cands := ParseLines("1. Nirvana - Nevermind\n2. blah\n3. Portishead / Dummy")
	if len(cands) != 2 {
		t.Fatalf("expected 2 candidates got %d: %+v", len(cands), cands)
	}
	if cands[0].LineNumber != 1 || cands[1].LineNumber != 3 {
		t.Fatalf("line numbers = %d, %d want 1, 3", cands[0].LineNumber, cands[1].LineNumber)
	}
	if cands[0].Artist != "Nirvana" || cands[1].Album != "Dummy" {
		t.Fatalf("unexpected candidates: %+v", cands)
	}
}

func TestParseDropsEmptyAndDelimiterlessLines(t *testing.T) {
	cands := ParseLines("\n\nnothing here\n   \n")
	if len(cands) != 0 {
		t.Fatalf("expected no candidates got %+v", cands)
	}
}

func TestParseLeadingDelimiterRejected(t *testing.T) {
	// delimiter at index 0 means an empty artist; the line must be dropped
	cands := ParseLines("- Album Only")
	if len(cands) != 0 {
		t.Fatalf("expected no candidates got %+v", cands)
	}
}
