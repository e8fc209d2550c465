package importer

import "testing"

func TestNormalizeArtifacts(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  The   Cure  ", "The Cure"},
		{"“Heroes”", `"Heroes"`},
		{"Don’t Stop", "Don't Stop"},
		{"‘til Tuesday", "'til Tuesday"},
		{"To Be Kind…", "To Be Kind..."},
		{"Kid\tA\nMnesia", "Kid A Mnesia"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Fatalf("Normalize(%q) = %q want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"  spaced   out  ",
		"“quoted” ‘name’…",
		"already clean",
		"tabs\tand\nnewlines",
	}
	for _, s := range inputs {
		once := Normalize(s)
		twice := Normalize(once)
		if once != twice {
			t.Fatalf("not idempotent for %q: %q vs %q", s, once, twice)
		}
	}
}
