package importer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeSearcher struct {
	queries []string
	respond func(query string) ([]CanonicalAlbum, error)
}

func (f *fakeSearcher) SearchAlbums(_ context.Context, query string, _ int) ([]CanonicalAlbum, error) {
	f.queries = append(f.queries, query)
	return f.respond(query)
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.BatchDelay = time.Millisecond
	return opts
}

func TestSimilar(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"OK Computer", "OK Computer", true},
		{"ok computer!", "OK Computer", true},                                  // punctuation insensitive
		{"OK Computer", "OK Computer OKNOTOK 1997 2017", true},                 // substring containment
		{"The Dark Side of the Moon", "Dark Side Of The Moon (Remaster)", true}, // word overlap
		{"Radiohead", "Radiohead", true},
		{"Nirvana", "Pearl Jam", false},
		{"Kid A", "Amnesiac", false},
		{"", "Anything", false},
	}
	for _, tt := range tests {
		if got := similar(tt.a, tt.b, 0.5); got != tt.want {
			t.Fatalf("similar(%q, %q) = %v want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSanitizeQueryTerm(t *testing.T) {
	got := sanitizeQueryTerm(`What's Going On? (Deluxe)`)
	if got != "What s Going On Deluxe" {
		t.Fatalf("sanitizeQueryTerm = %q", got)
	}
}

func TestResolveQueryOrder(t *testing.T) {
	album := CanonicalAlbum{ID: "abc", Name: "Kid A", Artists: []string{"Radiohead"}}
	fake := &fakeSearcher{respond: func(query string) ([]CanonicalAlbum, error) {
		// only the third phrasing (partial qualification) yields a usable result
		if strings.HasPrefix(query, "artist:") && !strings.Contains(query, "album:") {
			return []CanonicalAlbum{album}, nil
		}
		return nil, nil
	}}
	r := NewResolver(fake, testOptions())

	got := r.Resolve(context.Background(), ParsedAlbumCandidate{Artist: "Radiohead", Album: "Kid A"})
	if got == nil || got.ID != "abc" {
		t.Fatalf("expected match via third query, got %+v", got)
	}
	want := []string{
		"artist:Radiohead album:Kid A",
		"Radiohead Kid A",
		"artist:Radiohead Kid A",
	}
	if len(fake.queries) != len(want) {
		t.Fatalf("expected %d queries got %v", len(want), fake.queries)
	}
	for i := range want {
		if fake.queries[i] != want[i] {
			t.Fatalf("query %d = %q want %q", i, fake.queries[i], want[i])
		}
	}
}

func TestResolveRequiresBothFieldsToMatch(t *testing.T) {
	fake := &fakeSearcher{respond: func(string) ([]CanonicalAlbum, error) {
		return []CanonicalAlbum{
			{ID: "wrong-artist", Name: "Kid A", Artists: []string{"Coldplay"}},
			{ID: "wrong-album", Name: "Parachutes", Artists: []string{"Radiohead"}},
		}, nil
	}}
	r := NewResolver(fake, testOptions())
	if got := r.Resolve(context.Background(), ParsedAlbumCandidate{Artist: "Radiohead", Album: "Kid A"}); got != nil {
		t.Fatalf("expected no match, got %+v", got)
	}
	if len(fake.queries) != 4 {
		t.Fatalf("expected all 4 query phrasings attempted, got %d", len(fake.queries))
	}
}

func TestResolveAllFaultIsolation(t *testing.T) {
	fake := &fakeSearcher{respond: func(query string) ([]CanonicalAlbum, error) {
		if strings.Contains(query, "Unknowable") {
			return nil, errors.New("connection reset")
		}
		switch {
		case strings.Contains(query, "Nevermind"):
			return []CanonicalAlbum{{ID: "n1", Name: "Nevermind", Artists: []string{"Nirvana"}}}, nil
		case strings.Contains(query, "Dummy"):
			return []CanonicalAlbum{{ID: "d1", Name: "Dummy", Artists: []string{"Portishead"}}}, nil
		}
		return nil, nil
	}}
	im := New(fake, testOptions())

	cands := []MatchedAlbumCandidate{
		{ParsedAlbumCandidate: ParsedAlbumCandidate{Artist: "Nirvana", Album: "Nevermind", LineNumber: 1}},
		{ParsedAlbumCandidate: ParsedAlbumCandidate{Artist: "Glitch", Album: "Unknowable", LineNumber: 2}},
		{ParsedAlbumCandidate: ParsedAlbumCandidate{Artist: "Portishead", Album: "Dummy", LineNumber: 3}},
	}
	var transitions []string
	out := im.ResolveAll(context.Background(), cands, func(i int, c MatchedAlbumCandidate) {
		if c.Searching {
			transitions = append(transitions, c.Album)
		}
	})

	if !out[0].Matched || out[0].ResolvedAlbum == nil || out[0].ResolvedAlbum.ID != "n1" {
		t.Fatalf("candidate 1 should resolve: %+v", out[0])
	}
	if out[1].Matched || out[1].ResolvedAlbum != nil {
		t.Fatalf("candidate 2 should stay unmatched: %+v", out[1])
	}
	if !out[2].Matched || out[2].ResolvedAlbum == nil || out[2].ResolvedAlbum.ID != "d1" {
		t.Fatalf("candidate 3 should resolve despite candidate 2 failing: %+v", out[2])
	}
	if len(transitions) != 3 {
		t.Fatalf("expected a searching transition per candidate, got %v", transitions)
	}
	for _, c := range out {
		if c.Searching {
			t.Fatalf("searching flag not cleared: %+v", c)
		}
	}
	// input slice must not be mutated
	if cands[0].Matched {
		t.Fatalf("input slice was mutated")
	}
}

func TestResolveAllHonorsContextBetweenItems(t *testing.T) {
	fake := &fakeSearcher{respond: func(string) ([]CanonicalAlbum, error) { return nil, nil }}
	opts := testOptions()
	opts.BatchDelay = 50 * time.Millisecond
	im := New(fake, opts)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cands := []MatchedAlbumCandidate{
		{ParsedAlbumCandidate: ParsedAlbumCandidate{Artist: "First", Album: "Album One"}},
		{ParsedAlbumCandidate: ParsedAlbumCandidate{Artist: "Second", Album: "Album Two"}},
	}
	out := im.ResolveAll(ctx, cands, nil)
	if len(out) != 2 {
		t.Fatalf("expected full-length result, got %d", len(out))
	}
	// first item runs (no cancellation mid-call by design); second is skipped at the delay
	if len(fake.queries) != 4 {
		t.Fatalf("expected only the first candidate's 4 queries, got %d", len(fake.queries))
	}
}

func TestSetTextResetsMatchState(t *testing.T) {
	c := MatchedAlbumCandidate{
		ParsedAlbumCandidate: ParsedAlbumCandidate{Artist: "Nirvana", Album: "Nevermind", LineNumber: 1},
		Matched:              true,
		ResolvedAlbum:        &CanonicalAlbum{ID: "n1"},
	}
	c.SetText("Nirvana", "In Utero")
	if c.Matched || c.ResolvedAlbum != nil || c.Searching {
		t.Fatalf("edit must invalidate resolution: %+v", c)
	}
	if c.Album != "In Utero" || c.LineNumber != 1 {
		t.Fatalf("unexpected candidate after edit: %+v", c)
	}
}
