package importer

import "testing"

func TestFilterValidRejectsNoise(t *testing.T) {
	cands := []ParsedAlbumCandidate{
		{Artist: "Radiohead", Album: "Amnesiac", LineNumber: 1},
		{Artist: "a", Album: "Amnesiac", LineNumber: 2},   // artist too short
		{Artist: "ab", Album: "cd", LineNumber: 3},        // fewer than 5 letters combined
		{Artist: "@#$%", Album: "&*()!?", LineNumber: 4},  // pure junk
		{Artist: "Nirvana???", Album: "Nev!!@@##", LineNumber: 5}, // junk ratio above 30%
	}
	out := FilterValid(cands)
	if len(out) != 1 || out[0].Artist != "Radiohead" {
		t.Fatalf("expected only Radiohead to survive, got %+v", out)
	}
}

func TestFilterValidKeepsAllowedPunctuation(t *testing.T) {
	cands := []ParsedAlbumCandidate{
		{Artist: "Sigur Ros", Album: "( )", LineNumber: 1}, // album too short anyway
		{Artist: "AC/DC", Album: "Back in Black", LineNumber: 2},
		{Artist: "Guns N' Roses", Album: "Use Your Illusion", LineNumber: 3},
	}
	out := FilterValid(cands)
	if len(out) != 2 {
		t.Fatalf("expected 2 survivors got %+v", out)
	}
	if out[0].Artist != "AC/DC" || out[1].Artist != "Guns N' Roses" {
		t.Fatalf("unexpected survivors: %+v", out)
	}
}

func TestDeduplicateStableAndCaseInsensitive(t *testing.T) {
	cands := []ParsedAlbumCandidate{
		{Artist: "Pink Floyd", Album: "The Wall", LineNumber: 1},
		{Artist: "pink floyd", Album: "the WALL", LineNumber: 2},
		{Artist: "Pink Floyd", Album: "Animals", LineNumber: 3},
	}
	out := Deduplicate(cands)
	if len(out) != 2 {
		t.Fatalf("expected 2 entries got %d: %+v", len(out), out)
	}
	if out[0].Artist != "Pink Floyd" || out[0].Album != "The Wall" || out[0].LineNumber != 1 {
		t.Fatalf("first occurrence not preserved: %+v", out[0])
	}
	if out[1].Album != "Animals" {
		t.Fatalf("order not preserved: %+v", out)
	}
}

func TestDeduplicateIgnoresPunctuationAndWhitespace(t *testing.T) {
	cands := []ParsedAlbumCandidate{
		{Artist: "Godspeed You! Black Emperor", Album: "F# A# Infinity", LineNumber: 1},
		{Artist: "Godspeed You Black Emperor", Album: "F A  Infinity", LineNumber: 2},
	}
	out := Deduplicate(cands)
	if len(out) != 1 {
		t.Fatalf("expected 1 entry got %+v", out)
	}
}
