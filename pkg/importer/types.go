package importer

import "time"

// RawOCRResult is the output of one recognition pass. Only Text is consumed
// downstream; Confidence is surfaced for the caller's inspection view.
type RawOCRResult struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// ParsedAlbumCandidate is one (artist, album) pair extracted from a line of
// OCR text. LineNumber is the 1-based position in the original text, so gaps
// from empty or unparseable lines are not renumbered.
type ParsedAlbumCandidate struct {
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	LineNumber int    `json:"lineNumber"`
}

// CanonicalAlbum is the search index's authoritative record for an album.
// Never mutated here; it is consumed as match-resolution output.
type CanonicalAlbum struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []string `json:"artists"`
	ImageURL    string   `json:"imageUrl"`
	ReleaseDate string   `json:"releaseDate"`
	SpotifyURL  string   `json:"spotifyUrl"`
}

// MatchedAlbumCandidate tracks a candidate's resolution state. Matched=true
// always carries a non-nil ResolvedAlbum.
type MatchedAlbumCandidate struct {
	ParsedAlbumCandidate
	Matched       bool            `json:"matched"`
	Searching     bool            `json:"searching"`
	ResolvedAlbum *CanonicalAlbum `json:"resolvedAlbum,omitempty"`
}

// SetText applies a manual correction. Any prior resolution is invalidated
// atomically with the edit.
func (m *MatchedAlbumCandidate) SetText(artist, album string) {
	m.Artist = Normalize(artist)
	m.Album = Normalize(album)
	m.Matched = false
	m.Searching = false
	m.ResolvedAlbum = nil
}

// Options carries the pipeline's tuning constants. The defaults are the
// empirically observed values; they are exposed as fields rather than
// re-derived because behavior parity is the goal.
type Options struct {
	// Column detection
	Bands                 int     // horizontal averaging bands
	StripWidth            int     // scan strip width in pixels
	BrightnessFloor       float64 // mean RGB a pixel must exceed to qualify
	SaturationFloor       float64 // (max-min)/max a pixel must exceed to qualify
	ColorfulnessThreshold float64 // fraction of the peak strip score
	ClampLow              float64 // accepted boundary range, fraction of width
	ClampHigh             float64
	FallbackColumn        float64 // boundary used when detection is implausible

	// Preprocessing
	Contrast float64

	// OCR
	Language string

	// Resolution
	SearchLimit int     // results fetched per query phrasing
	WordOverlap float64 // accepted fraction of the shorter word set
	BatchDelay  time.Duration
}

// DefaultOptions returns the observed production constants.
func DefaultOptions() Options {
	return Options{
		Bands:                 5,
		StripWidth:            10,
		BrightnessFloor:       30,
		SaturationFloor:       0.1,
		ColorfulnessThreshold: 0.08,
		ClampLow:              0.40,
		ClampHigh:             0.75,
		FallbackColumn:        0.55,
		Contrast:              2.0,
		Language:              "eng",
		SearchLimit:           5,
		WordOverlap:           0.5,
		BatchDelay:            300 * time.Millisecond,
	}
}
