package importer

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// Importer drives the full screenshot-to-candidates pipeline and the
// follow-up batch resolution. It owns the candidate list; each stage replaces
// it wholesale rather than mutating shared state.
type Importer struct {
	opts     Options
	resolver *Resolver
}

// New builds an Importer. searcher may be nil when resolution is disabled;
// ImportFromImage still works, ResolveAll becomes a no-op pass-through.
func New(searcher AlbumSearcher, opts Options) *Importer {
	im := &Importer{opts: opts}
	if searcher != nil {
		im.resolver = NewResolver(searcher, opts)
	}
	return im
}

// ImportResult is the orchestrator's output: the cleaned candidate list plus
// the raw OCR text, surfaced for manual inspection only.
type ImportResult struct {
	Candidates []MatchedAlbumCandidate `json:"candidates"`
	RawText    string                  `json:"rawText"`
	Confidence float64                 `json:"confidence"`
}

// ImportFromImage runs preprocess, recognition, parsing, filtering and
// deduplication for one image. Decode and OCR errors are terminal for this
// image; an empty candidate list is a valid outcome.
func (im *Importer) ImportFromImage(path string, focusRight bool, onProgress ProgressFunc) (*ImportResult, error) {
	png, err := Preprocess(path, focusRight, im.opts)
	if err != nil {
		return nil, err
	}
	raw, err := Recognize(png, im.opts, onProgress)
	if err != nil {
		return nil, err
	}

	parsed := Deduplicate(FilterValid(ParseLines(raw.Text)))
	log.Debugf("import %s: %d candidates, ocr confidence %.2f", path, len(parsed), raw.Confidence)

	candidates := make([]MatchedAlbumCandidate, len(parsed))
	for i, p := range parsed {
		candidates[i] = MatchedAlbumCandidate{ParsedAlbumCandidate: p}
	}
	return &ImportResult{Candidates: candidates, RawText: raw.Text, Confidence: raw.Confidence}, nil
}

// ResolveAll resolves candidates one at a time with a fixed delay between
// requests; the delay is the only backpressure toward the shared search
// capability. One candidate failing to resolve never stops the rest. onUpdate
// (optional) observes each state transition so a caller can render live
// progress. The input slice is not mutated.
func (im *Importer) ResolveAll(ctx context.Context, cands []MatchedAlbumCandidate, onUpdate func(i int, c MatchedAlbumCandidate)) []MatchedAlbumCandidate {
	out := make([]MatchedAlbumCandidate, len(cands))
	copy(out, cands)
	if im.resolver == nil {
		return out
	}
	notify := func(i int) {
		if onUpdate != nil {
			onUpdate(i, out[i])
		}
	}
	for i := range out {
		if i > 0 && im.opts.BatchDelay > 0 {
			select {
			case <-ctx.Done():
				return out
			case <-time.After(im.opts.BatchDelay):
			}
		}
		out[i].Searching = true
		notify(i)

		album := im.resolver.Resolve(ctx, out[i].ParsedAlbumCandidate)
		out[i].Searching = false
		out[i].ResolvedAlbum = album
		out[i].Matched = album != nil
		notify(i)
	}
	return out
}
