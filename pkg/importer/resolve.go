package importer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	sentry "github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
)

// AlbumSearcher is the remote album search capability. The transport is the
// caller's concern; only the query/response contract matters here.
type AlbumSearcher interface {
	SearchAlbums(ctx context.Context, query string, limit int) ([]CanonicalAlbum, error)
}

// Resolver matches parsed candidates against the remote search index.
type Resolver struct {
	searcher AlbumSearcher
	opts     Options
}

func NewResolver(searcher AlbumSearcher, opts Options) *Resolver {
	return &Resolver{searcher: searcher, opts: opts}
}

var (
	queryPunctRE = regexp.MustCompile(`[?!.,;:'"()\[\]{}]`)
	matchJunkRE  = regexp.MustCompile(`[^a-z0-9 ]+`)
)

// Resolve tries four query phrasings in order, from most to least precise,
// and accepts the first result whose artist and album both pass the
// similarity test. A query whose network call fails is logged and treated as
// non-matching; the next phrasing still runs. No match is nil, not an error.
func (r *Resolver) Resolve(ctx context.Context, cand ParsedAlbumCandidate) *CanonicalAlbum {
	artist := sanitizeQueryTerm(cand.Artist)
	album := sanitizeQueryTerm(cand.Album)
	queries := []string{
		fmt.Sprintf("artist:%s album:%s", artist, album),
		artist + " " + album,
		fmt.Sprintf("artist:%s %s", artist, album),
		album + " " + artist,
	}
	for _, q := range queries {
		results, err := r.searcher.SearchAlbums(ctx, q, r.opts.SearchLimit)
		if err != nil {
			log.Warnf("album search %q failed: %v", q, err)
			sentry.CaptureException(err)
			continue
		}
		for i := range results {
			if r.accepts(cand, results[i]) {
				res := results[i]
				log.Debugf("resolved %q / %q via %q -> %s", cand.Artist, cand.Album, q, res.ID)
				return &res
			}
		}
	}
	return nil
}

// accepts requires both an artist and an album-title similarity pass.
func (r *Resolver) accepts(cand ParsedAlbumCandidate, res CanonicalAlbum) bool {
	artistOK := false
	for _, a := range res.Artists {
		if similar(cand.Artist, a, r.opts.WordOverlap) {
			artistOK = true
			break
		}
	}
	return artistOK && similar(cand.Album, res.Name, r.opts.WordOverlap)
}

// sanitizeQueryTerm replaces punctuation with spaces and collapses the
// whitespace, so OCR leftovers don't poison the field-qualified queries.
func sanitizeQueryTerm(s string) string {
	s = queryPunctRE.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// similar passes on normalized equality, substring containment either way, or
// when at least the overlap fraction of the shorter string's word set (words
// longer than 2 characters) has a containment match in the other's word set.
func similar(a, b string, overlap float64) bool {
	na := normalizeForMatch(a)
	nb := normalizeForMatch(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}

	short, long := na, nb
	if len(nb) < len(na) {
		short, long = nb, na
	}
	shortWords := matchWords(short)
	longWords := matchWords(long)
	if len(shortWords) == 0 {
		return false
	}
	matched := 0
	for _, w := range shortWords {
		for _, ow := range longWords {
			if strings.Contains(ow, w) || strings.Contains(w, ow) {
				matched++
				break
			}
		}
	}
	return float64(matched)/float64(len(shortWords)) >= overlap
}

func normalizeForMatch(s string) string {
	s = matchJunkRE.ReplaceAllString(strings.ToLower(s), "")
	return strings.Join(strings.Fields(s), " ")
}

func matchWords(s string) []string {
	var out []string
	for _, w := range strings.Fields(s) {
		if len(w) > 2 {
			out = append(out, w)
		}
	}
	return out
}
