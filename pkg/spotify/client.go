package spotify

import (
	"context"
	"errors"
	"strings"

	sentry "github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
	spotifyclient "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/tinyamasisurum0/spotifyreviewer/pkg/importer"
)

// Client wraps the Spotify Web API for album search and playlist fetching.
// Token caching and refresh live inside the oauth2 token source owned by this
// instance; there is no process-wide mutable token state.
type Client struct {
	api *spotifyclient.Client
}

type Request struct {
	TrackID    string
	AlbumID    string
	PlaylistID string
	ArtistID   string
}

type PlaylistAlbums struct {
	Name        string
	Albums      []importer.CanonicalAlbum
	TotalTracks int
}

// New builds a client using the client-credentials flow. The returned client
// refreshes its token on expiry transparently.
func New(ctx context.Context, clientID, clientSecret string) *Client {
	creds := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	return &Client{api: spotifyclient.New(creds.Client(ctx))}
}

// SearchAlbums implements importer.AlbumSearcher.
func (c *Client) SearchAlbums(ctx context.Context, query string, limit int) ([]importer.CanonicalAlbum, error) {
	span := sentry.StartSpan(ctx, "spotify.search_albums")
	span.Description = "Search albums on Spotify API"
	span.SetTag("query", query)
	defer span.Finish()

	results, err := c.api.Search(ctx, query, spotifyclient.SearchTypeAlbum, spotifyclient.Limit(limit))
	if err != nil {
		log.Errorf("Failed to search Spotify albums for %q: %v", query, err)
		sentry.CaptureException(err)
		span.Status = sentry.SpanStatusInternalError
		return nil, err
	}

	var albums []importer.CanonicalAlbum
	if results.Albums != nil {
		for _, a := range results.Albums.Albums {
			albums = append(albums, toCanonical(a))
		}
	}
	span.Status = sentry.SpanStatusOK
	span.SetData("results_count", len(albums))
	return albums, nil
}

// GetPlaylistAlbums fetches a playlist and returns its unique albums in
// first-appearance order.
func (c *Client) GetPlaylistAlbums(ctx context.Context, playlistID string, limit int) (*PlaylistAlbums, error) {
	log.Tracef("Fetching playlist albums from Spotify API: %s (limit: %d)", playlistID, limit)

	span := sentry.StartSpan(ctx, "spotify.get_playlist_albums")
	span.Description = "Get playlist albums from Spotify API"
	span.SetTag("playlist_id", playlistID)
	defer span.Finish()

	playlist, err := c.api.GetPlaylist(ctx, spotifyclient.ID(playlistID))
	if err != nil {
		log.Errorf("Failed to fetch Spotify playlist %s: %v", playlistID, err)
		sentry.CaptureException(err)
		span.Status = sentry.SpanStatusInternalError

		// Note: zmb3/spotify client doesn't provide typed errors, so we parse error strings.
		// This is fragile but necessary for user-friendly error messages.
		errStr := err.Error()
		if strings.Contains(errStr, "404") || strings.Contains(errStr, "Not Found") {
			return nil, errors.New("playlist not found")
		}
		if strings.Contains(errStr, "403") || strings.Contains(errStr, "Forbidden") {
			return nil, errors.New("playlist is private or not accessible")
		}
		return nil, err
	}

	totalTracks := int(playlist.Tracks.Total)
	if totalTracks == 0 {
		log.Warnf("Spotify playlist %s is empty", playlistID)
		span.Status = sentry.SpanStatusOK
		return nil, errors.New("playlist is empty")
	}

	items, err := c.api.GetPlaylistItems(ctx, spotifyclient.ID(playlistID), spotifyclient.Limit(limit))
	if err != nil {
		log.Errorf("Failed to fetch Spotify playlist items %s: %v", playlistID, err)
		sentry.CaptureException(err)
		span.Status = sentry.SpanStatusInternalError
		return nil, err
	}

	seen := map[string]struct{}{}
	albums := make([]importer.CanonicalAlbum, 0, len(items.Items))
	for _, item := range items.Items {
		// Skip non-track items (podcasts, episodes, etc.)
		if item.Track.Track == nil {
			continue
		}
		album := item.Track.Track.Album
		if _, ok := seen[string(album.ID)]; ok {
			continue
		}
		seen[string(album.ID)] = struct{}{}
		albums = append(albums, toCanonical(album))
	}

	if len(albums) == 0 {
		log.Warnf("Spotify playlist %s has no albums (only podcasts or episodes)", playlistID)
		span.Status = sentry.SpanStatusOK
		return nil, errors.New("playlist contains no albums (only podcasts or episodes)")
	}

	log.Debugf("Fetched %d unique albums from Spotify playlist '%s' (total tracks: %d)", len(albums), playlist.Name, totalTracks)
	span.Status = sentry.SpanStatusOK
	span.SetData("albums_count", len(albums))
	span.SetData("playlist_name", playlist.Name)

	return &PlaylistAlbums{Name: playlist.Name, Albums: albums, TotalTracks: totalTracks}, nil
}

func toCanonical(a spotifyclient.SimpleAlbum) importer.CanonicalAlbum {
	artists := make([]string, 0, len(a.Artists))
	for _, artist := range a.Artists {
		artists = append(artists, artist.Name)
	}
	imageURL := ""
	if len(a.Images) > 0 {
		imageURL = a.Images[0].URL
	}
	return importer.CanonicalAlbum{
		ID:          string(a.ID),
		Name:        a.Name,
		Artists:     artists,
		ImageURL:    imageURL,
		ReleaseDate: a.ReleaseDate,
		SpotifyURL:  a.ExternalURLs["spotify"],
	}
}

// ParseSpotifyURL extracts the resource ID from an open.spotify.com URL.
func ParseSpotifyURL(url string) (Request, error) {
	if strings.HasPrefix(url, "https://open.spotify.com/") {
		parts := strings.Split(url, "/")
		if len(parts) < 5 {
			log.Warnf("Invalid Spotify URL format (too few parts): %s", url)
			return Request{}, errors.New("invalid Spotify URL")
		}

		request := Request{}

		// Strip query parameters from ID (e.g., ?si=tracking_id)
		id := strings.Split(parts[4], "?")[0]

		switch parts[3] {
		case "playlist":
			request.PlaylistID = id
			log.Tracef("Parsed Spotify playlist URL: %s", id)
		case "album":
			request.AlbumID = id
			log.Tracef("Parsed Spotify album URL: %s", id)
		case "artist":
			request.ArtistID = id
			log.Tracef("Parsed Spotify artist URL: %s", id)
		case "track":
			request.TrackID = id
			log.Tracef("Parsed Spotify track URL: %s", id)
		}

		return request, nil
	}

	log.Warnf("URL does not start with https://open.spotify.com/: %s", url)
	return Request{}, errors.New("invalid Spotify URL")
}
