package spotify

import (
	"testing"
)

func TestParseSpotifyURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    Request
		wantErr bool
	}{
		{
			name: "playlist",
			url:  "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M",
			want: Request{PlaylistID: "37i9dQZF1DXcBWIGoYBM5M"},
		},
		{
			name: "playlist with si query",
			url:  "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc123",
			want: Request{PlaylistID: "37i9dQZF1DXcBWIGoYBM5M"},
		},
		{
			name: "album",
			url:  "https://open.spotify.com/album/4yP0hdKOZPNshxUOjY0cZj",
			want: Request{AlbumID: "4yP0hdKOZPNshxUOjY0cZj"},
		},
		{
			name: "artist",
			url:  "https://open.spotify.com/artist/4NHQPlJsbc7kbJTwq0B3lD",
			want: Request{ArtistID: "4NHQPlJsbc7kbJTwq0B3lD"},
		},
		{
			name: "track",
			url:  "https://open.spotify.com/track/0VjIjW4GlUZAMYd2vXMi3b",
			want: Request{TrackID: "0VjIjW4GlUZAMYd2vXMi3b"},
		},
		{
			name:    "invalid domain",
			url:     "https://example.com/playlist/abc",
			want:    Request{},
			wantErr: true,
		},
		{
			name:    "missing id",
			url:     "https://open.spotify.com/playlist/",
			want:    Request{PlaylistID: ""},
			wantErr: false,
		},
		{
			name:    "wrong path",
			url:     "https://open.spotify.com/wrong/abc",
			want:    Request{},
			wantErr: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSpotifyURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseSpotifyURL() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if got != tt.want {
				t.Errorf("ParseSpotifyURL() = %v, want %v", got, tt.want)
			}
		})
	}
}
