package config

import "testing"

func TestGetPlaylistLimit(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want int
	}{
		{"empty", "", 50},
		{"invalid", "foo", 50},
		{"zero", "0", 50},
		{"negative", "-10", 50},
		{"min", "1", 1},
		{"mid", "25", 25},
		{"max", "100", 100},
		{"over", "101", 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SPOTIFY_PLAYLIST_LIMIT", tt.env)
			if got := getPlaylistLimit(); got != tt.want {
				t.Errorf("getPlaylistLimit() = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestGetMaxUploadMB(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want int64
	}{
		{"empty", "", 5},
		{"invalid", "foo", 5},
		{"zero", "0", 5},
		{"negative", "-3", 5},
		{"mid", "10", 10},
		{"max", "25", 25},
		{"over", "26", 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MAX_UPLOAD_MB", tt.env)
			if got := getMaxUploadMB(); got != tt.want {
				t.Errorf("getMaxUploadMB() = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestGetAutoMigrate(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want bool
	}{
		{"empty", "", true},
		{"true", "true", true},
		{"false", "false", false},
		{"no", "no", false},
		{"zero", "0", false},
		{"FALSE", "FALSE", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_AUTO_MIGRATE", tt.env)
			if got := getAutoMigrate(); got != tt.want {
				t.Errorf("getAutoMigrate() = %v; want %v", got, tt.want)
			}
		})
	}
}
