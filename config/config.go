package config

import (
	"os"
	"strconv"
	"strings"
)

type ConfigStruct struct {
	DB      DBConfig
	Spotify SpotifyConfig
	Uploads UploadConfig
	Sentry  SentryConfig
	Options Options
}

type DBConfig struct {
	DSN         string
	AutoMigrate bool
}

type SpotifyConfig struct {
	ClientID      string
	ClientSecret  string
	Enabled       bool
	PlaylistLimit int
}

type UploadConfig struct {
	BaseDir   string
	MaxSizeMB int64
}

type SentryConfig struct {
	DSN string
}

type Options struct {
	Port string
}

func (s *SpotifyConfig) HasCredentials() bool {
	return s.ClientID != "" && s.ClientSecret != ""
}

var Config *ConfigStruct

func NewConfig() {
	config := &ConfigStruct{
		DB: DBConfig{
			DSN:         os.Getenv("DB_DSN"),
			AutoMigrate: getAutoMigrate(),
		},
		Spotify: SpotifyConfig{
			ClientID:      os.Getenv("SPOTIFY_CLIENT_ID"),
			ClientSecret:  os.Getenv("SPOTIFY_CLIENT_SECRET"),
			Enabled:       os.Getenv("SPOTIFY_ENABLED") != "false",
			PlaylistLimit: getPlaylistLimit(),
		},
		Uploads: UploadConfig{
			BaseDir:   getUploadBase(),
			MaxSizeMB: getMaxUploadMB(),
		},
		Sentry: SentryConfig{
			DSN: os.Getenv("SENTRY_DSN"),
		},
		Options: Options{
			Port: os.Getenv("PORT"),
		},
	}

	Config = config
}

func getAutoMigrate() bool {
	v := strings.ToLower(os.Getenv("DB_AUTO_MIGRATE"))
	return !(v == "false" || v == "0" || v == "no")
}

func getUploadBase() string {
	if v := os.Getenv("UPLOAD_BASE"); v != "" {
		return v
	}
	return "uploads"
}

func getMaxUploadMB() int64 {
	sizeStr := os.Getenv("MAX_UPLOAD_MB")
	if sizeStr == "" {
		return 5
	}
	size, err := strconv.ParseInt(sizeStr, 10, 64)
	if err != nil || size <= 0 {
		return 5
	}
	if size > 25 {
		return 25 // keep OCR runtime bounded
	}
	return size
}

func getPlaylistLimit() int {
	limitStr := os.Getenv("SPOTIFY_PLAYLIST_LIMIT")
	if limitStr == "" {
		return 50
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		return 50
	}
	if limit > 100 {
		return 100 // Spotify API max per page
	}
	return limit
}
