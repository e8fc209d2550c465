package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/tinyamasisurum0/spotifyreviewer/config"
	"github.com/tinyamasisurum0/spotifyreviewer/pkg/importer"
	"github.com/tinyamasisurum0/spotifyreviewer/pkg/spotify"
)

var jwtSecret []byte // loaded from env JWT_SECRET (fallback to dev default)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, relying on environment")
	}
	config.NewConfig()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-insecure-secret-change" // development fallback
	}
	jwtSecret = []byte(secret)

	if dsn := config.Config.Sentry.DSN; dsn != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
		})
		if err != nil {
			log.Warnf("sentry init failed: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	// Support a lightweight migrate command: `./spotifyreviewer migrate`
	// It runs AutoMigrate and seeding then exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		initDB()
		fmt.Println("migration and seeding completed")
		return
	}

	initDB()

	if config.Config.Spotify.Enabled && config.Config.Spotify.HasCredentials() {
		searchClient = spotify.New(context.Background(), config.Config.Spotify.ClientID, config.Config.Spotify.ClientSecret)
	} else {
		log.Info("spotify integration disabled, import will return unresolved candidates only")
	}
	var searcher importer.AlbumSearcher
	if searchClient != nil {
		searcher = searchClient
	}
	albumImporter = importer.New(searcher, importer.DefaultOptions())

	r := gin.Default()
	if config.Config.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	setupRoutes(r)

	port := config.Config.Options.Port
	if port == "" {
		port = "8081"
	}
	r.Run(":" + port)
}
