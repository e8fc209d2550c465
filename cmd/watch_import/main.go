package main

import (
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tinyamasisurum0/spotifyreviewer/config"
	"github.com/tinyamasisurum0/spotifyreviewer/models"
	"github.com/tinyamasisurum0/spotifyreviewer/pkg/importer"
	"github.com/tinyamasisurum0/spotifyreviewer/pkg/spotify"
)

// watch_import scans a drop directory for album-list screenshots, runs each
// through the import pipeline, records an Upload row per file and moves
// processed files aside so they are handled only once. With -watch it keeps
// running and picks up new files as they land.

var db *gorm.DB

var extMime = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

var verbose bool

func logV(format string, args ...any) {
	if verbose {
		log.Infof(format, args...)
	}
}

func main() {
	dirFlag := flag.String("dir", "uploads/drop", "directory to scan for screenshots")
	userID := flag.Uint("user-id", 0, "user to assign uploads to (defaults to admin)")
	watch := flag.Bool("watch", false, "watch directory for new files")
	dryRun := flag.Bool("dry-run", false, "list and import files without touching the database")
	resolve := flag.Bool("resolve", false, "resolve candidates against the album search index (needs credentials)")
	focus := flag.Bool("focus", true, "crop to the detected text column before OCR")
	flag.BoolVar(&verbose, "verbose", false, "verbose per-file logging")
	flag.Parse()

	_ = godotenv.Load()
	config.NewConfig()

	im := buildImporter(*resolve)

	if *dryRun {
		log.Infof("dry-run: scanning %s (no DB interaction)", *dirFlag)
		for _, name := range listImageFiles(*dirFlag) {
			result, err := im.ImportFromImage(filepath.Join(*dirFlag, name), *focus, nil)
			if err != nil {
				log.Warnf("import %s: %v", name, err)
				continue
			}
			log.Infof("%s: %d candidates, confidence %.2f", name, len(result.Candidates), result.Confidence)
			for _, c := range result.Candidates {
				logV("  line %d: %s - %s", c.LineNumber, c.Artist, c.Album)
			}
		}
		return
	}

	db = mustInitDBFromEnv()
	user := resolveUser(*userID)

	files := listImageFiles(*dirFlag)
	log.Infof("scanning %d files in %s", len(files), *dirFlag)
	for _, name := range files {
		processFile(im, *dirFlag, name, user, *focus)
	}

	if *watch {
		if err := watchDirectory(im, *dirFlag, user, *focus); err != nil {
			log.Fatalf("watch failed: %v", err)
		}
	}
}

func buildImporter(resolve bool) *importer.Importer {
	var searcher importer.AlbumSearcher
	if resolve {
		if !config.Config.Spotify.HasCredentials() {
			log.Fatal("-resolve requires SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET")
		}
		searcher = spotify.New(context.Background(), config.Config.Spotify.ClientID, config.Config.Spotify.ClientSecret)
	}
	return importer.New(searcher, importer.DefaultOptions())
}

func mustInitDBFromEnv() *gorm.DB {
	dsn := config.Config.DB.DSN
	if dsn == "" {
		log.Fatal("DB_DSN must be set in environment to run this tool")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	return gdb
}

func resolveUser(id uint) models.User {
	var u models.User
	if id != 0 {
		if err := db.First(&u, id).Error; err != nil {
			log.Fatalf("failed to find user id %d: %v", id, err)
		}
		return u
	}
	if err := db.Where("username = ?", "admin").First(&u).Error; err != nil {
		log.Fatalf("no -user-id provided and admin user not found: %v", err)
	}
	return u
}

func listImageFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !isSupportedExt(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out
}

func isSupportedExt(name string) bool {
	_, ok := extMime[strings.ToLower(filepath.Ext(name))]
	return ok
}

// processFile runs the import pipeline for one file and records the outcome.
// Files already recorded under the same store path are skipped so reruns are
// idempotent.
func processFile(im *importer.Importer, dir, name string, user models.User, focus bool) {
	fullPath := filepath.Join(dir, name)
	storePath := filepath.ToSlash(fullPath)

	var existing models.Upload
	if err := db.Where("user_id = ? AND file_name = ?", user.ID, name).First(&existing).Error; err == nil {
		logV("SKIP already recorded %s", name)
		return
	}

	up := models.Upload{
		UserID:      user.ID,
		FileName:    name,
		StorePath:   storePath,
		ContentType: extMime[strings.ToLower(filepath.Ext(name))],
	}
	result, err := im.ImportFromImage(fullPath, focus, nil)
	if err != nil {
		up.Failed = true
		up.FailedReason = err.Error()
		if dbErr := db.Create(&up).Error; dbErr != nil {
			log.Errorf("record failed upload %s: %v", name, dbErr)
		}
		log.Warnf("import %s: %v", name, err)
		return
	}
	up.OCRText = result.RawText
	up.OCRConfidence = result.Confidence
	up.CandidateCount = len(result.Candidates)
	if err := db.Create(&up).Error; err != nil {
		log.Errorf("record upload %s: %v", name, err)
		return
	}
	log.Infof("IMPORT upload=%d file=%s candidates=%d conf=%.2f", up.ID, name, len(result.Candidates), result.Confidence)

	if err := moveToProcessed(fullPath, dir, name); err != nil {
		log.Warnf("failed to move processed file %s: %v", name, err)
	}
}

func watchDirectory(im *importer.Importer, dir string, user models.User, focus bool) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	log.Infof("watching %s (debounced) ...", dir)

	fileCh := make(chan string, 256)
	go func() {
		// debounce map of pending files; a file is processed once its last
		// write is older than the settle window
		pending := map[string]time.Time{}
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					close(fileCh)
					return
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
					name := filepath.Base(ev.Name)
					if !isSupportedExt(name) {
						continue
					}
					pending[name] = time.Now()
				}
			case <-ticker.C:
				now := time.Now()
				for name, t := range pending {
					if now.Sub(t) > 300*time.Millisecond { // stable
						fileCh <- name
						delete(pending, name)
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					close(fileCh)
					return
				}
				log.Warnf("watch error: %v", err)
			}
		}
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for name := range fileCh {
			processFile(im, dir, name, user, focus)
		}
	}()
	wg.Wait()
	return nil
}

// moveToProcessed moves a handled file into <dir>/processed/<name> so the
// next scan does not pick it up again. Rename first, copy+remove fallback for
// cross-device setups.
func moveToProcessed(srcFullPath, dir, name string) error {
	processedDir := filepath.Join(dir, "processed")
	if err := os.MkdirAll(processedDir, 0o755); err != nil {
		return err
	}
	dst := filepath.Join(processedDir, name)
	if err := os.Rename(srcFullPath, dst); err == nil {
		return nil
	}
	return copyRemove(srcFullPath, dst)
}

func copyRemove(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	_ = out.Close()
	return os.Remove(src)
}
