package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/tinyamasisurum0/spotifyreviewer/config"
	"github.com/tinyamasisurum0/spotifyreviewer/models"
	"github.com/tinyamasisurum0/spotifyreviewer/pkg/importer"
	"github.com/tinyamasisurum0/spotifyreviewer/pkg/spotify"
)

// Set once in main before the router starts serving.
var (
	albumImporter *importer.Importer
	searchClient  *spotify.Client
)

func setupRoutes(r *gin.Engine) {
	r.POST("/register", registerHandler)
	r.POST("/login", loginHandler)
	r.POST("/refresh", refreshHandler)
	r.POST("/revoke_refresh", revokeRefreshHandler)
	r.GET("/share/review/:slug", shareReviewHandler)
	r.GET("/share/tierlist/:slug", shareTierListHandler)
	authGroup := r.Group("")
	authGroup.Use(jwtAuthMiddleware())
	authGroup.GET("/me", meHandler)
	authGroup.POST("/reviews", createReviewHandler)
	authGroup.GET("/reviews", listReviewsHandler)
	authGroup.GET("/reviews/:id", getReviewHandler)
	authGroup.PUT("/reviews/:id", updateReviewHandler)
	authGroup.DELETE("/reviews/:id", deleteReviewHandler)
	authGroup.POST("/tierlists", createTierListHandler)
	authGroup.GET("/tierlists", listTierListsHandler)
	authGroup.GET("/tierlists/:id", getTierListHandler)
	authGroup.PUT("/tierlists/:id", updateTierListHandler)
	authGroup.DELETE("/tierlists/:id", deleteTierListHandler)
	authGroup.GET("/playlist/albums", playlistAlbumsHandler)
	authGroup.GET("/albums/search", searchAlbumsHandler)
	authGroup.POST("/import/image", importImageHandler)
	authGroup.POST("/import/resolve", resolveCandidatesHandler)
	authGroup.GET("/uploads", listUploadsHandler)
	authGroup.GET("/uploads/:id", getUploadHandler)
}

func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		username, _ := claims["username"].(string)
		role, _ := claims["role"].(string)
		c.Set("username", username)
		if role != "" {
			c.Set("role", role)
		}
		c.Next()
	}
}

func meHandler(c *gin.Context) {
	usernameVal, _ := c.Get("username")
	if usernameVal == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing username"})
		return
	}
	username := usernameVal.(string)
	c.JSON(http.StatusOK, gin.H{"username": username})
}

// getUserFromContext fetches the currently authenticated user using the username set by jwtAuthMiddleware
func getUserFromContext(c *gin.Context) (*models.User, bool) {
	unameVal, _ := c.Get("username")
	if unameVal == nil {
		return nil, false
	}
	uname := unameVal.(string)
	var user models.User
	if err := db.Where("username = ?", uname).First(&user).Error; err != nil {
		return nil, false
	}
	return &user, true
}

func isAdmin(c *gin.Context) bool {
	role, _ := c.Get("role")
	return role == "administrator"
}

func registerHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := RegisterUser(req.Username, req.Password); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user registered successfully"})
}

func loginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := Authenticate(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	tokenString, err := signAccessToken(user, 24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	refreshToken, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": tokenString, "refresh_token": refreshToken})
}

// signAccessToken resolves the role name from RoleID and issues an HS256 JWT.
func signAccessToken(user models.User, ttl time.Duration) (string, error) {
	roleName := ""
	if user.RoleID != nil {
		var r models.Role
		if err := db.First(&r, *user.RoleID).Error; err == nil {
			roleName = r.Name
		}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"role":     roleName,
		"exp":      time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(jwtSecret)
}

// createAndStoreRefreshToken generates a random refresh token, stores its hash with expiry and returns the raw token string
func createAndStoreRefreshToken(userID uint) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	rt := models.RefreshToken{UserID: userID, TokenHash: th, ExpiresAt: time.Now().Add(30 * 24 * time.Hour)}
	if err := db.Create(&rt).Error; err != nil {
		return "", err
	}
	return token, nil
}

// helper to find refresh token record by raw token string
func findRefreshTokenByRaw(token string) (*models.RefreshToken, error) {
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	var rt models.RefreshToken
	if err := db.Where("token_hash = ?", th).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// refreshHandler exchanges a refresh token for a new access token and rotates the refresh token
func refreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}
	var user models.User
	if err := db.First(&user, rt.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	tokenString, err := signAccessToken(user, 15*time.Minute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	// rotate refresh token: revoke existing and create new one
	db.Model(&models.RefreshToken{}).Where("id = ?", rt.ID).Update("revoked", true)
	newRT, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rotate refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString, "refresh_token": newRT})
}

// revokeRefreshHandler revokes a given refresh token (useful on logout)
func revokeRefreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "refresh token not found"})
		return
	}
	rt.Revoked = true
	if err := db.Save(rt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "refresh token revoked"})
}

// newShareSlug returns a random URL-safe identifier for public share pages.
func newShareSlug() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

type albumPayload struct {
	SpotifyID   string   `json:"spotify_id" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Artists     string   `json:"artists"`
	ImageURL    string   `json:"image_url"`
	ReleaseDate string   `json:"release_date"`
	SpotifyURL  string   `json:"spotify_url"`
	Rating      *float64 `json:"rating"`
	Note        string   `json:"note"`
}

type reviewPayload struct {
	Title  string         `json:"title" binding:"required"`
	Albums []albumPayload `json:"albums"`
}

func validateAlbumPayloads(entries []albumPayload) error {
	for _, e := range entries {
		if e.Rating != nil && (*e.Rating < 0 || *e.Rating > 10) {
			return errors.New("rating must be between 0 and 10")
		}
	}
	return nil
}

func reviewAlbumsFromPayload(entries []albumPayload) []models.ReviewAlbum {
	albums := make([]models.ReviewAlbum, len(entries))
	for i, e := range entries {
		albums[i] = models.ReviewAlbum{
			Position:    i,
			SpotifyID:   e.SpotifyID,
			Name:        e.Name,
			Artists:     e.Artists,
			ImageURL:    e.ImageURL,
			ReleaseDate: e.ReleaseDate,
			SpotifyURL:  e.SpotifyURL,
			Rating:      e.Rating,
			Note:        e.Note,
		}
	}
	return albums
}

func createReviewHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req reviewPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validateAlbumPayloads(req.Albums); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	review := models.Review{
		UserID:    user.ID,
		Title:     req.Title,
		ShareSlug: newShareSlug(),
		Albums:    reviewAlbumsFromPayload(req.Albums),
	}
	if err := db.Create(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": review.ID, "share_slug": review.ShareSlug})
}

func listReviewsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var items []models.Review
	q := db.Model(&models.Review{})
	if !isAdmin(c) {
		q = q.Where("user_id = ?", user.ID)
	}
	if err := q.Order("id desc").Limit(200).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// loadOwnedReview fetches a review by path id and enforces ownership (admin bypasses).
func loadOwnedReview(c *gin.Context) (*models.Review, bool) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return nil, false
	}
	var review models.Review
	err := db.Preload("Albums", func(tx *gorm.DB) *gorm.DB { return tx.Order("position asc") }).
		First(&review, c.Param("id")).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return nil, false
	}
	if !isAdmin(c) && review.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return nil, false
	}
	return &review, true
}

func getReviewHandler(c *gin.Context) {
	review, ok := loadOwnedReview(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, review)
}

// updateReviewHandler replaces the album list wholesale; partial patching of
// positions is not supported, the client always sends the full ordered list.
func updateReviewHandler(c *gin.Context) {
	review, ok := loadOwnedReview(c)
	if !ok {
		return
	}
	var req reviewPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validateAlbumPayloads(req.Albums); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", review.ID).Delete(&models.ReviewAlbum{}).Error; err != nil {
			return err
		}
		review.Title = req.Title
		review.Albums = reviewAlbumsFromPayload(req.Albums)
		for i := range review.Albums {
			review.Albums[i].ReviewID = review.ID
		}
		return tx.Save(review).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": review.ID})
}

func deleteReviewHandler(c *gin.Context) {
	review, ok := loadOwnedReview(c)
	if !ok {
		return
	}
	if err := db.Select("Albums").Delete(review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "review deleted"})
}

// shareReviewHandler serves the persisted shareable page data. No auth: the
// slug is the capability.
func shareReviewHandler(c *gin.Context) {
	var review models.Review
	err := db.Preload("Albums", func(tx *gorm.DB) *gorm.DB { return tx.Order("position asc") }).
		Where("share_slug = ?", c.Param("slug")).First(&review).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, review)
}

type tierEntryPayload struct {
	SpotifyID   string `json:"spotify_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Artists     string `json:"artists"`
	ImageURL    string `json:"image_url"`
	ReleaseDate string `json:"release_date"`
	SpotifyURL  string `json:"spotify_url"`
}

type tierRowPayload struct {
	Label    string             `json:"label" binding:"required"`
	Color    string             `json:"color"`
	Unranked bool               `json:"unranked"`
	Entries  []tierEntryPayload `json:"entries"`
}

type tierListPayload struct {
	Title string           `json:"title" binding:"required"`
	Rows  []tierRowPayload `json:"rows"`
}

func tierRowsFromPayload(rows []tierRowPayload) []models.TierRow {
	if len(rows) == 0 {
		return models.DefaultTierRows()
	}
	out := make([]models.TierRow, len(rows))
	for i, r := range rows {
		row := models.TierRow{Position: i, Label: r.Label, Color: r.Color, Unranked: r.Unranked}
		row.Entries = make([]models.TierEntry, len(r.Entries))
		for j, e := range r.Entries {
			row.Entries[j] = models.TierEntry{
				Position:    j,
				SpotifyID:   e.SpotifyID,
				Name:        e.Name,
				Artists:     e.Artists,
				ImageURL:    e.ImageURL,
				ReleaseDate: e.ReleaseDate,
				SpotifyURL:  e.SpotifyURL,
			}
		}
		out[i] = row
	}
	return out
}

func createTierListHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req tierListPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tl := models.TierList{
		UserID:    user.ID,
		Title:     req.Title,
		ShareSlug: newShareSlug(),
		Rows:      tierRowsFromPayload(req.Rows),
	}
	if err := db.Create(&tl).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": tl.ID, "share_slug": tl.ShareSlug})
}

func listTierListsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var items []models.TierList
	q := db.Model(&models.TierList{})
	if !isAdmin(c) {
		q = q.Where("user_id = ?", user.ID)
	}
	if err := q.Order("id desc").Limit(200).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func loadOwnedTierList(c *gin.Context) (*models.TierList, bool) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return nil, false
	}
	var tl models.TierList
	err := preloadTierRows(db).First(&tl, c.Param("id")).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return nil, false
	}
	if !isAdmin(c) && tl.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return nil, false
	}
	return &tl, true
}

func preloadTierRows(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Rows", func(tx *gorm.DB) *gorm.DB { return tx.Order("position asc") }).
		Preload("Rows.Entries", func(tx *gorm.DB) *gorm.DB { return tx.Order("position asc") })
}

func getTierListHandler(c *gin.Context) {
	tl, ok := loadOwnedTierList(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, tl)
}

func updateTierListHandler(c *gin.Context) {
	tl, ok := loadOwnedTierList(c)
	if !ok {
		return
	}
	var req tierListPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		var rowIDs []uint
		for _, r := range tl.Rows {
			rowIDs = append(rowIDs, r.ID)
		}
		if len(rowIDs) > 0 {
			if err := tx.Where("tier_row_id IN ?", rowIDs).Delete(&models.TierEntry{}).Error; err != nil {
				return err
			}
			if err := tx.Where("tier_list_id = ?", tl.ID).Delete(&models.TierRow{}).Error; err != nil {
				return err
			}
		}
		tl.Title = req.Title
		tl.Rows = tierRowsFromPayload(req.Rows)
		for i := range tl.Rows {
			tl.Rows[i].TierListID = tl.ID
		}
		return tx.Save(tl).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": tl.ID})
}

func deleteTierListHandler(c *gin.Context) {
	tl, ok := loadOwnedTierList(c)
	if !ok {
		return
	}
	if err := db.Select("Rows", "Rows.Entries").Delete(tl).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "tier list deleted"})
}

func shareTierListHandler(c *gin.Context) {
	var tl models.TierList
	err := preloadTierRows(db).Where("share_slug = ?", c.Param("slug")).First(&tl).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, tl)
}

// playlistAlbumsHandler proxies a playlist fetch and returns its unique
// albums so the client can bootstrap a review without OCR.
func playlistAlbumsHandler(c *gin.Context) {
	if searchClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "spotify integration is disabled"})
		return
	}
	playlistID := c.Query("id")
	if url := c.Query("url"); url != "" {
		req, err := spotify.ParseSpotifyURL(url)
		if err != nil || req.PlaylistID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "not a playlist URL"})
			return
		}
		playlistID = req.PlaylistID
	}
	if playlistID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id or url required"})
		return
	}
	result, err := searchClient.GetPlaylistAlbums(c.Request.Context(), playlistID, config.Config.Spotify.PlaylistLimit)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": result.Name, "albums": result.Albums, "total_tracks": result.TotalTracks})
}

// searchAlbumsHandler is the manual retry path for unmatched candidates.
func searchAlbumsHandler(c *gin.Context) {
	if searchClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "spotify integration is disabled"})
		return
	}
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q required"})
		return
	}
	limit := 5
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 20 {
			limit = parsed
		}
	}
	albums, err := searchClient.SearchAlbums(c.Request.Context(), query, limit)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"albums": albums})
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// importImageHandler runs an uploaded screenshot through the import pipeline
// and returns the parsed candidates plus the raw OCR text for inspection.
func importImageHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if file.Size > config.Config.Uploads.MaxSizeMB*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return
	}
	ct := file.Header.Get("Content-Type")
	if !allowedImageTypes[ct] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image type (jpeg, png, webp)"})
		return
	}
	focusRight := c.DefaultPostForm("focus_right_column", "true") != "false"

	base := config.Config.Uploads.BaseDir
	dir := filepath.Join(base, "imports")
	if err := os.MkdirAll(dir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mkdir failed"})
		return
	}
	fullPath := filepath.Join(dir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	up := models.Upload{UserID: user.ID, FileName: file.Filename, StorePath: fullPath, ContentType: ct}
	result, err := albumImporter.ImportFromImage(fullPath, focusRight, func(status string, progress float64) {
		log.Tracef("import %s: %s %.0f%%", file.Filename, status, progress*100)
	})
	if err != nil {
		up.Failed = true
		up.FailedReason = err.Error()
		if dbErr := db.Create(&up).Error; dbErr != nil {
			log.Warnf("failed to record failed upload: %v", dbErr)
		}
		if errors.Is(err, importer.ErrImageDecode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	up.OCRText = result.RawText
	up.OCRConfidence = result.Confidence
	up.CandidateCount = len(result.Candidates)
	if err := db.Create(&up).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"upload_id":  up.ID,
		"candidates": result.Candidates,
		"raw_text":   result.RawText,
		"confidence": result.Confidence,
	})
}

// resolveCandidatesHandler resolves a candidate batch against the album
// search index. Candidates that cannot be matched come back matched=false;
// that is an expected outcome, not an error.
func resolveCandidatesHandler(c *gin.Context) {
	if searchClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "spotify integration is disabled"})
		return
	}
	var req struct {
		Candidates []importer.MatchedAlbumCandidate `json:"candidates" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resolved := albumImporter.ResolveAll(c.Request.Context(), req.Candidates, nil)
	c.JSON(http.StatusOK, gin.H{"candidates": resolved})
}

// listUploadsHandler returns uploads; admin sees all, user only their own.
func listUploadsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var uploads []models.Upload
	q := db.Model(&models.Upload{})
	if !isAdmin(c) {
		q = q.Where("user_id = ?", user.ID)
	}
	if err := q.Order("id desc").Limit(100).Find(&uploads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, uploads)
}

// getUploadHandler returns single upload if admin or owner.
func getUploadHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var up models.Upload
	if err := db.First(&up, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if !isAdmin(c) && up.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, up)
}
