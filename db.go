package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tinyamasisurum0/spotifyreviewer/config"
	"github.com/tinyamasisurum0/spotifyreviewer/models"
)

var db *gorm.DB

func initDB() {
	var err error
	dsn := config.Config.DB.DSN
	if dsn == "" {
		log.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect postgres database:", err)
	}
	shouldMigrate := config.Config.DB.AutoMigrate

	// Ensure the roles master table exists first and seed it so users FK can be applied safely.
	if shouldMigrate {
		if err := db.AutoMigrate(&models.Role{}); err != nil {
			log.Warnf("migration warning (roles): %v", err)
		}
	}
	seedRoles()

	// Now migrate the rest (users will get FK to roles)
	if shouldMigrate {
		// Migrate models individually so a failure on one doesn't block others
		for name, model := range map[string]any{
			"users":          &models.User{},
			"refresh_tokens": &models.RefreshToken{},
			"reviews":        &models.Review{},
			"review_albums":  &models.ReviewAlbum{},
			"tier_lists":     &models.TierList{},
			"tier_rows":      &models.TierRow{},
			"tier_entries":   &models.TierEntry{},
			"uploads":        &models.Upload{},
		} {
			if err := db.AutoMigrate(model); err != nil {
				log.Warnf("migration warning (%s): %v", name, err)
			}
		}
	}
	seedDB()
}

func seedRoles() {
	roles := []models.Role{{Name: "administrator", Description: "full access"}, {Name: "user", Description: "regular user"}}
	for _, r := range roles {
		var cnt int64
		db.Model(&models.Role{}).Where("name = ?", r.Name).Count(&cnt)
		if cnt == 0 {
			db.Create(&r)
		}
	}
}

func seedDB() {
	seedRoles()

	// Check if admin user exists
	var count int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count == 0 {
		var role models.Role
		if err := db.Where("name = ?", "administrator").First(&role).Error; err != nil {
			log.Warnf("failed to find administrator role: %v", err)
		}
		rid := role.ID
		admin := models.User{
			Username: "admin",
			RoleID:   &rid,
		}
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		admin.HashedPassword = hashedPassword
		db.Create(&admin)
		log.Info("Seeded admin user: username=admin, password=admin123")
	}
	ensureUploadBase()
}

// ensureUploadBase creates the base uploads directory.
func ensureUploadBase() {
	base := config.Config.Uploads.BaseDir
	if err := os.MkdirAll(base, 0755); err != nil {
		log.Warnf("failed to create upload base dir %s: %v", base, err)
	}
}
