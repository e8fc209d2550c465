package models

import "time"

// Review is a user's ordered, annotated album list. ShareSlug makes the
// rendered review page reachable without authentication.
type Review struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time    `gorm:"index"`
	UserID    uint          `gorm:"index;not null"`
	Title     string        `gorm:"size:255;not null"`
	ShareSlug string        `gorm:"size:64;uniqueIndex;not null"`
	Albums    []ReviewAlbum `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// ReviewAlbum is one album entry in a review. Position is the drag-and-drop
// order; Rating is 0-10 halves encoded as 0-20 elsewhere in the frontend but
// stored here as the raw user value.
type ReviewAlbum struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ReviewID    uint   `gorm:"index;not null"`
	Position    int    `gorm:"not null"`
	SpotifyID   string `gorm:"size:64;not null"`
	Name        string `gorm:"size:255;not null"`
	Artists     string `gorm:"size:512"` // comma-joined display names
	ImageURL    string `gorm:"size:512"`
	ReleaseDate string `gorm:"size:32"`
	SpotifyURL  string `gorm:"size:512"`
	Rating      *float64
	Note        string `gorm:"size:2000"`
}
