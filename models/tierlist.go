package models

import "time"

// TierList sorts albums into ranked rows (S/A/B/C plus an unranked lane by
// default). Row labels and colors are user-customizable.
type TierList struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time `gorm:"index"`
	UserID    uint       `gorm:"index;not null"`
	Title     string     `gorm:"size:255;not null"`
	ShareSlug string     `gorm:"size:64;uniqueIndex;not null"`
	Rows      []TierRow  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// TierRow is one lane of a tier list. Unranked marks the holding lane new
// albums land in before the user drags them into a tier.
type TierRow struct {
	ID         uint `gorm:"primaryKey"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	TierListID uint        `gorm:"index;not null"`
	Position   int         `gorm:"not null"`
	Label      string      `gorm:"size:32;not null"`
	Color      string      `gorm:"size:16"` // hex, e.g. #ff7f7f
	Unranked   bool        `gorm:"default:false"`
	Entries    []TierEntry `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// TierEntry is one album placed in a row.
type TierEntry struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	TierRowID   uint   `gorm:"index;not null"`
	Position    int    `gorm:"not null"`
	SpotifyID   string `gorm:"size:64;not null"`
	Name        string `gorm:"size:255;not null"`
	Artists     string `gorm:"size:512"`
	ImageURL    string `gorm:"size:512"`
	ReleaseDate string `gorm:"size:32"`
	SpotifyURL  string `gorm:"size:512"`
}

// DefaultTierRows returns the initial lane layout for a new tier list.
func DefaultTierRows() []TierRow {
	return []TierRow{
		{Position: 0, Label: "S", Color: "#ff7f7f"},
		{Position: 1, Label: "A", Color: "#ffbf7f"},
		{Position: 2, Label: "B", Color: "#ffff7f"},
		{Position: 3, Label: "C", Color: "#7fff7f"},
		{Position: 4, Label: "Unranked", Color: "#3f3f46", Unranked: true},
	}
}
