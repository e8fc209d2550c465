package models

import (
	"time"
)

// Upload represents a screenshot submitted to the image import pipeline. The
// raw OCR text is kept so the user can inspect what the engine actually read.
type Upload struct {
	ID             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	UserID         uint    `gorm:"index;not null"`
	FileName       string  `gorm:"size:255;not null"`
	StorePath      string  `gorm:"column:store_path;size:512"`
	ContentType    string  `gorm:"size:128"`
	OCRText        string  `gorm:"column:ocr_text"`
	OCRConfidence  float64 `gorm:"column:ocr_confidence"`
	CandidateCount int
	// Mark upload as failed for OCR processing (do not delete record so front-end/admin can review)
	Failed       bool   `gorm:"default:false;index"`
	FailedReason string `gorm:"size:255"`
}
