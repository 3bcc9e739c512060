package models

import "time"

// Business is the merchant a review request belongs to. Read-only for the
// tracking server; its URLs feed the redirect resolution chain.
type Business struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:255;not null"`

	// GoogleReviewURL is the preferred redirect target when present.
	GoogleReviewURL string `gorm:"size:2048"`

	// Website is the last resort before the hardcoded fallback.
	Website string `gorm:"size:2048"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}
