package models

import "time"

// Review request lifecycle statuses. A request is created as PENDING by the
// issuing process, moves to CLICKED on the first successful tracking hit,
// and may be moved to OPTED_OUT by other systems at any time.
const (
	StatusPending  = "PENDING"
	StatusClicked  = "CLICKED"
	StatusOptedOut = "OPTED_OUT"
)

// ReviewRequest represents one outbound review invitation and its click
// state. The TrackingUUID is the opaque key embedded in the link sent to
// the customer; it is never decoded, only matched.
type ReviewRequest struct {
	ID uint `gorm:"primaryKey"`

	// TrackingUUID is globally unique and at least 10 characters by
	// contract with the issuing process.
	TrackingUUID string `gorm:"uniqueIndex;size:64;not null"`

	Status   string `gorm:"size:20;not null;default:PENDING"`
	IsActive bool   `gorm:"not null;default:true"`

	// ClickedAt records the first click only. Repeat clicks never touch it.
	ClickedAt     *time.Time
	ClickMetadata JSONMap `gorm:"type:text"`

	// ReviewURL optionally overrides the business-level review destination.
	ReviewURL string `gorm:"size:2048"`

	CustomerID uint     `gorm:"index;not null"`
	Customer   Customer `gorm:"foreignKey:CustomerID"`

	BusinessID uint     `gorm:"index;not null"`
	Business   Business `gorm:"foreignKey:BusinessID"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Clicked reports whether the first click has already been recorded.
func (r *ReviewRequest) Clicked() bool {
	return r.ClickedAt != nil
}

// Trackable reports whether a tracking hit may record anything at all.
// Deactivated and opted-out requests must never receive writes.
func (r *ReviewRequest) Trackable() bool {
	return r.IsActive && r.Status != StatusOptedOut
}
