package models

import "time"

// Event type and source constants emitted by this service.
const (
	EventTypeRequestClicked = "REQUEST_CLICKED"
	EventSourceTracking     = "tracking_server"
)

// Event is an append-only audit record. Exactly one event is created per
// tracking hit on an active request, first click or repeat. Events are
// never updated or deleted.
type Event struct {
	ID uint `gorm:"primaryKey"`

	// BusinessID is denormalized from the review request so per-business
	// event queries don't need a join.
	BusinessID uint `gorm:"index;not null"`

	ReviewRequestID uint          `gorm:"index;not null"`
	ReviewRequest   ReviewRequest `gorm:"foreignKey:ReviewRequestID"`

	Type        string  `gorm:"size:50;not null"`
	Source      string  `gorm:"size:50;not null"`
	Description string  `gorm:"size:512"`
	Metadata    JSONMap `gorm:"type:text"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}
