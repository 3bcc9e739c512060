package repository

import (
	"fmt"

	"github.com/reviewpulse/trackserver/internal/models"
	"gorm.io/gorm"
)

// EventRepository defines the data access methods for audit events
type EventRepository interface {
	CreateEvent(event *models.Event) error
	CountByRequestID(requestID uint) (int, error)
}

// GormEventRepository is the GORM implementation of EventRepository.
type GormEventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates and returns a new GormEventRepository.
func NewEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

// CreateEvent appends a new audit event. Events are insert-only; nothing in
// this service ever updates or deletes one.
func (r *GormEventRepository) CreateEvent(event *models.Event) error {
	if err := r.db.Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// CountByRequestID counts the audit events recorded for a review request.
func (r *GormEventRepository) CountByRequestID(requestID uint) (int, error) {
	var count int64
	if err := r.db.Model(&models.Event{}).Where("review_request_id = ?", requestID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count events for request ID %d: %w", requestID, err)
	}
	return int(count), nil
}
