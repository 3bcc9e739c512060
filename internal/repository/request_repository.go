package repository

import (
	"errors"
	"fmt"
	"time"

	customerrors "github.com/reviewpulse/trackserver/internal/errors"
	"github.com/reviewpulse/trackserver/internal/models"
	"gorm.io/gorm"
)

// ReviewRequestRepository defines the data access methods for review requests
type ReviewRequestRepository interface {
	FindByTrackingUUID(trackingUUID string) (*models.ReviewRequest, error)
	RecordFirstClick(requestID uint, clickedAt time.Time, clickMetadata models.JSONMap, event *models.Event) error
	ListActive() ([]models.ReviewRequest, error)
	Create(request *models.ReviewRequest) error
}

// GormReviewRequestRepository is the GORM implementation of ReviewRequestRepository.
type GormReviewRequestRepository struct {
	db *gorm.DB
}

// NewReviewRequestRepository creates and returns a new GormReviewRequestRepository.
func NewReviewRequestRepository(db *gorm.DB) *GormReviewRequestRepository {
	return &GormReviewRequestRepository{db: db}
}

// FindByTrackingUUID looks up a review request by its opaque tracking
// identifier with Customer and Business eagerly loaded, since the handler
// needs both for the redirect page and the audit event.
func (r *GormReviewRequestRepository) FindByTrackingUUID(trackingUUID string) (*models.ReviewRequest, error) {
	var request models.ReviewRequest
	err := r.db.
		Preload("Customer").
		Preload("Business").
		Where("tracking_uuid = ?", trackingUUID).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customerrors.ErrTrackingIDNotFound
		}
		return nil, fmt.Errorf("failed to look up tracking uuid: %w", err)
	}
	return &request, nil
}

// RecordFirstClick performs the first-click transition atomically: the
// request update and the audit event insert commit together or not at all.
//
// The update is conditional on clicked_at still being NULL. If a concurrent
// hit already recorded the first click, zero rows match and the whole
// transaction is abandoned with ErrAlreadyClicked so the caller can fall
// back to the repeat-click path. This keeps "clicked_at is set exactly
// once" true even under simultaneous requests for the same identifier.
func (r *GormReviewRequestRepository) RecordFirstClick(requestID uint, clickedAt time.Time, clickMetadata models.JSONMap, event *models.Event) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ReviewRequest{}).
			Where("id = ? AND clicked_at IS NULL", requestID).
			Updates(map[string]interface{}{
				"clicked_at":     clickedAt,
				"status":         models.StatusClicked,
				"click_metadata": clickMetadata,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update review request %d: %w", requestID, result.Error)
		}
		if result.RowsAffected == 0 {
			return customerrors.ErrAlreadyClicked
		}

		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("failed to insert click event for request %d: %w", requestID, err)
		}
		return nil
	})
}

// ListActive returns all active, non-opted-out review requests with their
// business loaded. Used by the redirect target monitor.
func (r *GormReviewRequestRepository) ListActive() ([]models.ReviewRequest, error) {
	var requests []models.ReviewRequest
	err := r.db.
		Preload("Business").
		Where("is_active = ? AND status <> ?", true, models.StatusOptedOut).
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active review requests: %w", err)
	}
	return requests, nil
}

// Create inserts a new review request. Used by the issuing CLI, not by the
// tracking endpoint.
func (r *GormReviewRequestRepository) Create(request *models.ReviewRequest) error {
	if err := r.db.Create(request).Error; err != nil {
		return fmt.Errorf("failed to create review request: %w", err)
	}
	return nil
}
