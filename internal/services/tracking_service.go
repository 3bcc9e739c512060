// Package services contains the business logic layer for the tracking server
package services

import (
	"errors"
	"fmt"
	"time"

	customerrors "github.com/reviewpulse/trackserver/internal/errors"
	"github.com/reviewpulse/trackserver/internal/metrics"
	"github.com/reviewpulse/trackserver/internal/models"
	"github.com/reviewpulse/trackserver/internal/repository"
	"go.uber.org/zap"
)

// minTrackingIDLength is the only validation applied to inbound
// identifiers. No RFC-4122 parsing is done on purpose, so the issuing
// process can change identifier schemes without breaking old links.
const minTrackingIDLength = 10

// fallbackRedirectURL is the last resort of the redirect chain; every
// successful hit redirects somewhere even with completely sparse business
// data.
const fallbackRedirectURL = "https://www.google.com/maps/search/?api=1&query=customer+reviews"

// ClickContext carries the request metadata captured for click tracking.
type ClickContext struct {
	IPAddress string
	UserAgent string
	Referer   string
	// StartedAt is when the HTTP handler began processing; the elapsed time
	// to the mutation is recorded in the click metadata.
	StartedAt time.Time
}

// ClickResult is what the handler needs to build the redirect response.
type ClickResult struct {
	Request      *models.ReviewRequest
	RedirectURL  string
	IsFirstClick bool
}

// TrackingService implements the tracking sequence: validate, look up,
// gate on activity, record the click, resolve the redirect URL.
type TrackingService struct {
	requestRepo repository.ReviewRequestRepository
	eventRepo   repository.EventRepository
	metrics     *metrics.Metrics
	log         *zap.Logger
}

// NewTrackingService creates and returns a new TrackingService.
func NewTrackingService(requestRepo repository.ReviewRequestRepository, eventRepo repository.EventRepository, m *metrics.Metrics, log *zap.Logger) *TrackingService {
	if m == nil {
		m = metrics.NewNop()
	}
	return &TrackingService{
		requestRepo: requestRepo,
		eventRepo:   eventRepo,
		metrics:     m,
		log:         log,
	}
}

// TrackClick resolves a tracking identifier, records the click and returns
// the redirect target.
//
// Error mapping for the caller:
//   - ErrInvalidTrackingID: identifier too short, no store access happened
//   - ErrTrackingIDNotFound: unknown identifier, no writes happened
//   - ErrRequestInactive: deactivated or opted out, no writes happened
//   - anything else: unexpected fault, nothing is guaranteed recorded
//
// On success exactly one audit event has been durably written, and on a
// first click the request row transition committed in the same transaction.
func (s *TrackingService) TrackClick(trackingID string, click ClickContext) (*ClickResult, error) {
	if len(trackingID) < minTrackingIDLength {
		s.metrics.TrackingHits.WithLabelValues("invalid").Inc()
		return nil, customerrors.ErrInvalidTrackingID
	}

	request, err := s.requestRepo.FindByTrackingUUID(trackingID)
	if err != nil {
		if errors.Is(err, customerrors.ErrTrackingIDNotFound) {
			s.metrics.TrackingHits.WithLabelValues("not_found").Inc()
			return nil, err
		}
		s.metrics.TrackingHits.WithLabelValues("error").Inc()
		return nil, err
	}

	// The activity gate runs before any mutation. Opted-out or deactivated
	// requests must never receive a click timestamp or a new event.
	if !request.Trackable() {
		s.metrics.TrackingHits.WithLabelValues("inactive").Inc()
		return nil, customerrors.ErrRequestInactive
	}

	isFirstClick := !request.Clicked()
	if isFirstClick {
		err = s.recordFirstClick(request, click)
		if errors.Is(err, customerrors.ErrAlreadyClicked) {
			// A concurrent hit won the conditional update. Re-read the row
			// so previousClickAt reflects the winner's timestamp, then
			// record this hit as a repeat.
			request, err = s.requestRepo.FindByTrackingUUID(trackingID)
			if err == nil {
				isFirstClick = false
				err = s.recordRepeatClick(request, click)
			}
		}
	} else {
		err = s.recordRepeatClick(request, click)
	}
	if err != nil {
		s.metrics.TrackingHits.WithLabelValues("error").Inc()
		return nil, err
	}

	if isFirstClick {
		s.metrics.TrackingHits.WithLabelValues("first_click").Inc()
	} else {
		s.metrics.TrackingHits.WithLabelValues("repeat_click").Inc()
	}

	redirectURL, source := ResolveRedirectURL(request)
	s.metrics.RedirectSource.WithLabelValues(source).Inc()

	return &ClickResult{
		Request:      request,
		RedirectURL:  redirectURL,
		IsFirstClick: isFirstClick,
	}, nil
}

// recordFirstClick performs the transactional update+insert for the first
// click on a request.
func (s *TrackingService) recordFirstClick(request *models.ReviewRequest, click ClickContext) error {
	now := time.Now().UTC()

	clickMetadata := models.JSONMap{
		"userAgent":      click.UserAgent,
		"ipAddress":      click.IPAddress,
		"referer":        click.Referer,
		"timestamp":      now.Format(time.RFC3339Nano),
		"trackingServer": true,
		"responseTime":   now.Sub(click.StartedAt).Milliseconds(),
	}

	event := s.buildClickEvent(request, click, models.JSONMap{"isFirstClick": true})

	if err := s.requestRepo.RecordFirstClick(request.ID, now, clickMetadata, event); err != nil {
		return err
	}

	// Keep the in-memory copy aligned with what was committed, since the
	// handler renders from it.
	request.ClickedAt = &now
	request.Status = models.StatusClicked
	request.ClickMetadata = clickMetadata

	s.log.Info("first click recorded",
		zap.String("tracking_uuid", request.TrackingUUID),
		zap.Uint("review_request_id", request.ID),
		zap.Uint("business_id", request.BusinessID))
	return nil
}

// recordRepeatClick appends an audit event for a hit after the first click.
// The request row itself is never touched again.
func (s *TrackingService) recordRepeatClick(request *models.ReviewRequest, click ClickContext) error {
	extra := models.JSONMap{
		"isFirstClick": false,
		"repeatClick":  true,
	}
	if request.ClickedAt != nil {
		extra["previousClickAt"] = request.ClickedAt.UTC().Format(time.RFC3339Nano)
	}

	event := s.buildClickEvent(request, click, extra)
	if err := s.eventRepo.CreateEvent(event); err != nil {
		return customerrors.ErrEventRecordingFailed{ReviewRequestID: request.ID, Reason: err.Error()}
	}

	s.log.Info("repeat click recorded",
		zap.String("tracking_uuid", request.TrackingUUID),
		zap.Uint("review_request_id", request.ID))
	return nil
}

// buildClickEvent assembles the REQUEST_CLICKED audit event shared by the
// first-click and repeat-click paths. extra carries the fields that differ
// between the two.
func (s *TrackingService) buildClickEvent(request *models.ReviewRequest, click ClickContext, extra models.JSONMap) *models.Event {
	metadata := models.JSONMap{
		"trackingUuid":  request.TrackingUUID,
		"customerEmail": request.Customer.Email,
		"userAgent":     click.UserAgent,
		"ipAddress":     click.IPAddress,
		"referer":       click.Referer,
	}
	for k, v := range extra {
		metadata[k] = v
	}

	return &models.Event{
		BusinessID:      request.BusinessID,
		ReviewRequestID: request.ID,
		Type:            models.EventTypeRequestClicked,
		Source:          models.EventSourceTracking,
		Description: fmt.Sprintf("Review link clicked by %s %s",
			request.Customer.FirstName, request.Customer.LastName),
		Metadata: metadata,
	}
}

// ResolveRedirectURL picks the redirect destination in priority order,
// first non-empty wins: the business review page, then the per-request
// override, then the business website, then the hardcoded fallback. The
// second return value names the slot that won, for metrics.
func ResolveRedirectURL(request *models.ReviewRequest) (string, string) {
	switch {
	case request.Business.GoogleReviewURL != "":
		return request.Business.GoogleReviewURL, "google_review_url"
	case request.ReviewURL != "":
		return request.ReviewURL, "review_url"
	case request.Business.Website != "":
		return request.Business.Website, "website"
	default:
		return fallbackRedirectURL, "fallback"
	}
}

// GetRequestStats returns a review request and its recorded event count.
// Used by the stats CLI command.
func (s *TrackingService) GetRequestStats(trackingID string) (*models.ReviewRequest, int, error) {
	request, err := s.requestRepo.FindByTrackingUUID(trackingID)
	if err != nil {
		return nil, 0, err
	}

	totalEvents, err := s.eventRepo.CountByRequestID(request.ID)
	if err != nil {
		return nil, 0, err
	}

	return request, totalEvents, nil
}
