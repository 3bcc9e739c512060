package errors

import (
	"errors"
	"fmt"
)

// Custom error types for the tracking server

// ErrTrackingIDNotFound is returned when no review request matches the tracking identifier
var ErrTrackingIDNotFound = errors.New("tracking identifier not found")

// ErrInvalidTrackingID is returned when the tracking identifier fails the length check
var ErrInvalidTrackingID = errors.New("invalid tracking identifier")

// ErrRequestInactive is returned when the review request is deactivated or opted out
var ErrRequestInactive = errors.New("review request is inactive")

// ErrAlreadyClicked is returned by the first-click transaction when the
// conditional update matched no row, meaning a concurrent hit won the race.
var ErrAlreadyClicked = errors.New("first click already recorded")

// ErrDatabaseConnection is returned when database connection fails
var ErrDatabaseConnection = errors.New("database connection failed")

// ErrEventRecordingFailed is returned when an audit event cannot be persisted
type ErrEventRecordingFailed struct {
	ReviewRequestID uint
	Reason          string
}

func (e ErrEventRecordingFailed) Error() string {
	return fmt.Sprintf("failed to record event for review request %d: %s", e.ReviewRequestID, e.Reason)
}

// ErrURLCheckFailed is returned when a redirect target health check fails
type ErrURLCheckFailed struct {
	URL    string
	Reason string
}

func (e ErrURLCheckFailed) Error() string {
	return fmt.Sprintf("failed to check URL %s: %s", e.URL, e.Reason)
}

// ErrConfigLoad is returned when configuration loading fails
type ErrConfigLoad struct {
	Path   string
	Reason string
}

func (e ErrConfigLoad) Error() string {
	return fmt.Sprintf("failed to load config from %s: %s", e.Path, e.Reason)
}
