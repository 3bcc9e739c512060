package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	customerrors "github.com/reviewpulse/trackserver/internal/errors"
	"github.com/reviewpulse/trackserver/internal/models"
	"github.com/reviewpulse/trackserver/internal/services"
)

// MockRequestRepository is a mock implementation of repository.ReviewRequestRepository
type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) FindByTrackingUUID(trackingUUID string) (*models.ReviewRequest, error) {
	args := m.Called(trackingUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewRequest), args.Error(1)
}

func (m *MockRequestRepository) RecordFirstClick(requestID uint, clickedAt time.Time, clickMetadata models.JSONMap, event *models.Event) error {
	args := m.Called(requestID, clickedAt, clickMetadata, event)
	return args.Error(0)
}

func (m *MockRequestRepository) ListActive() ([]models.ReviewRequest, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewRequest), args.Error(1)
}

func (m *MockRequestRepository) Create(request *models.ReviewRequest) error {
	args := m.Called(request)
	return args.Error(0)
}

// MockEventRepository is a mock implementation of repository.EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) CreateEvent(event *models.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockEventRepository) CountByRequestID(requestID uint) (int, error) {
	args := m.Called(requestID)
	return args.Int(0), args.Error(1)
}

func newTestRouter(requestRepo *MockRequestRepository, eventRepo *MockEventRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SecurityHeadersMiddleware())

	svc := services.NewTrackingService(requestRepo, eventRepo, nil, zap.NewNop())
	SetupRoutes(router, svc, nil, zap.NewNop())
	return router
}

func trackableRequest(trackingUUID string) *models.ReviewRequest {
	return &models.ReviewRequest{
		ID:           11,
		TrackingUUID: trackingUUID,
		Status:       models.StatusPending,
		IsActive:     true,
		CustomerID:   2,
		Customer:     models.Customer{ID: 2, FirstName: "Linus", Email: "linus@example.com"},
		BusinessID:   4,
		Business: models.Business{
			ID:              4,
			Name:            "Penguin Repairs",
			GoogleReviewURL: "https://g.page/r/penguin/review",
		},
	}
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("User-Agent", "test-agent")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(new(MockRequestRepository), new(MockEventRepository))

	w := get(router, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ok", response["status"])
}

func TestServiceInfo(t *testing.T) {
	router := newTestRouter(new(MockRequestRepository), new(MockEventRepository))

	w := get(router, "/")

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, serviceName, response["service"])
}

func TestTrackClick_ShortIdentifierReturns400(t *testing.T) {
	requestRepo := new(MockRequestRepository)
	router := newTestRouter(requestRepo, new(MockEventRepository))

	w := get(router, "/abc")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Invalid Link")
	requestRepo.AssertNotCalled(t, "FindByTrackingUUID", mock.Anything)
}

func TestTrackClick_UnknownIdentifierReturns404(t *testing.T) {
	requestRepo := new(MockRequestRepository)
	router := newTestRouter(requestRepo, new(MockEventRepository))

	requestRepo.On("FindByTrackingUUID", "not-a-real-uuid").
		Return(nil, customerrors.ErrTrackingIDNotFound)

	w := get(router, "/not-a-real-uuid")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Link Not Found")
}

func TestTrackClick_InactiveRequestReturns410(t *testing.T) {
	requestRepo := new(MockRequestRepository)
	eventRepo := new(MockEventRepository)
	router := newTestRouter(requestRepo, eventRepo)

	request := trackableRequest("uuid-gone-00001")
	request.IsActive = false
	requestRepo.On("FindByTrackingUUID", request.TrackingUUID).Return(request, nil)

	w := get(router, "/"+request.TrackingUUID)

	assert.Equal(t, http.StatusGone, w.Code)
	assert.Contains(t, w.Body.String(), "Link Inactive")
	eventRepo.AssertNotCalled(t, "CreateEvent", mock.Anything)
}

func TestTrackClick_FirstClickReturnsRedirectPage(t *testing.T) {
	requestRepo := new(MockRequestRepository)
	router := newTestRouter(requestRepo, new(MockEventRepository))

	request := trackableRequest("uuid-first-00001")
	requestRepo.On("FindByTrackingUUID", request.TrackingUUID).Return(request, nil)
	requestRepo.On("RecordFirstClick", request.ID, mock.AnythingOfType("time.Time"), mock.Anything, mock.Anything).
		Return(nil)

	w := get(router, "/"+request.TrackingUUID)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	body := w.Body.String()
	assert.Contains(t, body, "Penguin Repairs")
	assert.Contains(t, body, "https://g.page/r/penguin/review")
	assert.Contains(t, body, "Linus")
	assert.Contains(t, body, "Thanks for clicking!")
	assert.Contains(t, body, "http-equiv=\"refresh\"")
}

func TestTrackClick_RepeatClickShowsRepeatBadge(t *testing.T) {
	requestRepo := new(MockRequestRepository)
	eventRepo := new(MockEventRepository)
	router := newTestRouter(requestRepo, eventRepo)

	clicked := time.Now().Add(-time.Hour)
	request := trackableRequest("uuid-repeat-0001")
	request.Status = models.StatusClicked
	request.ClickedAt = &clicked
	requestRepo.On("FindByTrackingUUID", request.TrackingUUID).Return(request, nil)
	eventRepo.On("CreateEvent", mock.Anything).Return(nil)

	w := get(router, "/"+request.TrackingUUID)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Welcome back")
	requestRepo.AssertNotCalled(t, "RecordFirstClick", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTrackClick_StoreFailureReturns500WithoutDetail(t *testing.T) {
	requestRepo := new(MockRequestRepository)
	router := newTestRouter(requestRepo, new(MockEventRepository))

	request := trackableRequest("uuid-fault-00001")
	requestRepo.On("FindByTrackingUUID", request.TrackingUUID).Return(request, nil)
	requestRepo.On("RecordFirstClick", request.ID, mock.AnythingOfType("time.Time"), mock.Anything, mock.Anything).
		Return(errors.New("connection refused to db host 10.0.0.5"))

	w := get(router, "/"+request.TrackingUUID)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Something Went Wrong")
	// Internal details never reach the client
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestUnroutedPathReturnsNotFoundPage(t *testing.T) {
	router := newTestRouter(new(MockRequestRepository), new(MockEventRepository))

	w := get(router, "/some/nested/path")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page Not Found")
}

func TestSecurityHeadersPresent(t *testing.T) {
	router := newTestRouter(new(MockRequestRepository), new(MockEventRepository))

	w := get(router, "/health")

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
