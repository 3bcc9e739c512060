package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	customerrors "github.com/reviewpulse/trackserver/internal/errors"
	"github.com/reviewpulse/trackserver/internal/pages"
	"github.com/reviewpulse/trackserver/internal/services"
	"go.uber.org/zap"
)

const htmlContentType = "text/html; charset=utf-8"

// serviceName and serviceVersion feed the root info endpoint.
const (
	serviceName    = "review-tracking-server"
	serviceVersion = "1.0.0"
)

// SetupRoutes configures all Gin API routes and injects necessary dependencies.
// The tracking route sits at the root level so links stay as short as
// possible (e.g. https://track.example.com/<tracking-uuid>).
func SetupRoutes(router *gin.Engine, trackingService *services.TrackingService, registry *prometheus.Registry, log *zap.Logger) {
	// Health Check Route - used for monitoring service availability
	router.GET("/health", HealthCheckHandler)

	// Service info at the root, mostly so hitting the bare domain in a
	// browser answers something sensible
	router.GET("/", ServiceInfoHandler)

	if registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	// Tracking Route - resolves the opaque identifier, records the click
	// and serves the redirect page
	router.GET("/:trackingID", TrackClickHandler(trackingService, log))

	// Anything else (multi-segment paths, other methods) gets the generic
	// not-found page
	router.NoRoute(NotFoundHandler)
}

// HealthCheckHandler handles the /health route to verify service status.
// This endpoint is typically used by load balancers and monitoring systems.
func HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ServiceInfoHandler answers the root path with static service metadata.
func ServiceInfoHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": serviceName,
		"version": serviceVersion,
		"status":  "running",
	})
}

// NotFoundHandler serves the generic not-found page for unrouted paths.
func NotFoundHandler(c *gin.Context) {
	c.Data(http.StatusNotFound, htmlContentType, []byte(pages.RenderErrorPage(
		"Page Not Found",
		"The page you are looking for does not exist.",
		"Check the link you followed and try again.",
	)))
}

// TrackClickHandler handles the tracking core: it resolves the identifier,
// records the click and responds with the redirect page. All service
// failures are mapped to the generic error pages here; no internal detail
// ever reaches the response body.
func TrackClickHandler(trackingService *services.TrackingService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		trackingID := c.Param("trackingID")

		result, err := trackingService.TrackClick(trackingID, services.ClickContext{
			IPAddress: c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
			Referer:   c.GetHeader("Referer"),
			StartedAt: start,
		})
		if err != nil {
			respondTrackingError(c, log, trackingID, start, err)
			return
		}

		body := pages.RenderRedirectPage(
			result.Request.Business.Name,
			result.RedirectURL,
			result.Request.Customer.FirstName,
			result.IsFirstClick,
		)
		c.Data(http.StatusOK, htmlContentType, []byte(body))
	}
}

// respondTrackingError maps service errors onto status codes and the error
// pages. Malformed and unknown identifiers are user errors, logged at
// warning level; an inactive request is a valid terminal state, logged at
// info; everything else is a fault.
func respondTrackingError(c *gin.Context, log *zap.Logger, trackingID string, start time.Time, err error) {
	switch {
	case errors.Is(err, customerrors.ErrInvalidTrackingID):
		log.Warn("rejected malformed tracking identifier",
			zap.String("tracking_id", trackingID))
		c.Data(http.StatusBadRequest, htmlContentType, []byte(pages.RenderErrorPage(
			"Invalid Link",
			"This review link is not valid.",
			"Please check the link from your email or message.",
		)))

	case errors.Is(err, customerrors.ErrTrackingIDNotFound):
		log.Warn("tracking identifier not found",
			zap.String("tracking_id", trackingID))
		c.Data(http.StatusNotFound, htmlContentType, []byte(pages.RenderErrorPage(
			"Link Not Found",
			"We could not find this review link.",
			"It may have been removed or never existed.",
		)))

	case errors.Is(err, customerrors.ErrRequestInactive):
		log.Info("tracking hit on inactive request",
			zap.String("tracking_id", trackingID))
		c.Data(http.StatusGone, htmlContentType, []byte(pages.RenderErrorPage(
			"Link Inactive",
			"This review link is no longer active.",
			"No further action is needed on your part.",
		)))

	default:
		log.Error("tracking request failed",
			zap.String("tracking_id", trackingID),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		c.Data(http.StatusInternalServerError, htmlContentType, []byte(pages.RenderErrorPage(
			"Something Went Wrong",
			"We could not process your request right now.",
			"Please try again in a few minutes.",
		)))
	}
}
