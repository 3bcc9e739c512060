package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus collectors exposed on /metrics.
type Metrics struct {
	// TrackingHits counts tracking endpoint hits by outcome:
	// first_click, repeat_click, invalid, not_found, inactive, error.
	TrackingHits *prometheus.CounterVec

	// RedirectSource counts which field of the fallback chain produced the
	// final redirect URL: google_review_url, review_url, website, fallback.
	RedirectSource *prometheus.CounterVec
}

// New registers the service collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TrackingHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trackserver",
			Name:      "tracking_hits_total",
			Help:      "Tracking endpoint hits by outcome.",
		}, []string{"outcome"}),
		RedirectSource: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trackserver",
			Name:      "redirect_source_total",
			Help:      "Resolved redirect URL source by priority slot.",
		}, []string{"source"}),
	}
}

// NewNop returns metrics backed by a throwaway registry, for tests and for
// callers that don't expose /metrics.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
