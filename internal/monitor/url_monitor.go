package monitor

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/reviewpulse/trackserver/internal/repository"
	"github.com/reviewpulse/trackserver/internal/services"
	"go.uber.org/zap"
)

// RedirectMonitor periodically probes the redirect destinations of active
// review requests so a broken review page is noticed before customers start
// landing on it. It keeps the previous state per URL and logs transitions.
type RedirectMonitor struct {
	requestRepo repository.ReviewRequestRepository
	interval    time.Duration
	knownStates map[string]bool // URL -> reachable at last check
	mu          sync.Mutex
	httpClient  *http.Client
	log         *zap.Logger
}

// NewRedirectMonitor creates and returns a new RedirectMonitor.
// interval determines how frequently the targets are checked.
func NewRedirectMonitor(requestRepo repository.ReviewRequestRepository, interval time.Duration, log *zap.Logger) *RedirectMonitor {
	return &RedirectMonitor{
		requestRepo: requestRepo,
		interval:    interval,
		knownStates: make(map[string]bool),
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		log:         log,
	}
}

// Start runs the periodic check loop until ctx is cancelled.
func (m *RedirectMonitor) Start(ctx context.Context) {
	m.log.Info("starting redirect target monitor", zap.Duration("interval", m.interval))
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	// Immediate check on startup before the first tick
	m.checkTargets(ctx)

	for {
		select {
		case <-ctx.Done():
			m.log.Info("redirect target monitor stopped")
			return
		case <-ticker.C:
			m.checkTargets(ctx)
		}
	}
}

// checkTargets resolves the redirect URL of every active request the same
// way the tracking handler would, deduplicates, and probes each target.
func (m *RedirectMonitor) checkTargets(ctx context.Context) {
	requests, err := m.requestRepo.ListActive()
	if err != nil {
		m.log.Error("failed to list active requests for monitoring", zap.Error(err))
		return
	}

	targets := make(map[string]struct{})
	for i := range requests {
		url, _ := services.ResolveRedirectURL(&requests[i])
		targets[url] = struct{}{}
	}

	for url := range targets {
		currentState := m.isReachable(ctx, url)

		m.mu.Lock()
		previousState, seen := m.knownStates[url]
		m.knownStates[url] = currentState
		m.mu.Unlock()

		if !seen {
			m.log.Debug("initial redirect target state",
				zap.String("url", url), zap.Bool("reachable", currentState))
			continue
		}

		if currentState != previousState {
			if currentState {
				m.log.Info("redirect target recovered", zap.String("url", url))
			} else {
				m.log.Warn("redirect target became unreachable", zap.String("url", url))
			}
		}
	}
}

// isReachable performs an HTTP HEAD request against the target. 2xx and 3xx
// count as reachable; 4xx/5xx and transport errors do not.
func (m *RedirectMonitor) isReachable(ctx context.Context, url string) bool {
	reqCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodHead, url, nil)
	if err != nil {
		m.log.Debug("failed to build probe request", zap.String("url", url), zap.Error(err))
		return false
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 400
}
