// Package metrics exposes Prometheus counters for the connection flow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pulseboard"

var (
	// OAuthStartsTotal counts initiation requests by outcome.
	OAuthStartsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "oauth_starts_total",
		Help:      "The total number of OAuth initiations",
	}, []string{"platform", "outcome"})

	// OAuthCallbacksTotal counts callbacks by outcome (connected or an error code).
	OAuthCallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "oauth_callbacks_total",
		Help:      "The total number of OAuth callbacks",
	}, []string{"platform", "outcome"})

	TokenRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refresh_total",
		Help:      "The total number of access token refresh attempts",
	}, []string{"platform", "outcome"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "The request duration in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Recorder reports connection flow outcomes to the process registry.
type Recorder struct{}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (Recorder) OAuthStarted(platform, outcome string) {
	OAuthStartsTotal.WithLabelValues(platform, outcome).Inc()
}

func (Recorder) OAuthCallback(platform, outcome string) {
	OAuthCallbacksTotal.WithLabelValues(platform, outcome).Inc()
}

func (Recorder) TokenRefreshed(platform, outcome string) {
	TokenRefreshTotal.WithLabelValues(platform, outcome).Inc()
}
