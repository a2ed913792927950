// Package telemetry exposes prometheus metrics for the chat server.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// MessagesSent counts text messages accepted into the queue.
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_messages_sent_total",
		Help: "Number of text messages accepted.",
	})

	// MessagesEvicted counts messages removed by the retention policy.
	MessagesEvicted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_messages_evicted_total",
		Help: "Number of messages evicted to enforce the queue limit.",
	})

	// MessagesDeleted counts owner-initiated deletions.
	MessagesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_messages_deleted_total",
		Help: "Number of messages deleted by their owner.",
	})

	// Uploads counts accepted file uploads.
	Uploads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_uploads_total",
		Help: "Number of file uploads accepted.",
	})

	// PollDuration observes how long poll requests waited before responding.
	PollDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "chat_poll_duration_seconds",
		Help:    "Time poll requests spent waiting for new messages.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})

	// RateLimited counts requests rejected by the rate limiter.
	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_rate_limited_total",
		Help: "Number of requests rejected by rate limiting.",
	})
)

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
