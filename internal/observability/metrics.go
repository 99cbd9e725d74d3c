package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "venturelink_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"path", "method", "status"},
	)

	// CacheHits tracks cache hits/misses
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venturelink_cache_hits_total",
			Help: "Number of cache hits",
		},
		[]string{"operation"},
	)

	// DatabaseOperations tracks database operations
	DatabaseOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venturelink_database_operations_total",
			Help: "Number of database operations",
		},
		[]string{"operation", "status"},
	)

	// ModerationDecisions tracks admin moderation decisions
	ModerationDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venturelink_moderation_decisions_total",
			Help: "Number of moderation decisions by kind and action",
		},
		[]string{"kind", "action"},
	)

	// PitchSubmissions tracks pitch submissions by resulting status
	PitchSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venturelink_pitch_submissions_total",
			Help: "Number of pitch submissions by resulting status",
		},
		[]string{"status"},
	)

	// KeywordRejections tracks pitches auto-rejected by the forbidden keyword scan
	KeywordRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "venturelink_keyword_rejections_total",
			Help: "Number of pitches auto-rejected by the forbidden keyword scan",
		},
	)

	// BlobOperations tracks blob store uploads and deletes
	BlobOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venturelink_blob_operations_total",
			Help: "Number of blob store operations",
		},
		[]string{"operation", "status"},
	)

	// EmailsSent tracks outbound email deliveries
	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venturelink_emails_sent_total",
			Help: "Number of outbound emails by kind and status",
		},
		[]string{"kind", "status"},
	)

	// ActiveConnections tracks active connections
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "venturelink_active_connections",
			Help: "Number of active connections",
		},
	)
)
