package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ingest Metrics
var (
	// IngestMessagesTotal tracks payloads consumed from the feed
	IngestMessagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_messages_total",
			Help: "Total payloads consumed from the pub/sub feed",
		},
	)

	// IngestBytesTotal tracks payload bytes consumed from the feed
	IngestBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_bytes_total",
			Help: "Total payload bytes consumed from the pub/sub feed",
		},
	)

	// FeedDisconnectsTotal tracks fatal feed connection losses
	FeedDisconnectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_disconnects_total",
			Help: "Total fatal feed connection losses",
		},
	)

	// ReadingDecodeFailuresTotal tracks payloads a consumer could not decode
	ReadingDecodeFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reading_decode_failures_total",
			Help: "Total payloads skipped because they did not decode to a reading",
		},
	)
)

// Broadcaster Metrics
var (
	// BroadcasterConnectedClients tracks the number of registered viewer sessions
	BroadcasterConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "broadcaster_connected_clients",
			Help: "Number of currently registered viewer sessions",
		},
	)

	// BroadcasterRegistrationsTotal tracks session registrations
	BroadcasterRegistrationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "broadcaster_registrations_total",
			Help: "Total viewer session registrations",
		},
	)

	// BroadcasterSlowClientsEvicted tracks sessions dropped for full send buffers
	BroadcasterSlowClientsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "broadcaster_slow_clients_evicted_total",
			Help: "Total viewer sessions evicted because their send buffer was full",
		},
	)

	// BroadcasterMessagesTotal tracks per-session deliveries attempted
	BroadcasterMessagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "broadcaster_messages_total",
			Help: "Total per-session payload deliveries enqueued",
		},
	)
)

// WebSocket Metrics
var (
	// WebSocketMessageSendDuration tracks message write latency in seconds
	WebSocketMessageSendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "websocket_message_send_duration_seconds",
			Help:    "WebSocket message write duration in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
	)

	// WebSocketPingFailures tracks failed keepalive pings
	WebSocketPingFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_ping_failures_total",
			Help: "Total failed WebSocket keepalive pings",
		},
	)

	// ConnectionsRejectedTotal tracks connections refused by limiters
	ConnectionsRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connections_rejected_total",
			Help: "Total connections rejected by reason",
		},
		[]string{"reason"},
	)
)
