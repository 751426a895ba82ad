package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// OutboundRequests counts outbound OICP calls, labeled by operation and outcome.
	OutboundRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oicp_outbound_requests_total",
		Help: "Total number of outbound OICP requests.",
	}, []string{"operation", "outcome"})

	// OutboundDuration observes the round trip of outbound calls, labeled by operation.
	OutboundDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "oicp_outbound_duration_seconds",
		Help:    "Histogram of outbound OICP request durations.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms .. ~25s
	}, []string{"operation"})

	// InboundCommands counts commands received from the roaming partner, labeled by operation and status code.
	InboundCommands = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oicp_inbound_commands_total",
		Help: "Total number of inbound OICP commands answered.",
	}, []string{"operation", "status_code"})

	// SyncRecords counts status records per synchronization bucket.
	SyncRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oicp_sync_records_total",
		Help: "Total number of status records scheduled per synchronization action.",
	}, []string{"action"})

	// SyncCycles counts synchronization cycles, labeled by result.
	SyncCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oicp_sync_cycles_total",
		Help: "Total number of synchronization cycles.",
	}, []string{"result"})

	// ObserverPanics counts panics recovered from observability subscribers.
	ObserverPanics = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oicp_observer_panics_total",
		Help: "Total number of panics recovered from event subscribers.",
	}, []string{"hook"})

	// BreakerState reports the circuit breaker state per endpoint (0 closed, 1 half-open, 2 open).
	BreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "oicp_breaker_state",
		Help: "Circuit breaker state of the outbound SOAP transport.",
	}, []string{"breaker"})

	// EventsPublished counts roaming events published to Kafka, labeled by event kind.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oicp_events_published_total",
		Help: "Total number of roaming events published to the message broker.",
	}, []string{"kind"})

	// EventsDropped counts roaming events discarded because the producer input was full.
	EventsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oicp_events_dropped_total",
		Help: "Total number of roaming events dropped before reaching the message broker.",
	}, []string{"kind"})

	// StatusChangesConsumed counts EVSE status changes consumed from Kafka.
	StatusChangesConsumed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "oicp_status_changes_consumed_total",
		Help: "Total number of EVSE status changes consumed from the message broker.",
	})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
