package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	EventsIngestedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_events_ingested_total",
			Help: "Total number of canonical events produced by the normalizer (count)",
		},
		[]string{"event"},
	)

	EventsDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_events_dropped_total",
			Help: "Total number of raw envelopes dropped because no canonical event could be derived (count)",
		},
	)

	DispatchUnitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_units_total",
			Help: "Total number of per-tenant dispatch units (count)",
		},
		[]string{"status"},
	)

	DispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dispatch_duration_ms",
			Help:    "Duration of one per-tenant dispatch unit in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		},
		[]string{"status"},
	)

	LogDeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_log_deliveries_total",
			Help: "Total number of log-line delivery attempts by outcome (count)",
		},
		[]string{"status"},
	)

	ScriptRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_script_runs_total",
			Help: "Total number of action-script invocations by outcome (count)",
		},
		[]string{"status"},
	)

	ScriptRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dispatch_script_run_duration_ms",
			Help:    "Duration of one action-script invocation in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
	)

	FanoutProbesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolver_fanout_probes_total",
			Help: "Total number of tenant membership probes by result (count)",
		},
		[]string{"result"},
	)

	DirectoryTenants = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "directory_tenants",
			Help: "Number of tenants currently in the directory (count)",
		},
	)

	ConfigReadFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "config_read_failures_total",
			Help: "Total number of configuration gateway read failures degraded to empty configuration (count)",
		},
		[]string{"operation"},
	)

	ConfigCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "config_cache_total",
			Help: "Total number of configuration cache lookups by outcome (count)",
		},
		[]string{"operation", "outcome"},
	)

	RetryAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retry_attempts_total",
			Help: "Total number of retry attempts (count)",
		},
		[]string{"service", "topic"},
	)

	DLQMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dlq_messages_total",
			Help: "Total number of messages sent to DLQ (count)",
		},
		[]string{"service", "topic", "reason"},
	)

	KafkaMessagesReadTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_read_total",
			Help: "Total number of messages read from Kafka (count)",
		},
		[]string{"service", "topic"},
	)

	KafkaMessagesWrittenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_written_total",
			Help: "Total number of messages written to Kafka (count)",
		},
		[]string{"service", "topic"},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open) (state code)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker (count)",
		},
		[]string{"name", "state"},
	)

	CircuitBreakerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of failures through circuit breaker (count)",
		},
		[]string{"name"},
	)

	RateLimitRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_requests_total",
			Help: "Total number of requests checked against rate limit (count)",
		},
		[]string{"status"},
	)
)

func ObserveDispatchDuration(d time.Duration, status string) {
	DispatchDuration.WithLabelValues(status).Observe(float64(d.Milliseconds()))
}

func ObserveScriptRunDuration(d time.Duration) {
	ScriptRunDuration.Observe(float64(d.Milliseconds()))
}

func RegisterDispatchMetrics() {
	prometheus.MustRegister(EventsIngestedTotal)
	prometheus.MustRegister(EventsDroppedTotal)
	prometheus.MustRegister(DispatchUnitsTotal)
	prometheus.MustRegister(DispatchDuration)
	prometheus.MustRegister(LogDeliveriesTotal)
	prometheus.MustRegister(ScriptRunsTotal)
	prometheus.MustRegister(ScriptRunDuration)
	prometheus.MustRegister(FanoutProbesTotal)
	prometheus.MustRegister(DirectoryTenants)
}

func RegisterBrokerMetrics() {
	prometheus.MustRegister(RetryAttemptsTotal)
	prometheus.MustRegister(DLQMessagesTotal)
	prometheus.MustRegister(KafkaMessagesReadTotal)
	prometheus.MustRegister(KafkaMessagesWrittenTotal)
}

func RegisterManagementMetrics() {
	prometheus.MustRegister(ConfigReadFailuresTotal)
	prometheus.MustRegister(ConfigCacheTotal)
	prometheus.MustRegister(RateLimitRequestsTotal)
}

func RegisterCircuitBreakerMetrics() {
	prometheus.MustRegister(CircuitBreakerState)
	prometheus.MustRegister(CircuitBreakerRequests)
	prometheus.MustRegister(CircuitBreakerFailures)
}
