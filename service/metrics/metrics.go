package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the application.
// Following the explicit dependency injection pattern, this struct
// is passed to all components that need to record metrics.
type Metrics struct {
	// Solana RPC metrics
	solanaRPCCallsTotal   *prometheus.CounterVec
	solanaRPCCallDuration *prometheus.HistogramVec

	// Transfer metrics
	transfersTotal           *prometheus.CounterVec
	lamportsTransferredTotal *prometheus.CounterVec
	confirmationWaitDuration *prometheus.HistogramVec

	// NATS metrics
	natsEventsPublished *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance and registers all collectors.
// If registry is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &Metrics{
		solanaRPCCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solana_rpc_calls_total",
				Help: "Total number of Solana RPC calls by method and status",
			},
			[]string{"method", "status", "endpoint"},
		),
		solanaRPCCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "solana_rpc_call_duration_seconds",
				Help:    "Duration of Solana RPC calls in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"method", "endpoint"},
		),
		transfersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transfers_total",
				Help: "Total number of transfer attempts by terminal outcome",
			},
			[]string{"endpoint", "outcome"},
		),
		lamportsTransferredTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lamports_transferred_total",
				Help: "Total lamports moved by confirmed transfers",
			},
			[]string{"endpoint"},
		),
		confirmationWaitDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "transfer_confirmation_wait_seconds",
				Help:    "Time spent waiting for a submitted transfer to reach the requested commitment",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
			},
			[]string{"endpoint"},
		),
		natsEventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nats_transfer_events_published_total",
				Help: "Total number of transfer receipt events published to NATS",
			},
			[]string{"status"},
		),
	}
}

// RecordRPCCall records a Solana RPC call with its duration.
func (m *Metrics) RecordRPCCall(method, status, endpoint string, durationSeconds float64) {
	m.solanaRPCCallsTotal.WithLabelValues(method, status, endpoint).Inc()
	m.solanaRPCCallDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}

// RecordTransfer records a transfer reaching a terminal outcome. Failure
// outcomes are the error kind strings (insufficient_balance, network,
// rejected_by_chain, timeout); success is "confirmed".
func (m *Metrics) RecordTransfer(endpoint, outcome string) {
	m.transfersTotal.WithLabelValues(endpoint, outcome).Inc()
}

// RecordLamportsTransferred adds the lamports moved by a confirmed transfer.
func (m *Metrics) RecordLamportsTransferred(endpoint string, lamports float64) {
	m.lamportsTransferredTotal.WithLabelValues(endpoint).Add(lamports)
}

// RecordConfirmationWait records how long a submission waited for its
// commitment level, whether or not it got there.
func (m *Metrics) RecordConfirmationWait(endpoint string, durationSeconds float64) {
	m.confirmationWaitDuration.WithLabelValues(endpoint).Observe(durationSeconds)
}

// RecordNATSPublish records a receipt publish attempt.
func (m *Metrics) RecordNATSPublish(status string) {
	m.natsEventsPublished.WithLabelValues(status).Inc()
}
