// Package metrics holds the Prometheus collectors of the exchange flows.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder groups the exchange collectors. A nil *Recorder records nothing.
type Recorder struct {
	ExchangesTotal         *prometheus.CounterVec
	ExchangeDuration       *prometheus.HistogramVec
	BackendRequestsTotal   *prometheus.CounterVec
	BackendRequestDuration *prometheus.HistogramVec
	HostCallsTotal         *prometheus.CounterVec
}

var (
	defaultOnce     sync.Once
	defaultRecorder *Recorder
)

// Default returns the recorder registered on the default registerer. It is created once.
func Default() *Recorder {
	defaultOnce.Do(func() {
		defaultRecorder = NewRecorder(prometheus.DefaultRegisterer)
	})
	return defaultRecorder
}

// NewRecorder registers the collectors on reg. A nil reg returns Default().
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		return Default()
	}
	factory := promauto.With(reg)

	return &Recorder{
		ExchangesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "exchange_sdk_exchanges_total",
			Help: "Exchange orchestrations by type and outcome",
		}, []string{"type", "outcome", "code"}),
		ExchangeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "exchange_sdk_exchange_duration_seconds",
			Help:    "Duration of exchange orchestrations",
			Buckets: prometheus.DefBuckets,
		}, []string{"type"}),
		BackendRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "exchange_sdk_backend_requests_total",
			Help: "Requests sent to the exchange backend",
		}, []string{"type", "endpoint", "status"}),
		BackendRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "exchange_sdk_backend_request_duration_seconds",
			Help:    "Latency of exchange backend requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"type", "endpoint"}),
		HostCallsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "exchange_sdk_host_calls_total",
			Help: "JSON-RPC calls made to the host wallet",
		}, []string{"method", "status"}),
	}
}

// ObserveExchange records the outcome of one orchestration.
func (r *Recorder) ObserveExchange(exchangeType, outcome, code string, started time.Time) {
	if r == nil {
		return
	}
	r.ExchangesTotal.WithLabelValues(exchangeType, outcome, code).Inc()
	r.ExchangeDuration.WithLabelValues(exchangeType).Observe(time.Since(started).Seconds())
}

// ObserveBackend records one backend request.
func (r *Recorder) ObserveBackend(exchangeType, endpoint, status string, started time.Time) {
	if r == nil {
		return
	}
	r.BackendRequestsTotal.WithLabelValues(exchangeType, endpoint, status).Inc()
	r.BackendRequestDuration.WithLabelValues(exchangeType, endpoint).Observe(time.Since(started).Seconds())
}

// ObserveHostCall records one host wallet call.
func (r *Recorder) ObserveHostCall(method, status string) {
	if r == nil {
		return
	}
	r.HostCallsTotal.WithLabelValues(method, status).Inc()
}
