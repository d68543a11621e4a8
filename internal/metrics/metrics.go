package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics. A nil *Registry is safe to use and
// records nothing.
type Registry struct {
	*prometheus.Registry

	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	signalsIngested   *prometheus.CounterVec
	notificationsSent *prometheus.CounterVec
	eventsConsumed    *prometheus.CounterVec
}

// NewRegistry creates a metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
		signalsIngested: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signals_ingested_total",
				Help: "Total number of signals persisted, by direction",
			},
			[]string{"direction"},
		),
		notificationsSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifications_sent_total",
				Help: "Total number of high-confidence notifications attempted",
			},
			[]string{"outcome"},
		),
		eventsConsumed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signal_events_consumed_total",
				Help: "Total number of Kafka signal events consumed",
			},
			[]string{"outcome"},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)
	reg.MustRegister(r.signalsIngested)
	reg.MustRegister(r.notificationsSent)
	reg.MustRegister(r.eventsConsumed)

	return r
}

// RecordRequest records one completed HTTP request.
func (r *Registry) RecordRequest(method, path string, status string, duration float64) {
	if r == nil {
		return
	}
	r.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments the in-flight request gauge.
func (r *Registry) InFlightInc() {
	if r == nil {
		return
	}
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements the in-flight request gauge.
func (r *Registry) InFlightDec() {
	if r == nil {
		return
	}
	r.httpRequestsInFlight.Dec()
}

// SignalIngested counts one persisted signal.
func (r *Registry) SignalIngested(direction string) {
	if r == nil {
		return
	}
	r.signalsIngested.WithLabelValues(direction).Inc()
}

// NotificationSent counts one notification attempt.
func (r *Registry) NotificationSent(ok bool) {
	if r == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	r.notificationsSent.WithLabelValues(outcome).Inc()
}

// EventConsumed counts one consumed Kafka event.
func (r *Registry) EventConsumed(outcome string) {
	if r == nil {
		return
	}
	r.eventsConsumed.WithLabelValues(outcome).Inc()
}
