// Package metrics exposes Prometheus instrumentation and runtime memory
// readings for factcalc.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/factcalc/internal/factorial"
)

const namespace = "factcalc"

// Recorder owns a private Prometheus registry so that several recorders,
// one per test for instance, never collide on the global one.
type Recorder struct {
	registry *prometheus.Registry

	computations *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	workers      prometheus.Gauge
	inFlight     prometheus.Gauge

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewRecorder creates a Recorder with Go runtime and process collectors
// registered alongside the factcalc metrics.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		computations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "computations_total",
			Help:      "Factorial computations by terminal outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "computation_duration_seconds",
			Help:      "Wall-clock time from request to outcome.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"outcome"}),
		workers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workers",
			Help:      "Workers used by the most recent computation.",
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "computations_in_flight",
			Help:      "Computations currently running.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.computations, r.duration, r.workers, r.inFlight,
		r.httpRequests, r.httpDuration,
	)
	for _, kind := range []factorial.OutcomeKind{
		factorial.KindFactorial, factorial.KindTimeout, factorial.KindAborted, factorial.KindFailed,
	} {
		r.computations.WithLabelValues(kind.String())
	}
	return r
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ComputationStarted marks a computation as in flight. The returned func
// must be called once it resolves.
func (r *Recorder) ComputationStarted() func() {
	r.inFlight.Inc()
	return r.inFlight.Dec
}

// RecordOutcome counts out and observes its duration.
func (r *Recorder) RecordOutcome(out factorial.Outcome) {
	label := out.Kind.String()
	r.computations.WithLabelValues(label).Inc()
	r.duration.WithLabelValues(label).Observe(out.Elapsed.Seconds())
	r.workers.Set(float64(out.Workers))
}

// ObserveHTTPRequest records one served request. path should be a route
// pattern, not a raw URL, to keep label cardinality bounded.
func (r *Recorder) ObserveHTTPRequest(method, path string, status int, elapsed time.Duration) {
	r.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// WriteTextfile writes the registry to path in the node_exporter textfile
// format. The write is atomic.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
