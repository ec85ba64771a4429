package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "af4bridge"

// Metrics holds the bridge collectors on a private registry, so several
// bridges in one process (tests, the simulator) never collide. A nil
// *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	ticks           prometheus.Counter
	recordsDecoded  prometheus.Counter
	decodeErrors    *prometheus.CounterVec
	framesPublished prometheus.Counter
	framesDropped   *prometheus.CounterVec
	kindMismatches  prometheus.Counter
	unknownIDs      prometheus.Counter
	documentBytes   prometheus.Gauge
	tickDuration    prometheus.Histogram
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// NewMetrics builds and registers every collector, plus the Go runtime and
// process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Update calls handled.",
		}),
		recordsDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_decoded_total",
			Help:      "Records decoded from the inbound stream.",
		}),
		decodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_errors_total",
			Help:      "Ticks whose inbound stream failed to decode completely.",
		}, []string{"reason"}),
		framesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_published_total",
			Help:      "Snapshots written to the shared memory channel.",
		}),
		framesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_dropped_total",
			Help:      "Snapshots not written to the shared memory channel.",
		}, []string{"reason"}),
		kindMismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kind_mismatches_total",
			Help:      "Records whose kind differs from the catalog kind.",
		}),
		unknownIDs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unknown_identifiers_total",
			Help:      "Records whose identifier is not in the catalog.",
		}),
		documentBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "document_bytes",
			Help:      "Size of the last serialized snapshot.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Time spent inside Update.",
			Buckets:   prometheus.ExponentialBuckets(10e-6, 2, 14),
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Admin HTTP requests.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
	m.registry.MustRegister(
		m.ticks, m.recordsDecoded, m.decodeErrors,
		m.framesPublished, m.framesDropped,
		m.kindMismatches, m.unknownIDs,
		m.documentBytes, m.tickDuration,
		m.httpRequests, m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry is the gatherer behind /metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) RecordTick(decoded int, d time.Duration) {
	if m == nil {
		return
	}
	m.ticks.Inc()
	m.recordsDecoded.Add(float64(decoded))
	m.tickDuration.Observe(d.Seconds())
}

func (m *Metrics) RecordDecodeError(reason string) {
	if m == nil {
		return
	}
	m.decodeErrors.WithLabelValues(reason).Inc()
}

func (m *Metrics) RecordPublished(docBytes int) {
	if m == nil {
		return
	}
	m.framesPublished.Inc()
	m.documentBytes.Set(float64(docBytes))
}

func (m *Metrics) RecordDropped(reason string, docBytes int) {
	if m == nil {
		return
	}
	m.framesDropped.WithLabelValues(reason).Inc()
	m.documentBytes.Set(float64(docBytes))
}

func (m *Metrics) RecordKindMismatch() {
	if m == nil {
		return
	}
	m.kindMismatches.Inc()
}

func (m *Metrics) RecordUnknown(n int) {
	if m == nil || n == 0 {
		return
	}
	m.unknownIDs.Add(float64(n))
}

func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	statusLabel := strconv.Itoa(status)
	m.httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	m.httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}
