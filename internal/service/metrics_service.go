package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the
// coordination engine.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter

	assignmentsTotal  *prometheus.CounterVec
	bookingsAdmitted  prometheus.Counter
	bookingsRejected  *prometheus.CounterVec
	bookingsCancelled prometheus.Counter
	webhookEvents     *prometheus.CounterVec
	creditedMinutes   prometheus.Counter

	cacheHitCount  uint64
	cacheMissCount uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	assignmentsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assignments_created_total",
		Help: "Total assignments created, labelled by reason",
	}, []string{"reason"})

	bookingsAdmitted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bookings_admitted_total",
		Help: "Total bookings admitted",
	})

	bookingsRejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bookings_rejected_total",
		Help: "Total bookings rejected, labelled by reason",
	}, []string{"reason"})

	bookingsCancelled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bookings_cancelled_total",
		Help: "Total bookings cancelled with a seat released",
	})

	webhookEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_webhook_events_total",
		Help: "Total payment webhook deliveries, labelled by outcome",
	}, []string{"outcome"})

	creditedMinutes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "credited_minutes_total",
		Help: "Total driving-time minutes credited by the reconciler",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		assignmentsTotal, bookingsAdmitted, bookingsRejected, bookingsCancelled, webhookEvents, creditedMinutes, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:          registry,
		handler:           handler,
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		cacheLatency:      cacheLatency,
		cacheWrite:        cacheWrite,
		cacheHitRatio:     cacheHitRatio,
		cacheHits:         cacheHits,
		cacheMisses:       cacheMisses,
		assignmentsTotal:  assignmentsTotal,
		bookingsAdmitted:  bookingsAdmitted,
		bookingsRejected:  bookingsRejected,
		bookingsCancelled: bookingsCancelled,
		webhookEvents:     webhookEvents,
		creditedMinutes:   creditedMinutes,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	if m.cacheLatency != nil {
		m.cacheLatency.Observe(duration.Seconds())
	}
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	total := hits + misses
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil || m.cacheWrite == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// RecordAssignment counts a created assignment.
func (m *MetricsService) RecordAssignment(reason string) {
	if m == nil {
		return
	}
	m.assignmentsTotal.WithLabelValues(reason).Inc()
}

// RecordBookingAdmitted counts an admitted booking.
func (m *MetricsService) RecordBookingAdmitted() {
	if m == nil {
		return
	}
	m.bookingsAdmitted.Inc()
}

// RecordBookingRejected counts a rejected booking by reason code.
func (m *MetricsService) RecordBookingRejected(reason string) {
	if m == nil {
		return
	}
	m.bookingsRejected.WithLabelValues(reason).Inc()
}

// RecordBookingCancelled counts a cancellation that released a seat.
func (m *MetricsService) RecordBookingCancelled() {
	if m == nil {
		return
	}
	m.bookingsCancelled.Inc()
}

// RecordWebhookEvent counts a webhook delivery by outcome.
func (m *MetricsService) RecordWebhookEvent(outcome string) {
	if m == nil {
		return
	}
	m.webhookEvents.WithLabelValues(outcome).Inc()
}

// AddCreditedMinutes accumulates credited driving time.
func (m *MetricsService) AddCreditedMinutes(minutes int) {
	if m == nil || minutes <= 0 {
		return
	}
	m.creditedMinutes.Add(float64(minutes))
}
