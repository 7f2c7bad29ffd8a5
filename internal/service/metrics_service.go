package service

import (
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/course-scheduling-api/internal/models"
)

// Enrollment outcomes recorded by RecordEnrollment.
const (
	OutcomeAccepted = "accepted"
	OutcomeFull     = "full"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Change delivery outcomes recorded by RecordChangeEvent.
const (
	DeliveryQueued    = "queued"
	DeliveryDelivered = "delivered"
	DeliveryDropped   = "dropped"
	DeliveryFailed    = "failed"
)

// MetricsService encapsulates Prometheus instrumentation and keeps counters for snapshots.
type MetricsService struct {
	registry           *prometheus.Registry
	handler            http.Handler
	requestDuration    *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
	cacheLatency       prometheus.Observer
	cacheWrite         prometheus.Observer
	cacheHitRatio      prometheus.Gauge
	enrollments        *prometheus.CounterVec
	changeEvents       *prometheus.CounterVec
	changeSubscribers  prometheus.Gauge
	slotGeneration     prometheus.Histogram
	courseProjections  *prometheus.CounterVec
	expiredEnrollments prometheus.Counter

	cacheHitCount        uint64
	cacheMissCount       uint64
	requestCount         uint64
	requestDurationTotal uint64
	enrollmentAccepted   uint64
	enrollmentRejected   uint64
	eventsDelivered      uint64
	eventsDropped        uint64
	subscriberCount      int64
}

// NewMetricsService registers the service collectors on a private registry.
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
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache writes",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	enrollments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduling_enrollment_attempts_total",
		Help: "Enrollment seat claims by outcome",
	}, []string{"outcome"})

	changeEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduling_change_events_total",
		Help: "Change event deliveries by type and outcome",
	}, []string{"type", "outcome"})

	changeSubscribers := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scheduling_change_subscribers",
		Help: "Registered change event subscribers",
	})

	slotGeneration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "scheduling_slot_generation_seconds",
		Help:    "Time spent generating slot occurrences",
		Buckets: prometheus.DefBuckets,
	})

	courseProjections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduling_course_projections_total",
		Help: "Course schedule projections by outcome",
	}, []string{"outcome"})

	expiredEnrollments := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduling_enrollments_expired_total",
		Help: "Enrollments moved to expired by the expiry job",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio,
		enrollments, changeEvents, changeSubscribers, slotGeneration, courseProjections, expiredEnrollments, goroutines)

	return &MetricsService{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		cacheLatency:       cacheLatency,
		cacheWrite:         cacheWrite,
		cacheHitRatio:      cacheHitRatio,
		enrollments:        enrollments,
		changeEvents:       changeEvents,
		changeSubscribers:  changeSubscribers,
		slotGeneration:     slotGeneration,
		courseProjections:  courseProjections,
		expiredEnrollments: expiredEnrollments,
	}
}

// Registry exposes the underlying registry for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
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
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records a cache lookup and updates the hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	total := hits + atomic.LoadUint64(&m.cacheMissCount)
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration of cache writes.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// RecordEnrollment counts a seat claim by outcome.
func (m *MetricsService) RecordEnrollment(outcome string) {
	if m == nil {
		return
	}
	m.enrollments.WithLabelValues(outcome).Inc()
	if outcome == OutcomeAccepted {
		atomic.AddUint64(&m.enrollmentAccepted, 1)
	} else {
		atomic.AddUint64(&m.enrollmentRejected, 1)
	}
}

// RecordExpired counts enrollments expired by the background job.
func (m *MetricsService) RecordExpired(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.expiredEnrollments.Add(float64(n))
}

// RecordChangeEvent counts a change event delivery step.
func (m *MetricsService) RecordChangeEvent(eventType models.ChangeEventType, outcome string) {
	if m == nil {
		return
	}
	m.changeEvents.WithLabelValues(string(eventType), outcome).Inc()
	switch outcome {
	case DeliveryDelivered:
		atomic.AddUint64(&m.eventsDelivered, 1)
	case DeliveryDropped:
		atomic.AddUint64(&m.eventsDropped, 1)
	}
}

// AddSubscribers adjusts the subscriber gauge by delta.
func (m *MetricsService) AddSubscribers(delta int) {
	if m == nil {
		return
	}
	m.changeSubscribers.Add(float64(delta))
	atomic.AddInt64(&m.subscriberCount, int64(delta))
}

// ObserveSlotGeneration records how long a slot expansion took.
func (m *MetricsService) ObserveSlotGeneration(duration time.Duration) {
	if m == nil {
		return
	}
	m.slotGeneration.Observe(duration.Seconds())
}

// RecordCourseProjection counts a course projection by outcome.
func (m *MetricsService) RecordCourseProjection(outcome string) {
	if m == nil {
		return
	}
	m.courseProjections.WithLabelValues(outcome).Inc()
}

// Snapshot returns aggregated counters for the metrics summary endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var cacheRatio float64
	if total := hits + misses; total > 0 {
		cacheRatio = float64(hits) / float64(total)
	}

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		CacheHitRatio:            cacheRatio,
		CacheHits:                hits,
		CacheMisses:              misses,
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		EnrollmentsAccepted:      atomic.LoadUint64(&m.enrollmentAccepted),
		EnrollmentsRejected:      atomic.LoadUint64(&m.enrollmentRejected),
		ChangeEventsDelivered:    atomic.LoadUint64(&m.eventsDelivered),
		ChangeEventsDropped:      atomic.LoadUint64(&m.eventsDropped),
		ChangeSubscribers:        atomic.LoadInt64(&m.subscriberCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
