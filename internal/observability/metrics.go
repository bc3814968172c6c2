package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	engineRequestsTotal  *prometheus.CounterVec
	engineLatencySeconds *prometheus.HistogramVec
	engineErrorsTotal    *prometheus.CounterVec
	photoUploadsTotal    prometheus.Counter
	photoUploadRejected  *prometheus.CounterVec
	photoUploadLatency   prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		engineRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "engine_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		engineLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "engine_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		engineErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "engine_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		photoUploadsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "photo_uploads_total",
			Help: "Total number of student photos stored.",
		})

		photoUploadRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "photo_uploads_rejected_total",
			Help: "Total number of rejected photo uploads by reason.",
		}, []string{"reason"})

		photoUploadLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "photo_upload_latency_seconds",
			Help:    "Latency distribution for photo uploads.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		})

		prometheus.MustRegister(
			engineRequestsTotal,
			engineLatencySeconds,
			engineErrorsTotal,
			photoUploadsTotal,
			photoUploadRejected,
			photoUploadLatency,
		)
	})
}

// EngineRequests exposes the counter for served requests.
func EngineRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return engineRequestsTotal
}

// EngineLatency exposes the latency histogram for served requests.
func EngineLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return engineLatencySeconds
}

// EngineErrors exposes the counter for error responses.
func EngineErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return engineErrorsTotal
}

// PhotoUploads exposes the counter for stored student photos.
func PhotoUploads() prometheus.Counter {
	RegisterMetrics()
	return photoUploadsTotal
}

// PhotoUploadRejected exposes the counter for rejected photo uploads.
func PhotoUploadRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return photoUploadRejected
}

// PhotoUploadLatency exposes the latency histogram for photo uploads.
func PhotoUploadLatency() prometheus.Histogram {
	RegisterMetrics()
	return photoUploadLatency
}
