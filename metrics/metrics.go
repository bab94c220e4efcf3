// Package metrics provides Prometheus metrics for the prescription API.
// HTTP traffic is tracked by the Metrics middleware; the handlers and the
// scheduler update the domain series.
//
// All metrics are registered with the Prometheus default registry during
// package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Number of client rate limiter buckets currently tracked",
		},
	)

	PrescriptionsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prescriptions_processed_total",
			Help: "Prescription uploads by outcome (success, rejected, error)",
		},
		[]string{"outcome"},
	)

	UploadRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prescription_upload_rejections_total",
			Help: "Rejected prescription uploads by reason",
		},
		[]string{"reason"},
	)

	PrescriptionTotal = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "prescription_bill_total",
			Help:    "Billed total per processed prescription",
			Buckets: prometheus.ExponentialBuckets(5, 2, 8),
		},
	)

	MedicinesAdded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_medicines_added_total",
			Help: "Medicines appended to the catalog since start",
		},
	)

	CatalogSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_medicines",
			Help: "Current number of catalog records",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(PrescriptionsProcessed)
	prometheus.MustRegister(UploadRejections)
	prometheus.MustRegister(PrescriptionTotal)
	prometheus.MustRegister(MedicinesAdded)
	prometheus.MustRegister(CatalogSize)
}
