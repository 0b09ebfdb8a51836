// Package metrics holds the prometheus collectors shared by the CLI and server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mdenrich"

// Image fetch results.
const (
	FetchHit     = "hit"
	FetchFetched = "fetched"
	FetchError   = "error"
	FetchSkipped = "skipped"
)

// Image metrics.
var (
	// ImageFetchTotal counts image references by outcome.
	ImageFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_fetch_total",
			Help:      "Image references processed, by result",
		},
		[]string{"result"},
	)

	// ImageFetchDuration measures network fetches (cache hits are not observed).
	ImageFetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "image_fetch_duration_seconds",
			Help:      "Duration of image downloads in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)
)

// Enhancement metrics.
var (
	// SectionsInserted counts generated sections spliced into documents.
	SectionsInserted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sections_inserted_total",
			Help:      "Generated sections inserted, by section",
		},
		[]string{"section"},
	)
)

// HTTP metrics.
var (
	// HTTPRequestsTotal counts API requests by route pattern and status code.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by route and status",
		},
		[]string{"route", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		ImageFetchTotal,
		ImageFetchDuration,
		SectionsInserted,
		HTTPRequestsTotal,
	)
}
