package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scan metrics
var (
	ScanRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_gen_scan_runs_total",
			Help: "Total number of gallery scans",
		},
	)

	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gallery_gen_scan_duration_seconds",
			Help:    "Gallery scan duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	ScanLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_gen_scan_last_run_timestamp",
			Help: "Timestamp of the last completed scan",
		},
	)

	ScanWarningsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_gen_scan_warnings_total",
			Help: "Total number of warnings emitted during scans",
		},
	)
)

// Gallery content metrics
var (
	MediaFilesTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gallery_gen_media_files_total",
			Help: "Number of media files in the last built tree by type",
		},
		[]string{"type"}, // "image", "video"
	)

	FoldersTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_gen_folders_total",
			Help: "Number of folders in the last built tree",
		},
	)

	OutputBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_gen_output_bytes",
			Help: "Size of the last written gallery data artifact in bytes",
		},
	)
)

// HTTP metrics for the preview server
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_gen_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gallery_gen_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_gen_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Application info
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gallery_gen_app_info",
			Help: "Application build information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// RecordScan updates the scan metrics after a completed build.
func RecordScan(durationSeconds float64, folders, images, videos, warnings int) {
	ScanRunsTotal.Inc()
	ScanDuration.Observe(durationSeconds)
	ScanLastRunTimestamp.Set(float64(time.Now().Unix()))
	ScanWarningsTotal.Add(float64(warnings))
	MediaFilesTotal.WithLabelValues("image").Set(float64(images))
	MediaFilesTotal.WithLabelValues("video").Set(float64(videos))
	FoldersTotal.Set(float64(folders))
}
