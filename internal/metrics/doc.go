// Package metrics provides Prometheus instrumentation for the gallery
// generator. All metrics are prefixed with "gallery_gen_" and are
// registered with the default registry via promauto; expose them by
// mounting promhttp.Handler() on the preview server's /metrics route.
package metrics
