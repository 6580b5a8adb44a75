// Package middleware provides HTTP middleware for the preview server:
// Prometheus request metrics and request logging.
package middleware
