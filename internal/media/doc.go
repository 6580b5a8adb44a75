// Package media generates on-the-fly preview thumbnails for the
// preview server.
package media
