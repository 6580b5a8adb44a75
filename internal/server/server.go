package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"gallery-gen/internal/gallery"
	"gallery-gen/internal/logging"
	"gallery-gen/internal/media"
	"gallery-gen/internal/mediatypes"
	"gallery-gen/internal/metrics"
	"gallery-gen/internal/middleware"
	"gallery-gen/internal/output"
	"gallery-gen/internal/startup"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the local preview server: it serves the static gallery
// site, the media files, on-the-fly thumbnails, and a small API over
// the last generated tree. It exists to check generated output in a
// browser; the artifact on disk remains the output of record.
type Server struct {
	config *startup.Config
	thumbs *media.ThumbnailGenerator

	mu       sync.RWMutex
	tree     *gallery.Node
	warnings []string
}

// New creates a preview server holding the given tree as current state.
func New(config *startup.Config, tree *gallery.Node, warnings []string) *Server {
	cacheDir := filepath.Join(os.TempDir(), "gallery-gen-thumbs")
	return &Server{
		config:   config,
		thumbs:   media.NewThumbnailGenerator(cacheDir, true),
		tree:     tree,
		warnings: warnings,
	}
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	r.HandleFunc("/readyz", s.handleHealth).Methods("GET")

	if s.config.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	r.HandleFunc("/api/tree", s.handleTree).Methods("GET")
	r.HandleFunc("/api/rescan", s.handleRescan).Methods("POST")
	r.HandleFunc("/thumb/{path:.*}", s.handleThumbnail).Methods("GET")
	r.HandleFunc("/media/{path:.*}", s.handleMedia).Methods("GET")

	// The gallery site references media by the src paths in the
	// artifact, which are relative to the gallery root; a plain file
	// server resolves them.
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.config.GalleryDir)))

	return r
}

// Run serves until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Run() error {
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = s.config.LogStaticFiles

	var handler http.Handler = s.Router()
	handler = middleware.Logger(loggingConfig)(handler)
	handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)

	srv := &http.Server{
		Addr:         ":" + s.config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan

		logging.Info("Received %s, shutting down...", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logging.Error("Shutdown error: %v", err)
		}
	}()

	startup.LogServerStarted(s.config.Port, s.config.MetricsEnabled)

	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Tree returns the currently held tree.
func (s *Server) Tree() *gallery.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTree(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Tree())
}

// rescanResponse is the payload returned by POST /api/rescan.
type rescanResponse struct {
	gallery.Stats
	Warnings []string `json:"warnings"`
	Output   string   `json:"output"`
}

func (s *Server) handleRescan(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()

	tree, warnings := gallery.BuildRoot(s.config.MediaDir)
	for _, warning := range warnings {
		logging.Warn("%s", warning)
	}

	stats := tree.Count()
	metrics.RecordScan(time.Since(start).Seconds(), stats.Folders, stats.Images, stats.Videos, len(warnings))

	if err := output.Write(s.config.OutputFile, s.config.VarName, tree); err != nil {
		logging.Error("Rescan write failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	s.mu.Lock()
	s.tree = tree
	s.warnings = warnings
	s.mu.Unlock()

	logging.Info("Rescan complete: %d folders, %d images, %d videos in %v",
		stats.Folders, stats.Images, stats.Videos, time.Since(start).Round(time.Millisecond))

	if warnings == nil {
		warnings = []string{}
	}
	writeJSON(w, http.StatusOK, rescanResponse{
		Stats:    stats,
		Warnings: warnings,
		Output:   s.config.OutputFile,
	})
}

func (s *Server) handleThumbnail(w http.ResponseWriter, r *http.Request) {
	rel := mux.Vars(r)["path"]

	filePath, ok := s.resolve(rel)
	if !ok {
		http.NotFound(w, r)
		return
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := mediatypes.GetFileType(ext)
	if fileType == mediatypes.FileTypeOther {
		http.NotFound(w, r)
		return
	}

	data, err := s.thumbs.GetThumbnail(filePath, fileType)
	if err != nil {
		logging.Debug("Thumbnail unavailable for %s: %v", filePath, err)
		// Fall back to the original file; small galleries get away
		// with full-size previews.
		http.ServeFile(w, r, filePath)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(data); err != nil {
		logging.Debug("Failed to write thumbnail response: %v", err)
	}
}

// handleMedia serves media files straight from the media directory.
// The static file server under "/" only covers media when MEDIA_DIR
// sits inside the gallery root; this route works for any MEDIA_DIR,
// absolute paths included.
func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request) {
	rel := mux.Vars(r)["path"]

	filePath, ok := resolveUnder(s.config.MediaDir, rel)
	if !ok {
		http.NotFound(w, r)
		return
	}

	info, err := os.Stat(filePath)
	if err != nil || !info.Mode().IsRegular() {
		http.NotFound(w, r)
		return
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	if !mediatypes.IsMediaFile(ext) {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", mediatypes.GetMimeType(ext))
	http.ServeFile(w, r, filePath)
}

// resolve maps a request-relative path to a file under the gallery
// root, rejecting anything that escapes it.
func (s *Server) resolve(rel string) (string, bool) {
	return resolveUnder(s.config.GalleryDir, rel)
}

// resolveUnder joins rel onto base and rejects results that escape it.
func resolveUnder(base, rel string) (string, bool) {
	base, err := filepath.Abs(base)
	if err != nil {
		return "", false
	}
	target, err := filepath.Abs(filepath.Join(base, filepath.FromSlash(rel)))
	if err != nil {
		return "", false
	}
	if target != base && !strings.HasPrefix(target, base+string(filepath.Separator)) {
		return "", false
	}
	return target, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("Failed to encode JSON response: %v", err)
	}
}
