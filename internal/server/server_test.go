package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gallery-gen/internal/gallery"
	"gallery-gen/internal/startup"
)

// chdir switches the working directory for the duration of the test,
// restoring the original directory on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

// newTestServer builds a server over a temp gallery containing one
// image, with the working directory switched to the gallery root so
// relative src paths resolve as in production.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	tmp := t.TempDir()

	mediaDir := filepath.Join(tmp, "img")
	if err := os.MkdirAll(filepath.Join(mediaDir, "Clips"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(mediaDir, "Clips", "clip.mp4"), []byte("not a real video"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmp, "index.html"), []byte("<html>gallery</html>"), 0o644); err != nil {
		t.Fatal(err)
	}

	chdir(t, tmp)

	config := &startup.Config{
		MediaDir:       "img",
		OutputFile:     "gallery_data.js",
		VarName:        "generatedFileSystem",
		GalleryDir:     ".",
		Port:           "0",
		MetricsEnabled: true,
	}

	tree, warnings := gallery.BuildRoot(config.MediaDir)
	return New(config, tree, warnings)
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	for _, path := range []string{"/health", "/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))

		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"ok"`) {
			t.Errorf("GET %s body = %q, want status ok", path, rec.Body.String())
		}
	}
}

func TestTreeEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/tree", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var tree map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &tree); err != nil {
		t.Fatal(err)
	}
	if tree["id"] != "root" || tree["name"] != "Home" {
		t.Errorf("tree root = (%v, %v), want (root, Home)", tree["id"], tree["name"])
	}
	if _, ok := tree["children"].([]interface{}); !ok {
		t.Error("tree root has no children array")
	}
}

func TestRescanEndpoint(t *testing.T) {
	srv := newTestServer(t)

	// Add a file after the initial build; rescan must pick it up and
	// rewrite the artifact.
	if err := os.WriteFile(filepath.Join("img", "new.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("POST", "/api/rescan", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Folders  int      `json:"folders"`
		Images   int      `json:"images"`
		Videos   int      `json:"videos"`
		Warnings []string `json:"warnings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Images != 1 || resp.Videos != 1 || resp.Folders != 1 {
		t.Errorf("rescan counts = %+v, want 1 folder, 1 image, 1 video", resp)
	}

	data, err := os.ReadFile("gallery_data.js")
	if err != nil {
		t.Fatalf("artifact not written: %v", err)
	}
	if !strings.Contains(string(data), "new.jpg") {
		t.Error("rewritten artifact does not contain the new file")
	}

	// The in-memory tree was swapped too.
	stats := srv.Tree().Count()
	if stats.Images != 1 {
		t.Errorf("in-memory tree images = %d, want 1", stats.Images)
	}
}

func TestRescanRejectsGet(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/rescan", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /api/rescan = %d, want 405", rec.Code)
	}
}

func TestStaticGalleryServed(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/index.html", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "gallery") {
		t.Errorf("body = %q, want gallery page", rec.Body.String())
	}
}

func TestThumbnailUnknownExtension(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/thumb/img/whatever.txt", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestMediaEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/media/Clips/clip.mp4", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "not a real video" {
		t.Errorf("body = %q, want file contents", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "video/mp4" {
		t.Errorf("Content-Type = %q, want video/mp4", ct)
	}
}

func TestMediaEndpointExternalMediaDir(t *testing.T) {
	srv := newTestServer(t)

	// Media directory outside the gallery root: the static file server
	// under "/" cannot reach it, the /media route must.
	external := t.TempDir()
	if err := os.WriteFile(filepath.Join(external, "photo.jpg"), []byte("jpeg bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	srv.config.MediaDir = external

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/media/photo.jpg", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "jpeg bytes" {
		t.Errorf("body = %q, want file contents", rec.Body.String())
	}
}

func TestMediaEndpointRejectsNonMedia(t *testing.T) {
	srv := newTestServer(t)

	if err := os.WriteFile(filepath.Join("img", "notes.txt"), []byte("private"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/media/notes.txt", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("non-media file: status = %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/media/missing.jpg", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("missing file: status = %d, want 404", rec.Code)
	}
}

func TestResolveRejectsTraversal(t *testing.T) {
	srv := newTestServer(t)

	if _, ok := srv.resolve("../outside.jpg"); ok {
		t.Error("resolve should reject paths escaping the gallery root")
	}
	if _, ok := srv.resolve("img/Clips/clip.mp4"); !ok {
		t.Error("resolve should accept paths inside the gallery root")
	}

	if _, ok := resolveUnder(srv.config.MediaDir, "../index.html"); ok {
		t.Error("resolveUnder should reject paths escaping the media root")
	}
	if _, ok := resolveUnder(srv.config.MediaDir, "Clips/clip.mp4"); !ok {
		t.Error("resolveUnder should accept paths inside the media root")
	}
}

func TestMetricsEndpointToggle(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("metrics enabled: status = %d, want 200", rec.Code)
	}

	srv.config.MetricsEnabled = false
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("metrics disabled: status = %d, want 404", rec.Code)
	}
}
