package media

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"gallery-gen/internal/logging"
	"gallery-gen/internal/mediatypes"

	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const (
	thumbSize    = 200
	thumbQuality = 80
)

// ThumbnailGenerator produces small JPEG previews for the preview
// server, cached on disk keyed by source path. It never touches the
// generated gallery artifact; thumbnail paths in the tree always equal
// the source paths.
type ThumbnailGenerator struct {
	cacheDir string
	enabled  bool
	ffmpeg   string
	mu       sync.Mutex
}

// NewThumbnailGenerator creates a generator caching under cacheDir.
// Video thumbnails need ffmpeg on PATH; when it is absent only image
// thumbnails are produced.
func NewThumbnailGenerator(cacheDir string, enabled bool) *ThumbnailGenerator {
	t := &ThumbnailGenerator{
		cacheDir: cacheDir,
		enabled:  enabled,
	}

	if !enabled {
		logging.Debug("ThumbnailGenerator: disabled")
		return t
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		logging.Warn("ThumbnailGenerator: failed to create cache dir: %v", err)
	}

	if path, err := exec.LookPath("ffmpeg"); err == nil {
		t.ffmpeg = path
		logging.Debug("ThumbnailGenerator: ffmpeg found at %s", path)
	} else {
		logging.Debug("ThumbnailGenerator: ffmpeg not found, video thumbnails unavailable")
	}

	return t
}

// IsEnabled reports whether thumbnail generation is active.
func (t *ThumbnailGenerator) IsEnabled() bool {
	return t.enabled
}

// GetThumbnail returns JPEG thumbnail bytes for the given file, using
// the disk cache when possible.
func (t *ThumbnailGenerator) GetThumbnail(filePath string, fileType mediatypes.FileType) ([]byte, error) {
	if !t.enabled {
		return nil, fmt.Errorf("thumbnails disabled")
	}

	if _, err := os.Stat(filePath); err != nil {
		return nil, fmt.Errorf("file not accessible: %w", err)
	}

	hash := md5.Sum([]byte(filePath))
	cachePath := filepath.Join(t.cacheDir, fmt.Sprintf("%x.jpg", hash))

	if data, err := os.ReadFile(cachePath); err == nil {
		logging.Debug("Thumbnail cache hit: %s", filePath)
		return data, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Another request may have generated it while we waited.
	if data, err := os.ReadFile(cachePath); err == nil {
		return data, nil
	}

	logging.Debug("Thumbnail generating: %s (type: %s)", filePath, fileType)

	var img image.Image
	var err error

	switch fileType {
	case mediatypes.FileTypeImage:
		img, err = imaging.Open(filePath, imaging.AutoOrientation(true))
	case mediatypes.FileTypeVideo:
		img, err = t.extractVideoFrame(filePath)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", fileType)
	}
	if err != nil {
		return nil, fmt.Errorf("thumbnail generation failed: %w", err)
	}

	thumb := imaging.Fit(img, thumbSize, thumbSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	if err := os.WriteFile(cachePath, buf.Bytes(), 0o644); err != nil {
		logging.Warn("Failed to cache thumbnail %s: %v", cachePath, err)
	}

	return buf.Bytes(), nil
}

// extractVideoFrame grabs a frame one second in via ffmpeg.
func (t *ThumbnailGenerator) extractVideoFrame(filePath string) (image.Image, error) {
	if t.ffmpeg == "" {
		return nil, fmt.Errorf("ffmpeg not available")
	}

	cmd := exec.Command(t.ffmpeg,
		"-ss", "1",
		"-i", filePath,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-",
	)
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %w", err)
	}

	img, err := jpeg.Decode(&out)
	if err != nil {
		return nil, fmt.Errorf("failed to decode extracted frame: %w", err)
	}
	return img, nil
}
