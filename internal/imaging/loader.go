package imaging

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/anthonynsimon/bild/imgio"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// maxDownloadBytes caps the body of a remote image.
const maxDownloadBytes = 64 << 20

// Loader decodes images from local files or http(s) URLs.
//
// The zero value is usable and downloads with http.DefaultClient and no
// timeout beyond the caller's context.
type Loader struct {
	// Client performs remote fetches. Nil means http.DefaultClient.
	Client *http.Client

	// Timeout bounds a single remote fetch when positive.
	Timeout time.Duration
}

// IsRemote reports whether source names an http or https URL.
func IsRemote(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Load decodes the image named by source. Supported formats are PNG, JPEG,
// GIF, BMP and WebP.
//
// # Errors
//
//   - Returns error if source is empty
//   - Returns error if the file cannot be read or the download fails
//   - Returns error if the data is not a supported image
func (l *Loader) Load(ctx context.Context, source string) (image.Image, string, error) {
	if source == "" {
		return nil, "", fmt.Errorf("empty image source")
	}
	if IsRemote(source) {
		return l.fetch(ctx, source)
	}

	img, err := imgio.Open(source)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}
	return img, formatFromPath(source), nil
}

func (l *Loader) fetch(ctx context.Context, source string) (image.Image, string, error) {
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build request: %w", err)
	}

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to fetch image: unexpected status %s", resp.Status)
	}

	img, format, err := image.Decode(io.LimitReader(resp.Body, maxDownloadBytes))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// formatFromPath maps a file extension to a format name. Detection is based
// on the extension, not on file contents.
func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	case ".webp":
		return "webp"
	}
	return "unknown"
}
