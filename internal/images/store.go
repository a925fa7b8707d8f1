package images

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Store downloads source images into the media directory and hands back
// stable references. References are content-addressed so re-ingesting the
// same image is a no-op.
type Store struct {
	dir        string
	httpClient *http.Client
}

// Option configures a Store.
type Option func(*Store)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Store) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// New creates an image store rooted at dir.
func New(dir string, opts ...Option) (*Store, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("image store directory required")
	}
	store := &Store{
		dir:        dir,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

// Ingest downloads sourceURL into the media directory and returns an image
// reference of the form "image-<sha256>.<ext>".
func (s *Store) Ingest(ctx context.Context, sourceURL string) (string, error) {
	sourceURL = strings.TrimSpace(sourceURL)
	if sourceURL == "" {
		return "", errors.New("image ingest: source url required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return "", fmt.Errorf("image ingest: build request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("image ingest: fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image ingest: fetch returned %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("image ingest: read body: %w", err)
	}
	if len(payload) == 0 {
		return "", errors.New("image ingest: empty response body")
	}

	digest := sha256.Sum256(payload)
	ref := "image-" + hex.EncodeToString(digest[:]) + extensionFor(sourceURL, resp.Header.Get("Content-Type"))

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("image ingest: ensure media dir: %w", err)
	}
	target := filepath.Join(s.dir, ref)
	if _, err := os.Stat(target); err == nil {
		return ref, nil
	}
	if err := os.WriteFile(target, payload, 0o644); err != nil {
		return "", fmt.Errorf("image ingest: write %s: %w", target, err)
	}
	return ref, nil
}

// Path resolves a reference back to its file location.
func (s *Store) Path(ref string) string {
	return filepath.Join(s.dir, filepath.Base(ref))
}

func extensionFor(sourceURL, contentType string) string {
	switch {
	case strings.Contains(contentType, "png"):
		return ".png"
	case strings.Contains(contentType, "webp"):
		return ".webp"
	case strings.Contains(contentType, "jpeg"), strings.Contains(contentType, "jpg"):
		return ".jpg"
	}
	if ext := strings.ToLower(path.Ext(sourceURL)); ext == ".png" || ext == ".webp" || ext == ".jpg" || ext == ".jpeg" {
		return ext
	}
	return ".jpg"
}
