package images_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"powerfulchat/internal/images"
)

func TestIngestIsContentAddressed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("fake image bytes"))
	}))
	defer server.Close()

	store, err := images.New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	first, err := store.Ingest(context.Background(), server.URL+"/profile.jpg")
	if err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	if !strings.HasPrefix(first, "image-") || !strings.HasSuffix(first, ".jpg") {
		t.Errorf("ref = %q", first)
	}

	second, err := store.Ingest(context.Background(), server.URL+"/profile.jpg")
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if second != first {
		t.Errorf("same content produced different refs: %q vs %q", first, second)
	}

	data, err := os.ReadFile(store.Path(first))
	if err != nil {
		t.Fatalf("read stored image: %v", err)
	}
	if string(data) != "fake image bytes" {
		t.Errorf("stored payload = %q", data)
	}
}

func TestIngestExtensionFromContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte{0x89, 'P', 'N', 'G'})
	}))
	defer server.Close()

	store, err := images.New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ref, err := store.Ingest(context.Background(), server.URL+"/no-extension")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if !strings.HasSuffix(ref, ".png") {
		t.Errorf("ref = %q, want .png suffix", ref)
	}
}

func TestIngestRejectsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	store, err := images.New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := store.Ingest(context.Background(), server.URL+"/missing.jpg"); err == nil {
		t.Error("expected error for 404 response")
	}
	if _, err := store.Ingest(context.Background(), "  "); err == nil {
		t.Error("expected error for blank url")
	}
}
