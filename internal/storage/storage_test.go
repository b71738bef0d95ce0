package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "out")
	s := NewLocalStorage(dir)

	if err := s.EnsureBucket(ctx); err != nil {
		t.Fatalf("EnsureBucket: %v", err)
	}

	exists, err := s.Exists(ctx, "meme_output.png")
	if err != nil || exists {
		t.Fatalf("expected missing object, got exists=%v err=%v", exists, err)
	}
	if _, err := s.Download(ctx, "meme_output.png"); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}

	for _, body := range []string{"first", "second"} {
		if err := s.Upload(ctx, "meme_output.png", strings.NewReader(body), int64(len(body)), "image/png"); err != nil {
			t.Fatalf("Upload: %v", err)
		}
	}

	rc, err := s.Download(ctx, "meme_output.png")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "second" {
		t.Errorf("expected overwritten content, got %q", data)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected a single output file, found %d entries", len(entries))
	}

	if url := s.GetURL("meme_output.png"); !strings.HasPrefix(url, "file://") || !strings.HasSuffix(url, "/meme_output.png") {
		t.Errorf("unexpected url %q", url)
	}
}

func TestLocalStorage_AcceptsDottedNames(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir)
	ctx := context.Background()

	for _, key := range []string{"a..b.png", "meme..v2.png", "out/x..y.png"} {
		if err := s.Upload(ctx, key, strings.NewReader("x"), 1, "image/png"); err != nil {
			t.Errorf("Upload(%q): %v", key, err)
			continue
		}
		if ok, err := s.Exists(ctx, key); err != nil || !ok {
			t.Errorf("Exists(%q) = %v, %v", key, ok, err)
		}
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(key))); err != nil {
			t.Errorf("expected %q inside the storage dir: %v", key, err)
		}
	}
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s := NewLocalStorage(t.TempDir())
	for _, key := range []string{"", "../escape.png", "a/../../b", "..", "a/.."} {
		if err := s.Upload(context.Background(), key, strings.NewReader("x"), 1, "image/png"); err == nil {
			t.Errorf("Upload(%q): expected error", key)
		}
	}
}

// fakeS3 answers the handful of path-style S3 calls the storage makes.
type fakeS3 struct {
	mu   sync.Mutex
	puts map[string]string // path -> content type
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		io.Copy(io.Discard, r.Body)
		f.puts[r.URL.Path] = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	case http.MethodHead:
		if _, ok := f.puts[r.URL.Path]; ok || r.URL.Path == "/memes" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	case http.MethodGet:
		if _, ok := f.puts[r.URL.Path]; !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`))
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestS3Storage_AgainstFakeServer(t *testing.T) {
	fake := &fakeS3{puts: map[string]string{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	store, err := NewStorage(&Config{
		Type: StorageTypeS3Compatible,
		S3: S3Config{
			Endpoint:  srv.URL,
			AccessKey: "test",
			SecretKey: "test",
			Bucket:    "memes",
		},
	})
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}

	ctx := context.Background()
	if err := store.EnsureBucket(ctx); err != nil {
		t.Fatalf("EnsureBucket: %v", err)
	}

	if ok, err := store.Exists(ctx, "meme_output.png"); err != nil || ok {
		t.Fatalf("expected missing object, got exists=%v err=%v", ok, err)
	}
	if _, err := store.Download(ctx, "meme_output.png"); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}

	body := "png-bytes"
	if err := store.Upload(ctx, "meme_output.png", strings.NewReader(body), int64(len(body)), "image/png"); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if ct := fake.puts["/memes/meme_output.png"]; ct != "image/png" {
		t.Errorf("expected path-style PUT with image/png, got puts=%v", fake.puts)
	}

	if ok, err := store.Exists(ctx, "meme_output.png"); err != nil || !ok {
		t.Fatalf("expected object to exist, got exists=%v err=%v", ok, err)
	}

	rc, err := store.Download(ctx, "meme_output.png")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != body {
		t.Errorf("expected %q, got %q", body, data)
	}

	if url := store.GetURL("meme_output.png"); url != srv.URL+"/memes/meme_output.png" {
		t.Errorf("unexpected url %q", url)
	}
}

func TestDetectStorageType(t *testing.T) {
	tests := map[string]StorageType{
		"https://abc.r2.cloudflarestorage.com": StorageTypeR2,
		"s3.eu-west-1.amazonaws.com":           StorageTypeS3,
		"":                                     StorageTypeS3,
		"localhost:9000":                       StorageTypeS3Compatible,
	}
	for endpoint, want := range tests {
		if got := detectStorageType(endpoint); got != want {
			t.Errorf("detectStorageType(%q) = %q, want %q", endpoint, got, want)
		}
	}
}

func TestNewStorage_UnknownType(t *testing.T) {
	if _, err := NewStorage(&Config{Type: "gcs"}); err == nil {
		t.Error("expected error for unknown storage type")
	}
}
