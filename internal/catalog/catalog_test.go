package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/timmy/memeforge/internal/domain"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "drake.png", "distracted.jpg", "butterfly.jpeg", "notes.txt", "SHOUT.PNG", ".hidden.gif")
	if err := os.Mkdir(filepath.Join(dir, "folder.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := List(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"butterfly.jpeg", "distracted.jpg", "drake.png"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}
}

func TestList_Errors(t *testing.T) {
	empty := t.TempDir()
	touch(t, empty, "readme.md")

	tests := []struct {
		name    string
		dir     string
		wantErr error
	}{
		{name: "missing directory", dir: filepath.Join(t.TempDir(), "templates"), wantErr: ErrDirectoryNotFound},
		{name: "no images", dir: empty, wantErr: ErrCatalogEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names, err := List(tt.dir)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, domain.ErrTemplateDirectory) {
				t.Errorf("expected error to be a template directory error, got %v", err)
			}
			if names != nil {
				t.Errorf("expected no names, got %v", names)
			}
		})
	}
}

func TestCatalog_LookupAndDefault(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.png", "a.jpg")

	c, err := Open(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Default() != "a.jpg" {
		t.Errorf("expected default a.jpg, got %q", c.Default())
	}

	tmpl, err := c.Lookup("b.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tmpl.Path != filepath.Join(dir, "b.png") {
		t.Errorf("unexpected path %q", tmpl.Path)
	}

	for _, name := range []string{"c.png", "../b.png", "", "/etc/passwd"} {
		if _, err := c.Lookup(name); !errors.Is(err, domain.ErrUnknownTemplate) {
			t.Errorf("Lookup(%q): expected ErrUnknownTemplate, got %v", name, err)
		}
	}
}

func TestCatalog_RefreshKeepsListingOnFailure(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "only.png")

	c, err := Open(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := os.Remove(filepath.Join(dir, "only.png")); err != nil {
		t.Fatal(err)
	}
	if err := c.Refresh(); !errors.Is(err, ErrCatalogEmpty) {
		t.Fatalf("expected ErrCatalogEmpty, got %v", err)
	}
	if diff := cmp.Diff([]string{"only.png"}, c.Templates()); diff != "" {
		t.Errorf("listing changed after failed refresh (-want +got):\n%s", diff)
	}

	touch(t, dir, "new.png")
	if err := c.Refresh(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"new.png"}, c.Templates()); diff != "" {
		t.Errorf("listing mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalog_WatchPicksUpNewFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "first.png")

	c, err := Open(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Watch(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	// give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)
	touch(t, dir, "second.jpg")

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if len(c.Templates()) == 2 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Errorf("expected watcher to pick up second.jpg, listing is %v", c.Templates())
}
