// Package catalog lists the template images available to the generator.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/timmy/memeforge/internal/domain"
	"github.com/timmy/memeforge/internal/logger"
)

// Suffixes accepted as templates. Matching is case-sensitive.
var Suffixes = []string{"png", "jpg", "jpeg"}

var (
	// ErrDirectoryNotFound means the template directory does not exist.
	ErrDirectoryNotFound = fmt.Errorf("%w: directory not found", domain.ErrTemplateDirectory)

	// ErrCatalogEmpty means the directory holds no template images.
	ErrCatalogEmpty = fmt.Errorf("%w: no templates found", domain.ErrTemplateDirectory)
)

// List returns the sorted names of template files in dir.
// Parameters:
//   - dir: directory to scan (not recursive).
//
// Returns:
//   - []string: file names ending in png, jpg or jpeg.
//   - error: ErrDirectoryNotFound, ErrCatalogEmpty, or a read error.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrTemplateDirectory, err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if hasTemplateSuffix(entry.Name()) {
			names = append(names, entry.Name())
		}
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrCatalogEmpty, dir)
	}

	sort.Strings(names)
	return names, nil
}

func hasTemplateSuffix(name string) bool {
	for _, suffix := range Suffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// Catalog keeps the current template listing for a directory.
type Catalog struct {
	dir   string
	mu    sync.RWMutex
	names []string
}

// Open lists dir and returns a Catalog. It fails when the directory is
// missing or empty, which is fatal at startup.
func Open(dir string) (*Catalog, error) {
	names, err := List(dir)
	if err != nil {
		return nil, err
	}
	return &Catalog{dir: dir, names: names}, nil
}

// Dir returns the template directory.
func (c *Catalog) Dir() string {
	return c.dir
}

// Templates returns a copy of the current template names.
func (c *Catalog) Templates() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.names...)
}

// Default returns the first template, the one the selector starts on.
func (c *Catalog) Default() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.names) == 0 {
		return ""
	}
	return c.names[0]
}

// Lookup resolves a template name to a Template. Only names currently in the
// listing are accepted, so paths outside the directory cannot be reached.
func (c *Catalog) Lookup(name string) (domain.Template, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, n := range c.names {
		if n == name {
			return domain.Template{Name: n, Path: filepath.Join(c.dir, n)}, nil
		}
	}
	return domain.Template{}, fmt.Errorf("%w: %q", domain.ErrUnknownTemplate, name)
}

// Refresh re-reads the directory. On failure the previous listing is kept.
func (c *Catalog) Refresh() error {
	names, err := List(c.dir)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.names = names
	c.mu.Unlock()
	return nil
}

// Watch refreshes the listing whenever files are created, removed or renamed
// in the directory. It blocks until ctx is cancelled.
func (c *Catalog) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(c.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", c.dir, err)
	}

	ctx = logger.SetComponent(ctx, "catalog")
	logger.CtxInfo(ctx, "Watching template directory: dir=%s", c.dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if err := c.Refresh(); err != nil {
				logger.FromContext(ctx).WithError(err).Warn("Template refresh failed, keeping previous listing")
				continue
			}
			logger.With(logger.Fields{
				logger.FieldCount: len(c.Templates()),
			}).Info(ctx, "Template listing refreshed: event=%s", event)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.FromContext(ctx).WithError(err).Warn("Template watcher error")
		}
	}
}
