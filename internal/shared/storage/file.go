package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/samber/lo"
	"github.com/samber/oops"
)

// FileCollection keeps one JSON document per key under a directory.
type FileCollection[T any] struct {
	basePath string
	mu       sync.RWMutex
}

// NewFileCollection creates the collection directory under basePath.
func NewFileCollection[T any](basePath, name string) (*FileCollection[T], error) {
	path := filepath.Join(basePath, name)
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "collection", name, "context", "failed to create collection directory").Wrap(err)
	}

	return &FileCollection[T]{basePath: path}, nil
}

func (c *FileCollection[T]) path(key string) string {
	return filepath.Join(c.basePath, key+".json")
}

// Save writes the document, replacing any previous version.
func (c *FileCollection[T]) Save(key string, doc *T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return oops.With("key", key, "context", "failed to marshal document").Wrap(err)
	}

	// write then rename so a crash never leaves a truncated document
	tmp := c.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return oops.With("key", key, "context", "failed to write document").Wrap(err)
	}
	return os.Rename(tmp, c.path(key))
}

// Get returns the document and false if it does not exist.
func (c *FileCollection[T]) Get(key string) (*T, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, oops.With("key", key, "context", "failed to read document").Wrap(err)
	}

	var doc T
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, false, oops.With("key", key, "context", "failed to unmarshal document").Wrap(err)
	}

	return &doc, true, nil
}

// All returns every readable document. Corrupt files are skipped.
func (c *FileCollection[T]) All() ([]*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries, err := os.ReadDir(c.basePath)
	if err != nil {
		return nil, oops.With("directory", c.basePath, "context", "failed to read collection directory").Wrap(err)
	}

	docs := lo.FilterMap(entries, func(entry os.DirEntry, _ int) (*T, bool) {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			return nil, false
		}

		data, err := os.ReadFile(filepath.Join(c.basePath, entry.Name()))
		if err != nil {
			return nil, false
		}

		var doc T
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, false
		}

		return &doc, true
	})

	return docs, nil
}

// Delete removes the document and reports whether it existed.
func (c *FileCollection[T]) Delete(key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.Remove(c.path(key)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, oops.With("key", key, "context", "failed to delete document").Wrap(err)
	}
	return true, nil
}

// Update applies fn to the current document under the write lock.
// fn receives nil when the document does not exist yet.
func (c *FileCollection[T]) Update(key string, fn func(doc *T) (*T, error)) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var current *T
	data, err := os.ReadFile(c.path(key))
	switch {
	case err == nil:
		var doc T
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, oops.With("key", key, "context", "failed to unmarshal document").Wrap(err)
		}
		current = &doc
	case !os.IsNotExist(err):
		return nil, oops.With("key", key, "context", "failed to read document").Wrap(err)
	}

	next, err := fn(current)
	if err != nil {
		return nil, err
	}

	out, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return nil, oops.With("key", key, "context", "failed to marshal document").Wrap(err)
	}
	tmp := c.path(key) + ".tmp"
	if err := os.WriteFile(tmp, out, 0644); err != nil {
		return nil, oops.With("key", key, "context", "failed to write document").Wrap(err)
	}
	if err := os.Rename(tmp, c.path(key)); err != nil {
		return nil, oops.With("key", key, "context", "failed to replace document").Wrap(err)
	}
	return next, nil
}
