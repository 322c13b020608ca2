package objectstore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FS implements Provider backed by a directory on the local file system.
type FS struct {
	root string // absolute path to the bucket directory
}

// NewFS creates a new FS provider rooted at the given bucket directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("objectstore: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("objectstore: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("objectstore: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// safeKey validates that key is a plain file name (no path separators, no
// traversal) and returns the absolute path under the bucket root.
func (f *FS) safeKey(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("objectstore: key is required")
	}
	cleaned := filepath.Clean(key)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("objectstore: invalid key: %s", key)
	}
	abs := filepath.Join(f.root, cleaned)
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("objectstore: key escapes bucket root: %s", key)
	}
	return abs, nil
}

// Put atomically stores the object: tmp file, fsync, rename.
func (f *FS) Put(key string, r io.Reader) (int64, error) {
	abs, err := f.safeKey(key)
	if err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(f.root, ".datahub-tmp-*")
	if err != nil {
		return 0, fmt.Errorf("objectstore: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	written, err := io.Copy(tmp, r)
	if err != nil {
		return 0, fmt.Errorf("objectstore: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return 0, fmt.Errorf("objectstore: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("objectstore: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return 0, fmt.Errorf("objectstore: rename: %w", err)
	}
	success = true
	return written, nil
}

// Open returns a reader for the stored object.
func (f *FS) Open(key string) (io.ReadCloser, error) {
	abs, err := f.safeKey(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("objectstore: open %s: %w", key, err)
	}
	return file, nil
}

// List returns every stored key, skipping in-flight temp files.
func (f *FS) List() ([]string, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("objectstore: list: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		out = append(out, e.Name())
	}
	return out, nil
}

// PublicURL resolves the retrieval URL served by the files endpoint.
func (f *FS) PublicURL(key string) string {
	return "/files/" + key
}

// KeyFromURL recovers the storage key from a public URL produced by
// PublicURL. Returns "" for URLs outside the files endpoint.
func KeyFromURL(url string) string {
	const prefix = "/files/"
	if !strings.HasPrefix(url, prefix) {
		return ""
	}
	return strings.TrimPrefix(url, prefix)
}
