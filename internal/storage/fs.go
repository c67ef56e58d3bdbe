package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/starford/adrgraph/internal/apperr"
	"github.com/starford/adrgraph/internal/checksum"
	"github.com/starford/adrgraph/internal/models"
)

// FS implements Provider backed by the local file system.
type FS struct {
	root string // absolute path to the corpus directory
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist; otherwise the error wraps
// apperr.ErrRootNotFound.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("storage: %w: %s", apperr.ErrRootNotFound, abs)
		}
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: %w: not a directory: %s", apperr.ErrRootNotFound, abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute corpus root.
func (f *FS) Root() string {
	return f.root
}

// safePath resolves a relative path against the root and rejects any
// result that escapes it (directory traversal).
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return f.root, nil
	}
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", rel)
	}
	joined := filepath.Join(f.root, cleaned)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("storage: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) && abs != f.root {
		return "", fmt.Errorf("storage: path escapes root: %s", rel)
	}
	return abs, nil
}

// List globs the root with pattern and returns metadata for every matching
// regular file. Files that cannot be read are still listed with an empty
// checksum so the caller can report them.
func (f *FS) List(pattern string) ([]models.DocumentMeta, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("storage: invalid pattern %q", pattern)
	}
	if info, err := os.Stat(f.root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("storage: %w: %s", apperr.ErrRootNotFound, f.root)
	}
	matches, err := doublestar.Glob(os.DirFS(f.root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	sort.Strings(matches)

	out := make([]models.DocumentMeta, 0, len(matches))
	for _, m := range matches {
		rel := filepath.FromSlash(m)
		meta := models.DocumentMeta{Path: rel}
		if data, readErr := os.ReadFile(filepath.Join(f.root, rel)); readErr == nil {
			meta.Checksum = checksum.Document(data)
		}
		out = append(out, meta)
	}
	return out, nil
}

// Read returns the raw bytes of a corpus file.
func (f *FS) Read(path string) ([]byte, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return data, nil
}

// Write atomically writes content: tmp file → fsync → rename.
func (f *FS) Write(path string, content []byte) error {
	abs, err := f.safePath(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".adrgraph-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("storage: chmod: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}

// WriteFile atomically writes content to an arbitrary path by rooting a
// provider at its directory.
func WriteFile(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}
	f, err := NewFS(dir)
	if err != nil {
		return err
	}
	return f.Write(filepath.Base(path), content)
}
