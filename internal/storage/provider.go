// Package storage defines the corpus file-system abstraction.
package storage

import "github.com/starford/adrgraph/internal/models"

// Provider is the interface for corpus file operations.
type Provider interface {
	// Root returns the absolute corpus root.
	Root() string
	// List returns metadata for every file under the root matching the
	// doublestar pattern, sorted by path.
	List(pattern string) ([]models.DocumentMeta, error)
	// Read returns the raw bytes of the file at path (relative to root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to root).
	Write(path string, content []byte) error
}
