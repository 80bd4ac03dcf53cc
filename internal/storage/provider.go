// Package storage defines the file-system abstraction used for outline,
// mind-map and snapshot files.
package storage

import "time"

// FileInfo is the metadata returned by Stat and List.
type FileInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Provider is the interface for file operations.
type Provider interface {
	// Stat returns metadata for path. Missing files yield an error matching os.ErrNotExist.
	Stat(path string) (FileInfo, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically replaces the content of path, creating parent directories.
	Write(path string, content []byte) error
	// Touch creates path as an empty file if it does not exist.
	Touch(path string) error
	// Delete removes the file at path.
	Delete(path string) error
	// List returns the regular files directly inside dir.
	List(dir string) ([]FileInfo, error)
}
