// Package checkpoint persists the instant of the last successful sync.
package checkpoint

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/starford/mindsync/internal/storage"
)

// Store loads and saves the sync checkpoint. A store that has never been
// saved loads as the zero time.
type Store interface {
	Load() (time.Time, error)
	Save(t time.Time) error
}

// File keeps the checkpoint as a decimal number of Unix seconds, the entire
// content of a single file.
type File struct {
	path  string
	store storage.Provider
}

// NewFile returns a file-backed store at path.
func NewFile(path string, store storage.Provider) *File {
	if store == nil {
		store = storage.NewLocal()
	}
	return &File{path: path, store: store}
}

// Load reads the checkpoint, truncating it to whole seconds.
func (f *File) Load() (time.Time, error) {
	data, err := f.store.Read(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("checkpoint: %w", err)
	}
	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return time.Time{}, nil
	}
	secs, _, _ := strings.Cut(raw, ".")
	n, err := strconv.ParseInt(secs, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("checkpoint: parse %q: %w", raw, err)
	}
	return time.Unix(n, 0), nil
}

// Save writes t as fractional Unix seconds.
func (f *File) Save(t time.Time) error {
	secs := float64(t.UnixNano()) / float64(time.Second)
	content := strconv.FormatFloat(secs, 'f', 6, 64)
	if err := f.store.Write(f.path, []byte(content)); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	return nil
}

var _ Store = (*File)(nil)
