// Package backup keeps timestamped snapshots of outline files and prunes
// the oldest ones beyond a retention count.
package backup

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/starford/mindsync/internal/storage"
)

const (
	// TimeLayout formats snapshot timestamps as DD_MM_YYYY_HH_MM_SS.
	TimeLayout = "02_01_2006_15_04_05"
	// Extension is appended to every snapshot name.
	Extension = ".md"
)

// Rotator writes snapshots into a single folder. It is not safe for use by
// more than one process at a time.
type Rotator struct {
	store    *storage.FS
	maxFiles int
	logger   *slog.Logger
}

// NewRotator creates a rotator for folder, creating the folder if needed.
// maxFiles <= 0 disables pruning.
func NewRotator(folder string, maxFiles int, logger *slog.Logger) (*Rotator, error) {
	store, err := storage.NewFS(folder)
	if err != nil {
		return nil, fmt.Errorf("backup: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Rotator{store: store, maxFiles: maxFiles, logger: logger}, nil
}

// SnapshotName returns the file name used for a snapshot of name taken at now.
func SnapshotName(name string, now time.Time) string {
	return name + now.Format(TimeLayout) + Extension
}

// Snapshot stores content as the snapshot of name taken at now and returns
// the snapshot path relative to the backup folder.
func (r *Rotator) Snapshot(name string, content []byte, now time.Time) (string, error) {
	file := SnapshotName(name, now)
	if err := r.store.Write(file, content); err != nil {
		return "", fmt.Errorf("backup: snapshot %s: %w", name, err)
	}
	r.logger.Debug("backup: snapshot written", slog.String("file", file))
	return file, nil
}

// Prune deletes the oldest snapshots until at most maxFiles remain and
// returns the deleted paths. Snapshots are never rewritten, so their
// modification time is their creation time.
func (r *Rotator) Prune() ([]string, error) {
	if r.maxFiles <= 0 {
		return nil, nil
	}
	files, err := r.store.List("")
	if err != nil {
		return nil, fmt.Errorf("backup: list: %w", err)
	}
	excess := len(files) - r.maxFiles
	if excess <= 0 {
		return nil, nil
	}

	sort.Slice(files, func(i, j int) bool {
		if !files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].ModTime.Before(files[j].ModTime)
		}
		return files[i].Path < files[j].Path
	})

	removed := make([]string, 0, excess)
	for _, f := range files[:excess] {
		if err := r.store.Delete(f.Path); err != nil {
			return removed, fmt.Errorf("backup: prune: %w", err)
		}
		removed = append(removed, f.Path)
	}
	r.logger.Info("backup: pruned snapshots",
		slog.Int("removed", len(removed)),
		slog.Int("max_files", r.maxFiles))
	return removed, nil
}

// Folder returns the absolute snapshot folder.
func (r *Rotator) Folder() string {
	return r.store.Root()
}
