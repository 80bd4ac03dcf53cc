// Package testutil provides shared test helpers for setting up tracked
// document pairs, backup folders and journals.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/mindsync/internal/journal"
)

// Layout is a throwaway workspace with the folders a sweep needs.
type Layout struct {
	Dir        string
	TextDir    string
	GraphDir   string
	BackupDir  string
	ListFile   string
	Checkpoint string
}

// NewLayout creates the workspace folders under t.TempDir().
func NewLayout(t *testing.T) Layout {
	t.Helper()
	dir := t.TempDir()
	l := Layout{
		Dir:        dir,
		TextDir:    filepath.Join(dir, "notes"),
		GraphDir:   filepath.Join(dir, "mindmaps"),
		BackupDir:  filepath.Join(dir, "backups"),
		ListFile:   filepath.Join(dir, "tracked.txt"),
		Checkpoint: filepath.Join(dir, "last_sync"),
	}
	for _, d := range []string{l.TextDir, l.GraphDir, l.BackupDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return l
}

// TextPath returns the outline path for name.
func (l Layout) TextPath(name string) string {
	return filepath.Join(l.TextDir, name+".md")
}

// GraphPath returns the mind-map path for name.
func (l Layout) GraphPath(name string) string {
	return filepath.Join(l.GraphDir, name+".minder")
}

// Track writes the tracked-files list for the given pair names.
func (l Layout) Track(t *testing.T, names ...string) {
	t.Helper()
	lines := make([]string, len(names))
	for i, n := range names {
		lines[i] = l.TextPath(n)
	}
	if err := os.WriteFile(l.ListFile, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

// WriteAt writes content to path and sets its modification time.
func WriteAt(t *testing.T, path string, content []byte, mtime time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

// ModTime returns the modification time of path.
func ModTime(t *testing.T, path string) time.Time {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	return info.ModTime()
}

// ReadFile returns the content of path as a string.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// CountFiles returns the number of entries in dir.
func CountFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	return len(entries)
}

// TestJournal creates a temporary SQLite journal that is automatically cleaned up.
func TestJournal(t *testing.T) *journal.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "mindsync-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := journal.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
