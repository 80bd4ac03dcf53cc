package checkpoint

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFile_MissingLoadsZero(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "last_sync"), nil)
	got, err := f.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.IsZero() {
		t.Errorf("Load = %v, want zero time", got)
	}
}

func TestFile_SaveLoadTruncatesToSeconds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_sync")
	f := NewFile(path, nil)
	at := time.Unix(1700000000, 750_000_000)
	if err := f.Save(at); err != nil {
		t.Fatalf("Save: %v", err)
	}

	raw, _ := os.ReadFile(path)
	if string(raw) != "1700000000.750000" {
		t.Errorf("file content = %q", raw)
	}

	got, err := f.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("Load = %v, want %v", got, time.Unix(1700000000, 0))
	}
}

func TestFile_LoadIntegerContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_sync")
	_ = os.WriteFile(path, []byte("1600000000\n"), 0o644)
	got, err := NewFile(path, nil).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Unix() != 1600000000 {
		t.Errorf("Load = %d", got.Unix())
	}
}

func TestFile_LoadGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_sync")
	_ = os.WriteFile(path, []byte("yesterday"), 0o644)
	if _, err := NewFile(path, nil).Load(); err == nil {
		t.Fatal("expected parse error")
	}
}
