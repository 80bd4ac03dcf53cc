package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newRotator(t *testing.T, max int) *Rotator {
	t.Helper()
	r, err := NewRotator(filepath.Join(t.TempDir(), "backups"), max, nil)
	if err != nil {
		t.Fatalf("NewRotator: %v", err)
	}
	return r
}

func TestSnapshotName(t *testing.T) {
	now := time.Date(2024, time.March, 7, 9, 5, 3, 0, time.UTC)
	if got := SnapshotName("plan", now); got != "plan07_03_2024_09_05_03.md" {
		t.Errorf("SnapshotName = %q", got)
	}
}

func TestSnapshot_WritesContent(t *testing.T) {
	r := newRotator(t, 10)
	now := time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)
	file, err := r.Snapshot("plan", []byte("- A"), now)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(r.Folder(), file))
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if string(data) != "- A" {
		t.Errorf("snapshot content = %q", data)
	}
}

func TestPrune_RemovesOldestExcess(t *testing.T) {
	r := newRotator(t, 3)
	base := time.Now().Add(-time.Hour)

	var names []string
	for i := 0; i < 5; i++ {
		stamp := base.Add(time.Duration(i) * time.Minute)
		file, err := r.Snapshot(fmt.Sprintf("n%d", i), []byte("x"), stamp)
		if err != nil {
			t.Fatalf("Snapshot: %v", err)
		}
		// Age files explicitly so ordering does not depend on write speed.
		if err := os.Chtimes(filepath.Join(r.Folder(), file), stamp, stamp); err != nil {
			t.Fatalf("Chtimes: %v", err)
		}
		names = append(names, file)
	}

	removed, err := r.Prune()
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if len(removed) != 2 || removed[0] != names[0] || removed[1] != names[1] {
		t.Fatalf("removed = %v, want %v", removed, names[:2])
	}
	left, _ := os.ReadDir(r.Folder())
	if len(left) != 3 {
		t.Errorf("remaining = %d, want 3", len(left))
	}
}

func TestPrune_UnderLimitKeepsAll(t *testing.T) {
	r := newRotator(t, 5)
	_, _ = r.Snapshot("a", []byte("x"), time.Now())
	_, _ = r.Snapshot("b", []byte("x"), time.Now())
	removed, err := r.Prune()
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if len(removed) != 0 {
		t.Errorf("removed = %v, want none", removed)
	}
}

func TestPrune_DisabledWhenMaxNotPositive(t *testing.T) {
	r := newRotator(t, 0)
	for i := 0; i < 4; i++ {
		_, _ = r.Snapshot(fmt.Sprintf("n%d", i), []byte("x"), time.Now().Add(time.Duration(i)*time.Second))
	}
	removed, _ := r.Prune()
	if len(removed) != 0 {
		t.Errorf("pruning should be disabled, removed %v", removed)
	}
}
