package syncer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/mindsync/internal/apperr"
	"github.com/starford/mindsync/internal/storage"
)

func TestPairName(t *testing.T) {
	cases := map[string]string{
		"/notes/plan.md":     "plan",
		"plan.md":            "plan",
		"/notes/q1.draft.md": "q1",
		"/notes/README":      "README",
		"relative/dir/x.txt": "x",
	}
	for in, want := range cases {
		if got := PairName(in); got != want {
			t.Errorf("PairName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewPair(t *testing.T) {
	p, err := NewPair("/notes/plan.md", "/maps", ".minder")
	if err != nil {
		t.Fatalf("NewPair: %v", err)
	}
	if p.Name != "plan" || p.TextPath != "/notes/plan.md" || p.GraphPath != filepath.Join("/maps", "plan.minder") {
		t.Errorf("pair = %+v", p)
	}
}

func TestNewPair_NoBaseName(t *testing.T) {
	_, err := NewPair("/notes/.hidden", "/maps", "minder")
	if !errors.Is(err, apperr.ErrInvalidPair) {
		t.Fatalf("err = %v, want ErrInvalidPair", err)
	}
}

func TestLoadPairs(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "tracked.txt")
	_ = os.WriteFile(list, []byte("/a/one.md\n\n  /b/two.md  \r\n/c/three.md"), 0o644)

	pairs, err := LoadPairs(storage.NewLocal(), list, "/maps", "minder")
	if err != nil {
		t.Fatalf("LoadPairs: %v", err)
	}
	if len(pairs) != 3 {
		t.Fatalf("len = %d, want 3", len(pairs))
	}
	want := []string{"one", "two", "three"}
	for i, p := range pairs {
		if p.Name != want[i] {
			t.Errorf("pair %d = %q, want %q", i, p.Name, want[i])
		}
	}
	if pairs[1].TextPath != "/b/two.md" {
		t.Errorf("entry not trimmed: %q", pairs[1].TextPath)
	}
}

func TestLoadPairs_MissingList(t *testing.T) {
	if _, err := LoadPairs(storage.NewLocal(), filepath.Join(t.TempDir(), "nope"), "/maps", "minder"); err == nil {
		t.Fatal("expected error for missing list")
	}
}
