package ingest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverArchivesFindsBz2Recursively(t *testing.T) {
	root := t.TempDir()
	want := []string{
		filepath.Join(root, "a.tar.bz2"),
		filepath.Join(root, "sub", "B.TAR.BZ2"),
	}
	for _, p := range want {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "readme.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := DiscoverArchives(root)
	if err != nil {
		t.Fatalf("DiscoverArchives: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d archives, want %d: %v", len(got), len(want), got)
	}
}

func TestDiscoverArchivesFailsWhenEmpty(t *testing.T) {
	root := t.TempDir()
	if _, err := DiscoverArchives(root); err == nil {
		t.Fatal("expected error for directory with no archives")
	}
}
