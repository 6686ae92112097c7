package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDirCreatesNested(t *testing.T) {
	root := t.TempDir()

	if err := EnsureDir(root, "cache", "country"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, statErr := os.Stat(filepath.Join(root, "cache", "country"))
	if statErr != nil {
		t.Fatalf("expected directory to exist: %v", statErr)
	}
	if !info.IsDir() {
		t.Error("expected a directory")
	}
}

func TestEnsureDirExistingIsNoop(t *testing.T) {
	root := t.TempDir()

	if err := EnsureDir(root); err != nil {
		t.Fatalf("unexpected error on existing directory: %v", err)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()

	if err := WriteFileAtomic(dir, "page.html", []byte("<html>payload</html>")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content, readErr := os.ReadFile(filepath.Join(dir, "page.html"))
	if readErr != nil {
		t.Fatalf("failed to read written file: %v", readErr)
	}
	if string(content) != "<html>payload</html>" {
		t.Errorf("content = %q", string(content))
	}
}

func TestWriteFileAtomicOverwrites(t *testing.T) {
	dir := t.TempDir()

	if err := WriteFileAtomic(dir, "page.html", []byte("old")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := WriteFileAtomic(dir, "page.html", []byte("new")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content, readErr := os.ReadFile(filepath.Join(dir, "page.html"))
	if readErr != nil {
		t.Fatalf("failed to read written file: %v", readErr)
	}
	if string(content) != "new" {
		t.Errorf("content = %q, want %q", string(content), "new")
	}
}

func TestWriteFileAtomicLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()

	if err := WriteFileAtomic(dir, "page.html", []byte("payload")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		t.Fatalf("failed to list directory: %v", readErr)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only the destination file, found %v", names)
	}
}

func TestWriteFileAtomicMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "does-not-exist")

	err := WriteFileAtomic(dir, "page.html", []byte("payload"))
	if err == nil {
		t.Fatal("expected error when the target directory is missing")
	}
}
