package media

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeRecording(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("audio bytes"), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAttachCopiesIntoManagedDir(t *testing.T) {
	srcDir := t.TempDir()
	owner := NewOwner(filepath.Join(t.TempDir(), "audio"))

	src := writeRecording(t, srcDir, "note.m4a")
	handle, err := owner.Attach(src)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}

	if !strings.HasPrefix(handle, owner.Dir()) {
		t.Errorf("handle %q outside managed dir %q", handle, owner.Dir())
	}
	if filepath.Ext(handle) != ".m4a" {
		t.Errorf("handle should keep the source extension: %q", handle)
	}

	data, err := os.ReadFile(handle)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "audio bytes" {
		t.Error("managed copy differs from the source")
	}

	// The source stays in place; only the copy is managed.
	if _, err := os.Stat(src); err != nil {
		t.Errorf("source file should survive attach: %v", err)
	}
}

func TestAttachDistinctHandles(t *testing.T) {
	owner := NewOwner(filepath.Join(t.TempDir(), "audio"))
	src := writeRecording(t, t.TempDir(), "note.m4a")

	first, err := owner.Attach(src)
	if err != nil {
		t.Fatal(err)
	}
	second, err := owner.Attach(src)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("attaching the same file twice must produce distinct handles")
	}
}

func TestReleaseDeletesManagedFile(t *testing.T) {
	owner := NewOwner(filepath.Join(t.TempDir(), "audio"))
	handle, err := owner.Attach(writeRecording(t, t.TempDir(), "note.m4a"))
	if err != nil {
		t.Fatal(err)
	}

	owner.Release(handle)
	if _, err := os.Stat(handle); !os.IsNotExist(err) {
		t.Error("released file still exists")
	}
}

func TestReleaseIgnoresOutsidePaths(t *testing.T) {
	owner := NewOwner(filepath.Join(t.TempDir(), "audio"))
	outside := writeRecording(t, t.TempDir(), "external.m4a")

	owner.Release(outside)
	if _, err := os.Stat(outside); err != nil {
		t.Errorf("file outside the managed dir must not be deleted: %v", err)
	}
}

func TestReleaseMissingAndEmptyHandles(t *testing.T) {
	owner := NewOwner(filepath.Join(t.TempDir(), "audio"))

	// Neither may panic or error; release always succeeds.
	owner.Release("")
	owner.Release(filepath.Join(owner.Dir(), "already-gone.m4a"))
}

func TestReleaseAll(t *testing.T) {
	owner := NewOwner(filepath.Join(t.TempDir(), "audio"))
	src := writeRecording(t, t.TempDir(), "note.m4a")

	var handles []string
	for i := 0; i < 3; i++ {
		h, err := owner.Attach(src)
		if err != nil {
			t.Fatal(err)
		}
		handles = append(handles, h)
	}

	owner.ReleaseAll(handles)
	for _, h := range handles {
		if _, err := os.Stat(h); !os.IsNotExist(err) {
			t.Errorf("handle %q not released", h)
		}
	}
}

func TestPath(t *testing.T) {
	owner := NewOwner(filepath.Join(t.TempDir(), "audio"))

	if _, err := owner.Path(""); err == nil {
		t.Error("empty handle should error")
	}
	if _, err := owner.Path(filepath.Join(owner.Dir(), "gone.m4a")); err == nil {
		t.Error("missing file should error")
	}

	handle, err := owner.Attach(writeRecording(t, t.TempDir(), "note.m4a"))
	if err != nil {
		t.Fatal(err)
	}
	path, err := owner.Path(handle)
	if err != nil {
		t.Fatal(err)
	}
	if path != handle {
		t.Errorf("Path = %q, want %q", path, handle)
	}
}
