package storage

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestJSONStoreInitAndRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diario.json")
	store := NewJSONStore(path)

	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if err := store.Set(KeyEntries, `{"2026-03-01": []}`); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Reopen from disk.
	reopened := NewJSONStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	value, ok, err := reopened.Get(KeyEntries)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || value != `{"2026-03-01": []}` {
		t.Errorf("Get = %q, %v", value, ok)
	}
}

func TestJSONStoreInitRefusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diario.json")
	if err := NewJSONStore(path).Init(); err != nil {
		t.Fatal(err)
	}

	err := NewJSONStore(path).Init()
	if err == nil || !strings.Contains(err.Error(), "already initialized") {
		t.Errorf("second Init should refuse, got %v", err)
	}
}

func TestJSONStoreLoadMissingFile(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "missing.json"))
	err := store.Load()
	if err == nil || !strings.Contains(err.Error(), "not initialized") {
		t.Errorf("expected not-initialized error, got %v", err)
	}
}

func TestJSONStoreGetMissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diario.json")
	store := NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	_, ok, err := store.Get("no-such-key")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("missing key should report ok=false")
	}
}

func TestJSONStoreDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diario.json")
	store := NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	if err := store.Set(KeySettings, "{}"); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(KeySettings); err != nil {
		t.Fatal(err)
	}

	_, ok, err := store.Get(KeySettings)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("deleted key still present")
	}
}
