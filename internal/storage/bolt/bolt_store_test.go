package bolt

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) (*Store, func()) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}

	return store, cleanup
}

func TestOpen(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	if store == nil {
		t.Fatal("expected non-nil store")
	}
}

func TestGet_Missing(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	val, found, err := store.Get("habits")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Fatalf("expected key not found, got %q", val)
	}
}

func TestPutGet(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	if err := store.Put("habits", []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Put("habits", []byte(`[{"id":"b"}]`)); err != nil {
		t.Fatalf("Put (overwrite) failed: %v", err)
	}

	val, found, err := store.Get("habits")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("expected key to be found")
	}
	if string(val) != `[{"id":"b"}]` {
		t.Fatalf("expected overwritten value, got %q", val)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.Put("habits", []byte("[]")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	val, found, err := store.Get("habits")
	if err != nil || !found || string(val) != "[]" {
		t.Fatalf("Get after reopen = %q, %v, %v", val, found, err)
	}
}
