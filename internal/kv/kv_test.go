package kv

import (
	"errors"
	"testing"
)

// backends that can be exercised without external services
func testBackends(t *testing.T) map[string]Store {
	t.Helper()
	file, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	return map[string]Store{
		"memory": NewMemory(),
		"file":   file,
	}
}

func TestStore_SetGetRemove(t *testing.T) {
	for name, store := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Get("missing"); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound for missing key, got %v", err)
			}

			if err := store.Set("attendance:teacher@example.com", `{"2026-08-28":[]}`); err != nil {
				t.Fatalf("Set failed: %v", err)
			}

			got, err := store.Get("attendance:teacher@example.com")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got != `{"2026-08-28":[]}` {
				t.Errorf("unexpected value: %s", got)
			}

			if err := store.Set("attendance:teacher@example.com", `{}`); err != nil {
				t.Fatalf("overwrite failed: %v", err)
			}
			got, _ = store.Get("attendance:teacher@example.com")
			if got != `{}` {
				t.Errorf("expected overwritten value, got %s", got)
			}

			if err := store.Remove("attendance:teacher@example.com"); err != nil {
				t.Fatalf("Remove failed: %v", err)
			}
			if _, err := store.Get("attendance:teacher@example.com"); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound after remove, got %v", err)
			}
		})
	}
}

func TestStore_RemoveMissingKey(t *testing.T) {
	for name, store := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Remove("never-set"); err != nil {
				t.Errorf("removing a missing key should not error, got %v", err)
			}
		})
	}
}

func TestFileStore_SimilarKeysDoNotCollide(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	// Keys that would flatten to the same file name under a naive
	// separator substitution must stay independent.
	keys := map[string]string{
		"session:email":   "a",
		"session_email":   "b",
		"session/email":   "c",
		"session%3Aemail": "d",
	}
	for key, value := range keys {
		if err := store.Set(key, value); err != nil {
			t.Fatalf("Set %q failed: %v", key, err)
		}
	}
	for key, want := range keys {
		got, err := store.Get(key)
		if err != nil {
			t.Fatalf("Get %q failed: %v", key, err)
		}
		if got != want {
			t.Errorf("key %q: expected %q, got %q", key, want, got)
		}
	}

	if err := store.Remove("session:email"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if got, err := store.Get("session_email"); err != nil || got != "b" {
		t.Errorf("removing session:email disturbed session_email: %q %v", got, err)
	}
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	first, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	if err := first.Set("session:email", "teacher@example.com"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	second, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("reopening FileStore failed: %v", err)
	}
	got, err := second.Get("session:email")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if got != "teacher@example.com" {
		t.Errorf("expected persisted value, got %s", got)
	}
}
