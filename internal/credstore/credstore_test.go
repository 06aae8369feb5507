package credstore

import "testing"

func TestMemorySaveAndLoad(t *testing.T) {
	store := NewMemory()

	if _, ok := store.Load(); ok {
		t.Error("expected empty store to report absence")
	}

	if err := store.Save("tok-123"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	token, ok := store.Load()
	if !ok {
		t.Fatal("expected token after Save")
	}
	if token != "tok-123" {
		t.Errorf("got %q, want tok-123", token)
	}
}

func TestMemoryClear(t *testing.T) {
	store := NewMemory()
	store.Save("tok-123")

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok := store.Load(); ok {
		t.Error("expected absence after Clear")
	}
}

func TestMemoryClearEmpty(t *testing.T) {
	store := NewMemory()
	if err := store.Clear(); err != nil {
		t.Errorf("clearing an empty store should not fail: %v", err)
	}
}

func TestMemoryEmptyTokenIsAbsent(t *testing.T) {
	store := NewMemory()
	store.Save("")
	if _, ok := store.Load(); ok {
		t.Error("an empty token should report absence")
	}
}

func TestMemoryOverwrite(t *testing.T) {
	store := NewMemory()
	store.Save("first")
	store.Save("second")

	token, ok := store.Load()
	if !ok || token != "second" {
		t.Errorf("got %q/%v, want second/true", token, ok)
	}
}
