package store

import "testing"

// TestMemoryStoreRoundTrip tests the basic Get/Set/Delete contract
func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()

	if _, ok, err := s.Get("missing"); ok || err != nil {
		t.Error("Missing key should report not found without error")
	}

	if err := s.Set("k", []byte("v1")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	raw, ok, err := s.Get("k")
	if err != nil || !ok || string(raw) != "v1" {
		t.Errorf("Expected v1, got %q (ok=%v, err=%v)", raw, ok, err)
	}

	if err := s.Set("k", []byte("v2")); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}
	raw, _, _ = s.Get("k")
	if string(raw) != "v2" {
		t.Errorf("Expected overwritten value, got %q", raw)
	}

	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := s.Get("k"); ok {
		t.Error("Deleted key should be gone")
	}
}

// TestMemoryStoreCopiesValues tests that callers cannot mutate stored
// data through returned slices
func TestMemoryStoreCopiesValues(t *testing.T) {
	s := NewMemoryStore()

	original := []byte("stable")
	s.Set("k", original)
	original[0] = 'X'

	raw, _, _ := s.Get("k")
	if string(raw) != "stable" {
		t.Error("Store should keep its own copy of written values")
	}

	raw[0] = 'Y'
	again, _, _ := s.Get("k")
	if string(again) != "stable" {
		t.Error("Store should hand out copies, not its internal buffer")
	}
}
