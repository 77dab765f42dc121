package memory

import (
	"errors"
	"testing"
)

func TestPutGet(t *testing.T) {
	m := New()

	if _, found, _ := m.Get("habits"); found {
		t.Fatal("expected empty store")
	}
	if err := m.Put("habits", []byte("[]")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	val, found, err := m.Get("habits")
	if err != nil || !found || string(val) != "[]" {
		t.Fatalf("Get = %q, %v, %v", val, found, err)
	}

	// returned slices are copies
	val[0] = 'x'
	again, _, _ := m.Get("habits")
	if string(again) != "[]" {
		t.Fatalf("stored value was mutated through Get: %q", again)
	}
}

func TestFailPuts(t *testing.T) {
	m := New()
	boom := errors.New("disk full")
	m.FailPuts = boom

	if err := m.Put("habits", []byte("[]")); !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}
}

func TestClosed(t *testing.T) {
	m := New()
	_ = m.Close()
	if err := m.Put("k", nil); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
