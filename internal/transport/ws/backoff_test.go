package ws

import (
	"testing"
	"time"
)

func TestBackoffSequence(t *testing.T) {
	b := DefaultBackoff()

	want := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		10 * time.Second, // capped
	}
	for i, expected := range want {
		d, ok := b.Next()
		if !ok {
			t.Fatalf("attempt %d: budget exhausted early", i)
		}
		if d != expected {
			t.Errorf("attempt %d: expected %s, got %s", i, expected, d)
		}
	}

	if _, ok := b.Next(); ok {
		t.Error("expected exhaustion after 5 attempts")
	}
}

func TestBackoffReset(t *testing.T) {
	b := DefaultBackoff()
	for {
		if _, ok := b.Next(); !ok {
			break
		}
	}

	b.Reset()
	d, ok := b.Next()
	if !ok || d != time.Second {
		t.Errorf("after reset: expected 1s and ok, got %s/%t", d, ok)
	}
}
