package ws

import (
	"log/slog"
	"testing"
)

func newTestHub() *Hub {
	return NewHub(slog.New(slog.DiscardHandler))
}

func TestHubSubscribeUnsubscribe(t *testing.T) {
	h := newTestHub()

	a := h.Subscribe("room1", "alice")
	b := h.Subscribe("room1", "bob")
	h.Subscribe("room2", "carol")

	if got := h.Subscribers("room1"); got != 2 {
		t.Errorf("expected 2 subscribers, got %d", got)
	}
	if got := h.Subscribers("room2"); got != 1 {
		t.Errorf("expected 1 subscriber, got %d", got)
	}

	h.Unsubscribe(a)
	h.Unsubscribe(b)
	if got := h.Subscribers("room1"); got != 0 {
		t.Errorf("expected 0 subscribers after unsubscribe, got %d", got)
	}

	// Unsubscribing twice is harmless.
	h.Unsubscribe(a)
}

func TestRoomChangedWakesSubscribers(t *testing.T) {
	h := newTestHub()

	a := h.Subscribe("room1", "alice")
	other := h.Subscribe("room2", "bob")

	h.RoomChanged("room1")

	select {
	case <-a.Wake():
	default:
		t.Error("subscriber was not woken")
	}
	select {
	case <-other.Wake():
		t.Error("subscriber of another room was woken")
	default:
	}
}

func TestRoomChangedDoesNotBlock(t *testing.T) {
	h := newTestHub()
	h.Subscribe("room1", "alice")

	// A subscriber that never drains its wake channel must not
	// stall the notifier.
	for i := 0; i < 100; i++ {
		h.RoomChanged("room1")
	}
}

func TestRoomClosedWakes(t *testing.T) {
	h := newTestHub()
	a := h.Subscribe("room1", "alice")

	h.RoomClosed("room1")
	select {
	case <-a.Wake():
	default:
		t.Error("subscriber was not woken on close")
	}
}
