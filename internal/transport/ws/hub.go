package ws

import (
	"log/slog"
	"sync"
)

// Subscriber is one live-update subscription: a player watching a
// room. The wake channel lets the hub trigger an out-of-band snapshot
// push between ticks.
type Subscriber struct {
	RoomID   string
	PlayerID string
	wake     chan struct{}
}

// Wake returns the channel signalled when the room changed.
func (s *Subscriber) Wake() <-chan struct{} {
	return s.wake
}

// Hub tracks live-update subscribers per room and implements
// service.SnapshotNotifier.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscriber]struct{} // roomID -> subscribers

	logger *slog.Logger
}

// NewHub creates a new subscriber hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subs:   make(map[string]map[*Subscriber]struct{}),
		logger: logger,
	}
}

// Subscribe registers a player's subscription to a room.
func (h *Hub) Subscribe(roomID, playerID string) *Subscriber {
	sub := &Subscriber{
		RoomID:   roomID,
		PlayerID: playerID,
		wake:     make(chan struct{}, 1),
	}
	h.mu.Lock()
	if h.subs[roomID] == nil {
		h.subs[roomID] = make(map[*Subscriber]struct{})
	}
	h.subs[roomID][sub] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("subscriber added", "room", roomID, "player", playerID)
	return sub
}

// Unsubscribe removes a subscription.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	if subs, ok := h.subs[sub.RoomID]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.subs, sub.RoomID)
		}
	}
	h.mu.Unlock()

	h.logger.Debug("subscriber removed", "room", sub.RoomID, "player", sub.PlayerID)
}

// RoomChanged wakes every subscriber of the room so the next snapshot
// goes out ahead of the tick. Non-blocking; a subscriber that is
// already awake keeps its single pending signal.
func (h *Hub) RoomChanged(roomID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[roomID] {
		select {
		case sub.wake <- struct{}{}:
		default:
		}
	}
}

// RoomClosed wakes subscribers of a deleted room; they observe the
// missing room on their next snapshot and receive the terminal notice.
func (h *Hub) RoomClosed(roomID string) {
	h.RoomChanged(roomID)
}

// Subscribers reports how many subscriptions a room has.
func (h *Hub) Subscribers(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[roomID])
}
