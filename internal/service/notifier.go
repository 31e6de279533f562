package service

// SnapshotNotifier wakes live-update subscribers when a room changes
// or disappears. The WebSocket hub implements it.
type SnapshotNotifier interface {
	RoomChanged(roomID string)
	RoomClosed(roomID string)
}
