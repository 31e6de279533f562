package ws

import "encoding/json"

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgRoomUpdate    MessageType = "room_update"
	MsgRoomClosed    MessageType = "room_closed"
	MsgPlayerRemoved MessageType = "player_removed"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage wraps a payload into the envelope.
func NewMessage(t MessageType, payload any) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: t, Payload: data}, nil
}

// RoomUpdatePayload carries the room snapshot pushed to subscribers.
type RoomUpdatePayload struct {
	Room any `json:"room"`
}

// NoticePayload carries the terminal notices.
type NoticePayload struct {
	Message string `json:"message"`
}
