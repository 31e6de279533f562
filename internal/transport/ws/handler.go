package ws

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"showdown/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	// snapshotInterval is the steady push cadence; store change
	// notifications wake the pump earlier.
	snapshotInterval = time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Handler handles live-update WebSocket connections
type Handler struct {
	hub    *Hub
	game   *service.GameService
	logger *slog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, game *service.GameService, logger *slog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		game:   game,
		logger: logger,
	}
}

// Events handles GET /v1/ws/rooms/{roomId}?playerId=...
// It pushes the current room snapshot immediately, then on every
// change or tick, until the room closes or the player is removed.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]
	playerID := r.URL.Query().Get("playerId")

	if playerID == "" {
		http.Error(w, "playerId is required", http.StatusBadRequest)
		return
	}
	if _, status := h.game.Snapshot(roomID, playerID); status != service.SnapshotOK {
		http.Error(w, "room or player not found", http.StatusNotFound)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	sub := h.hub.Subscribe(roomID, playerID)
	done := make(chan struct{})

	h.logger.Info("subscriber connected", "room", roomID, "player", playerID)

	go h.readPump(wsConn, sub, done)
	go h.writePump(wsConn, sub, done)
}

// readPump drains the connection and tears the subscription down when
// the client goes away. Incoming messages are not processed.
func (h *Handler) readPump(wsConn *websocket.Conn, sub *Subscriber, done chan struct{}) {
	defer func() {
		h.hub.Unsubscribe(sub)
		close(done)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := wsConn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug("websocket read error", "error", err)
			}
			return
		}
	}
}

// writePump pushes snapshots until a terminal notice or disconnect.
func (h *Handler) writePump(wsConn *websocket.Conn, sub *Subscriber, done chan struct{}) {
	snapshots := time.NewTicker(snapshotInterval)
	pings := time.NewTicker(pingPeriod)
	defer func() {
		snapshots.Stop()
		pings.Stop()
		wsConn.Close()
	}()

	// Initial snapshot before the first tick.
	if !h.pushSnapshot(wsConn, sub) {
		return
	}

	for {
		select {
		case <-snapshots.C:
			if !h.pushSnapshot(wsConn, sub) {
				return
			}
		case <-sub.Wake():
			if !h.pushSnapshot(wsConn, sub) {
				return
			}
		case <-pings.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// pushSnapshot writes one update or a terminal notice. Returns false
// when the pump should stop.
func (h *Handler) pushSnapshot(wsConn *websocket.Conn, sub *Subscriber) bool {
	room, status := h.game.Snapshot(sub.RoomID, sub.PlayerID)

	var (
		msg *Message
		err error
	)
	switch status {
	case service.SnapshotOK:
		msg, err = NewMessage(MsgRoomUpdate, RoomUpdatePayload{Room: room})
	case service.SnapshotRoomClosed:
		msg, err = NewMessage(MsgRoomClosed, NoticePayload{Message: "room closed"})
	case service.SnapshotPlayerRemoved:
		msg, err = NewMessage(MsgPlayerRemoved, NoticePayload{Message: "removed from room"})
	}
	if err != nil {
		h.logger.Error("snapshot encode failed", "room", sub.RoomID, "error", err)
		return false
	}

	wsConn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := wsConn.WriteJSON(msg); err != nil {
		return false
	}

	if status != service.SnapshotOK {
		// Terminal notice delivered; end the stream cleanly.
		wsConn.SetWriteDeadline(time.Now().Add(writeWait))
		wsConn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, string(msg.Type)))
		return false
	}
	return true
}
