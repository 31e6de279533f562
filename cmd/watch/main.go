// Command watch tails a room's live-update stream in the terminal.
// It reconnects with capped exponential backoff when the transport
// drops, and exits on a terminal notice.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"showdown/internal/model"
	"showdown/internal/transport/ws"
)

func main() {
	addr := flag.String("addr", "localhost:8080", "server host:port")
	roomID := flag.String("room", "", "room id to watch")
	playerID := flag.String("player", "", "player id to watch as")
	flag.Parse()

	if *roomID == "" || *playerID == "" {
		fmt.Fprintln(os.Stderr, "usage: watch -room <roomId> -player <playerId> [-addr host:port]")
		os.Exit(2)
	}

	u := url.URL{
		Scheme:   "ws",
		Host:     *addr,
		Path:     "/v1/ws/rooms/" + *roomID,
		RawQuery: "playerId=" + url.QueryEscape(*playerID),
	}

	backoff := ws.DefaultBackoff()
	for {
		terminal, err := watch(u.String())
		if terminal {
			return
		}
		log.Printf("connection lost: %v", err)

		delay, ok := backoff.Next()
		if !ok {
			log.Fatal("giving up after repeated connection failures")
		}
		log.Printf("reconnecting in %s", delay)
		time.Sleep(delay)
	}
}

// watch streams one connection's worth of updates. It reports
// terminal=true when the server ended the stream on purpose.
func watch(rawURL string) (terminal bool, err error) {
	conn, _, err := websocket.DefaultDialer.Dial(rawURL, nil)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	for {
		var msg ws.Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return true, nil
			}
			return false, err
		}

		switch msg.Type {
		case ws.MsgRoomUpdate:
			var payload struct {
				Room model.Room `json:"room"`
			}
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				log.Printf("bad payload: %v", err)
				continue
			}
			printRoom(&payload.Room)
		case ws.MsgRoomClosed, ws.MsgPlayerRemoved:
			var notice ws.NoticePayload
			json.Unmarshal(msg.Payload, &notice)
			log.Printf("stream ended: %s", notice.Message)
			return true, nil
		}
	}
}

func printRoom(room *model.Room) {
	fmt.Printf("[%s] %s question %d/%d\n", room.Code, room.GameState, room.CurrentQuestion+1, len(room.Questions))
	for _, p := range room.Players {
		marker := " "
		if p.IsHost {
			marker = "*"
		}
		ready := ""
		if room.GameState == model.GameWaiting {
			ready = fmt.Sprintf(" ready=%t", p.IsReady)
		}
		fmt.Printf("  %s %-16s score=%-6d streak=%d%s\n", marker, p.Name, p.Score, p.CurrentStreak, ready)
	}
}
