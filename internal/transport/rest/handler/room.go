package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"showdown/internal/model"
	"showdown/internal/service"
)

// RoomHandler handles room endpoints
type RoomHandler struct {
	game *service.GameService
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(game *service.GameService) *RoomHandler {
	return &RoomHandler{game: game}
}

// CreateRoomRequest is the request body for creating a room
type CreateRoomRequest struct {
	HostID   string `json:"hostId"`
	HostName string `json:"hostName"`
}

// Create handles POST /v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.HostID == "" || req.HostName == "" {
		writeError(w, http.StatusBadRequest, "hostId and hostName are required")
		return
	}

	room, err := h.game.CreateRoom(req.HostID, req.HostName)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, roomResponse(room))
}

// JoinRequest is the request body for joining a room
type JoinRequest struct {
	Code       string `json:"code"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// Join handles POST /v1/rooms/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Code == "" || req.PlayerID == "" || req.PlayerName == "" {
		writeError(w, http.StatusBadRequest, "code, playerId and playerName are required")
		return
	}

	room, err := h.game.JoinRoom(req.Code, req.PlayerID, req.PlayerName)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, roomResponse(room))
}

// Get handles GET /v1/rooms/{roomId}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	room, err := h.game.GetRoom(roomID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, roomResponse(room))
}

// GetByCode handles GET /v1/rooms/code/{code}
func (h *RoomHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	room, err := h.game.GetRoomByCode(code)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, roomResponse(room))
}

// ReadyRequest is the request body for the ready toggle
type ReadyRequest struct {
	PlayerID string `json:"playerId"`
	IsReady  *bool  `json:"isReady"`
}

// Ready handles POST /v1/rooms/{roomId}/ready
func (h *RoomHandler) Ready(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	var req ReadyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PlayerID == "" || req.IsReady == nil {
		writeError(w, http.StatusBadRequest, "playerId and isReady are required")
		return
	}

	if err := h.game.SetReady(roomID, req.PlayerID, *req.IsReady); err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// StartRequest is the request body for starting a game
type StartRequest struct {
	HostID        string `json:"hostId"`
	QuestionCount int    `json:"questionCount"`
}

// Start handles POST /v1/rooms/{roomId}/start
func (h *RoomHandler) Start(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.HostID == "" {
		writeError(w, http.StatusBadRequest, "hostId is required")
		return
	}
	if req.QuestionCount < 0 {
		writeError(w, http.StatusBadRequest, "questionCount must be positive")
		return
	}

	room, err := h.game.StartGame(roomID, req.HostID, req.QuestionCount)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, roomResponse(room))
}

// AnswerRequest is the request body for submitting an answer
type AnswerRequest struct {
	PlayerID       string  `json:"playerId"`
	QuestionIndex  *int    `json:"questionIndex"`
	SelectedOption *int    `json:"selectedOption"`
	TimeSpent      float64 `json:"timeSpent"`
}

// Answer handles POST /v1/rooms/{roomId}/answer
func (h *RoomHandler) Answer(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PlayerID == "" || req.QuestionIndex == nil || req.SelectedOption == nil {
		writeError(w, http.StatusBadRequest, "playerId, questionIndex and selectedOption are required")
		return
	}
	if *req.SelectedOption < model.NoAnswer {
		writeError(w, http.StatusBadRequest, "selectedOption is invalid")
		return
	}
	if req.TimeSpent < 0 {
		writeError(w, http.StatusBadRequest, "timeSpent must not be negative")
		return
	}

	err := h.game.SubmitAnswer(roomID, req.PlayerID, *req.QuestionIndex, *req.SelectedOption, req.TimeSpent)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// LeaveRequest is the request body for leaving a room
type LeaveRequest struct {
	PlayerID string `json:"playerId"`
}

// Leave handles POST /v1/rooms/{roomId}/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	var req LeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PlayerID == "" {
		writeError(w, http.StatusBadRequest, "playerId is required")
		return
	}

	if err := h.game.LeaveRoom(roomID, req.PlayerID); err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ResetRequest is the request body for resetting a game
type ResetRequest struct {
	HostID string `json:"hostId"`
}

// Reset handles POST /v1/rooms/{roomId}/reset
func (h *RoomHandler) Reset(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	var req ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.HostID == "" {
		writeError(w, http.StatusBadRequest, "hostId is required")
		return
	}

	if err := h.game.ResetGame(roomID, req.HostID); err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Stats handles GET /v1/rooms/{roomId}/stats
func (h *RoomHandler) Stats(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	stats, err := h.game.Stats(roomID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func roomResponse(room *model.Room) map[string]interface{} {
	return map[string]interface{}{"room": room}
}
