package handler

import (
	"net/http"
	"strconv"

	"showdown/internal/service"
)

// LeaderboardHandler serves the global leaderboard
type LeaderboardHandler struct {
	game *service.GameService
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(game *service.GameService) *LeaderboardHandler {
	return &LeaderboardHandler{game: game}
}

// Get handles GET /v1/leaderboard
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	topStr := r.URL.Query().Get("top")
	top := 20
	if topStr != "" {
		if n, err := strconv.Atoi(topStr); err == nil && n > 0 {
			top = n
		}
	}

	entries, err := h.game.Leaderboard(r.Context(), top)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": entries})
}
