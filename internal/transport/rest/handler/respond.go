package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"showdown/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeStoreError maps store sentinels onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrRoomNotFound), errors.Is(err, store.ErrPlayerNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrNotHost):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, store.ErrAlreadyStarted),
		errors.Is(err, store.ErrGameInProgress),
		errors.Is(err, store.ErrNotPlaying),
		errors.Is(err, store.ErrAlreadyAnswered):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrPlayersNotReady),
		errors.Is(err, store.ErrBadQuestionIndex),
		errors.Is(err, store.ErrNoQuestions):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
