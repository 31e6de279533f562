package store

import "errors"

// Sentinel errors returned by the room store. The REST boundary maps
// each to an HTTP status.
var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrNotHost          = errors.New("only the host can do this")
	ErrAlreadyStarted   = errors.New("game already started")
	ErrGameInProgress   = errors.New("room is not accepting players")
	ErrPlayersNotReady  = errors.New("not all players are ready")
	ErrNotPlaying       = errors.New("game is not in progress")
	ErrAlreadyAnswered  = errors.New("player already answered this question")
	ErrBadQuestionIndex = errors.New("question index out of range")
	ErrNoQuestions      = errors.New("no questions available for these settings")
	ErrCodeExhausted    = errors.New("failed to generate a unique room code")
)
