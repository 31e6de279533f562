package model

import "time"

// NoAnswer is the selected-option sentinel for a timeout or a blank
// submission. It is recorded like any answer and scored as incorrect.
const NoAnswer = -1

// Answer records one submission. At most one exists per
// (room, player, question index); duplicates are rejected, not
// overwritten.
type Answer struct {
	PlayerID       string    `json:"playerId"`
	QuestionIndex  int       `json:"questionIndex"`
	SelectedOption int       `json:"selectedOption"`
	TimeSpent      float64   `json:"timeSpent"` // seconds
	SubmittedAt    time.Time `json:"submittedAt"`
}
