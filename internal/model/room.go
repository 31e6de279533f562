package model

import "time"

type GameState string

const (
	GameWaiting  GameState = "waiting"
	GamePlaying  GameState = "playing"
	GameFinished GameState = "finished"
)

type RoomSettings struct {
	QuestionCount   int    `json:"questionCount"`
	TimePerQuestion int    `json:"timePerQuestion"` // seconds
	Difficulty      string `json:"difficulty"`      // "mixed" or a single difficulty
}

// DefaultSettings matches the lobby defaults clients expect.
func DefaultSettings() RoomSettings {
	return RoomSettings{
		QuestionCount:   10,
		TimePerQuestion: 30,
		Difficulty:      "mixed",
	}
}

// Room is one game session, joinable by code.
type Room struct {
	ID              string       `json:"id"`
	Code            string       `json:"code"`
	HostID          string       `json:"hostId"`
	Players         []*Player    `json:"players"`
	GameState       GameState    `json:"gameState"`
	Questions       []Question   `json:"questions"`
	CurrentQuestion int          `json:"currentQuestion"`
	Settings        RoomSettings `json:"settings"`
	CreatedAt       time.Time    `json:"createdAt"`
	StartTime       *time.Time   `json:"startTime,omitempty"`
}

// Player returns the member with the given id, or nil.
func (r *Room) Player(playerID string) *Player {
	for _, p := range r.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// Clone deep-copies the room so the store can hand it out without
// exposing internally owned state.
func (r *Room) Clone() *Room {
	c := *r
	c.Players = make([]*Player, len(r.Players))
	for i, p := range r.Players {
		cp := *p
		c.Players[i] = &cp
	}
	c.Questions = make([]Question, len(r.Questions))
	for i, q := range r.Questions {
		c.Questions[i] = q.Clone()
	}
	if r.StartTime != nil {
		t := *r.StartTime
		c.StartTime = &t
	}
	return &c
}

// Public redacts the correct option indexes while the game is in
// progress. Waiting and finished rooms are returned unchanged.
func (r *Room) Public() *Room {
	if r.GameState != GamePlaying {
		return r
	}
	for i := range r.Questions {
		r.Questions[i].Correct = -1
	}
	return r
}

// RoomStats is the aggregate view served by the stats endpoint.
type RoomStats struct {
	TotalPlayers       int     `json:"totalPlayers"`
	TotalAnswers       int     `json:"totalAnswers"`
	AverageScore       float64 `json:"averageScore"`
	QuestionsCompleted int     `json:"questionsCompleted"`
	GameProgress       float64 `json:"gameProgress"`
}
