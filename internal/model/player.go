package model

import "time"

// Player represents a participant in a room
type Player struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Score          int       `json:"score"`
	CorrectAnswers int       `json:"correctAnswers"`
	TotalAnswers   int       `json:"totalAnswers"`
	TotalTime      float64   `json:"totalTime"`   // seconds across all answers
	AverageTime    float64   `json:"averageTime"` // always TotalTime / TotalAnswers
	CurrentStreak  int       `json:"currentStreak"`
	MaxStreak      int       `json:"maxStreak"`
	IsReady        bool      `json:"isReady"`
	IsHost         bool      `json:"isHost"`
	LastActivity   time.Time `json:"lastActivity"`
	JoinedAt       time.Time `json:"joinedAt"`
}

// ResetStats zeroes the cumulative stats and the ready flag, keeping
// identity and host status.
func (p *Player) ResetStats(now time.Time) {
	p.Score = 0
	p.CorrectAnswers = 0
	p.TotalAnswers = 0
	p.TotalTime = 0
	p.AverageTime = 0
	p.CurrentStreak = 0
	p.MaxStreak = 0
	p.IsReady = false
	p.LastActivity = now
}
