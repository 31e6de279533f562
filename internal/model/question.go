package model

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Multiplier returns the score multiplier for the difficulty tier.
func (d Difficulty) Multiplier() int {
	switch d {
	case DifficultyHard:
		return 3
	case DifficultyMedium:
		return 2
	default:
		return 1
	}
}

// Question is a single multiple-choice question. Once selected into a
// room it is frozen for that room's lifetime.
type Question struct {
	ID         string     `json:"id"`
	Prompt     string     `json:"question"`
	Options    []string   `json:"options"`
	Correct    int        `json:"correct"` // index into Options; -1 when redacted
	Difficulty Difficulty `json:"difficulty"`
	Category   string     `json:"category"`
}

// Clone copies the question including its options slice.
func (q Question) Clone() Question {
	c := q
	c.Options = make([]string, len(q.Options))
	copy(c.Options, q.Options)
	return c
}
