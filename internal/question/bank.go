package question

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"os"

	"github.com/google/uuid"

	"showdown/internal/model"
)

//go:embed questions.json
var embedded []byte

type bankFile struct {
	Questions []model.Question `json:"questions"`
}

// Bank holds the static question set, indexed by difficulty.
type Bank struct {
	all   []model.Question
	pools map[model.Difficulty][]model.Question
}

// NewBank builds a bank from the embedded question set.
func NewBank() (*Bank, error) {
	return Parse(embedded)
}

// NewBankFromFile builds a bank from a JSON file on disk, replacing the
// embedded set.
func NewBankFromFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a question set. Each question is assigned
// an id if the file does not carry one.
func Parse(data []byte) (*Bank, error) {
	var file bankFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	if len(file.Questions) == 0 {
		return nil, fmt.Errorf("question set is empty")
	}

	b := &Bank{pools: make(map[model.Difficulty][]model.Question)}
	for i, q := range file.Questions {
		if len(q.Options) < 2 {
			return nil, fmt.Errorf("question %d: needs at least 2 options", i)
		}
		if q.Correct < 0 || q.Correct >= len(q.Options) {
			return nil, fmt.Errorf("question %d: correct index %d out of range", i, q.Correct)
		}
		switch q.Difficulty {
		case model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
		default:
			return nil, fmt.Errorf("question %d: unknown difficulty %q", i, q.Difficulty)
		}
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		b.all = append(b.all, q)
		b.pools[q.Difficulty] = append(b.pools[q.Difficulty], q)
	}
	return b, nil
}

// Len reports the total number of questions in the bank.
func (b *Bank) Len() int {
	return len(b.all)
}

// ByDifficulty returns up to count questions of one difficulty, in
// random order. A short pool yields fewer questions, never an error.
func (b *Bank) ByDifficulty(d model.Difficulty, count int) []model.Question {
	pool := b.pools[d]
	picked := samplePool(pool, count)
	return picked
}

// Balanced selects a mixed set of count questions: roughly 30% easy,
// 50% medium and 20% hard (rounded up per pool), shuffled together and
// truncated to count. Each returned question is a deep copy, so the set
// stays frozen for the room that receives it.
func (b *Bank) Balanced(count int) []model.Question {
	easy := b.ByDifficulty(model.DifficultyEasy, int(math.Ceil(float64(count)*0.3)))
	medium := b.ByDifficulty(model.DifficultyMedium, int(math.Ceil(float64(count)*0.5)))
	hard := b.ByDifficulty(model.DifficultyHard, int(math.Ceil(float64(count)*0.2)))

	combined := make([]model.Question, 0, len(easy)+len(medium)+len(hard))
	combined = append(combined, easy...)
	combined = append(combined, medium...)
	combined = append(combined, hard...)

	rand.Shuffle(len(combined), func(i, j int) {
		combined[i], combined[j] = combined[j], combined[i]
	})
	if len(combined) > count {
		combined = combined[:count]
	}
	return combined
}

// samplePool shuffles a copy of the pool (Fisher-Yates) and takes the
// first count entries as deep copies.
func samplePool(pool []model.Question, count int) []model.Question {
	idx := rand.Perm(len(pool))
	if count > len(pool) {
		count = len(pool)
	}
	out := make([]model.Question, 0, count)
	for _, i := range idx[:count] {
		out = append(out, pool[i].Clone())
	}
	return out
}
