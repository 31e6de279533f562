package store

import (
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"showdown/internal/model"
	"showdown/internal/question"
)

const testBankJSON = `{
  "questions": [
    {"question": "E1", "options": ["a", "b", "c"], "correct": 0, "difficulty": "easy", "category": "t"},
    {"question": "E2", "options": ["a", "b", "c"], "correct": 1, "difficulty": "easy", "category": "t"},
    {"question": "E3", "options": ["a", "b", "c"], "correct": 2, "difficulty": "easy", "category": "t"},
    {"question": "E4", "options": ["a", "b", "c"], "correct": 0, "difficulty": "easy", "category": "t"},
    {"question": "E5", "options": ["a", "b", "c"], "correct": 1, "difficulty": "easy", "category": "t"},
    {"question": "E6", "options": ["a", "b", "c"], "correct": 2, "difficulty": "easy", "category": "t"},
    {"question": "M1", "options": ["a", "b"], "correct": 0, "difficulty": "medium", "category": "t"},
    {"question": "M2", "options": ["a", "b"], "correct": 1, "difficulty": "medium", "category": "t"},
    {"question": "M3", "options": ["a", "b"], "correct": 0, "difficulty": "medium", "category": "t"},
    {"question": "H1", "options": ["a", "b"], "correct": 0, "difficulty": "hard", "category": "t"},
    {"question": "H2", "options": ["a", "b"], "correct": 1, "difficulty": "hard", "category": "t"}
  ]
}`

func newTestStore(t *testing.T, opts Options) *Store {
	t.Helper()
	bank, err := question.Parse([]byte(testBankJSON))
	if err != nil {
		t.Fatalf("parse test bank: %v", err)
	}
	s := New(bank, slog.New(slog.DiscardHandler), opts)
	t.Cleanup(s.Close)
	return s
}

// fakeNotifier records store events.
type fakeNotifier struct {
	mu       sync.Mutex
	changed  []string
	closed   []string
	finished []*model.Room
}

func (f *fakeNotifier) RoomChanged(roomID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changed = append(f.changed, roomID)
}

func (f *fakeNotifier) RoomClosed(roomID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, roomID)
}

func (f *fakeNotifier) RoomFinished(room *model.Room) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finished = append(f.finished, room)
}

func (f *fakeNotifier) closedRooms() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.closed...)
}

func (f *fakeNotifier) finishedRooms() []*model.Room {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*model.Room(nil), f.finished...)
}

// readyRoom creates a room with the given players, everyone ready.
func readyRoom(t *testing.T, s *Store, host string, others ...string) *model.Room {
	t.Helper()
	room, err := s.CreateRoom(host, host)
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	for _, id := range others {
		if _, err := s.JoinRoom(room.Code, id, id); err != nil {
			t.Fatalf("JoinRoom(%s): %v", id, err)
		}
	}
	for _, id := range append([]string{host}, others...) {
		if err := s.SetReady(room.ID, id, true); err != nil {
			t.Fatalf("SetReady(%s): %v", id, err)
		}
	}
	return room
}

// setEasyOnly pins the room to the easy pool so correctness and
// scoring are predictable.
func setEasyOnly(s *Store, roomID string) {
	s.mu.Lock()
	s.rooms[roomID].Settings.Difficulty = string(model.DifficultyEasy)
	s.mu.Unlock()
}

func TestCreateRoom(t *testing.T) {
	s := newTestStore(t, Options{})

	room, err := s.CreateRoom("alice", "Alice")
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	if room.GameState != model.GameWaiting {
		t.Errorf("expected waiting, got %s", room.GameState)
	}
	if len(room.Code) != 6 {
		t.Errorf("expected 6-char code, got %q", room.Code)
	}
	if len(room.Players) != 1 {
		t.Fatalf("expected 1 player, got %d", len(room.Players))
	}
	host := room.Players[0]
	if !host.IsHost || host.ID != "alice" || host.Name != "Alice" {
		t.Errorf("unexpected host: %+v", host)
	}
	if room.HostID != "alice" {
		t.Errorf("expected hostId alice, got %s", room.HostID)
	}

	got, err := s.GetRoomByCode(room.Code)
	if err != nil {
		t.Fatalf("GetRoomByCode: %v", err)
	}
	if got.ID != room.ID {
		t.Errorf("code lookup returned wrong room")
	}
}

func TestJoinRoom(t *testing.T) {
	s := newTestStore(t, Options{})
	room, _ := s.CreateRoom("alice", "Alice")

	if _, err := s.JoinRoom("NOPE42", "bob", "Bob"); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("unknown code: expected ErrRoomNotFound, got %v", err)
	}

	joined, err := s.JoinRoom(room.Code, "bob", "Bob")
	if err != nil {
		t.Fatalf("JoinRoom: %v", err)
	}
	if len(joined.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(joined.Players))
	}
	for _, p := range joined.Players {
		if p.IsReady {
			t.Errorf("player %s should not be ready after join", p.ID)
		}
	}

	// Rejoining is idempotent.
	again, err := s.JoinRoom(room.Code, "bob", "Bob")
	if err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	if len(again.Players) != 2 {
		t.Errorf("rejoin duplicated player: %d players", len(again.Players))
	}
}

func TestJoinRoomAfterStart(t *testing.T) {
	s := newTestStore(t, Options{})
	room := readyRoom(t, s, "alice", "bob")
	setEasyOnly(s, room.ID)

	if _, err := s.StartGame(room.ID, "alice", 3); err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	if _, err := s.JoinRoom(room.Code, "carol", "Carol"); !errors.Is(err, ErrGameInProgress) {
		t.Errorf("expected ErrGameInProgress, got %v", err)
	}
}

func TestSetReadyErrors(t *testing.T) {
	s := newTestStore(t, Options{})
	room, _ := s.CreateRoom("alice", "Alice")

	tests := []struct {
		name     string
		roomID   string
		playerID string
		want     error
	}{
		{"unknown room", "missing", "alice", ErrRoomNotFound},
		{"unknown player", room.ID, "bob", ErrPlayerNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.SetReady(tt.roomID, tt.playerID, true); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestStartGameGuards(t *testing.T) {
	s := newTestStore(t, Options{})
	room, _ := s.CreateRoom("alice", "Alice")
	s.JoinRoom(room.Code, "bob", "Bob")

	if _, err := s.StartGame(room.ID, "bob", 5); !errors.Is(err, ErrNotHost) {
		t.Errorf("non-host start: expected ErrNotHost, got %v", err)
	}
	if _, err := s.StartGame(room.ID, "alice", 5); !errors.Is(err, ErrPlayersNotReady) {
		t.Errorf("unready start: expected ErrPlayersNotReady, got %v", err)
	}

	s.SetReady(room.ID, "alice", true)
	s.SetReady(room.ID, "bob", true)
	setEasyOnly(s, room.ID)

	started, err := s.StartGame(room.ID, "alice", 5)
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	if started.GameState != model.GamePlaying {
		t.Errorf("expected playing, got %s", started.GameState)
	}
	if len(started.Questions) != 5 {
		t.Errorf("expected 5 questions, got %d", len(started.Questions))
	}
	if started.CurrentQuestion != 0 {
		t.Errorf("expected question cursor 0, got %d", started.CurrentQuestion)
	}
	if started.StartTime == nil {
		t.Error("expected startTime to be set")
	}

	if _, err := s.StartGame(room.ID, "alice", 5); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("double start: expected ErrAlreadyStarted, got %v", err)
	}
}

// TestGameScenario walks the full flow: lobby, ready-up, start,
// answers with scoring, and the all-answered advance.
func TestGameScenario(t *testing.T) {
	s := newTestStore(t, Options{RevealDelay: 20 * time.Millisecond})
	room := readyRoom(t, s, "alice", "bob")
	setEasyOnly(s, room.ID)

	started, err := s.StartGame(room.ID, "alice", 5)
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	q := started.Questions[0]

	// Alice answers correctly in 5s: (100 + 25*10) * 1 = 350.
	if err := s.SubmitAnswer(room.ID, "alice", 0, q.Correct, 5); err != nil {
		t.Fatalf("alice answer: %v", err)
	}
	// Bob picks a wrong option.
	wrong := (q.Correct + 1) % len(q.Options)
	if err := s.SubmitAnswer(room.ID, "bob", 0, wrong, 8); err != nil {
		t.Fatalf("bob answer: %v", err)
	}

	got, _ := s.GetRoom(room.ID)
	alice := got.Player("alice")
	bob := got.Player("bob")

	if alice.Score != 350 {
		t.Errorf("alice score: expected 350, got %d", alice.Score)
	}
	if alice.CurrentStreak != 1 || alice.CorrectAnswers != 1 {
		t.Errorf("alice streak/correct: got %d/%d", alice.CurrentStreak, alice.CorrectAnswers)
	}
	if bob.Score != 0 || bob.CurrentStreak != 0 {
		t.Errorf("bob should have no score and no streak, got %d/%d", bob.Score, bob.CurrentStreak)
	}
	if bob.TotalAnswers != 1 {
		t.Errorf("bob totalAnswers: expected 1, got %d", bob.TotalAnswers)
	}

	// Both answered; the reveal delay should advance the cursor.
	deadline := time.Now().Add(time.Second)
	for {
		got, _ = s.GetRoom(room.ID)
		if got.CurrentQuestion == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("room never advanced past question 0")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSubmitAnswerGuards(t *testing.T) {
	s := newTestStore(t, Options{RevealDelay: time.Hour})
	room := readyRoom(t, s, "alice")
	setEasyOnly(s, room.ID)

	if err := s.SubmitAnswer(room.ID, "alice", 0, 0, 1); !errors.Is(err, ErrNotPlaying) {
		t.Errorf("answer before start: expected ErrNotPlaying, got %v", err)
	}

	started, _ := s.StartGame(room.ID, "alice", 3)

	tests := []struct {
		name   string
		room   string
		player string
		index  int
		want   error
	}{
		{"unknown room", "missing", "alice", 0, ErrRoomNotFound},
		{"unknown player", room.ID, "mallory", 0, ErrPlayerNotFound},
		{"negative index", room.ID, "alice", -1, ErrBadQuestionIndex},
		{"index past end", room.ID, "alice", len(started.Questions), ErrBadQuestionIndex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.SubmitAnswer(tt.room, tt.player, tt.index, 0, 1); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if err := s.SubmitAnswer(room.ID, "alice", 0, 0, 1); err != nil {
		t.Fatalf("first answer: %v", err)
	}
	if err := s.SubmitAnswer(room.ID, "alice", 0, 1, 2); !errors.Is(err, ErrAlreadyAnswered) {
		t.Errorf("duplicate: expected ErrAlreadyAnswered, got %v", err)
	}

	// The rejected duplicate must not touch stats.
	got, _ := s.GetRoom(room.ID)
	if got.Player("alice").TotalAnswers != 1 {
		t.Errorf("duplicate changed totalAnswers: %d", got.Player("alice").TotalAnswers)
	}
}

func TestTimeoutSentinelAnswer(t *testing.T) {
	s := newTestStore(t, Options{RevealDelay: time.Hour})
	room := readyRoom(t, s, "alice", "bob")
	setEasyOnly(s, room.ID)
	started, _ := s.StartGame(room.ID, "alice", 3)

	// Build a streak first.
	if err := s.SubmitAnswer(room.ID, "alice", 0, started.Questions[0].Correct, 3); err != nil {
		t.Fatalf("answer: %v", err)
	}

	s.mu.Lock()
	s.rooms[room.ID].CurrentQuestion = 1
	s.mu.Unlock()

	if err := s.SubmitAnswer(room.ID, "alice", 1, model.NoAnswer, 30); err != nil {
		t.Fatalf("timeout answer: %v", err)
	}

	got, _ := s.GetRoom(room.ID)
	alice := got.Player("alice")
	if alice.CurrentStreak != 0 {
		t.Errorf("timeout should reset streak, got %d", alice.CurrentStreak)
	}
	if alice.MaxStreak != 1 {
		t.Errorf("maxStreak should keep its high-water mark, got %d", alice.MaxStreak)
	}
	if alice.TotalAnswers != 2 {
		t.Errorf("timeout should count as an answer, got %d", alice.TotalAnswers)
	}
	if alice.CorrectAnswers != 1 {
		t.Errorf("timeout must not count as correct, got %d", alice.CorrectAnswers)
	}
}

func TestAverageTimeInvariant(t *testing.T) {
	s := newTestStore(t, Options{RevealDelay: time.Hour})
	room := readyRoom(t, s, "alice", "bob")
	setEasyOnly(s, room.ID)
	s.StartGame(room.ID, "alice", 3)

	times := []float64{5, 10, 12}
	for i, spent := range times {
		s.mu.Lock()
		s.rooms[room.ID].CurrentQuestion = i
		s.mu.Unlock()
		if err := s.SubmitAnswer(room.ID, "alice", i, 0, spent); err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}

		got, _ := s.GetRoom(room.ID)
		p := got.Player("alice")
		want := p.TotalTime / float64(p.TotalAnswers)
		if p.AverageTime != want {
			t.Errorf("after answer %d: averageTime=%v, want totalTime/totalAnswers=%v", i, p.AverageTime, want)
		}
	}
}

func TestScorePoints(t *testing.T) {
	tests := []struct {
		name       string
		tpq        int
		spent      float64
		difficulty model.Difficulty
		want       int
	}{
		{"easy fast", 30, 5, model.DifficultyEasy, 350},
		{"easy at limit", 30, 30, model.DifficultyEasy, 100},
		{"easy over limit keeps base", 30, 45, model.DifficultyEasy, 100},
		{"medium doubles", 30, 10, model.DifficultyMedium, 600},
		{"hard triples", 30, 0, model.DifficultyHard, 1200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scorePoints(tt.tpq, tt.spent, tt.difficulty); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestQuestionTimerAdvances(t *testing.T) {
	s := newTestStore(t, Options{TimerGrace: 20 * time.Millisecond, RevealDelay: time.Hour})
	room := readyRoom(t, s, "alice")
	setEasyOnly(s, room.ID)
	s.mu.Lock()
	s.rooms[room.ID].Settings.TimePerQuestion = 0
	s.mu.Unlock()

	if _, err := s.StartGame(room.ID, "alice", 2); err != nil {
		t.Fatalf("StartGame: %v", err)
	}

	// With no answers at all, the timer alone must walk the room to
	// the finished state.
	deadline := time.Now().Add(time.Second)
	for {
		got, _ := s.GetRoom(room.ID)
		if got.GameState == model.GameFinished {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("timer never finished the game, state=%s index=%d", got.GameState, got.CurrentQuestion)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestAdvanceIsGuarded(t *testing.T) {
	s := newTestStore(t, Options{RevealDelay: time.Hour, TimerGrace: time.Hour})
	room := readyRoom(t, s, "alice")
	setEasyOnly(s, room.ID)
	s.StartGame(room.ID, "alice", 3)

	// A stale trigger for an index that already advanced is a no-op.
	s.advance(room.ID, 0)
	got, _ := s.GetRoom(room.ID)
	if got.CurrentQuestion != 1 {
		t.Fatalf("expected cursor 1, got %d", got.CurrentQuestion)
	}
	s.advance(room.ID, 0)
	got, _ = s.GetRoom(room.ID)
	if got.CurrentQuestion != 1 {
		t.Errorf("stale advance moved the cursor to %d", got.CurrentQuestion)
	}

	// Advancing for a deleted room is silently ignored.
	s.advance("missing", 0)
}

func TestFinishExactlyPastLastQuestion(t *testing.T) {
	s := newTestStore(t, Options{RevealDelay: time.Hour, TimerGrace: time.Hour})
	notifier := &fakeNotifier{}
	s.SetNotifier(notifier)

	room := readyRoom(t, s, "alice")
	setEasyOnly(s, room.ID)
	s.StartGame(room.ID, "alice", 2)

	s.advance(room.ID, 0)
	got, _ := s.GetRoom(room.ID)
	if got.GameState != model.GamePlaying || got.CurrentQuestion != 1 {
		t.Fatalf("expected playing at index 1, got %s/%d", got.GameState, got.CurrentQuestion)
	}

	s.advance(room.ID, 1)
	got, _ = s.GetRoom(room.ID)
	if got.GameState != model.GameFinished {
		t.Fatalf("expected finished, got %s", got.GameState)
	}
	if got.CurrentQuestion != 1 {
		t.Errorf("finish must not move the cursor, got %d", got.CurrentQuestion)
	}

	finished := notifier.finishedRooms()
	if len(finished) != 1 || finished[0].ID != room.ID {
		t.Errorf("expected one finish notification for %s, got %v", room.ID, finished)
	}
}

func TestRemovePlayerPromotesHost(t *testing.T) {
	s := newTestStore(t, Options{})
	room := readyRoom(t, s, "alice", "bob", "carol")

	if err := s.RemovePlayer(room.ID, "alice"); err != nil {
		t.Fatalf("RemovePlayer: %v", err)
	}

	got, _ := s.GetRoom(room.ID)
	if got.HostID != "bob" {
		t.Errorf("expected bob promoted by join order, got %s", got.HostID)
	}

	hosts := 0
	for _, p := range got.Players {
		if p.IsHost {
			hosts++
			if p.ID != "bob" {
				t.Errorf("wrong player flagged host: %s", p.ID)
			}
		}
	}
	if hosts != 1 {
		t.Errorf("expected exactly one host, got %d", hosts)
	}
}

func TestRemoveLastPlayerDeletesRoom(t *testing.T) {
	s := newTestStore(t, Options{})
	notifier := &fakeNotifier{}
	s.SetNotifier(notifier)

	room, _ := s.CreateRoom("alice", "Alice")
	code := room.Code

	if err := s.RemovePlayer(room.ID, "alice"); err != nil {
		t.Fatalf("RemovePlayer: %v", err)
	}
	if _, err := s.GetRoom(room.ID); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("expected room gone, got %v", err)
	}
	if _, err := s.GetRoomByCode(code); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("expected code released, got %v", err)
	}
	if closed := notifier.closedRooms(); len(closed) != 1 || closed[0] != room.ID {
		t.Errorf("expected close notification, got %v", closed)
	}
}

func TestRemoveUnknownPlayer(t *testing.T) {
	s := newTestStore(t, Options{})
	room, _ := s.CreateRoom("alice", "Alice")
	if err := s.RemovePlayer(room.ID, "ghost"); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("expected ErrPlayerNotFound, got %v", err)
	}
}

func TestResetGame(t *testing.T) {
	s := newTestStore(t, Options{RevealDelay: time.Hour, TimerGrace: time.Hour})
	room := readyRoom(t, s, "alice", "bob")
	setEasyOnly(s, room.ID)
	started, _ := s.StartGame(room.ID, "alice", 2)

	s.SubmitAnswer(room.ID, "alice", 0, started.Questions[0].Correct, 3)
	s.advance(room.ID, 0)
	s.advance(room.ID, 1)

	if err := s.ResetGame(room.ID, "bob"); !errors.Is(err, ErrNotHost) {
		t.Fatalf("non-host reset: expected ErrNotHost, got %v", err)
	}
	if err := s.ResetGame(room.ID, "alice"); err != nil {
		t.Fatalf("ResetGame: %v", err)
	}

	got, _ := s.GetRoom(room.ID)
	if got.GameState != model.GameWaiting {
		t.Errorf("expected waiting, got %s", got.GameState)
	}
	if got.Code != room.Code {
		t.Errorf("reset must preserve the join code")
	}
	if len(got.Players) != 2 {
		t.Errorf("reset must preserve membership, got %d players", len(got.Players))
	}
	if len(got.Questions) != 0 || got.StartTime != nil || got.CurrentQuestion != 0 {
		t.Errorf("reset left game data behind: %+v", got)
	}
	for _, p := range got.Players {
		if p.Score != 0 || p.TotalAnswers != 0 || p.CurrentStreak != 0 || p.MaxStreak != 0 || p.AverageTime != 0 {
			t.Errorf("player %s stats not zeroed: %+v", p.ID, p)
		}
		if p.IsReady {
			t.Errorf("player %s still ready after reset", p.ID)
		}
	}

	// Answer history is gone: the same submission is accepted again
	// after a fresh start.
	s.SetReady(room.ID, "alice", true)
	s.SetReady(room.ID, "bob", true)
	restarted, err := s.StartGame(room.ID, "alice", 2)
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if err := s.SubmitAnswer(room.ID, "alice", 0, restarted.Questions[0].Correct, 3); err != nil {
		t.Errorf("answer after reset: %v", err)
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(t, Options{RevealDelay: time.Hour, TimerGrace: time.Hour})
	room := readyRoom(t, s, "alice", "bob")
	setEasyOnly(s, room.ID)

	stats, err := s.Stats(room.ID)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.GameProgress != 0 || stats.TotalPlayers != 2 || stats.TotalAnswers != 0 {
		t.Errorf("waiting stats: %+v", stats)
	}

	started, _ := s.StartGame(room.ID, "alice", 4)
	s.SubmitAnswer(room.ID, "alice", 0, started.Questions[0].Correct, 10) // (100+200)*1 = 300

	stats, _ = s.Stats(room.ID)
	if stats.TotalAnswers != 1 {
		t.Errorf("expected 1 answer, got %d", stats.TotalAnswers)
	}
	if stats.AverageScore != 150 {
		t.Errorf("expected average score 150, got %v", stats.AverageScore)
	}
	if stats.GameProgress != 25 {
		t.Errorf("expected progress 25, got %v", stats.GameProgress)
	}
	if stats.QuestionsCompleted != 0 {
		t.Errorf("expected 0 completed while on question 0, got %d", stats.QuestionsCompleted)
	}

	for i := 0; i < 4; i++ {
		s.advance(room.ID, i)
	}
	stats, _ = s.Stats(room.ID)
	if stats.GameProgress != 100 {
		t.Errorf("finished progress: expected 100, got %v", stats.GameProgress)
	}
	if stats.QuestionsCompleted != 4 {
		t.Errorf("finished questionsCompleted: expected 4, got %d", stats.QuestionsCompleted)
	}

	if _, err := s.Stats("missing"); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestCleanupInactive(t *testing.T) {
	s := newTestStore(t, Options{InactivityTTL: time.Hour})
	notifier := &fakeNotifier{}
	s.SetNotifier(notifier)

	stale, _ := s.CreateRoom("alice", "Alice")
	fresh, _ := s.CreateRoom("bob", "Bob")

	s.mu.Lock()
	for _, p := range s.rooms[stale.ID].Players {
		p.LastActivity = time.Now().Add(-2 * time.Hour)
	}
	s.rooms[stale.ID].CreatedAt = time.Now().Add(-2 * time.Hour)
	s.mu.Unlock()

	if n := s.CleanupInactive(); n != 1 {
		t.Fatalf("expected 1 room swept, got %d", n)
	}
	if _, err := s.GetRoom(stale.ID); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("stale room should be gone, got %v", err)
	}
	if _, err := s.GetRoom(fresh.ID); err != nil {
		t.Errorf("fresh room should survive, got %v", err)
	}
	if closed := notifier.closedRooms(); len(closed) != 1 || closed[0] != stale.ID {
		t.Errorf("expected close notification for stale room, got %v", closed)
	}
}

func TestClonedRoomIsDetached(t *testing.T) {
	s := newTestStore(t, Options{})
	room, _ := s.CreateRoom("alice", "Alice")

	room.Players[0].Score = 9999
	room.HostID = "mallory"

	got, _ := s.GetRoom(room.ID)
	if got.Player("alice").Score != 0 || got.HostID != "alice" {
		t.Error("mutating a returned room leaked into the store")
	}
}
