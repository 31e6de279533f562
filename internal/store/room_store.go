package store

import (
	"crypto/rand"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"showdown/internal/model"
	"showdown/internal/question"
)

// Notifier receives room lifecycle events. All callbacks fire outside
// the store lock and must not block.
type Notifier interface {
	RoomChanged(roomID string)
	RoomClosed(roomID string)
	RoomFinished(room *model.Room)
}

// Options tune the store timings. Zero values fall back to the
// defaults used in production.
type Options struct {
	InactivityTTL time.Duration // delete rooms idle longer than this
	SweepInterval time.Duration // how often the cleanup sweep runs
	RevealDelay   time.Duration // pause after all players answered
	TimerGrace    time.Duration // slack added to the per-question timer
}

const (
	defaultInactivityTTL = time.Hour
	defaultSweepInterval = 30 * time.Minute
	defaultRevealDelay   = 2 * time.Second
	defaultTimerGrace    = 5 * time.Second
)

// Store owns every room in the process. All state lives in memory;
// a restart loses all rooms.
type Store struct {
	mu      sync.Mutex
	rooms   map[string]*model.Room
	codes   map[string]string // join code -> room id
	answers map[string][]model.Answer
	timers  map[string]*time.Timer

	bank     *question.Bank
	logger   *slog.Logger
	notifier Notifier
	opts     Options

	done chan struct{}
	once sync.Once
}

// New creates an empty store backed by the given question bank.
func New(bank *question.Bank, logger *slog.Logger, opts Options) *Store {
	if opts.InactivityTTL <= 0 {
		opts.InactivityTTL = defaultInactivityTTL
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = defaultSweepInterval
	}
	if opts.RevealDelay <= 0 {
		opts.RevealDelay = defaultRevealDelay
	}
	if opts.TimerGrace <= 0 {
		opts.TimerGrace = defaultTimerGrace
	}
	return &Store{
		rooms:   make(map[string]*model.Room),
		codes:   make(map[string]string),
		answers: make(map[string][]model.Answer),
		timers:  make(map[string]*time.Timer),
		bank:    bank,
		logger:  logger,
		opts:    opts,
		done:    make(chan struct{}),
	}
}

// SetNotifier wires the event sink. Must be called before traffic.
func (s *Store) SetNotifier(n Notifier) {
	s.notifier = n
}

// StartSweeper launches the periodic inactive-room sweep. It runs
// until Close.
func (s *Store) StartSweeper() {
	go func() {
		ticker := time.NewTicker(s.opts.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := s.CleanupInactive(); n > 0 {
					s.logger.Info("removed inactive rooms", "count", n)
				}
			case <-s.done:
				return
			}
		}
	}()
}

// Close stops the sweeper and cancels all pending question timers.
func (s *Store) Close() {
	s.once.Do(func() { close(s.done) })
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

// CreateRoom creates a single-player room in the waiting state, with
// the creator as host.
func (s *Store) CreateRoom(hostID, hostName string) (*model.Room, error) {
	s.mu.Lock()

	code, err := s.generateCodeLocked()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	now := time.Now()
	room := &model.Room{
		ID:        uuid.NewString(),
		Code:      code,
		HostID:    hostID,
		GameState: model.GameWaiting,
		Settings:  model.DefaultSettings(),
		CreatedAt: now,
		Players: []*model.Player{{
			ID:           hostID,
			Name:         hostName,
			IsHost:       true,
			LastActivity: now,
			JoinedAt:     now,
		}},
	}
	s.rooms[room.ID] = room
	s.codes[code] = room.ID
	out := room.Clone()
	s.mu.Unlock()

	s.logger.Info("room created", "room", room.ID, "code", code, "host", hostID)
	s.notifyChanged(room.ID)
	return out, nil
}

// JoinRoom adds a player to a waiting room by join code. Rejoining
// with a known player id refreshes activity and returns the room
// unchanged.
func (s *Store) JoinRoom(code, playerID, playerName string) (*model.Room, error) {
	s.mu.Lock()

	roomID, ok := s.codes[code]
	if !ok {
		s.mu.Unlock()
		return nil, ErrRoomNotFound
	}
	room := s.rooms[roomID]
	if room.GameState != model.GameWaiting {
		s.mu.Unlock()
		return nil, ErrGameInProgress
	}

	now := time.Now()
	if p := room.Player(playerID); p != nil {
		p.LastActivity = now
		out := room.Clone()
		s.mu.Unlock()
		return out, nil
	}

	room.Players = append(room.Players, &model.Player{
		ID:           playerID,
		Name:         playerName,
		LastActivity: now,
		JoinedAt:     now,
	})
	out := room.Clone()
	s.mu.Unlock()

	s.logger.Info("player joined", "room", roomID, "player", playerID)
	s.notifyChanged(roomID)
	return out, nil
}

// GetRoom returns a copy of the room.
func (s *Store) GetRoom(roomID string) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room.Clone(), nil
}

// GetRoomByCode returns a copy of the room with the given join code.
func (s *Store) GetRoomByCode(code string) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	roomID, ok := s.codes[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return s.rooms[roomID].Clone(), nil
}

// SetReady updates a player's ready flag.
func (s *Store) SetReady(roomID, playerID string, ready bool) error {
	s.mu.Lock()
	room, ok := s.rooms[roomID]
	if !ok {
		s.mu.Unlock()
		return ErrRoomNotFound
	}
	p := room.Player(playerID)
	if p == nil {
		s.mu.Unlock()
		return ErrPlayerNotFound
	}
	p.IsReady = ready
	p.LastActivity = time.Now()
	s.mu.Unlock()

	s.notifyChanged(roomID)
	return nil
}

// StartGame moves a waiting room into the playing state: selects the
// question set, resets the question cursor and arms the first
// question timer. Host only, and every player must be ready.
func (s *Store) StartGame(roomID, hostID string, questionCount int) (*model.Room, error) {
	s.mu.Lock()

	room, ok := s.rooms[roomID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrRoomNotFound
	}
	if room.HostID != hostID {
		s.mu.Unlock()
		return nil, ErrNotHost
	}
	if room.GameState != model.GameWaiting {
		s.mu.Unlock()
		return nil, ErrAlreadyStarted
	}
	for _, p := range room.Players {
		if !p.IsReady {
			s.mu.Unlock()
			return nil, ErrPlayersNotReady
		}
	}

	if questionCount > 0 {
		room.Settings.QuestionCount = questionCount
	}
	selected := s.selectQuestions(room.Settings)
	if len(selected) == 0 {
		s.mu.Unlock()
		return nil, ErrNoQuestions
	}

	now := time.Now()
	room.GameState = model.GamePlaying
	room.Questions = selected
	room.CurrentQuestion = 0
	room.StartTime = &now
	delete(s.answers, roomID)
	s.armAdvanceLocked(room, 0, s.questionDuration(room))

	out := room.Clone()
	s.mu.Unlock()

	s.logger.Info("game started", "room", roomID, "questions", len(selected))
	s.notifyChanged(roomID)
	return out, nil
}

// SubmitAnswer records one answer, updates the player's cumulative
// stats, and schedules an advance once every player has answered the
// active question.
func (s *Store) SubmitAnswer(roomID, playerID string, questionIndex, selectedOption int, timeSpent float64) error {
	s.mu.Lock()

	room, ok := s.rooms[roomID]
	if !ok {
		s.mu.Unlock()
		return ErrRoomNotFound
	}
	if room.GameState != model.GamePlaying {
		s.mu.Unlock()
		return ErrNotPlaying
	}
	if questionIndex < 0 || questionIndex >= len(room.Questions) {
		s.mu.Unlock()
		return ErrBadQuestionIndex
	}
	p := room.Player(playerID)
	if p == nil {
		s.mu.Unlock()
		return ErrPlayerNotFound
	}
	for _, a := range s.answers[roomID] {
		if a.PlayerID == playerID && a.QuestionIndex == questionIndex {
			s.mu.Unlock()
			return ErrAlreadyAnswered
		}
	}

	now := time.Now()
	s.answers[roomID] = append(s.answers[roomID], model.Answer{
		PlayerID:       playerID,
		QuestionIndex:  questionIndex,
		SelectedOption: selectedOption,
		TimeSpent:      timeSpent,
		SubmittedAt:    now,
	})

	p.TotalAnswers++
	p.TotalTime += timeSpent
	p.AverageTime = p.TotalTime / float64(p.TotalAnswers)
	p.LastActivity = now

	q := room.Questions[questionIndex]
	if selectedOption == q.Correct {
		p.CorrectAnswers++
		p.CurrentStreak++
		if p.CurrentStreak > p.MaxStreak {
			p.MaxStreak = p.CurrentStreak
		}
		p.Score += scorePoints(room.Settings.TimePerQuestion, timeSpent, q.Difficulty)
	} else {
		p.CurrentStreak = 0
	}

	// Once every current member has answered the active question,
	// advance after a short pause so clients can render the reveal.
	if questionIndex == room.CurrentQuestion {
		answered := 0
		for _, a := range s.answers[roomID] {
			if a.QuestionIndex == questionIndex {
				answered++
			}
		}
		if answered == len(room.Players) {
			s.armAdvanceLocked(room, questionIndex, s.opts.RevealDelay)
		}
	}
	s.mu.Unlock()

	s.notifyChanged(roomID)
	return nil
}

// RemovePlayer takes a player out of the room. The first remaining
// player by join order inherits the host role; an emptied room is
// deleted.
func (s *Store) RemovePlayer(roomID, playerID string) error {
	s.mu.Lock()

	room, ok := s.rooms[roomID]
	if !ok {
		s.mu.Unlock()
		return ErrRoomNotFound
	}
	found := false
	players := room.Players[:0]
	for _, p := range room.Players {
		if p.ID == playerID {
			found = true
			continue
		}
		players = append(players, p)
	}
	if !found {
		s.mu.Unlock()
		return ErrPlayerNotFound
	}
	room.Players = players

	if len(room.Players) == 0 {
		s.deleteRoomLocked(room)
		s.mu.Unlock()
		s.logger.Info("room emptied", "room", roomID)
		s.notifyClosed(roomID)
		return nil
	}

	if room.HostID == playerID {
		next := room.Players[0]
		room.HostID = next.ID
		next.IsHost = true
		s.logger.Info("host reassigned", "room", roomID, "host", next.ID)
	}
	s.mu.Unlock()

	s.notifyChanged(roomID)
	return nil
}

// ResetGame returns the room to the waiting state: stats zeroed, ready
// flags cleared, question list and answer history discarded. Host
// only. Resetting mid-game aborts the round.
func (s *Store) ResetGame(roomID, hostID string) error {
	s.mu.Lock()

	room, ok := s.rooms[roomID]
	if !ok {
		s.mu.Unlock()
		return ErrRoomNotFound
	}
	if room.HostID != hostID {
		s.mu.Unlock()
		return ErrNotHost
	}

	s.stopTimerLocked(roomID)
	now := time.Now()
	room.GameState = model.GameWaiting
	room.CurrentQuestion = 0
	room.Questions = nil
	room.StartTime = nil
	for _, p := range room.Players {
		p.ResetStats(now)
	}
	delete(s.answers, roomID)
	s.mu.Unlock()

	s.logger.Info("game reset", "room", roomID)
	s.notifyChanged(roomID)
	return nil
}

// Stats aggregates the room's lifetime numbers.
func (s *Store) Stats(roomID string) (*model.RoomStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}

	stats := &model.RoomStats{
		TotalPlayers: len(room.Players),
		TotalAnswers: len(s.answers[roomID]),
	}
	total := 0
	for _, p := range room.Players {
		total += p.Score
	}
	if len(room.Players) > 0 {
		stats.AverageScore = float64(total) / float64(len(room.Players))
	}
	stats.QuestionsCompleted = room.CurrentQuestion
	switch room.GameState {
	case model.GamePlaying:
		stats.GameProgress = float64(room.CurrentQuestion+1) / float64(len(room.Questions)) * 100
	case model.GameFinished:
		stats.QuestionsCompleted++
		stats.GameProgress = 100
	}
	return stats, nil
}

// CleanupInactive deletes every room whose most recently active player
// has been idle past the inactivity TTL. Returns how many rooms were
// removed.
func (s *Store) CleanupInactive() int {
	s.mu.Lock()
	now := time.Now()
	var closed []string
	for id, room := range s.rooms {
		last := room.CreatedAt
		for _, p := range room.Players {
			if p.LastActivity.After(last) {
				last = p.LastActivity
			}
		}
		if now.Sub(last) > s.opts.InactivityTTL {
			s.deleteRoomLocked(room)
			closed = append(closed, id)
		}
	}
	s.mu.Unlock()

	for _, id := range closed {
		s.notifyClosed(id)
	}
	return len(closed)
}

// advance moves the room to the next question, or to finished past the
// last one. Both the question timer and the all-answered trigger land
// here; the (state, index) guard makes a stale firing a no-op.
func (s *Store) advance(roomID string, fromIndex int) {
	s.mu.Lock()

	room, ok := s.rooms[roomID]
	if !ok || room.GameState != model.GamePlaying || room.CurrentQuestion != fromIndex {
		s.mu.Unlock()
		return
	}

	var finished *model.Room
	if room.CurrentQuestion < len(room.Questions)-1 {
		room.CurrentQuestion++
		s.armAdvanceLocked(room, room.CurrentQuestion, s.questionDuration(room))
	} else {
		room.GameState = model.GameFinished
		s.stopTimerLocked(roomID)
		finished = room.Clone()
	}
	s.mu.Unlock()

	if finished != nil {
		s.logger.Info("game finished", "room", roomID)
		if s.notifier != nil {
			s.notifier.RoomFinished(finished)
		}
	}
	s.notifyChanged(roomID)
}

// armAdvanceLocked schedules an advance away from fromIndex, replacing
// any pending timer for the room. Caller holds the lock.
func (s *Store) armAdvanceLocked(room *model.Room, fromIndex int, d time.Duration) {
	if t, ok := s.timers[room.ID]; ok {
		t.Stop()
	}
	roomID := room.ID
	s.timers[roomID] = time.AfterFunc(d, func() {
		s.advance(roomID, fromIndex)
	})
}

func (s *Store) stopTimerLocked(roomID string) {
	if t, ok := s.timers[roomID]; ok {
		t.Stop()
		delete(s.timers, roomID)
	}
}

func (s *Store) deleteRoomLocked(room *model.Room) {
	s.stopTimerLocked(room.ID)
	delete(s.codes, room.Code)
	delete(s.answers, room.ID)
	delete(s.rooms, room.ID)
}

func (s *Store) questionDuration(room *model.Room) time.Duration {
	return time.Duration(room.Settings.TimePerQuestion)*time.Second + s.opts.TimerGrace
}

func (s *Store) selectQuestions(settings model.RoomSettings) []model.Question {
	switch model.Difficulty(settings.Difficulty) {
	case model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
		return s.bank.ByDifficulty(model.Difficulty(settings.Difficulty), settings.QuestionCount)
	default:
		return s.bank.Balanced(settings.QuestionCount)
	}
}

// generateCodeLocked produces a 6-char join code unique among active
// rooms, retrying on collision. Caller holds the lock.
func (s *Store) generateCodeLocked() (string, error) {
	const chars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	const codeLen = 6

	for attempts := 0; attempts < 10; attempts++ {
		b := make([]byte, codeLen)
		if _, err := rand.Read(b); err != nil {
			return "", err
		}
		code := make([]byte, codeLen)
		for i := range code {
			code[i] = chars[int(b[i])%len(chars)]
		}
		if _, taken := s.codes[string(code)]; !taken {
			return string(code), nil
		}
	}
	return "", ErrCodeExhausted
}

// scorePoints applies the scoring formula: a flat 100 plus 10 per
// unspent second, times the difficulty multiplier. Only correct
// answers score; there is no partial credit.
func scorePoints(timePerQuestion int, timeSpent float64, d model.Difficulty) int {
	bonus := math.Max(0, float64(timePerQuestion)-timeSpent) * 10
	return int(math.Round(100+bonus)) * d.Multiplier()
}

func (s *Store) notifyChanged(roomID string) {
	if s.notifier != nil {
		s.notifier.RoomChanged(roomID)
	}
}

func (s *Store) notifyClosed(roomID string) {
	if s.notifier != nil {
		s.notifier.RoomClosed(roomID)
	}
}
